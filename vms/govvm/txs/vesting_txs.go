// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"errors"

	"github.com/luxfi/ids"
)

var (
	_ UnsignedTx = (*InitializeVestingConfigTx)(nil)
	_ UnsignedTx = (*CreateVestingBalanceTx)(nil)
	_ UnsignedTx = (*CreateVestingTx)(nil)
	_ UnsignedTx = (*CancelVestingTx)(nil)
	_ UnsignedTx = (*FinalizeVestingConfigTx)(nil)
	_ UnsignedTx = (*ClaimVestingTx)(nil)
	_ UnsignedTx = (*TransferVestingTx)(nil)
	_ UnsignedTx = (*CloseVestingBalanceTx)(nil)
	_ UnsignedTx = (*WithdrawSurplusTx)(nil)
	_ UnsignedTx = (*FundVaultTx)(nil)

	ErrEmptyVestingConfig = errors.New("vesting config id is empty")
	ErrZeroVestingAmount  = errors.New("zero vesting amount")
	ErrEmptyVester        = errors.New("vester is empty")
)

func verifyConfigID(configID ids.ID) error {
	if configID == ids.Empty {
		return ErrEmptyVestingConfig
	}
	return nil
}

type InitializeVestingConfigTx struct {
	ConfigID ids.ID `serialize:"true" json:"configID"`
}

func (tx *InitializeVestingConfigTx) SyntacticVerify() error {
	return verifyConfigID(tx.ConfigID)
}

func (tx *InitializeVestingConfigTx) Visit(visitor Visitor) error {
	return visitor.InitializeVestingConfigTx(tx)
}

type CreateVestingBalanceTx struct {
	ConfigID ids.ID      `serialize:"true" json:"configID"`
	Vester   ids.ShortID `serialize:"true" json:"vester"`
}

func (tx *CreateVestingBalanceTx) SyntacticVerify() error {
	if tx.Vester == ids.ShortEmpty {
		return ErrEmptyVester
	}
	return verifyConfigID(tx.ConfigID)
}

func (tx *CreateVestingBalanceTx) Visit(visitor Visitor) error {
	return visitor.CreateVestingBalanceTx(tx)
}

type CreateVestingTx struct {
	ConfigID   ids.ID      `serialize:"true" json:"configID"`
	Vester     ids.ShortID `serialize:"true" json:"vester"`
	Maturation uint64      `serialize:"true" json:"maturation"`
	Amount     uint64      `serialize:"true" json:"amount"`
}

func (tx *CreateVestingTx) SyntacticVerify() error {
	switch {
	case tx.Vester == ids.ShortEmpty:
		return ErrEmptyVester
	case tx.Amount == 0:
		return ErrZeroVestingAmount
	}
	return verifyConfigID(tx.ConfigID)
}

func (tx *CreateVestingTx) Visit(visitor Visitor) error {
	return visitor.CreateVestingTx(tx)
}

type CancelVestingTx struct {
	ConfigID   ids.ID      `serialize:"true" json:"configID"`
	Vester     ids.ShortID `serialize:"true" json:"vester"`
	Maturation uint64      `serialize:"true" json:"maturation"`
}

func (tx *CancelVestingTx) SyntacticVerify() error {
	return verifyConfigID(tx.ConfigID)
}

func (tx *CancelVestingTx) Visit(visitor Visitor) error {
	return visitor.CancelVestingTx(tx)
}

type FinalizeVestingConfigTx struct {
	ConfigID ids.ID `serialize:"true" json:"configID"`
}

func (tx *FinalizeVestingConfigTx) SyntacticVerify() error {
	return verifyConfigID(tx.ConfigID)
}

func (tx *FinalizeVestingConfigTx) Visit(visitor Visitor) error {
	return visitor.FinalizeVestingConfigTx(tx)
}

// ClaimVestingTx releases the signer's matured vest to their wallet.
type ClaimVestingTx struct {
	ConfigID   ids.ID `serialize:"true" json:"configID"`
	Maturation uint64 `serialize:"true" json:"maturation"`
}

func (tx *ClaimVestingTx) SyntacticVerify() error {
	return verifyConfigID(tx.ConfigID)
}

func (tx *ClaimVestingTx) Visit(visitor Visitor) error {
	return visitor.ClaimVestingTx(tx)
}

// TransferVestingTx moves the signer's vest to [NewVester].
type TransferVestingTx struct {
	ConfigID   ids.ID      `serialize:"true" json:"configID"`
	Maturation uint64      `serialize:"true" json:"maturation"`
	NewVester  ids.ShortID `serialize:"true" json:"newVester"`
}

func (tx *TransferVestingTx) SyntacticVerify() error {
	if tx.NewVester == ids.ShortEmpty {
		return ErrEmptyVester
	}
	return verifyConfigID(tx.ConfigID)
}

func (tx *TransferVestingTx) Visit(visitor Visitor) error {
	return visitor.TransferVestingTx(tx)
}

// CloseVestingBalanceTx deletes the signer's empty vesting balance.
type CloseVestingBalanceTx struct {
	ConfigID ids.ID `serialize:"true" json:"configID"`
}

func (tx *CloseVestingBalanceTx) SyntacticVerify() error {
	return verifyConfigID(tx.ConfigID)
}

func (tx *CloseVestingBalanceTx) Visit(visitor Visitor) error {
	return visitor.CloseVestingBalanceTx(tx)
}

// WithdrawSurplusTx sends vault tokens beyond the vested total to
// [Recipient].
type WithdrawSurplusTx struct {
	ConfigID  ids.ID      `serialize:"true" json:"configID"`
	Recipient ids.ShortID `serialize:"true" json:"recipient"`
}

func (tx *WithdrawSurplusTx) SyntacticVerify() error {
	return verifyConfigID(tx.ConfigID)
}

func (tx *WithdrawSurplusTx) Visit(visitor Visitor) error {
	return visitor.WithdrawSurplusTx(tx)
}

// FundVaultTx moves tokens from the signer's wallet into a config's vault.
type FundVaultTx struct {
	ConfigID ids.ID `serialize:"true" json:"configID"`
	Amount   uint64 `serialize:"true" json:"amount"`
}

func (tx *FundVaultTx) SyntacticVerify() error {
	if tx.Amount == 0 {
		return ErrZeroVestingAmount
	}
	return verifyConfigID(tx.ConfigID)
}

func (tx *FundVaultTx) Visit(visitor Visitor) error {
	return visitor.FundVaultTx(tx)
}
