// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"errors"

	"github.com/luxfi/ids"
)

var (
	_ UnsignedTx = (*CreateStakeAccountTx)(nil)
	_ UnsignedTx = (*DepositTx)(nil)
	_ UnsignedTx = (*DelegateTx)(nil)
	_ UnsignedTx = (*WithdrawTx)(nil)

	ErrInvalidDelegate = errors.New("invalid delegate")
	ErrZeroWithdrawal  = errors.New("zero withdrawal")
	ErrZeroDeposit     = errors.New("zero deposit")
)

// CreateStakeAccountTx creates the signer's stake account.
type CreateStakeAccountTx struct{}

func (*CreateStakeAccountTx) SyntacticVerify() error {
	return nil
}

func (tx *CreateStakeAccountTx) Visit(visitor Visitor) error {
	return visitor.CreateStakeAccountTx(tx)
}

// DepositTx moves tokens from the signer's wallet into stake custody.
type DepositTx struct {
	Amount uint64 `serialize:"true" json:"amount"`
}

func (tx *DepositTx) SyntacticVerify() error {
	if tx.Amount == 0 {
		return ErrZeroDeposit
	}
	return nil
}

func (tx *DepositTx) Visit(visitor Visitor) error {
	return visitor.DepositTx(tx)
}

// DelegateTx points the signer's voting power at [Delegatee] and resyncs the
// recorded balances. When [HasVestingConfig] is set, the signer's vesting
// balance under [VestingConfigID] is linked first.
type DelegateTx struct {
	Delegatee        ids.ID `serialize:"true" json:"delegatee"`
	HasVestingConfig bool   `serialize:"true" json:"hasVestingConfig"`
	VestingConfigID  ids.ID `serialize:"true" json:"vestingConfigID"`
}

func (tx *DelegateTx) SyntacticVerify() error {
	if tx.Delegatee == ids.Empty {
		return ErrInvalidDelegate
	}
	return nil
}

func (tx *DelegateTx) Visit(visitor Visitor) error {
	return visitor.DelegateTx(tx)
}

// WithdrawTx moves tokens out of stake custody to [Destination], which must
// be the signer.
type WithdrawTx struct {
	Amount      uint64      `serialize:"true" json:"amount"`
	Destination ids.ShortID `serialize:"true" json:"destination"`
}

func (tx *WithdrawTx) SyntacticVerify() error {
	if tx.Amount == 0 {
		return ErrZeroWithdrawal
	}
	return nil
}

func (tx *WithdrawTx) Visit(visitor Visitor) error {
	return visitor.WithdrawTx(tx)
}
