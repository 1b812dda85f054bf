// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"errors"
	"fmt"
	"math"

	"github.com/luxfi/ids"
)

var (
	_ UnsignedTx = (*InitConfigTx)(nil)
	_ UnsignedTx = (*UpdateGovernanceAuthorityTx)(nil)
	_ UnsignedTx = (*UpdateVestingAdminTx)(nil)
	_ UnsignedTx = (*UpdateHubProposalMetadataTx)(nil)
	_ UnsignedTx = (*AddGuardianSetTx)(nil)
	_ UnsignedTx = (*SetWindowLengthTx)(nil)

	ErrEmptyAuthority       = errors.New("authority is empty")
	ErrNoGuardians          = errors.New("guardian set is empty")
	ErrTooManyGuardians     = errors.New("too many guardians")
	ErrDuplicateGuardianKey = errors.New("duplicate guardian key")
)

// InitConfigTx creates the governance configuration. It can be issued once,
// by the genesis initializer.
type InitConfigTx struct {
	GovernanceAuthority ids.ShortID `serialize:"true" json:"governanceAuthority"`
	VestingAdmin        ids.ShortID `serialize:"true" json:"vestingAdmin"`
	InitialWindowLength uint64      `serialize:"true" json:"initialWindowLength"`

	HubChainID          uint16      `serialize:"true" json:"hubChainID"`
	HubProposalMetadata ids.ShortID `serialize:"true" json:"hubProposalMetadata"`
	// SafeWindow defaults to the configured safe window when zero.
	SafeWindow uint64 `serialize:"true" json:"safeWindow"`

	HubDispatcher ids.ID `serialize:"true" json:"hubDispatcher"`
	SpokeChainID  uint16 `serialize:"true" json:"spokeChainID"`
}

func (tx *InitConfigTx) SyntacticVerify() error {
	if tx.GovernanceAuthority == ids.ShortEmpty || tx.VestingAdmin == ids.ShortEmpty {
		return ErrEmptyAuthority
	}
	return nil
}

func (tx *InitConfigTx) Visit(visitor Visitor) error {
	return visitor.InitConfigTx(tx)
}

type UpdateGovernanceAuthorityTx struct {
	NewAuthority ids.ShortID `serialize:"true" json:"newAuthority"`
}

func (tx *UpdateGovernanceAuthorityTx) SyntacticVerify() error {
	if tx.NewAuthority == ids.ShortEmpty {
		return ErrEmptyAuthority
	}
	return nil
}

func (tx *UpdateGovernanceAuthorityTx) Visit(visitor Visitor) error {
	return visitor.UpdateGovernanceAuthorityTx(tx)
}

type UpdateVestingAdminTx struct {
	NewAdmin ids.ShortID `serialize:"true" json:"newAdmin"`
}

func (tx *UpdateVestingAdminTx) SyntacticVerify() error {
	if tx.NewAdmin == ids.ShortEmpty {
		return ErrEmptyAuthority
	}
	return nil
}

func (tx *UpdateVestingAdminTx) Visit(visitor Visitor) error {
	return visitor.UpdateVestingAdminTx(tx)
}

type UpdateHubProposalMetadataTx struct {
	HubProposalMetadata ids.ShortID `serialize:"true" json:"hubProposalMetadata"`
}

func (*UpdateHubProposalMetadataTx) SyntacticVerify() error {
	return nil
}

func (tx *UpdateHubProposalMetadataTx) Visit(visitor Visitor) error {
	return visitor.UpdateHubProposalMetadataTx(tx)
}

// AddGuardianSetTx installs a new guardian roster. A guardian index is a
// single byte, bounding the roster size.
type AddGuardianSetTx struct {
	Index          uint32        `serialize:"true" json:"index"`
	Keys           []ids.ShortID `serialize:"true" json:"keys"`
	ExpirationTime uint32        `serialize:"true" json:"expirationTime"`
}

func (tx *AddGuardianSetTx) SyntacticVerify() error {
	switch {
	case len(tx.Keys) == 0:
		return ErrNoGuardians
	case len(tx.Keys) > math.MaxUint8+1:
		return fmt.Errorf("%w: %d", ErrTooManyGuardians, len(tx.Keys))
	}
	seen := make(map[ids.ShortID]struct{}, len(tx.Keys))
	for _, key := range tx.Keys {
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateGuardianKey, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (tx *AddGuardianSetTx) Visit(visitor Visitor) error {
	return visitor.AddGuardianSetTx(tx)
}

type SetWindowLengthTx struct {
	Length uint64 `serialize:"true" json:"length"`
}

func (*SetWindowLengthTx) SyntacticVerify() error {
	return nil
}

func (tx *SetWindowLengthTx) Visit(visitor Visitor) error {
	return visitor.SetWindowLengthTx(tx)
}
