// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"fmt"
	"math"

	"github.com/luxfi/database"

	"github.com/luxfi/multigov/vms/govvm/checkpoint"
	"github.com/luxfi/multigov/vms/govvm/events"
	"github.com/luxfi/multigov/vms/govvm/guardian"
	"github.com/luxfi/multigov/vms/govvm/state"
	"github.com/luxfi/multigov/vms/govvm/txs"
)

func (e *standardTxExecutor) InitConfigTx(tx *txs.InitConfigTx) error {
	initializer, err := e.state.GetInitializer()
	if err != nil {
		return err
	}
	if e.signer != initializer {
		return fmt.Errorf("%w: %s is not the initializer", ErrUnauthorized, e.signer)
	}
	switch _, err := e.state.GetConfig(); {
	case err == nil:
		return ErrAlreadyInitialized
	case !errors.Is(err, database.ErrNotFound):
		return err
	}
	if tx.InitialWindowLength > e.backend.Config.MaxVoteWeightWindowLength {
		return fmt.Errorf("%w: %d > %d",
			ErrExceedsMaxAllowableVoteWeightWindowLength,
			tx.InitialWindowLength,
			e.backend.Config.MaxVoteWeightWindowLength,
		)
	}

	safeWindow := tx.SafeWindow
	if safeWindow == 0 {
		safeWindow = e.backend.Config.SafeWindow
	}
	e.state.SetConfig(state.GlobalConfig{
		GovernanceAuthority: tx.GovernanceAuthority,
		VestingAdmin:        tx.VestingAdmin,
	})
	e.state.SetSpokeMetadataCollector(state.SpokeMetadataCollector{
		HubChainID:          tx.HubChainID,
		HubProposalMetadata: tx.HubProposalMetadata,
		SafeWindow:          safeWindow,
	})
	e.state.SetSpokeMessageExecutor(state.SpokeMessageExecutor{
		HubDispatcher: tx.HubDispatcher,
		HubChainID:    tx.HubChainID,
		SpokeChainID:  tx.SpokeChainID,
	})

	lengths := checkpoint.New(state.WindowLengthsOwner)
	lengths.Grow()
	if err := e.chargeRent(0, lengths.Size()); err != nil {
		return err
	}
	err = lengths.Append(checkpoint.Checkpoint{
		Timestamp: e.now,
		Value:     tx.InitialWindowLength,
	})
	if err != nil {
		return err
	}
	e.state.PutWindowLengths(lengths)
	e.emit(&events.WindowLengthSet{
		Timestamp: e.now,
		Length:    tx.InitialWindowLength,
	})
	return nil
}

func (e *standardTxExecutor) UpdateGovernanceAuthorityTx(tx *txs.UpdateGovernanceAuthorityTx) error {
	cfg, err := e.requireGovernanceAuthority()
	if err != nil {
		return err
	}
	cfg.GovernanceAuthority = tx.NewAuthority
	e.state.SetConfig(cfg)
	return nil
}

func (e *standardTxExecutor) UpdateVestingAdminTx(tx *txs.UpdateVestingAdminTx) error {
	cfg, err := e.requireGovernanceAuthority()
	if err != nil {
		return err
	}
	cfg.VestingAdmin = tx.NewAdmin
	e.state.SetConfig(cfg)
	return nil
}

func (e *standardTxExecutor) UpdateHubProposalMetadataTx(tx *txs.UpdateHubProposalMetadataTx) error {
	if _, err := e.requireGovernanceAuthority(); err != nil {
		return err
	}
	collector, err := e.state.GetSpokeMetadataCollector()
	if err != nil {
		return err
	}
	collector.HubProposalMetadata = tx.HubProposalMetadata
	e.state.SetSpokeMetadataCollector(collector)
	return nil
}

// AddGuardianSetTx installs the next guardian set. The set it replaces
// expires once the configured TTL elapses.
func (e *standardTxExecutor) AddGuardianSetTx(tx *txs.AddGuardianSetTx) error {
	if _, err := e.requireGovernanceAuthority(); err != nil {
		return err
	}
	now := uint32(min(e.now, math.MaxUint32))

	current, err := e.state.GetGuardianSetIndex()
	switch {
	case errors.Is(err, database.ErrNotFound):
	case err != nil:
		return err
	default:
		if tx.Index != current+1 {
			return fmt.Errorf("%w: %d follows %d", ErrInvalidGuardianSetIndex, tx.Index, current)
		}
		previous, err := e.state.GetGuardianSet(current)
		if err != nil {
			return err
		}
		expiry := e.now + uint64(e.backend.Config.GuardianSetTTL.Seconds())
		if previous.ExpirationTime == 0 || expiry < uint64(previous.ExpirationTime) {
			previous.ExpirationTime = uint32(min(expiry, math.MaxUint32))
		}
		e.state.SetGuardianSet(previous)
	}

	set := &guardian.Set{
		Index:          tx.Index,
		Keys:           tx.Keys,
		CreationTime:   now,
		ExpirationTime: tx.ExpirationTime,
	}
	e.state.SetGuardianSet(set)
	e.emit(&events.GuardianSetAdded{
		Index:          set.Index,
		Guardians:      len(set.Keys),
		ExpirationTime: set.ExpirationTime,
	})
	return nil
}
