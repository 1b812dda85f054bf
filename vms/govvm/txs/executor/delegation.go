// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"

	"github.com/luxfi/multigov/vms/govvm/checkpoint"
	"github.com/luxfi/multigov/vms/govvm/events"
	"github.com/luxfi/multigov/vms/govvm/state"
	"github.com/luxfi/multigov/vms/govvm/txs"

	safemath "github.com/luxfi/multigov/utils/math"
)

func (e *standardTxExecutor) CreateStakeAccountTx(*txs.CreateStakeAccountTx) error {
	if _, err := e.globalConfig(); err != nil {
		return err
	}
	subject := state.StakeAccountID(e.signer)
	switch _, err := e.state.GetStakeAccount(subject); {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrStakeAccountExists, subject)
	case !errors.Is(err, database.ErrNotFound):
		return err
	}
	if err := e.chargeRent(0, checkpoint.RequiredSize(0)); err != nil {
		return err
	}
	e.state.SetStakeAccount(subject, state.StakeAccountMetadata{
		Owner: e.signer,
	})
	e.state.PutCheckpoints(0, checkpoint.New(subject))
	return nil
}

func (e *standardTxExecutor) DepositTx(tx *txs.DepositTx) error {
	subject := state.StakeAccountID(e.signer)
	if _, err := e.stakeAccount(subject); err != nil {
		return err
	}
	return e.ledger.Transfer(state.WalletAccount(e.signer), state.CustodyAccount(subject), tx.Amount)
}

// DelegateTx points the signer's subject at a delegate and moves the
// subject's votes to match its current custody and vesting balances.
func (e *standardTxExecutor) DelegateTx(tx *txs.DelegateTx) error {
	subject := state.StakeAccountID(e.signer)
	metadata, err := e.stakeAccount(subject)
	if err != nil {
		return err
	}
	if metadata.Owner != e.signer {
		return fmt.Errorf("%w: %s does not own %s", ErrUnauthorized, e.signer, subject)
	}
	if tx.Delegatee != subject {
		if _, err := e.stakeAccount(tx.Delegatee); err != nil {
			return err
		}
	}

	previousTotal, err := safemath.Add(metadata.RecordedBalance, metadata.RecordedVestingBalance)
	if err != nil {
		return err
	}

	if tx.HasVestingConfig {
		if metadata, err = e.syncVestingBalance(subject, metadata, tx.VestingConfigID); err != nil {
			return err
		}
	}

	custody, err := e.ledger.Balance(state.CustodyAccount(subject))
	if err != nil {
		return err
	}
	newTotal, err := safemath.Add(custody, metadata.RecordedVestingBalance)
	if err != nil {
		return err
	}

	var (
		oldDelegate     = metadata.Delegate
		previousBalance = metadata.RecordedBalance
	)
	metadata.Delegate = tx.Delegatee
	metadata.RecordedBalance = custody
	e.state.SetStakeAccount(subject, metadata)
	e.emit(&events.DelegateChanged{
		Delegator:           subject,
		From:                oldDelegate,
		To:                  tx.Delegatee,
		TotalDelegatedVotes: newTotal,
	})

	if oldDelegate != tx.Delegatee {
		if oldDelegate != ids.Empty && previousTotal > 0 {
			if err := e.pushCheckpoint(oldDelegate, previousTotal, checkpoint.Subtract); err != nil {
				return err
			}
		}
		if newTotal > 0 {
			if err := e.pushCheckpoint(tx.Delegatee, newTotal, checkpoint.Add); err != nil {
				return err
			}
		}
	} else if newTotal != previousTotal {
		delta, op := checkpoint.DeltaOperation(previousTotal, newTotal)
		if err := e.pushCheckpoint(tx.Delegatee, delta, op); err != nil {
			return err
		}
	}

	if previousBalance != custody {
		e.emit(&events.RecordedBalanceChanged{
			Owner:              e.signer,
			PreviousBalance:    previousBalance,
			NewRecordedBalance: custody,
		})
	}
	return nil
}

// syncVestingBalance links the signer's vesting balance under [configID] to
// [subject] and records its total as the subject's vesting balance. The
// returned metadata has already been written.
func (e *standardTxExecutor) syncVestingBalance(
	subject ids.ID,
	metadata state.StakeAccountMetadata,
	configID ids.ID,
) (state.StakeAccountMetadata, error) {
	cfg, err := e.state.GetVestingConfig(configID)
	if errors.Is(err, database.ErrNotFound) {
		return metadata, fmt.Errorf("%w: %s", ErrVestingConfigNotFound, configID)
	}
	if err != nil {
		return metadata, err
	}
	if !cfg.Finalized {
		return metadata, fmt.Errorf("%w: %s", ErrVestingUnfinalized, configID)
	}

	balance, err := e.state.GetVestingBalance(configID, e.signer)
	if errors.Is(err, database.ErrNotFound) {
		return metadata, fmt.Errorf("%w: %s in %s", ErrVestingBalanceNotFound, e.signer, configID)
	}
	if err != nil {
		return metadata, err
	}
	switch balance.StakeAccountMetadata {
	case subject:
	case ids.Empty:
		balance.StakeAccountMetadata = subject
		e.state.SetVestingBalance(balance)
	default:
		return metadata, fmt.Errorf("%w: %s", ErrVestingBalanceLinkedElsewhere, balance.StakeAccountMetadata)
	}

	e.setRecordedVestingBalance(subject, metadata, balance.TotalVestingBalance)
	metadata.RecordedVestingBalance = balance.TotalVestingBalance
	return metadata, nil
}

func (e *standardTxExecutor) WithdrawTx(tx *txs.WithdrawTx) error {
	if tx.Destination != e.signer {
		return fmt.Errorf("%w: %s", ErrWithdrawToUnauthorizedAccount, tx.Destination)
	}
	subject := state.StakeAccountID(e.signer)
	metadata, err := e.stakeAccount(subject)
	if err != nil {
		return err
	}
	if metadata.Owner != e.signer {
		return fmt.Errorf("%w: %s does not own %s", ErrUnauthorized, e.signer, subject)
	}

	custodyAccount := state.CustodyAccount(subject)
	if err := e.ledger.Transfer(custodyAccount, state.WalletAccount(tx.Destination), tx.Amount); err != nil {
		return err
	}
	if !metadata.IsDelegated() {
		return nil
	}

	custody, err := e.ledger.Balance(custodyAccount)
	if err != nil {
		return err
	}
	previousBalance := metadata.RecordedBalance
	metadata.RecordedBalance = custody
	e.state.SetStakeAccount(subject, metadata)

	if delta, op := checkpoint.DeltaOperation(previousBalance, custody); delta > 0 {
		if err := e.pushCheckpoint(metadata.Delegate, delta, op); err != nil {
			return err
		}
	}
	e.emit(&events.RecordedBalanceChanged{
		Owner:              e.signer,
		PreviousBalance:    previousBalance,
		NewRecordedBalance: custody,
	})
	return nil
}
