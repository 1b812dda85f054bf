// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"

	"github.com/luxfi/multigov/vms/govvm/events"
	"github.com/luxfi/multigov/vms/govvm/state"
	"github.com/luxfi/multigov/vms/govvm/txs"

	safemath "github.com/luxfi/multigov/utils/math"
)

func (e *standardTxExecutor) vestingConfig(configID ids.ID) (state.VestingConfig, error) {
	cfg, err := e.state.GetVestingConfig(configID)
	if errors.Is(err, database.ErrNotFound) {
		return cfg, fmt.Errorf("%w: %s", ErrVestingConfigNotFound, configID)
	}
	return cfg, err
}

// requireVestingAdmin loads [configID] and checks that the signer
// administers it.
func (e *standardTxExecutor) requireVestingAdmin(configID ids.ID) (state.VestingConfig, error) {
	cfg, err := e.vestingConfig(configID)
	if err != nil {
		return cfg, err
	}
	if e.signer != cfg.Admin {
		return cfg, fmt.Errorf("%w: %s", ErrInvalidVestingAdmin, e.signer)
	}
	return cfg, nil
}

// requireUnfinalized is requireVestingAdmin for configs still accepting
// vests.
func (e *standardTxExecutor) requireUnfinalized(configID ids.ID) (state.VestingConfig, error) {
	cfg, err := e.requireVestingAdmin(configID)
	if err != nil {
		return cfg, err
	}
	if cfg.Finalized {
		return cfg, fmt.Errorf("%w: %s", ErrVestingFinalized, configID)
	}
	return cfg, nil
}

func (e *standardTxExecutor) vestingBalance(configID ids.ID, vester ids.ShortID) (state.VestingBalance, error) {
	balance, err := e.state.GetVestingBalance(configID, vester)
	if errors.Is(err, database.ErrNotFound) {
		return balance, fmt.Errorf("%w: %s in %s", ErrVestingBalanceNotFound, vester, configID)
	}
	return balance, err
}

func (e *standardTxExecutor) vesting(configID ids.ID, vester ids.ShortID, maturation uint64) (state.Vesting, error) {
	vest, err := e.state.GetVesting(configID, vester, maturation)
	if errors.Is(err, database.ErrNotFound) {
		return vest, fmt.Errorf("%w: %s at %d", ErrVestingNotFound, vester, maturation)
	}
	return vest, err
}

func (e *standardTxExecutor) InitializeVestingConfigTx(tx *txs.InitializeVestingConfigTx) error {
	global, err := e.globalConfig()
	if err != nil {
		return err
	}
	if e.signer != global.VestingAdmin {
		return fmt.Errorf("%w: %s", ErrInvalidVestingAdmin, e.signer)
	}
	switch _, err := e.state.GetVestingConfig(tx.ConfigID); {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrVestingConfigExists, tx.ConfigID)
	case !errors.Is(err, database.ErrNotFound):
		return err
	}
	e.state.SetVestingConfig(state.VestingConfig{
		ID:    tx.ConfigID,
		Admin: e.signer,
	})
	return nil
}

func (e *standardTxExecutor) CreateVestingBalanceTx(tx *txs.CreateVestingBalanceTx) error {
	if _, err := e.requireUnfinalized(tx.ConfigID); err != nil {
		return err
	}
	switch _, err := e.state.GetVestingBalance(tx.ConfigID, tx.Vester); {
	case err == nil:
		return fmt.Errorf("%w: %s in %s", ErrVestingBalanceExists, tx.Vester, tx.ConfigID)
	case !errors.Is(err, database.ErrNotFound):
		return err
	}
	e.state.SetVestingBalance(state.VestingBalance{
		Config: tx.ConfigID,
		Vester: tx.Vester,
	})
	return nil
}

func (e *standardTxExecutor) CreateVestingTx(tx *txs.CreateVestingTx) error {
	cfg, err := e.requireUnfinalized(tx.ConfigID)
	if err != nil {
		return err
	}
	balance, err := e.vestingBalance(tx.ConfigID, tx.Vester)
	if err != nil {
		return err
	}
	switch _, err := e.state.GetVesting(tx.ConfigID, tx.Vester, tx.Maturation); {
	case err == nil:
		return fmt.Errorf("%w: %s at %d", ErrVestingExists, tx.Vester, tx.Maturation)
	case !errors.Is(err, database.ErrNotFound):
		return err
	}

	if cfg.Vested, err = safemath.Add(cfg.Vested, tx.Amount); err != nil {
		return err
	}
	if balance.TotalVestingBalance, err = safemath.Add(balance.TotalVestingBalance, tx.Amount); err != nil {
		return err
	}
	vest := state.Vesting{
		Config:     tx.ConfigID,
		Vester:     tx.Vester,
		Maturation: tx.Maturation,
		Amount:     tx.Amount,
	}
	e.state.SetVestingConfig(cfg)
	e.state.SetVestingBalance(balance)
	e.state.SetVesting(vest)
	e.emit(&events.VestingCreated{
		Config:     vest.Config,
		Vester:     vest.Vester,
		Maturation: vest.Maturation,
		Amount:     vest.Amount,
	})
	return nil
}

func (e *standardTxExecutor) CancelVestingTx(tx *txs.CancelVestingTx) error {
	cfg, err := e.requireUnfinalized(tx.ConfigID)
	if err != nil {
		return err
	}
	vest, err := e.vesting(tx.ConfigID, tx.Vester, tx.Maturation)
	if err != nil {
		return err
	}
	balance, err := e.vestingBalance(tx.ConfigID, tx.Vester)
	if err != nil {
		return err
	}
	if err := e.releaseVest(&cfg, &balance, vest); err != nil {
		return err
	}
	e.emit(&events.VestingCanceled{
		Config:     vest.Config,
		Vester:     vest.Vester,
		Maturation: vest.Maturation,
		Amount:     vest.Amount,
	})
	return nil
}

func (e *standardTxExecutor) FinalizeVestingConfigTx(tx *txs.FinalizeVestingConfigTx) error {
	cfg, err := e.requireUnfinalized(tx.ConfigID)
	if err != nil {
		return err
	}
	vault, err := e.ledger.Balance(state.VaultAccount(tx.ConfigID))
	if err != nil {
		return err
	}
	if vault < cfg.Vested {
		return fmt.Errorf("%w: %d < %d", ErrInsufficientVault, vault, cfg.Vested)
	}
	cfg.Finalized = true
	e.state.SetVestingConfig(cfg)
	e.emit(&events.VestingFinalized{
		Config: cfg.ID,
		Vested: cfg.Vested,
	})
	return nil
}

func (e *standardTxExecutor) ClaimVestingTx(tx *txs.ClaimVestingTx) error {
	cfg, err := e.vestingConfig(tx.ConfigID)
	if err != nil {
		return err
	}
	if !cfg.Finalized {
		return fmt.Errorf("%w: %s", ErrVestingUnfinalized, tx.ConfigID)
	}
	vest, err := e.vesting(tx.ConfigID, e.signer, tx.Maturation)
	if err != nil {
		return err
	}
	if e.now < vest.Maturation {
		return fmt.Errorf("%w: matures at %d, now %d", ErrNotFullyVested, vest.Maturation, e.now)
	}
	balance, err := e.vestingBalance(tx.ConfigID, e.signer)
	if err != nil {
		return err
	}
	if err := e.releaseVest(&cfg, &balance, vest); err != nil {
		return err
	}
	if err := e.ledger.Transfer(state.VaultAccount(tx.ConfigID), state.WalletAccount(e.signer), vest.Amount); err != nil {
		return err
	}
	e.emit(&events.VestingClaimed{
		Config:     vest.Config,
		Vester:     vest.Vester,
		Maturation: vest.Maturation,
		Amount:     vest.Amount,
	})
	return nil
}

// releaseVest removes [vest] from its config's vested total and its
// vester's balance, along with any votes the balance contributes.
func (e *standardTxExecutor) releaseVest(cfg *state.VestingConfig, balance *state.VestingBalance, vest state.Vesting) error {
	link, err := e.resolveStakeLink(*balance)
	if err != nil {
		return err
	}
	if err := e.unlinkVesting(link, vest.Amount); err != nil {
		return err
	}
	if cfg.Vested, err = safemath.Sub(cfg.Vested, vest.Amount); err != nil {
		return err
	}
	if balance.TotalVestingBalance, err = safemath.Sub(balance.TotalVestingBalance, vest.Amount); err != nil {
		return err
	}
	e.state.SetVestingConfig(*cfg)
	e.state.SetVestingBalance(*balance)
	e.state.DeleteVesting(vest.Config, vest.Vester, vest.Maturation)
	return nil
}

// TransferVestingTx moves one of the signer's vests to another vester.
// Votes follow the vest only between balances linked to subjects sharing a
// delegate.
func (e *standardTxExecutor) TransferVestingTx(tx *txs.TransferVestingTx) error {
	if tx.NewVester == e.signer {
		return ErrTransferVestToMyself
	}
	cfg, err := e.vestingConfig(tx.ConfigID)
	if err != nil {
		return err
	}
	if !cfg.Finalized {
		return fmt.Errorf("%w: %s", ErrVestingUnfinalized, tx.ConfigID)
	}
	vest, err := e.vesting(tx.ConfigID, e.signer, tx.Maturation)
	if err != nil {
		return err
	}
	senderBalance, err := e.vestingBalance(tx.ConfigID, e.signer)
	if err != nil {
		return err
	}
	recipientBalance, err := e.state.GetVestingBalance(tx.ConfigID, tx.NewVester)
	switch {
	case errors.Is(err, database.ErrNotFound):
		recipientBalance = state.VestingBalance{
			Config: tx.ConfigID,
			Vester: tx.NewVester,
		}
	case err != nil:
		return err
	}

	senderLink, err := e.resolveStakeLink(senderBalance)
	if err != nil {
		return err
	}
	switch sender, recipient := senderBalance.IsLinked(), recipientBalance.IsLinked(); {
	case sender && recipient:
		recipientMetadata, err := e.stakeAccount(recipientBalance.StakeAccountMetadata)
		if err != nil {
			return err
		}
		if senderLink.delegate != recipientMetadata.Delegate {
			return fmt.Errorf("%w: %s != %s", ErrStakeAccountDelegatesMismatch, senderLink.delegate, recipientMetadata.Delegate)
		}
		if senderLink.subject == recipientMetadata.Delegate {
			return fmt.Errorf("%w: %s", ErrStakeAccountDelegationLoop, senderLink.subject)
		}
		// The delegate's votes are unchanged; only the recorded split moves.
		recorded, err := safemath.Sub(senderLink.metadata.RecordedVestingBalance, vest.Amount)
		if err != nil {
			return err
		}
		e.setRecordedVestingBalance(senderLink.subject, senderLink.metadata, recorded)

		recipientMetadata, err = e.stakeAccount(recipientBalance.StakeAccountMetadata)
		if err != nil {
			return err
		}
		if recorded, err = safemath.Add(recipientMetadata.RecordedVestingBalance, vest.Amount); err != nil {
			return err
		}
		e.setRecordedVestingBalance(recipientBalance.StakeAccountMetadata, recipientMetadata, recorded)
	case sender:
		if err := e.unlinkVesting(senderLink, vest.Amount); err != nil {
			return err
		}
	case recipient:
		return fmt.Errorf("%w: only %s is linked", ErrInvalidVestingTransferAccounts, tx.NewVester)
	}

	if senderBalance.TotalVestingBalance, err = safemath.Sub(senderBalance.TotalVestingBalance, vest.Amount); err != nil {
		return err
	}
	if recipientBalance.TotalVestingBalance, err = safemath.Add(recipientBalance.TotalVestingBalance, vest.Amount); err != nil {
		return err
	}

	received := state.Vesting{
		Config:     tx.ConfigID,
		Vester:     tx.NewVester,
		Maturation: vest.Maturation,
		Amount:     vest.Amount,
	}
	existing, err := e.state.GetVesting(tx.ConfigID, tx.NewVester, vest.Maturation)
	switch {
	case err == nil:
		if received.Amount, err = safemath.Add(existing.Amount, vest.Amount); err != nil {
			return err
		}
	case !errors.Is(err, database.ErrNotFound):
		return err
	}

	e.state.DeleteVesting(vest.Config, vest.Vester, vest.Maturation)
	e.state.SetVesting(received)
	e.state.SetVestingBalance(senderBalance)
	e.state.SetVestingBalance(recipientBalance)
	e.emit(&events.VestingTransferred{
		Config:     tx.ConfigID,
		Sender:     e.signer,
		Recipient:  tx.NewVester,
		Maturation: vest.Maturation,
		Amount:     vest.Amount,
	})
	return nil
}

func (e *standardTxExecutor) CloseVestingBalanceTx(tx *txs.CloseVestingBalanceTx) error {
	balance, err := e.vestingBalance(tx.ConfigID, e.signer)
	if err != nil {
		return err
	}
	if balance.TotalVestingBalance != 0 {
		return fmt.Errorf("%w: %d", ErrVestingBalanceNotEmpty, balance.TotalVestingBalance)
	}
	e.state.DeleteVestingBalance(tx.ConfigID, e.signer)
	return nil
}

func (e *standardTxExecutor) WithdrawSurplusTx(tx *txs.WithdrawSurplusTx) error {
	cfg, err := e.requireVestingAdmin(tx.ConfigID)
	if err != nil {
		return err
	}
	vaultAccount := state.VaultAccount(tx.ConfigID)
	vault, err := e.ledger.Balance(vaultAccount)
	if err != nil {
		return err
	}
	if vault <= cfg.Vested {
		return fmt.Errorf("%w: vault %d, vested %d", ErrNoSurplus, vault, cfg.Vested)
	}
	return e.ledger.Transfer(vaultAccount, state.WalletAccount(tx.Recipient), vault-cfg.Vested)
}

func (e *standardTxExecutor) FundVaultTx(tx *txs.FundVaultTx) error {
	if _, err := e.vestingConfig(tx.ConfigID); err != nil {
		return err
	}
	return e.ledger.Transfer(state.WalletAccount(e.signer), state.VaultAccount(tx.ConfigID), tx.Amount)
}
