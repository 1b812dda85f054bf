// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"

	"github.com/luxfi/multigov/utils/hashing"
	safemath "github.com/luxfi/multigov/utils/math"
	"github.com/luxfi/multigov/vms/govvm/custody"
	"github.com/luxfi/multigov/vms/govvm/events"
	"github.com/luxfi/multigov/vms/govvm/rent"
	"github.com/luxfi/multigov/vms/govvm/state"
	"github.com/luxfi/multigov/vms/govvm/txs"
)

var (
	_ txs.Visitor = (*standardTxExecutor)(nil)

	// AirlockAddress signs governance operations carried by hub messages.
	// Making it the governance authority hands administration to the hub.
	AirlockAddress = hashing.DeriveShortID("airlock")

	// GovernanceProgramID addresses hub instructions that carry a
	// governance operation.
	GovernanceProgramID = hashing.DeriveID("governance")
)

// StandardTx executes [tx] against [chain] and returns the events it
// emitted. On error, [chain] may hold partial modifications and must be
// discarded.
func StandardTx(backend *Backend, chain state.Chain, tx *txs.Tx) ([]events.Event, error) {
	if err := tx.SyntacticVerify(); err != nil {
		return nil, err
	}
	if err := consumeNonce(chain, tx); err != nil {
		return nil, err
	}
	e := &standardTxExecutor{
		backend: backend,
		state:   chain,
		ledger:  backend.ledger(chain),
		signer:  tx.Signer(),
		payer:   tx.Signer(),
		now:     backend.Clk.Unix(),
	}
	if err := tx.Unsigned.Visit(e); err != nil {
		return nil, err
	}
	return e.events, nil
}

// consumeNonce rejects [tx] unless it carries the signer's next nonce, and
// advances that nonce so the same signed bytes cannot be accepted twice.
func consumeNonce(chain state.Chain, tx *txs.Tx) error {
	signer := tx.Signer()
	nonce, err := chain.GetNonce(signer)
	if err != nil {
		return err
	}
	if tx.Nonce != nonce {
		return fmt.Errorf("%w: %s expected %d but got %d", ErrInvalidNonce, signer, nonce, tx.Nonce)
	}
	next, err := safemath.Add(nonce, 1)
	if err != nil {
		return err
	}
	chain.SetNonce(signer, next)
	return nil
}

type standardTxExecutor struct {
	backend *Backend
	state   state.Chain
	ledger  custody.Ledger

	// signer authorizes the operation; payer funds any rent it needs.
	signer ids.ShortID
	payer  ids.ShortID
	now    uint64

	events []events.Event
}

func (e *standardTxExecutor) emit(evs ...events.Event) {
	e.events = append(e.events, evs...)
}

func (e *standardTxExecutor) globalConfig() (state.GlobalConfig, error) {
	cfg, err := e.state.GetConfig()
	if errors.Is(err, database.ErrNotFound) {
		return cfg, ErrNotInitialized
	}
	return cfg, err
}

func (e *standardTxExecutor) requireGovernanceAuthority() (state.GlobalConfig, error) {
	cfg, err := e.globalConfig()
	if err != nil {
		return cfg, err
	}
	if e.signer != cfg.GovernanceAuthority {
		return cfg, fmt.Errorf("%w: %s is not the governance authority", ErrUnauthorized, e.signer)
	}
	return cfg, nil
}

func (e *standardTxExecutor) stakeAccount(subject ids.ID) (state.StakeAccountMetadata, error) {
	m, err := e.state.GetStakeAccount(subject)
	if errors.Is(err, database.ErrNotFound) {
		return m, fmt.Errorf("%w: %s", ErrUnknownStakeAccount, subject)
	}
	return m, err
}

// chargeRent debits the payer for a record growing from [oldSize] to
// [newSize] bytes. A new record has an [oldSize] of 0 and is charged its
// full minimum balance.
func (e *standardTxExecutor) chargeRent(oldSize, newSize uint64) error {
	var (
		amount uint64
		err    error
	)
	if oldSize == 0 {
		amount, err = e.backend.Rent.MinimumBalance(newSize)
	} else {
		amount, err = rent.TopUp(e.backend.Rent, oldSize, newSize)
	}
	if err != nil {
		return err
	}
	balance, err := e.state.GetRentBalance(e.payer)
	if err != nil {
		return err
	}
	remaining, err := rent.Charge(balance, amount)
	if err != nil {
		return fmt.Errorf("payer %s: %w", e.payer, err)
	}
	e.state.SetRentBalance(e.payer, remaining)
	return nil
}

// refundRent credits [recipient] with the rent held by a deleted record of
// [size] bytes.
func (e *standardTxExecutor) refundRent(recipient ids.ShortID, size uint64) error {
	amount, err := e.backend.Rent.MinimumBalance(size)
	if err != nil {
		return err
	}
	balance, err := e.state.GetRentBalance(recipient)
	if err != nil {
		return err
	}
	balance, err = safemath.Add(balance, amount)
	if err != nil {
		return fmt.Errorf("refund to %s: %w", recipient, err)
	}
	e.state.SetRentBalance(recipient, balance)
	return nil
}
