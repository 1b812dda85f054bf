// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"fmt"

	"github.com/luxfi/database"

	"github.com/luxfi/multigov/vms/govvm/checkpoint"
	"github.com/luxfi/multigov/vms/govvm/events"
	"github.com/luxfi/multigov/vms/govvm/txs"
)

func (e *standardTxExecutor) SetWindowLengthTx(tx *txs.SetWindowLengthTx) error {
	if _, err := e.requireGovernanceAuthority(); err != nil {
		return err
	}
	if tx.Length > e.backend.Config.MaxVoteWeightWindowLength {
		return fmt.Errorf("%w: %d > %d",
			ErrExceedsMaxAllowableVoteWeightWindowLength,
			tx.Length,
			e.backend.Config.MaxVoteWeightWindowLength,
		)
	}

	lengths, err := e.state.GetWindowLengths()
	if errors.Is(err, database.ErrNotFound) {
		return ErrNotInitialized
	}
	if err != nil {
		return err
	}
	if newSize, ok := lengths.Growth(e.now); ok {
		if err := e.chargeRent(lengths.Size(), newSize); err != nil {
			return err
		}
		lengths.Grow()
	}
	delta, op := checkpoint.DeltaOperation(lengths.LatestValue(), tx.Length)
	if _, _, err := lengths.Push(e.now, delta, op); err != nil {
		return err
	}
	e.state.PutWindowLengths(lengths)
	e.emit(&events.WindowLengthSet{
		Timestamp: e.now,
		Length:    tx.Length,
	})
	return nil
}

// windowLength returns the window length in effect at [timestamp].
func (e *standardTxExecutor) windowLength(timestamp uint64) (uint64, error) {
	lengths, err := e.state.GetWindowLengths()
	if errors.Is(err, database.ErrNotFound) {
		return 0, ErrNotInitialized
	}
	if err != nil {
		return 0, err
	}
	_, length, ok := lengths.FindAtOrBefore(timestamp)
	if !ok {
		return 0, fmt.Errorf("%w: at %d", ErrWindowLengthNotFound, timestamp)
	}
	return length.Value, nil
}
