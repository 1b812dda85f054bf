// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"fmt"
	"math"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/multigov/vms/govvm/checkpoint"
	"github.com/luxfi/multigov/vms/govvm/events"
	"github.com/luxfi/multigov/vms/govvm/state"

	safemath "github.com/luxfi/multigov/utils/math"
)

// pushCheckpoint applies [delta] to the votes of [delegate] at the current
// time. The delegate's current segment is grown as needed and, once an
// append fills it, closed in favor of a new segment seeded with its latest
// checkpoint. A push at the latest timestamp overwrites in place, even in a
// full segment.
//
// The delegate's metadata is reloaded here, so callers must write their own
// subject's metadata before pushing.
func (e *standardTxExecutor) pushCheckpoint(delegate ids.ID, delta uint64, op checkpoint.Operation) error {
	metadata, err := e.stakeAccount(delegate)
	if err != nil {
		return err
	}
	segment := metadata.LastCheckpointSegmentIndex
	store, err := e.state.GetCheckpoints(delegate, segment)
	if err != nil {
		return fmt.Errorf("couldn't load segment %d of %s: %w", segment, delegate, err)
	}

	limit := e.backend.Config.MaxCheckpointsPerSegment
	appends := store.Appends(e.now)
	if appends && store.Full(limit) {
		return fmt.Errorf("%w: segment %d of %s holds %d", ErrTooManyCheckpoints, segment, delegate, store.NextIndex())
	}
	if newSize, ok := store.Growth(e.now); ok {
		if err := e.chargeRent(store.Size(), newSize); err != nil {
			return err
		}
		store.Grow()
	}

	previous, current, err := store.Push(e.now, delta, op)
	if err != nil {
		return fmt.Errorf("couldn't push %s %d to %s: %w", op, delta, delegate, err)
	}
	e.state.PutCheckpoints(segment, store)

	if appends && store.Full(limit) {
		if err := e.rollover(delegate, metadata, store); err != nil {
			return err
		}
	}

	e.emit(&events.DelegateVotesChanged{
		Delegate:      delegate,
		PreviousVotes: previous,
		NewVotes:      current,
	})
	return nil
}

// rollover opens the segment after [closed] and seeds it with the latest
// checkpoint of [closed].
func (e *standardTxExecutor) rollover(delegate ids.ID, metadata state.StakeAccountMetadata, closed *checkpoint.Store) error {
	segment := metadata.LastCheckpointSegmentIndex
	if segment == math.MaxUint8 {
		return fmt.Errorf("%w: %s exhausted its segments", ErrTooManyCheckpoints, delegate)
	}
	latest, _ := closed.Latest()

	next := checkpoint.New(delegate)
	next.Grow()
	if err := e.chargeRent(0, next.Size()); err != nil {
		return err
	}
	if err := next.Append(latest); err != nil {
		return err
	}

	metadata.LastCheckpointSegmentIndex = segment + 1
	e.state.SetStakeAccount(delegate, metadata)
	e.state.PutCheckpoints(segment+1, next)

	e.backend.Log.Debug("opened checkpoint segment",
		log.Stringer("delegate", delegate),
		log.Uint64("segment", uint64(segment+1)),
		log.Uint64("seed", latest.Value),
	)
	return nil
}

type stakeLinkKind uint8

const (
	undelegated stakeLinkKind = iota
	delegatedNoSegmentSplit
	delegatedWithSegmentSplit
)

func (k stakeLinkKind) String() string {
	switch k {
	case undelegated:
		return "undelegated"
	case delegatedNoSegmentSplit:
		return "delegated"
	case delegatedWithSegmentSplit:
		return "delegated with segment split"
	default:
		return "unknown"
	}
}

// stakeLink is the delegation a vesting balance contributes votes through.
type stakeLink struct {
	kind     stakeLinkKind
	subject  ids.ID
	metadata state.StakeAccountMetadata
	delegate ids.ID
}

// resolveStakeLink reports how a push to the delegate of [balance]'s
// linked subject would land.
func (e *standardTxExecutor) resolveStakeLink(balance state.VestingBalance) (stakeLink, error) {
	if !balance.IsLinked() {
		return stakeLink{kind: undelegated}, nil
	}
	metadata, err := e.stakeAccount(balance.StakeAccountMetadata)
	if err != nil {
		return stakeLink{}, err
	}
	link := stakeLink{
		kind:     delegatedNoSegmentSplit,
		subject:  balance.StakeAccountMetadata,
		metadata: metadata,
		delegate: metadata.Delegate,
	}
	if !metadata.IsDelegated() {
		link.kind = undelegated
		return link, nil
	}

	delegateMetadata, err := e.stakeAccount(metadata.Delegate)
	if err != nil {
		return stakeLink{}, err
	}
	store, err := e.state.GetCheckpoints(metadata.Delegate, delegateMetadata.LastCheckpointSegmentIndex)
	if errors.Is(err, database.ErrNotFound) {
		return stakeLink{}, fmt.Errorf("%w: delegate %s", ErrCheckpointNotFound, metadata.Delegate)
	}
	if err != nil {
		return stakeLink{}, err
	}
	if store.Appends(e.now) && store.NextIndex()+1 >= e.backend.Config.MaxCheckpointsPerSegment {
		link.kind = delegatedWithSegmentSplit
	}
	return link, nil
}

// unlinkVesting removes [amount] of vesting votes contributed through
// [link], from both the linked subject's recorded vesting balance and its
// delegate's checkpoints.
func (e *standardTxExecutor) unlinkVesting(link stakeLink, amount uint64) error {
	if link.kind == undelegated && link.subject == ids.Empty {
		return nil
	}
	recorded, err := safemath.Sub(link.metadata.RecordedVestingBalance, amount)
	if err != nil {
		return fmt.Errorf("recorded vesting balance of %s: %w", link.subject, err)
	}
	e.setRecordedVestingBalance(link.subject, link.metadata, recorded)
	if link.kind == undelegated || amount == 0 {
		return nil
	}
	e.backend.Log.Debug("removing vesting votes",
		log.Stringer("delegate", link.delegate),
		log.Stringer("link", link.kind),
		log.Uint64("amount", amount),
	)
	return e.pushCheckpoint(link.delegate, amount, checkpoint.Subtract)
}

// setRecordedVestingBalance writes [subject]'s recorded vesting balance.
func (e *standardTxExecutor) setRecordedVestingBalance(subject ids.ID, metadata state.StakeAccountMetadata, balance uint64) {
	previous := metadata.RecordedVestingBalance
	if previous == balance {
		return
	}
	metadata.RecordedVestingBalance = balance
	e.state.SetStakeAccount(subject, metadata)
	e.emit(&events.RecordedVestingBalanceChanged{
		Owner:                     metadata.Owner,
		PreviousBalance:           previous,
		NewRecordedVestingBalance: balance,
	})
}
