// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"fmt"
	"math"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"

	"github.com/luxfi/multigov/vms/govvm/events"
	"github.com/luxfi/multigov/vms/govvm/state"
	"github.com/luxfi/multigov/vms/govvm/txs"

	safemath "github.com/luxfi/multigov/utils/math"
)

func (e *standardTxExecutor) CastVoteTx(tx *txs.CastVoteTx) error {
	proposal, err := e.state.GetProposal(tx.ProposalID)
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrProposalNotFound, tx.ProposalID)
	}
	if err != nil {
		return err
	}

	length, err := e.windowLength(proposal.VoteStart)
	if err != nil {
		return err
	}
	windowStart, err := safemath.Sub(proposal.VoteStart, length)
	if err != nil {
		return fmt.Errorf("window of %d before %d: %w", length, proposal.VoteStart, err)
	}

	voter := state.StakeAccountID(e.signer)
	if _, err := e.stakeAccount(voter); err != nil {
		return err
	}
	weight, err := e.windowedWeight(voter, windowStart, proposal.VoteStart, tx)
	if err != nil {
		return err
	}

	cast, err := e.state.GetWeightCast(tx.ProposalID, voter)
	switch {
	case errors.Is(err, database.ErrNotFound):
		cast = 0
	case err != nil:
		return err
	}
	if cast == weight {
		return fmt.Errorf("%w: %d", ErrAllWeightCast, weight)
	}

	votes, err := safemath.Add(tx.AgainstVotes, tx.ForVotes)
	if err != nil {
		return err
	}
	if votes, err = safemath.Add(votes, tx.AbstainVotes); err != nil {
		return err
	}
	total, err := safemath.Add(cast, votes)
	if err != nil {
		return err
	}
	if total > weight {
		return fmt.Errorf("%w: %d + %d > %d", ErrVoteWouldExceedWeight, cast, votes, weight)
	}

	if proposal.AgainstVotes, err = safemath.Add(proposal.AgainstVotes, tx.AgainstVotes); err != nil {
		return err
	}
	if proposal.ForVotes, err = safemath.Add(proposal.ForVotes, tx.ForVotes); err != nil {
		return err
	}
	if proposal.AbstainVotes, err = safemath.Add(proposal.AbstainVotes, tx.AbstainVotes); err != nil {
		return err
	}
	e.state.SetProposal(proposal)
	e.state.SetWeightCast(tx.ProposalID, voter, total)
	e.emit(&events.VoteCast{
		Voter:      voter,
		ProposalID: tx.ProposalID,
		Weight:     weight,
		Against:    tx.AgainstVotes,
		For:        tx.ForVotes,
		Abstain:    tx.AbstainVotes,
	})
	return nil
}

// windowedWeight returns the lowest value [voter] held between
// [windowStart] and [voteStart], both inclusive. The scan starts in the
// segment named by [tx], which must name the following segment when the
// window runs past the end of a closed segment. Later closed segments are
// read until one ends after [voteStart].
func (e *standardTxExecutor) windowedWeight(voter ids.ID, windowStart, voteStart uint64, tx *txs.CastVoteTx) (uint64, error) {
	store, err := e.state.GetCheckpoints(voter, tx.CheckpointSegment)
	if errors.Is(err, database.ErrNotFound) {
		return 0, fmt.Errorf("%w: segment %d of %s", ErrCheckpointNotFound, tx.CheckpointSegment, voter)
	}
	if err != nil {
		return 0, err
	}
	if tx.CheckpointSegment > 0 {
		first, err := store.At(0)
		if err != nil || windowStart < first.Timestamp {
			return 0, fmt.Errorf("%w: segment %d starts after %d", ErrCheckpointNotFound, tx.CheckpointSegment, windowStart)
		}
	}

	index, start, ok := store.FindAtOrBefore(windowStart)
	if !ok {
		return 0, fmt.Errorf("%w: no checkpoint at or before %d", ErrNoWeight, windowStart)
	}
	weight := start.Value
	for _, c := range store.Checkpoints()[index+1:] {
		if c.Timestamp > voteStart {
			return nonZeroWeight(weight)
		}
		weight = min(weight, c.Value)
	}
	limit := e.backend.Config.MaxCheckpointsPerSegment
	if !store.Full(limit) {
		return nonZeroWeight(weight)
	}

	if !tx.HasNextSegment {
		return 0, fmt.Errorf("%w: segment %d is closed", ErrMissingNextCheckpointDataAccount, tx.CheckpointSegment)
	}
	if tx.CheckpointSegment == math.MaxUint8 || tx.NextCheckpointSegment != tx.CheckpointSegment+1 {
		return 0, fmt.Errorf("%w: %d after %d", ErrInvalidNextCheckpointSegment, tx.NextCheckpointSegment, tx.CheckpointSegment)
	}
	segment := tx.NextCheckpointSegment
	for {
		next, err := e.state.GetCheckpoints(voter, segment)
		if errors.Is(err, database.ErrNotFound) {
			return 0, fmt.Errorf("%w: segment %d of %s", ErrInvalidNextCheckpointSegment, segment, voter)
		}
		if err != nil {
			return 0, err
		}
		for _, c := range next.Checkpoints() {
			if c.Timestamp > voteStart {
				return nonZeroWeight(weight)
			}
			weight = min(weight, c.Value)
		}
		if !next.Full(limit) {
			return nonZeroWeight(weight)
		}
		if segment == math.MaxUint8 {
			return 0, fmt.Errorf("%w: segment %d is closed", ErrMissingNextCheckpointDataAccount, segment)
		}
		segment++
	}
}

func nonZeroWeight(weight uint64) (uint64, error) {
	if weight == 0 {
		return 0, ErrNoWeight
	}
	return weight, nil
}
