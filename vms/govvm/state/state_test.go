// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/database"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"

	"github.com/luxfi/multigov/vms/govvm/checkpoint"
	"github.com/luxfi/multigov/vms/govvm/genesis"
	"github.com/luxfi/multigov/vms/govvm/guardian"
	"github.com/luxfi/multigov/vms/govvm/state"
	"github.com/luxfi/multigov/vms/govvm/state/statetest"
)

func TestGenesisAppliedOnce(t *testing.T) {
	require := require.New(t)

	var (
		db    = memdb.New()
		alice = ids.ShortID{1}
		g     = &genesis.Genesis{
			Allocations: []genesis.Allocation{{
				Address:      alice,
				TokenBalance: 1000,
				RentBalance:  50,
			}},
		}
	)
	s := statetest.New(t, statetest.Config{DB: db, Genesis: g})

	balance, err := s.GetTokenBalance(state.WalletAccount(alice))
	require.NoError(err)
	require.Equal(uint64(1000), balance)

	s.SetTokenBalance(state.WalletAccount(alice), 10)
	require.NoError(s.Commit())

	// Reopening must not reapply the allocations.
	s = statetest.New(t, statetest.Config{DB: db, Genesis: g})
	balance, err = s.GetTokenBalance(state.WalletAccount(alice))
	require.NoError(err)
	require.Equal(uint64(10), balance)

	rent, err := s.GetRentBalance(alice)
	require.NoError(err)
	require.Equal(uint64(50), rent)
}

func TestAbortDiscardsModifications(t *testing.T) {
	require := require.New(t)

	s := statetest.New(t, statetest.Config{})
	subject := ids.GenerateTestID()

	s.SetStakeAccount(subject, state.StakeAccountMetadata{RecordedBalance: 7})
	store := checkpoint.New(subject)
	store.Grow()
	_, _, err := store.Push(10, 7, checkpoint.Add)
	require.NoError(err)
	s.PutCheckpoints(0, store)
	s.SetTokenBalance(subject, 7)

	m, err := s.GetStakeAccount(subject)
	require.NoError(err)
	require.Equal(uint64(7), m.RecordedBalance)

	s.Abort()

	_, err = s.GetStakeAccount(subject)
	require.ErrorIs(err, database.ErrNotFound)
	_, err = s.GetCheckpoints(subject, 0)
	require.ErrorIs(err, database.ErrNotFound)
	balance, err := s.GetTokenBalance(subject)
	require.NoError(err)
	require.Zero(balance)
}

func TestCommitPersists(t *testing.T) {
	require := require.New(t)

	db := memdb.New()
	s := statetest.New(t, statetest.Config{DB: db})

	var (
		subject    = ids.GenerateTestID()
		proposalID = ids.GenerateTestID()
		batchID    = ids.GenerateTestID()
		metadata   = state.StakeAccountMetadata{
			Owner:                      ids.ShortID{2},
			Delegate:                   subject,
			RecordedBalance:            100,
			RecordedVestingBalance:     5,
			LastCheckpointSegmentIndex: 1,
		}
		proposal = state.Proposal{
			ID:        proposalID,
			VoteStart: 42,
			ForVotes:  3,
		}
		set = &guardian.Set{
			Index: 3,
			Keys:  []ids.ShortID{{1}, {2}},
		}
		batch = &guardian.SignatureBatch{
			RefundRecipient: ids.ShortID{9},
			Total:           2,
			Signatures:      []guardian.Signature{{0}},
		}
	)

	store := checkpoint.New(subject)
	store.Grow()
	store.Grow()
	_, _, err := store.Push(10, 105, checkpoint.Add)
	require.NoError(err)

	s.SetConfig(state.GlobalConfig{GovernanceAuthority: ids.ShortID{1}})
	s.SetStakeAccount(subject, metadata)
	s.PutCheckpoints(1, store)
	s.SetProposal(proposal)
	s.SetWeightCast(proposalID, subject, 3)
	s.SetGuardianSet(set)
	s.SetSignatureBatch(batchID, batch)
	s.SetMessageReceived(proposalID, 77)
	s.SetNonce(ids.ShortID{2}, 4)
	require.NoError(s.Commit())
	require.NoError(s.Close())

	// The underlying database is left open for the caller.
	has, err := db.Has(state.SingletonPrefix)
	require.NoError(err)
	require.False(has)

	s = statetest.New(t, statetest.Config{DB: db})

	cfg, err := s.GetConfig()
	require.NoError(err)
	require.Equal(ids.ShortID{1}, cfg.GovernanceAuthority)

	gotMetadata, err := s.GetStakeAccount(subject)
	require.NoError(err)
	require.Equal(metadata, gotMetadata)

	gotStore, err := s.GetCheckpoints(subject, 1)
	require.NoError(err)
	require.Equal(store.Checkpoints(), gotStore.Checkpoints())
	require.Equal(uint64(2), gotStore.Capacity())

	gotProposal, err := s.GetProposal(proposalID)
	require.NoError(err)
	require.Equal(proposal, gotProposal)

	weight, err := s.GetWeightCast(proposalID, subject)
	require.NoError(err)
	require.Equal(uint64(3), weight)

	gotSet, err := s.GetGuardianSet(3)
	require.NoError(err)
	require.Equal(set, gotSet)
	index, err := s.GetGuardianSetIndex()
	require.NoError(err)
	require.Equal(uint32(3), index)

	gotBatch, err := s.GetSignatureBatch(batchID)
	require.NoError(err)
	require.Equal(batch, gotBatch)

	ts, err := s.GetMessageReceived(proposalID)
	require.NoError(err)
	require.Equal(uint64(77), ts)

	nonce, err := s.GetNonce(ids.ShortID{2})
	require.NoError(err)
	require.Equal(uint64(4), nonce)
	nonce, err = s.GetNonce(ids.ShortID{3})
	require.NoError(err)
	require.Zero(nonce)

	require.Equal([]state.Proposal{proposal}, s.GetProposals(0, 10))
	require.NoError(s.Close())
	require.NoError(db.Close())
}

func TestGettersReturnCopies(t *testing.T) {
	require := require.New(t)

	s := statetest.New(t, statetest.Config{})
	owner := ids.GenerateTestID()

	store := checkpoint.New(owner)
	store.Grow()
	_, _, err := store.Push(1, 1, checkpoint.Add)
	require.NoError(err)
	s.PutCheckpoints(0, store)

	got, err := s.GetCheckpoints(owner, 0)
	require.NoError(err)
	got.Grow()
	_, _, err = got.Push(2, 1, checkpoint.Add)
	require.NoError(err)

	again, err := s.GetCheckpoints(owner, 0)
	require.NoError(err)
	require.Equal(uint64(1), again.NextIndex())
}

func TestDeletions(t *testing.T) {
	require := require.New(t)

	s := statetest.New(t, statetest.Config{})
	var (
		configID = ids.GenerateTestID()
		vester   = ids.ShortID{4}
		vest     = state.Vesting{
			Config:     configID,
			Vester:     vester,
			Maturation: 100,
			Amount:     5,
		}
		balance = state.VestingBalance{
			Config:              configID,
			Vester:              vester,
			TotalVestingBalance: 5,
		}
	)
	s.SetVesting(vest)
	s.SetVestingBalance(balance)
	require.NoError(s.Commit())

	got, err := s.GetVesting(configID, vester, 100)
	require.NoError(err)
	require.Equal(vest, got)

	s.DeleteVesting(configID, vester, 100)
	s.DeleteVestingBalance(configID, vester)
	_, err = s.GetVesting(configID, vester, 100)
	require.ErrorIs(err, database.ErrNotFound)
	require.NoError(s.Commit())

	_, err = s.GetVesting(configID, vester, 100)
	require.ErrorIs(err, database.ErrNotFound)
	_, err = s.GetVestingBalance(configID, vester)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestGetProposalsOrdered(t *testing.T) {
	require := require.New(t)

	s := statetest.New(t, statetest.Config{})
	var proposals []state.Proposal
	for _, voteStart := range []uint64{30, 10, 20} {
		p := state.Proposal{
			ID:        ids.GenerateTestID(),
			VoteStart: voteStart,
		}
		proposals = append(proposals, p)
		s.SetProposal(p)
	}

	// Uncommitted proposals are not indexed.
	require.Empty(s.GetProposals(0, 10))
	require.NoError(s.Commit())

	got := s.GetProposals(15, 10)
	require.Len(got, 2)
	require.Equal(proposals[2], got[0])
	require.Equal(proposals[0], got[1])

	require.Len(s.GetProposals(0, 1), 1)
	require.Empty(s.GetProposals(0, 0))
}
