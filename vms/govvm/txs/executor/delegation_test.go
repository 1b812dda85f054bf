// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	"github.com/luxfi/multigov/vms/govvm/checkpoint"
	"github.com/luxfi/multigov/vms/govvm/config"
	"github.com/luxfi/multigov/vms/govvm/custody"
	"github.com/luxfi/multigov/vms/govvm/events"
	"github.com/luxfi/multigov/vms/govvm/genesis"
	"github.com/luxfi/multigov/vms/govvm/rent"
	"github.com/luxfi/multigov/vms/govvm/state"
	"github.com/luxfi/multigov/vms/govvm/txs"
)

func TestDelegationScenario(t *testing.T) {
	require := require.New(t)

	var (
		alice = testKey(1)
		bob   = testKey(2)
		env   = newEnvironment(t, envConfig{funded: []*secp256k1.PrivateKey{alice, bob}})
	)
	env.initialize()

	a := env.stake(alice, 1000)
	b := env.stake(bob, 0)

	env.clk.SetUnix(10)
	evs := env.mustIssue(alice, &txs.DelegateTx{Delegatee: a})
	require.Equal([]string{"DelegateChanged", "DelegateVotesChanged", "RecordedBalanceChanged"}, eventNames(evs))
	require.Equal([]checkpoint.Checkpoint{{Timestamp: 10, Value: 1000}}, env.checkpoints(a, 0))

	env.clk.SetUnix(20)
	evs = env.mustIssue(alice, &txs.DelegateTx{Delegatee: b})
	require.Equal(&events.DelegateChanged{
		Delegator:           a,
		From:                a,
		To:                  b,
		TotalDelegatedVotes: 1000,
	}, evs[0])
	require.Equal([]checkpoint.Checkpoint{
		{Timestamp: 10, Value: 1000},
		{Timestamp: 20, Value: 0},
	}, env.checkpoints(a, 0))
	require.Equal([]checkpoint.Checkpoint{{Timestamp: 20, Value: 1000}}, env.checkpoints(b, 0))

	store, err := env.state.GetCheckpoints(b, 0)
	require.NoError(err)
	_, _, ok := store.FindAtOrBefore(15)
	require.False(ok)
	_, found, ok := store.FindAtOrBefore(25)
	require.True(ok)
	require.Equal(checkpoint.Checkpoint{Timestamp: 20, Value: 1000}, found)
}

func TestDelegateSameInstantCoalesces(t *testing.T) {
	require := require.New(t)

	alice := testKey(1)
	env := newEnvironment(t, envConfig{funded: []*secp256k1.PrivateKey{alice}})
	env.initialize()
	a := env.stake(alice, 100)

	env.clk.SetUnix(10)
	env.mustIssue(alice, &txs.DelegateTx{Delegatee: a})
	env.mustIssue(alice, &txs.DepositTx{Amount: 50})
	env.mustIssue(alice, &txs.DelegateTx{Delegatee: a})
	require.Equal([]checkpoint.Checkpoint{{Timestamp: 10, Value: 150}}, env.checkpoints(a, 0))
	require.Equal(uint64(150), env.metadata(a).RecordedBalance)
}

func TestStakeAccountErrors(t *testing.T) {
	alice := testKey(1)
	stranger := testKey(2)
	tests := map[string]struct {
		signer      *secp256k1.PrivateKey
		tx          txs.UnsignedTx
		expectedErr error
	}{
		"create twice": {
			signer:      alice,
			tx:          &txs.CreateStakeAccountTx{},
			expectedErr: ErrStakeAccountExists,
		},
		"deposit without account": {
			signer:      stranger,
			tx:          &txs.DepositTx{Amount: 1},
			expectedErr: ErrUnknownStakeAccount,
		},
		"delegate to unknown subject": {
			signer:      alice,
			tx:          &txs.DelegateTx{Delegatee: ids.GenerateTestID()},
			expectedErr: ErrUnknownStakeAccount,
		},
		"delegate without account": {
			signer:      stranger,
			tx:          &txs.DelegateTx{Delegatee: ids.GenerateTestID()},
			expectedErr: ErrUnknownStakeAccount,
		},
		"withdraw to another wallet": {
			signer: alice,
			tx: &txs.WithdrawTx{
				Amount:      1,
				Destination: txs.Address(stranger),
			},
			expectedErr: ErrWithdrawToUnauthorizedAccount,
		},
		"withdraw more than staked": {
			signer: alice,
			tx: &txs.WithdrawTx{
				Amount:      101,
				Destination: txs.Address(alice),
			},
			expectedErr: custody.ErrInsufficientFunds,
		},
		"zero withdrawal": {
			signer: alice,
			tx: &txs.WithdrawTx{
				Destination: txs.Address(alice),
			},
			expectedErr: txs.ErrZeroWithdrawal,
		},
		"deposit more than held": {
			signer:      alice,
			tx:          &txs.DepositTx{Amount: defaultTokens},
			expectedErr: custody.ErrInsufficientFunds,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			env := newEnvironment(t, envConfig{funded: []*secp256k1.PrivateKey{alice, stranger}})
			env.initialize()
			env.stake(alice, 100)

			_, err := env.issue(test.signer, test.tx)
			require.ErrorIs(t, err, test.expectedErr)
		})
	}
}

func TestCreateStakeAccountBeforeInit(t *testing.T) {
	alice := testKey(1)
	env := newEnvironment(t, envConfig{funded: []*secp256k1.PrivateKey{alice}})

	_, err := env.issue(alice, &txs.CreateStakeAccountTx{})
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestWithdrawDelegated(t *testing.T) {
	require := require.New(t)

	var (
		alice = testKey(1)
		bob   = testKey(2)
		env   = newEnvironment(t, envConfig{funded: []*secp256k1.PrivateKey{alice, bob}})
	)
	env.initialize()
	a := env.stake(alice, 500)
	b := env.stake(bob, 0)

	env.clk.SetUnix(10)
	env.mustIssue(alice, &txs.DelegateTx{Delegatee: b})

	env.clk.SetUnix(20)
	evs := env.mustIssue(alice, &txs.WithdrawTx{
		Amount:      200,
		Destination: txs.Address(alice),
	})
	require.Equal([]string{"DelegateVotesChanged", "RecordedBalanceChanged"}, eventNames(evs))
	require.Equal(&events.RecordedBalanceChanged{
		Owner:              txs.Address(alice),
		PreviousBalance:    500,
		NewRecordedBalance: 300,
	}, evs[1])
	require.Equal([]checkpoint.Checkpoint{
		{Timestamp: 10, Value: 500},
		{Timestamp: 20, Value: 300},
	}, env.checkpoints(b, 0))
	require.Equal(uint64(300), env.metadata(a).RecordedBalance)
	require.Equal(uint64(defaultTokens-300), env.tokens(state.WalletAccount(txs.Address(alice))))
}

func TestWithdrawUndelegatedLeavesRecordedBalance(t *testing.T) {
	require := require.New(t)

	alice := testKey(1)
	env := newEnvironment(t, envConfig{funded: []*secp256k1.PrivateKey{alice}})
	env.initialize()
	a := env.stake(alice, 500)

	evs := env.mustIssue(alice, &txs.WithdrawTx{
		Amount:      500,
		Destination: txs.Address(alice),
	})
	require.Empty(evs)
	require.Zero(env.metadata(a).RecordedBalance)
	require.Zero(env.tokens(state.CustodyAccount(a)))
}

func TestRentFailureIsAtomic(t *testing.T) {
	require := require.New(t)

	cfg := config.Default
	calculator := rent.NewCalculator(cfg.Rent)
	accountRent, err := calculator.MinimumBalance(checkpoint.RequiredSize(0))
	require.NoError(err)

	poor := testKey(1)
	env := newEnvironment(t, envConfig{
		config: &cfg,
		allocations: []genesis.Allocation{{
			Address:      txs.Address(poor),
			TokenBalance: 100,
			RentBalance:  accountRent,
		}},
	})
	env.initialize()
	subject := env.stake(poor, 100)
	require.Zero(env.rentBalance(txs.Address(poor)))

	env.clk.SetUnix(10)
	_, err = env.issue(poor, &txs.DelegateTx{Delegatee: subject})
	require.ErrorIs(err, rent.ErrInsufficientRent)

	metadata := env.metadata(subject)
	require.False(metadata.IsDelegated())
	require.Zero(metadata.RecordedBalance)
	require.Empty(env.checkpoints(subject, 0))
	require.Equal(uint64(100), env.tokens(state.CustodyAccount(subject)))
}

func TestSegmentRollover(t *testing.T) {
	require := require.New(t)

	cfg := config.Default
	cfg.MaxCheckpointsPerSegment = 3

	alice := testKey(1)
	env := newEnvironment(t, envConfig{
		config: &cfg,
		funded: []*secp256k1.PrivateKey{alice},
	})
	env.initialize()
	a := env.stake(alice, 10)

	for i := uint64(1); i <= 3; i++ {
		env.clk.SetUnix(10 * i)
		if i > 1 {
			env.mustIssue(alice, &txs.DepositTx{Amount: 10})
		}
		env.mustIssue(alice, &txs.DelegateTx{Delegatee: a})
	}

	require.Equal(uint8(1), env.metadata(a).LastCheckpointSegmentIndex)
	require.Equal([]checkpoint.Checkpoint{
		{Timestamp: 10, Value: 10},
		{Timestamp: 20, Value: 20},
		{Timestamp: 30, Value: 30},
	}, env.checkpoints(a, 0))
	require.Equal([]checkpoint.Checkpoint{{Timestamp: 30, Value: 30}}, env.checkpoints(a, 1))

	env.clk.SetUnix(40)
	env.mustIssue(alice, &txs.DepositTx{Amount: 5})
	env.mustIssue(alice, &txs.DelegateTx{Delegatee: a})
	require.Equal([]checkpoint.Checkpoint{
		{Timestamp: 30, Value: 30},
		{Timestamp: 40, Value: 35},
	}, env.checkpoints(a, 1))
	require.Equal(uint64(35), env.votes(a))
}

func TestSegmentLimit(t *testing.T) {
	require := require.New(t)

	cfg := config.Default
	cfg.MaxCheckpointsPerSegment = 2

	alice := testKey(1)
	env := newEnvironment(t, envConfig{
		config: &cfg,
		funded: []*secp256k1.PrivateKey{alice},
	})
	env.initialize()
	a := env.stake(alice, 1000)

	metadata := env.metadata(a)
	metadata.LastCheckpointSegmentIndex = 255
	env.state.SetStakeAccount(a, metadata)
	env.state.PutCheckpoints(255, checkpoint.New(a))
	require.NoError(env.state.Commit())

	env.clk.SetUnix(10)
	env.mustIssue(alice, &txs.DelegateTx{Delegatee: a})

	// Filling the last segment would require a 257th.
	env.clk.SetUnix(20)
	_, err := env.issue(alice, &txs.WithdrawTx{Amount: 1, Destination: txs.Address(alice)})
	require.ErrorIs(err, ErrTooManyCheckpoints)
	require.Equal(uint64(1000), env.votes(a))
	require.Equal(uint64(1000), env.tokens(state.CustodyAccount(a)))
}

// TestDelegationConservation checks that every delegate's latest votes
// equal the recorded totals of the subjects delegating to it, and that every
// subject records exactly the vesting balance linked to it, after random
// sequences of deposits, withdrawals, delegations and vesting operations.
func TestDelegationConservation(t *testing.T) {
	require := require.New(t)

	cfg := config.Default
	cfg.MaxCheckpointsPerSegment = 8

	keys := make([]*secp256k1.PrivateKey, 6)
	for i := range keys {
		keys[i] = testKey(byte(i + 1))
	}
	env := newEnvironment(t, envConfig{
		config: &cfg,
		funded: keys,
	})
	env.initialize()

	rng := rand.New(rand.NewSource(1)) //#nosec G404
	maturations := []uint64{50, 200, 600}
	env.mustIssue(env.authority, &txs.InitializeVestingConfigTx{ConfigID: vestingConfigID})
	var vests []state.Vesting
	for _, key := range keys {
		for _, maturation := range maturations {
			vests = append(vests, state.Vesting{
				Vester:     txs.Address(key),
				Maturation: maturation,
				Amount:     uint64(rng.Intn(100) + 1),
			})
		}
	}
	env.vest(keys, vests...)

	subjects := make([]ids.ID, len(keys))
	for i, key := range keys {
		subjects[i] = env.stake(key, 0)
	}

	allowed := []error{
		custody.ErrInsufficientFunds,
		ErrNotFullyVested,
		ErrVestingNotFound,
		ErrTransferVestToMyself,
		ErrStakeAccountDelegatesMismatch,
		ErrStakeAccountDelegationLoop,
		ErrInvalidVestingTransferAccounts,
		ErrVestingBalanceLinkedElsewhere,
	}
	now := uint64(10)
	for range 600 {
		now += uint64(rng.Intn(3))
		env.clk.SetUnix(now)

		var (
			i     = rng.Intn(len(keys))
			key   = keys[i]
			owner = txs.Address(key)
			tx    txs.UnsignedTx
		)
		switch rng.Intn(6) {
		case 0:
			tx = &txs.DepositTx{Amount: uint64(rng.Intn(100) + 1)}
		case 1:
			tx = &txs.WithdrawTx{
				Amount:      uint64(rng.Intn(100) + 1),
				Destination: owner,
			}
		case 2:
			tx = &txs.DelegateTx{Delegatee: subjects[rng.Intn(len(subjects))]}
		case 3:
			tx = &txs.DelegateTx{
				Delegatee:        subjects[rng.Intn(len(subjects))],
				HasVestingConfig: true,
				VestingConfigID:  vestingConfigID,
			}
		case 4:
			tx = &txs.ClaimVestingTx{
				ConfigID:   vestingConfigID,
				Maturation: maturations[rng.Intn(len(maturations))],
			}
		default:
			tx = &txs.TransferVestingTx{
				ConfigID:   vestingConfigID,
				Maturation: maturations[rng.Intn(len(maturations))],
				NewVester:  txs.Address(keys[rng.Intn(len(keys))]),
			}
		}
		_, err := env.issue(key, tx)
		if err != nil {
			require.True(slices.ContainsFunc(allowed, func(expected error) bool {
				return errors.Is(err, expected)
			}), "%T: %s", tx, err)
		}

		var (
			expectedVotes   = make(map[ids.ID]uint64)
			expectedVesting = make(map[ids.ID]uint64)
		)
		for _, key := range keys {
			balance := env.vestingBalance(key)
			if balance.IsLinked() {
				expectedVesting[balance.StakeAccountMetadata] += balance.TotalVestingBalance
			}
		}
		for _, subject := range subjects {
			m := env.metadata(subject)
			require.Equal(expectedVesting[subject], m.RecordedVestingBalance, "subject %s", subject)
			if m.IsDelegated() {
				expectedVotes[m.Delegate] += m.RecordedBalance + m.RecordedVestingBalance
			}
		}
		for _, subject := range subjects {
			require.Equal(expectedVotes[subject], env.votes(subject), "delegate %s", subject)
		}
	}
}
