// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"math"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	safemath "github.com/luxfi/multigov/utils/math"
	"github.com/luxfi/multigov/vms/govvm/checkpoint"
	"github.com/luxfi/multigov/vms/govvm/state"
	"github.com/luxfi/multigov/vms/govvm/txs"
)

func TestReplayedDepositRejected(t *testing.T) {
	require := require.New(t)

	voter := testKey(1)
	env := newEnvironment(t, envConfig{funded: []*secp256k1.PrivateKey{voter}})
	env.initialize()
	subject := env.stake(voter, 0)

	deposit := env.sign(voter, &txs.DepositTx{Amount: 1_000})
	_, err := env.execute(deposit)
	require.NoError(err)

	for range 3 {
		_, err = env.execute(deposit)
		require.ErrorIs(err, ErrInvalidNonce)
	}
	require.Equal(uint64(1_000), env.tokens(state.CustodyAccount(subject)))
	require.Equal(uint64(defaultTokens-1_000), env.tokens(state.WalletAccount(txs.Address(voter))))
}

func TestReplayedWindowLengthRejected(t *testing.T) {
	require := require.New(t)

	env := newEnvironment(t, envConfig{})
	env.initialize()

	env.clk.SetUnix(10)
	stale := env.sign(env.authority, &txs.SetWindowLengthTx{Length: 20})
	_, err := env.execute(stale)
	require.NoError(err)

	env.clk.SetUnix(20)
	env.mustIssue(env.authority, &txs.SetWindowLengthTx{Length: 500})

	env.clk.SetUnix(30)
	_, err = env.execute(stale)
	require.ErrorIs(err, ErrInvalidNonce)

	lengths, err := env.state.GetWindowLengths()
	require.NoError(err)
	require.Equal([]checkpoint.Checkpoint{
		{Timestamp: 1, Value: defaultWindowLength},
		{Timestamp: 10, Value: 20},
		{Timestamp: 20, Value: 500},
	}, lengths.Checkpoints())
}

func TestNonce(t *testing.T) {
	voter := testKey(1)
	tests := map[string]struct {
		stored      uint64
		nonce       uint64
		expectedErr error
	}{
		"next": {
			stored: 2,
			nonce:  2,
		},
		"stale": {
			stored:      2,
			nonce:       1,
			expectedErr: ErrInvalidNonce,
		},
		"skipped": {
			stored:      2,
			nonce:       3,
			expectedErr: ErrInvalidNonce,
		},
		"exhausted": {
			stored:      math.MaxUint64,
			nonce:       math.MaxUint64,
			expectedErr: safemath.ErrOverflow,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			env := newEnvironment(t, envConfig{funded: []*secp256k1.PrivateKey{voter}})
			env.initialize()
			addr := txs.Address(voter)
			env.state.SetNonce(addr, test.stored)
			require.NoError(env.state.Commit())

			tx, err := txs.Sign(&txs.CreateStakeAccountTx{}, test.nonce, voter)
			require.NoError(err)
			_, err = env.execute(tx)
			require.ErrorIs(err, test.expectedErr)

			expected := test.stored
			if test.expectedErr == nil {
				expected++
			}
			nonce, err := env.state.GetNonce(addr)
			require.NoError(err)
			require.Equal(expected, nonce)
		})
	}
}

func TestRejectedTxKeepsNonce(t *testing.T) {
	require := require.New(t)

	voter := testKey(1)
	env := newEnvironment(t, envConfig{funded: []*secp256k1.PrivateKey{voter}})
	env.initialize()
	env.stake(voter, 0)
	addr := txs.Address(voter)

	before, err := env.state.GetNonce(addr)
	require.NoError(err)
	_, err = env.issue(voter, &txs.DelegateTx{Delegatee: ids.GenerateTestID()})
	require.ErrorIs(err, ErrUnknownStakeAccount)

	after, err := env.state.GetNonce(addr)
	require.NoError(err)
	require.Equal(before, after)
}

func TestRefundRentOverflow(t *testing.T) {
	require := require.New(t)

	env := newEnvironment(t, envConfig{})
	recipient := ids.ShortID{7}
	env.state.SetRentBalance(recipient, math.MaxUint64)

	e := &standardTxExecutor{
		backend: env.backend,
		state:   env.state,
	}
	require.ErrorIs(e.refundRent(recipient, 100), safemath.ErrOverflow)
}
