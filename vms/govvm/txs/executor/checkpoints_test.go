// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	"github.com/luxfi/multigov/vms/govvm/checkpoint"
	"github.com/luxfi/multigov/vms/govvm/config"
	"github.com/luxfi/multigov/vms/govvm/state"
)

func TestPushIntoFullLastSegment(t *testing.T) {
	require := require.New(t)

	cfg := config.Default
	cfg.MaxCheckpointsPerSegment = 2
	env := newEnvironment(t, envConfig{config: &cfg})

	delegate := ids.GenerateTestID()
	env.state.SetStakeAccount(delegate, state.StakeAccountMetadata{
		Owner:                      ids.ShortID{1},
		Delegate:                   delegate,
		LastCheckpointSegmentIndex: math.MaxUint8,
	})
	env.state.PutCheckpoints(math.MaxUint8, newStore(t, delegate,
		checkpoint.Checkpoint{Timestamp: 5, Value: 10},
		checkpoint.Checkpoint{Timestamp: 7, Value: 12},
	))
	require.NoError(env.state.Commit())

	e := &standardTxExecutor{
		backend: env.backend,
		state:   env.state,
		now:     7,
	}
	// Overwriting the latest checkpoint adds nothing.
	require.NoError(e.pushCheckpoint(delegate, 3, checkpoint.Add))
	require.Equal([]checkpoint.Checkpoint{
		{Timestamp: 5, Value: 10},
		{Timestamp: 7, Value: 15},
	}, env.checkpoints(delegate, math.MaxUint8))
	require.Equal(uint8(math.MaxUint8), env.metadata(delegate).LastCheckpointSegmentIndex)

	e.now = 8
	err := e.pushCheckpoint(delegate, 1, checkpoint.Add)
	require.ErrorIs(err, ErrTooManyCheckpoints)
}
