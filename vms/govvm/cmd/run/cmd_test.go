// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/multigov/vms/govvm/genesis"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeGenesis(t *testing.T) string {
	g := &genesis.Genesis{
		Initializer: ids.ShortID{1},
		Allocations: []genesis.Allocation{{
			Address:      ids.ShortID{1},
			TokenBalance: 100,
		}},
	}
	genesisBytes, err := g.Bytes()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "genesis.bin")
	require.NoError(t, os.WriteFile(path, genesisBytes, 0o600))
	return path
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, log.NewNoOpLogger(), &Config{
		HTTPAddress:     "127.0.0.1:0",
		AllowedOrigins:  []string{"*"},
		AllowedHosts:    []string{"localhost"},
		ShutdownTimeout: time.Second,
		GenesisFile:     writeGenesis(t),
	})
	require.NoError(t, err)
}

func TestRunMissingGenesis(t *testing.T) {
	err := Run(context.Background(), log.NewNoOpLogger(), &Config{
		GenesisFile: filepath.Join(t.TempDir(), "missing"),
	})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunInvalidConfig(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configFile, []byte(`{"max-checkpoints-per-segment":1}`), 0o600))

	err := Run(context.Background(), log.NewNoOpLogger(), &Config{
		GenesisFile: writeGenesis(t),
		ConfigFile:  configFile,
	})
	require.ErrorContains(t, err, "failed to parse config")
}
