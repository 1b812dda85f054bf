// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package statetest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/database"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/log"

	"github.com/luxfi/multigov/vms/govvm/config"
	"github.com/luxfi/multigov/vms/govvm/genesis"
	"github.com/luxfi/multigov/vms/govvm/state"
)

type Config struct {
	DB      database.Database
	Genesis *genesis.Genesis
	Config  *config.Config
	Log     log.Logger
}

func New(t testing.TB, c Config) state.State {
	if c.DB == nil {
		c.DB = memdb.New()
	}
	if c.Genesis == nil {
		c.Genesis = &genesis.Genesis{}
	}
	if c.Config == nil {
		cfg := config.Default
		c.Config = &cfg
	}
	if c.Log == nil {
		c.Log = log.NewNoOpLogger()
	}

	s, err := state.New(c.DB, c.Genesis, c.Config, c.Log)
	require.NoError(t, err)
	return s
}
