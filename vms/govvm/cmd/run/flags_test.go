// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/multigov/utils/profiler"
)

func TestParseFlags(t *testing.T) {
	require := require.New(t)

	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	AddFlags(flags)
	config, err := ParseFlags(flags, []string{
		"--" + GenesisFileKey, "genesis.bin",
		"--" + HTTPPortKey, "8080",
		"--" + AllowedHostsKey, "gov.example.com,localhost",
		"--" + ShutdownTimeoutKey, "3s",
	})
	require.NoError(err)
	require.Equal(&Config{
		HTTPAddress:       "127.0.0.1:8080",
		AllowedOrigins:    []string{"*"},
		AllowedHosts:      []string{"gov.example.com", "localhost"},
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   3 * time.Second,
		GenesisFile:       "genesis.bin",
		Profiler: profiler.Config{
			Freq:        15 * time.Minute,
			MaxNumFiles: 5,
		},
	}, config)
}

func TestParseFlagsMissingGenesis(t *testing.T) {
	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	AddFlags(flags)
	_, err := ParseFlags(flags, nil)
	require.ErrorIs(t, err, errMissingGenesis)
}
