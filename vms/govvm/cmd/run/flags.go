// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/luxfi/multigov/utils/profiler"
)

const (
	HTTPHostKey          = "http-host"
	HTTPPortKey          = "http-port"
	AllowedOriginsKey    = "http-allowed-origins"
	AllowedHostsKey      = "http-allowed-hosts"
	ReadHeaderTimeoutKey = "http-read-header-timeout"
	IdleTimeoutKey       = "http-idle-timeout"
	ShutdownTimeoutKey   = "http-shutdown-timeout"
	GenesisFileKey       = "genesis-file"
	ConfigFileKey        = "config-file"
	DataDirKey           = "data-dir"
	ProfileDirKey        = "profile-dir"
	ProfileFreqKey       = "profile-freq"
	ProfileMaxFilesKey   = "profile-max-files"
)

var errMissingGenesis = errors.New("genesis file is required")

func AddFlags(flags *pflag.FlagSet) {
	flags.String(HTTPHostKey, "127.0.0.1", "Address of the HTTP server")
	flags.Uint16(HTTPPortKey, 9660, "Port of the HTTP server")
	flags.StringSlice(AllowedOriginsKey, []string{"*"}, "Origins to allow on the HTTP port")
	flags.StringSlice(AllowedHostsKey, []string{"localhost"}, "Hostnames the HTTP server accepts requests for")
	flags.Duration(ReadHeaderTimeoutKey, 30*time.Second, "Maximum duration to read the request headers")
	flags.Duration(IdleTimeoutKey, 120*time.Second, "Maximum duration to wait for the next request on a keep-alive connection")
	flags.Duration(ShutdownTimeoutKey, 10*time.Second, "Maximum duration to wait for in-flight requests on shutdown")
	flags.String(GenesisFileKey, "", "Path of the genesis file (required)")
	flags.String(ConfigFileKey, "", "Path of the JSON execution config file")
	flags.String(DataDirKey, "", "Directory to persist state in. State is kept in memory when empty")
	flags.String(ProfileDirKey, "", "Directory to write continuous profiles to. Profiling is disabled when empty")
	flags.Duration(ProfileFreqKey, 15*time.Minute, "Frequency to rotate continuous profiles")
	flags.Int(ProfileMaxFilesKey, 5, "Maximum number of rotated profiles of each kind to keep")
}

type Config struct {
	HTTPAddress       string
	AllowedOrigins    []string
	AllowedHosts      []string
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	GenesisFile       string
	ConfigFile        string
	DataDir           string
	Profiler          profiler.Config
}

func ParseFlags(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	host, err := flags.GetString(HTTPHostKey)
	if err != nil {
		return nil, err
	}

	port, err := flags.GetUint16(HTTPPortKey)
	if err != nil {
		return nil, err
	}

	allowedOrigins, err := flags.GetStringSlice(AllowedOriginsKey)
	if err != nil {
		return nil, err
	}

	allowedHosts, err := flags.GetStringSlice(AllowedHostsKey)
	if err != nil {
		return nil, err
	}

	readHeaderTimeout, err := flags.GetDuration(ReadHeaderTimeoutKey)
	if err != nil {
		return nil, err
	}

	idleTimeout, err := flags.GetDuration(IdleTimeoutKey)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := flags.GetDuration(ShutdownTimeoutKey)
	if err != nil {
		return nil, err
	}

	genesisFile, err := flags.GetString(GenesisFileKey)
	if err != nil {
		return nil, err
	}
	if genesisFile == "" {
		return nil, fmt.Errorf("%w: set --%s", errMissingGenesis, GenesisFileKey)
	}

	configFile, err := flags.GetString(ConfigFileKey)
	if err != nil {
		return nil, err
	}

	dataDir, err := flags.GetString(DataDirKey)
	if err != nil {
		return nil, err
	}

	profileDir, err := flags.GetString(ProfileDirKey)
	if err != nil {
		return nil, err
	}

	profileFreq, err := flags.GetDuration(ProfileFreqKey)
	if err != nil {
		return nil, err
	}

	profileMaxFiles, err := flags.GetInt(ProfileMaxFilesKey)
	if err != nil {
		return nil, err
	}

	return &Config{
		HTTPAddress:       net.JoinHostPort(host, strconv.FormatUint(uint64(port), 10)),
		AllowedOrigins:    allowedOrigins,
		AllowedHosts:      allowedHosts,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
		ShutdownTimeout:   shutdownTimeout,
		GenesisFile:       genesisFile,
		ConfigFile:        configFile,
		DataDir:           dataDir,
		Profiler: profiler.Config{
			Dir:         profileDir,
			Freq:        profileFreq,
			MaxNumFiles: profileMaxFiles,
		},
	}, nil
}
