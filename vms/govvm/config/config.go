// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/luxfi/multigov/vms/govvm/rent"
)

const (
	// MaxVoteWeightWindowLength is the protocol bound on a window length.
	MaxVoteWeightWindowLength = 850
	// DefaultSafeWindow is recorded in the spoke metadata collector when an
	// initialization leaves it unset.
	DefaultSafeWindow = 24 * 60 * 60
)

var (
	errSmallSegmentSize   = errors.New("max checkpoints per segment must be at least 2")
	errWindowLengthBound  = errors.New("max vote weight window length exceeds protocol maximum")
	errNegativeCacheSizes = errors.New("cache sizes must be non-negative")
)

var Default = Config{
	MaxCheckpointsPerSegment:  654_998,
	MaxVoteWeightWindowLength: MaxVoteWeightWindowLength,
	SafeWindow:                DefaultSafeWindow,
	GuardianSetTTL:            24 * time.Hour,
	Rent:                      rent.DefaultConfig,
	StakeAccountCacheSize:     4096,
	CheckpointCacheSize:       1024,
	ProposalCacheSize:         2048,
}

// Config provides the execution parameters of the governance VM.
type Config struct {
	// MaxCheckpointsPerSegment bounds one checkpoint store segment before
	// writes move to the next segment.
	MaxCheckpointsPerSegment  uint64        `json:"max-checkpoints-per-segment"`
	MaxVoteWeightWindowLength uint64        `json:"max-vote-weight-window-length"`
	SafeWindow                uint64        `json:"safe-window"`
	GuardianSetTTL            time.Duration `json:"guardian-set-ttl"`
	Rent                      rent.Config   `json:"rent"`
	StakeAccountCacheSize     int           `json:"stake-account-cache-size"`
	CheckpointCacheSize       int           `json:"checkpoint-cache-size"`
	ProposalCacheSize         int           `json:"proposal-cache-size"`
	// MockClockTime, when non-zero, pins the VM clock to this unix time.
	MockClockTime uint64 `json:"mock-clock-time"`
}

func (c *Config) Verify() error {
	switch {
	case c.MaxCheckpointsPerSegment < 2:
		return errSmallSegmentSize
	case c.MaxVoteWeightWindowLength > MaxVoteWeightWindowLength:
		return fmt.Errorf("%w: %d > %d", errWindowLengthBound, c.MaxVoteWeightWindowLength, MaxVoteWeightWindowLength)
	case c.StakeAccountCacheSize < 0 || c.CheckpointCacheSize < 0 || c.ProposalCacheSize < 0:
		return errNegativeCacheSizes
	default:
		return nil
	}
}

// GetConfig returns a Config with [b] unmarshalled over the defaults.
func GetConfig(b []byte) (*Config, error) {
	c := Default

	// if bytes are empty keep default values
	if len(b) > 0 {
		if err := json.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}
	return &c, c.Verify()
}
