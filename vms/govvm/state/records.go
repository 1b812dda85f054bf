// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"bytes"

	"github.com/luxfi/ids"

	"github.com/luxfi/multigov/utils/hashing"
)

// GlobalConfig holds the governance-wide authorities.
type GlobalConfig struct {
	GovernanceAuthority ids.ShortID `serialize:"true" json:"governanceAuthority"`
	VestingAdmin        ids.ShortID `serialize:"true" json:"vestingAdmin"`
}

// SpokeMetadataCollector identifies the hub contract proposals are read from.
type SpokeMetadataCollector struct {
	HubChainID          uint16      `serialize:"true" json:"hubChainID"`
	HubProposalMetadata ids.ShortID `serialize:"true" json:"hubProposalMetadata"`
	SafeWindow          uint64      `serialize:"true" json:"safeWindow"`
}

// SpokeMessageExecutor identifies the hub emitter whose messages may run
// instruction lists here.
type SpokeMessageExecutor struct {
	HubDispatcher ids.ID `serialize:"true" json:"hubDispatcher"`
	HubChainID    uint16 `serialize:"true" json:"hubChainID"`
	SpokeChainID  uint16 `serialize:"true" json:"spokeChainID"`
}

// StakeAccountMetadata is the delegation state of one subject.
// RecordedBalance + RecordedVestingBalance is what the subject contributes to
// its delegate's checkpoints.
type StakeAccountMetadata struct {
	Owner                      ids.ShortID `serialize:"true" json:"owner"`
	Delegate                   ids.ID      `serialize:"true" json:"delegate"`
	RecordedBalance            uint64      `serialize:"true" json:"recordedBalance"`
	RecordedVestingBalance     uint64      `serialize:"true" json:"recordedVestingBalance"`
	LastCheckpointSegmentIndex uint8       `serialize:"true" json:"lastCheckpointSegmentIndex"`
}

func (m *StakeAccountMetadata) IsDelegated() bool {
	return m.Delegate != ids.Empty
}

type Proposal struct {
	ID           ids.ID `serialize:"true" json:"id"`
	VoteStart    uint64 `serialize:"true" json:"voteStart"`
	AgainstVotes uint64 `serialize:"true" json:"againstVotes"`
	ForVotes     uint64 `serialize:"true" json:"forVotes"`
	AbstainVotes uint64 `serialize:"true" json:"abstainVotes"`
}

// Less orders proposals by vote start, then id.
func (p Proposal) Less(o Proposal) bool {
	if p.VoteStart != o.VoteStart {
		return p.VoteStart < o.VoteStart
	}
	return bytes.Compare(p.ID[:], o.ID[:]) < 0
}

type VestingConfig struct {
	ID        ids.ID      `serialize:"true" json:"id"`
	Admin     ids.ShortID `serialize:"true" json:"admin"`
	Vested    uint64      `serialize:"true" json:"vested"`
	Finalized bool        `serialize:"true" json:"finalized"`
}

type Vesting struct {
	Config     ids.ID      `serialize:"true" json:"config"`
	Vester     ids.ShortID `serialize:"true" json:"vester"`
	Maturation uint64      `serialize:"true" json:"maturation"`
	Amount     uint64      `serialize:"true" json:"amount"`
}

// VestingBalance totals one vester's vests under a config. A non-empty
// StakeAccountMetadata links the total into that subject's recorded vesting
// balance.
type VestingBalance struct {
	Config               ids.ID      `serialize:"true" json:"config"`
	Vester               ids.ShortID `serialize:"true" json:"vester"`
	StakeAccountMetadata ids.ID      `serialize:"true" json:"stakeAccountMetadata"`
	TotalVestingBalance  uint64      `serialize:"true" json:"totalVestingBalance"`
}

func (b *VestingBalance) IsLinked() bool {
	return b.StakeAccountMetadata != ids.Empty
}

// StakeAccountID derives the subject id owned by [owner].
func StakeAccountID(owner ids.ShortID) ids.ID {
	return hashing.DeriveID("stake_metadata", owner[:])
}

// WalletAccount derives the liquid token account of [owner].
func WalletAccount(owner ids.ShortID) ids.ID {
	return hashing.DeriveID("wallet", owner[:])
}

// CustodyAccount derives the token account holding a subject's stake.
func CustodyAccount(subject ids.ID) ids.ID {
	return hashing.DeriveID("custody", subject[:])
}

// VaultAccount derives the token account holding a vesting config's tokens.
func VaultAccount(config ids.ID) ids.ID {
	return hashing.DeriveID("vault", config[:])
}

// WindowLengthsOwner owns the global window length store.
var WindowLengthsOwner = hashing.DeriveID("vote_weight_window_lengths")
