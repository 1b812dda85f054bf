// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package events defines the records an accepted operation emits.
package events

import "github.com/luxfi/ids"

// Event is emitted by an accepted operation.
type Event interface {
	Name() string
}

var (
	_ Event = (*DelegateChanged)(nil)
	_ Event = (*DelegateVotesChanged)(nil)
	_ Event = (*RecordedBalanceChanged)(nil)
	_ Event = (*RecordedVestingBalanceChanged)(nil)
	_ Event = (*VoteCast)(nil)
	_ Event = (*ProposalCreated)(nil)
	_ Event = (*WindowLengthSet)(nil)
	_ Event = (*GuardianSetAdded)(nil)
	_ Event = (*VestingCreated)(nil)
	_ Event = (*VestingCanceled)(nil)
	_ Event = (*VestingClaimed)(nil)
	_ Event = (*VestingTransferred)(nil)
	_ Event = (*VestingFinalized)(nil)
	_ Event = (*MessageReceived)(nil)
)

type DelegateChanged struct {
	Delegator           ids.ID `json:"delegator"`
	From                ids.ID `json:"from"`
	To                  ids.ID `json:"to"`
	TotalDelegatedVotes uint64 `json:"totalDelegatedVotes"`
}

func (*DelegateChanged) Name() string { return "DelegateChanged" }

type DelegateVotesChanged struct {
	Delegate      ids.ID `json:"delegate"`
	PreviousVotes uint64 `json:"previousVotes"`
	NewVotes      uint64 `json:"newVotes"`
}

func (*DelegateVotesChanged) Name() string { return "DelegateVotesChanged" }

type RecordedBalanceChanged struct {
	Owner              ids.ShortID `json:"owner"`
	PreviousBalance    uint64      `json:"previousBalance"`
	NewRecordedBalance uint64      `json:"newRecordedBalance"`
}

func (*RecordedBalanceChanged) Name() string { return "RecordedBalanceChanged" }

type RecordedVestingBalanceChanged struct {
	Owner                     ids.ShortID `json:"owner"`
	PreviousBalance           uint64      `json:"previousBalance"`
	NewRecordedVestingBalance uint64      `json:"newRecordedVestingBalance"`
}

func (*RecordedVestingBalanceChanged) Name() string { return "RecordedVestingBalanceChanged" }

type VoteCast struct {
	Voter      ids.ID `json:"voter"`
	ProposalID ids.ID `json:"proposalID"`
	Weight     uint64 `json:"weight"`
	Against    uint64 `json:"against"`
	For        uint64 `json:"for"`
	Abstain    uint64 `json:"abstain"`
}

func (*VoteCast) Name() string { return "VoteCast" }

type ProposalCreated struct {
	ProposalID ids.ID `json:"proposalID"`
	VoteStart  uint64 `json:"voteStart"`
}

func (*ProposalCreated) Name() string { return "ProposalCreated" }

type WindowLengthSet struct {
	Timestamp uint64 `json:"timestamp"`
	Length    uint64 `json:"length"`
}

func (*WindowLengthSet) Name() string { return "WindowLengthSet" }

type GuardianSetAdded struct {
	Index          uint32 `json:"index"`
	Guardians      int    `json:"guardians"`
	ExpirationTime uint32 `json:"expirationTime"`
}

func (*GuardianSetAdded) Name() string { return "GuardianSetAdded" }

type VestingCreated struct {
	Config     ids.ID      `json:"config"`
	Vester     ids.ShortID `json:"vester"`
	Maturation uint64      `json:"maturation"`
	Amount     uint64      `json:"amount"`
}

func (*VestingCreated) Name() string { return "VestingCreated" }

type VestingCanceled struct {
	Config     ids.ID      `json:"config"`
	Vester     ids.ShortID `json:"vester"`
	Maturation uint64      `json:"maturation"`
	Amount     uint64      `json:"amount"`
}

func (*VestingCanceled) Name() string { return "VestingCanceled" }

type VestingClaimed struct {
	Config     ids.ID      `json:"config"`
	Vester     ids.ShortID `json:"vester"`
	Maturation uint64      `json:"maturation"`
	Amount     uint64      `json:"amount"`
}

func (*VestingClaimed) Name() string { return "VestingClaimed" }

type VestingTransferred struct {
	Config     ids.ID      `json:"config"`
	Sender     ids.ShortID `json:"sender"`
	Recipient  ids.ShortID `json:"recipient"`
	Maturation uint64      `json:"maturation"`
	Amount     uint64      `json:"amount"`
}

func (*VestingTransferred) Name() string { return "VestingTransferred" }

type VestingFinalized struct {
	Config ids.ID `json:"config"`
	Vested uint64 `json:"vested"`
}

func (*VestingFinalized) Name() string { return "VestingFinalized" }

type MessageReceived struct {
	MessageID      ids.ID `json:"messageID"`
	EmitterChain   uint16 `json:"emitterChain"`
	EmitterAddress ids.ID `json:"emitterAddress"`
	Sequence       uint64 `json:"sequence"`
	Instructions   int    `json:"instructions"`
}

func (*MessageReceived) Name() string { return "MessageReceived" }
