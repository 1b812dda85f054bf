// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package govvm

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/multigov/utils/json"
	"github.com/luxfi/multigov/vms/govvm/checkpoint"
	"github.com/luxfi/multigov/vms/govvm/events"
	"github.com/luxfi/multigov/vms/govvm/state"
	"github.com/luxfi/multigov/vms/govvm/txs"
)

const (
	// maxProposals bounds a single getProposals page.
	maxProposals = 1024

	hexPrefix = "0x"
)

var errMissingHexPrefix = errors.New("missing 0x prefix")

// Service is the JSON-RPC API of the governance VM.
type Service struct {
	vm *VM
}

// EncodeHex returns [b] as 0x-prefixed hex, the encoding the API accepts
// operations in.
func EncodeHex(b []byte) string {
	return hexPrefix + hex.EncodeToString(b)
}

func decodeHex(s string) ([]byte, error) {
	if !strings.HasPrefix(s, hexPrefix) {
		return nil, errMissingHexPrefix
	}
	return hex.DecodeString(s[len(hexPrefix):])
}

type IssueTxArgs struct {
	Tx string `json:"tx"`
}

type APIEvent struct {
	Name  string       `json:"name"`
	Event events.Event `json:"event"`
}

type IssueTxReply struct {
	TxID   ids.ID      `json:"txID"`
	Signer ids.ShortID `json:"signer"`
	Events []APIEvent  `json:"events"`
}

// IssueTx executes a signed operation and returns the events it emitted.
func (s *Service) IssueTx(_ *http.Request, args *IssueTxArgs, reply *IssueTxReply) error {
	s.vm.log.Debug("API called",
		log.String("service", Name),
		log.String("method", "issueTx"),
	)

	txBytes, err := decodeHex(args.Tx)
	if err != nil {
		return fmt.Errorf("problem decoding transaction: %w", err)
	}
	tx, err := txs.Parse(txBytes)
	if err != nil {
		return fmt.Errorf("problem parsing transaction: %w", err)
	}
	emitted, err := s.vm.IssueTx(tx)
	if err != nil {
		return err
	}

	reply.TxID = tx.ID()
	reply.Signer = tx.Signer()
	reply.Events = make([]APIEvent, len(emitted))
	for i, e := range emitted {
		reply.Events[i] = APIEvent{
			Name:  e.Name(),
			Event: e,
		}
	}
	return nil
}

type GetStakeAccountArgs struct {
	Owner ids.ShortID `json:"owner"`
}

type GetStakeAccountReply struct {
	Subject                    ids.ID      `json:"subject"`
	Owner                      ids.ShortID `json:"owner"`
	Delegate                   ids.ID      `json:"delegate"`
	RecordedBalance            json.Uint64 `json:"recordedBalance"`
	RecordedVestingBalance     json.Uint64 `json:"recordedVestingBalance"`
	LastCheckpointSegmentIndex json.Uint8  `json:"lastCheckpointSegmentIndex"`
}

// GetStakeAccount returns the delegation state of [Owner]'s stake account.
func (s *Service) GetStakeAccount(_ *http.Request, args *GetStakeAccountArgs, reply *GetStakeAccountReply) error {
	s.vm.log.Debug("API called",
		log.String("service", Name),
		log.String("method", "getStakeAccount"),
		log.Stringer("owner", args.Owner),
	)

	subject := state.StakeAccountID(args.Owner)
	metadata, err := s.vm.GetStakeAccount(subject)
	if err != nil {
		return fmt.Errorf("couldn't get stake account %s: %w", subject, err)
	}
	reply.Subject = subject
	reply.Owner = metadata.Owner
	reply.Delegate = metadata.Delegate
	reply.RecordedBalance = json.Uint64(metadata.RecordedBalance)
	reply.RecordedVestingBalance = json.Uint64(metadata.RecordedVestingBalance)
	reply.LastCheckpointSegmentIndex = json.Uint8(metadata.LastCheckpointSegmentIndex)
	return nil
}

type GetNonceArgs struct {
	Address ids.ShortID `json:"address"`
}

type GetNonceReply struct {
	Nonce json.Uint64 `json:"nonce"`
}

// GetNonce returns the nonce [Address] must sign its next operation with.
func (s *Service) GetNonce(_ *http.Request, args *GetNonceArgs, reply *GetNonceReply) error {
	s.vm.log.Debug("API called",
		log.String("service", Name),
		log.String("method", "getNonce"),
		log.Stringer("address", args.Address),
	)

	nonce, err := s.vm.GetNonce(args.Address)
	if err != nil {
		return fmt.Errorf("couldn't get nonce of %s: %w", args.Address, err)
	}
	reply.Nonce = json.Uint64(nonce)
	return nil
}

type APICheckpoint struct {
	Timestamp json.Uint64 `json:"timestamp"`
	Value     json.Uint64 `json:"value"`
}

func apiCheckpoints(checkpoints []checkpoint.Checkpoint) []APICheckpoint {
	out := make([]APICheckpoint, len(checkpoints))
	for i, c := range checkpoints {
		out[i] = APICheckpoint{
			Timestamp: json.Uint64(c.Timestamp),
			Value:     json.Uint64(c.Value),
		}
	}
	return out
}

type GetCheckpointsArgs struct {
	Subject ids.ID     `json:"subject"`
	Segment json.Uint8 `json:"segment"`
}

type GetCheckpointsReply struct {
	Checkpoints []APICheckpoint `json:"checkpoints"`
}

// GetCheckpoints returns one segment of a delegate's vote history.
func (s *Service) GetCheckpoints(_ *http.Request, args *GetCheckpointsArgs, reply *GetCheckpointsReply) error {
	s.vm.log.Debug("API called",
		log.String("service", Name),
		log.String("method", "getCheckpoints"),
		log.Stringer("subject", args.Subject),
	)

	checkpoints, err := s.vm.GetCheckpoints(args.Subject, uint8(args.Segment))
	if err != nil {
		return fmt.Errorf("couldn't get segment %d of %s: %w", args.Segment, args.Subject, err)
	}
	reply.Checkpoints = apiCheckpoints(checkpoints)
	return nil
}

// GetWindowLengths returns the vote weight window length history.
func (s *Service) GetWindowLengths(_ *http.Request, _ *struct{}, reply *GetCheckpointsReply) error {
	s.vm.log.Debug("API called",
		log.String("service", Name),
		log.String("method", "getWindowLengths"),
	)

	checkpoints, err := s.vm.GetWindowLengths()
	if err != nil {
		return fmt.Errorf("couldn't get window lengths: %w", err)
	}
	reply.Checkpoints = apiCheckpoints(checkpoints)
	return nil
}

type APIProposal struct {
	ID           ids.ID      `json:"id"`
	VoteStart    json.Uint64 `json:"voteStart"`
	AgainstVotes json.Uint64 `json:"againstVotes"`
	ForVotes     json.Uint64 `json:"forVotes"`
	AbstainVotes json.Uint64 `json:"abstainVotes"`
}

func apiProposal(p state.Proposal) APIProposal {
	return APIProposal{
		ID:           p.ID,
		VoteStart:    json.Uint64(p.VoteStart),
		AgainstVotes: json.Uint64(p.AgainstVotes),
		ForVotes:     json.Uint64(p.ForVotes),
		AbstainVotes: json.Uint64(p.AbstainVotes),
	}
}

type GetProposalArgs struct {
	ProposalID ids.ID `json:"proposalID"`
}

func (s *Service) GetProposal(_ *http.Request, args *GetProposalArgs, reply *APIProposal) error {
	s.vm.log.Debug("API called",
		log.String("service", Name),
		log.String("method", "getProposal"),
		log.Stringer("proposalID", args.ProposalID),
	)

	proposal, err := s.vm.GetProposal(args.ProposalID)
	if err != nil {
		return fmt.Errorf("couldn't get proposal %s: %w", args.ProposalID, err)
	}
	*reply = apiProposal(proposal)
	return nil
}

type GetProposalsArgs struct {
	VoteStart json.Uint64 `json:"voteStart"`
	Limit     json.Uint32 `json:"limit"`
}

type GetProposalsReply struct {
	Proposals []APIProposal `json:"proposals"`
}

// GetProposals pages through proposals in vote start order, beginning at
// [VoteStart].
func (s *Service) GetProposals(_ *http.Request, args *GetProposalsArgs, reply *GetProposalsReply) error {
	s.vm.log.Debug("API called",
		log.String("service", Name),
		log.String("method", "getProposals"),
		log.Uint64("voteStart", uint64(args.VoteStart)),
	)

	limit := int(args.Limit)
	if limit <= 0 || limit > maxProposals {
		limit = maxProposals
	}
	proposals := s.vm.GetProposals(uint64(args.VoteStart), limit)
	reply.Proposals = make([]APIProposal, len(proposals))
	for i, p := range proposals {
		reply.Proposals[i] = apiProposal(p)
	}
	return nil
}

type GetConfigReply struct {
	GovernanceAuthority ids.ShortID `json:"governanceAuthority"`
	VestingAdmin        ids.ShortID `json:"vestingAdmin"`
	HubChainID          json.Uint16 `json:"hubChainID"`
	HubProposalMetadata ids.ShortID `json:"hubProposalMetadata"`
	SafeWindow          json.Uint64 `json:"safeWindow"`
	HubDispatcher       ids.ID      `json:"hubDispatcher"`
	SpokeChainID        json.Uint16 `json:"spokeChainID"`
}

// GetConfig returns the governance authorities and the hub the spoke
// follows.
func (s *Service) GetConfig(_ *http.Request, _ *struct{}, reply *GetConfigReply) error {
	s.vm.log.Debug("API called",
		log.String("service", Name),
		log.String("method", "getConfig"),
	)

	global, collector, spoke, err := s.vm.GetConfig()
	if err != nil {
		return fmt.Errorf("couldn't get config: %w", err)
	}
	reply.GovernanceAuthority = global.GovernanceAuthority
	reply.VestingAdmin = global.VestingAdmin
	reply.HubChainID = json.Uint16(collector.HubChainID)
	reply.HubProposalMetadata = collector.HubProposalMetadata
	reply.SafeWindow = json.Uint64(collector.SafeWindow)
	reply.HubDispatcher = spoke.HubDispatcher
	reply.SpokeChainID = json.Uint16(spoke.SpokeChainID)
	return nil
}

type GetVestingBalanceArgs struct {
	ConfigID ids.ID      `json:"configID"`
	Vester   ids.ShortID `json:"vester"`
}

type GetVestingBalanceReply struct {
	StakeAccount        ids.ID      `json:"stakeAccount"`
	TotalVestingBalance json.Uint64 `json:"totalVestingBalance"`
}

func (s *Service) GetVestingBalance(_ *http.Request, args *GetVestingBalanceArgs, reply *GetVestingBalanceReply) error {
	s.vm.log.Debug("API called",
		log.String("service", Name),
		log.String("method", "getVestingBalance"),
		log.Stringer("vester", args.Vester),
	)

	balance, err := s.vm.GetVestingBalance(args.ConfigID, args.Vester)
	if err != nil {
		return fmt.Errorf("couldn't get vesting balance of %s: %w", args.Vester, err)
	}
	reply.StakeAccount = balance.StakeAccountMetadata
	reply.TotalVestingBalance = json.Uint64(balance.TotalVestingBalance)
	return nil
}
