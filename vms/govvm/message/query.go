// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package message decodes the payloads admitted from the hub chain: query
// responses that carry proposal metadata, and observed message envelopes
// that carry ABI-encoded instruction lists.
package message

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/luxfi/ids"

	"github.com/luxfi/multigov/utils/wrappers"
)

const (
	// Finalized is the only finality accepted for proposal queries.
	Finalized = "finalized"

	// ProposalResultLen is contract[20] | proposal_id[32] | vote_start u64.
	ProposalResultLen = wrappers.AddressLen + ids.IDLen + wrappers.LongLen

	maxCallDataLen = 1 << 12
	maxResultLen   = 1 << 12
)

// ProposalDataSelector is the selector of getProposalMetadata(uint256).
var ProposalDataSelector = [4]byte{0xeb, 0x9b, 0x98, 0x38}

var (
	ErrInvalidQueryFinality     = errors.New("invalid query finality")
	ErrInvalidFunctionSignature = errors.New("invalid function signature")
	ErrInvalidResultLength      = errors.New("invalid result length")
)

// QueryResponse is a guardian-signed eth_call result against the hub chain.
type QueryResponse struct {
	ChainID  uint16
	Finality string
	To       ids.ShortID
	CallData []byte
	Result   []byte
}

// Bytes encodes chain_id u16 | finality str8 | to[20] | call_data bytes32 |
// result bytes32, integers little-endian.
func (q *QueryResponse) Bytes() ([]byte, error) {
	p := wrappers.NewLEPacker(nil, math.MaxInt32)
	p.PackShort(q.ChainID)
	p.PackStr(q.Finality)
	p.PackFixedBytes(q.To[:])
	p.PackBytes(q.CallData)
	p.PackBytes(q.Result)
	return p.Bytes, p.Err
}

func ParseQueryResponse(b []byte) (*QueryResponse, error) {
	p := wrappers.NewLEPacker(b, len(b))
	q := &QueryResponse{
		ChainID:  p.UnpackShort(),
		Finality: p.UnpackStr(),
	}
	copy(q.To[:], p.UnpackFixedBytes(wrappers.AddressLen))
	q.CallData = bytes.Clone(p.UnpackLimitedBytes(maxCallDataLen))
	q.Result = bytes.Clone(p.UnpackLimitedBytes(maxResultLen))
	p.Done()
	if p.Errored() {
		return nil, fmt.Errorf("couldn't parse query response: %w", p.Err)
	}
	return q, nil
}

// ProposalData is the decoded result of a proposal metadata query.
type ProposalData struct {
	Contract   ids.ShortID
	ProposalID ids.ID
	VoteStart  uint64
}

// ParseProposalQuery decodes a query response and checks that it is a
// finalized call of the proposal metadata getter.
func ParseProposalQuery(b []byte) (*QueryResponse, *ProposalData, error) {
	q, err := ParseQueryResponse(b)
	if err != nil {
		return nil, nil, err
	}
	if q.Finality != Finalized {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidQueryFinality, q.Finality)
	}
	if len(q.CallData) < len(ProposalDataSelector) || !bytes.Equal(q.CallData[:len(ProposalDataSelector)], ProposalDataSelector[:]) {
		return nil, nil, ErrInvalidFunctionSignature
	}
	if len(q.Result) != ProposalResultLen {
		return nil, nil, fmt.Errorf("%w: %d != %d", ErrInvalidResultLength, len(q.Result), ProposalResultLen)
	}

	p := wrappers.NewLEPacker(q.Result, len(q.Result))
	data := &ProposalData{}
	copy(data.Contract[:], p.UnpackFixedBytes(wrappers.AddressLen))
	copy(data.ProposalID[:], p.UnpackFixedBytes(ids.IDLen))
	data.VoteStart = p.UnpackLong()
	return q, data, p.Err
}

// ProposalResult encodes the 60-byte proposal metadata result.
func ProposalResult(data *ProposalData) []byte {
	p := wrappers.NewLEPacker(make([]byte, 0, ProposalResultLen), ProposalResultLen)
	p.PackFixedBytes(data.Contract[:])
	p.PackFixedBytes(data.ProposalID[:])
	p.PackLong(data.VoteStart)
	return p.Bytes
}

// ProposalCallData encodes the getter call for [proposalID].
func ProposalCallData(proposalID ids.ID) []byte {
	return append(ProposalDataSelector[:], proposalID[:]...)
}
