// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
)

func proposalQuery(t *testing.T, mutate func(*QueryResponse)) []byte {
	t.Helper()
	data := &ProposalData{
		Contract:   ids.ShortID{0x01},
		ProposalID: ids.ID{0x02},
		VoteStart:  1_700_000_000,
	}
	q := &QueryResponse{
		ChainID:  2,
		Finality: Finalized,
		To:       data.Contract,
		CallData: ProposalCallData(data.ProposalID),
		Result:   ProposalResult(data),
	}
	if mutate != nil {
		mutate(q)
	}
	b, err := q.Bytes()
	require.NoError(t, err)
	return b
}

func TestParseProposalQuery(t *testing.T) {
	require := require.New(t)

	q, data, err := ParseProposalQuery(proposalQuery(t, nil))
	require.NoError(err)
	require.Equal(uint16(2), q.ChainID)
	require.Equal(ids.ShortID{0x01}, q.To)
	require.Equal(&ProposalData{
		Contract:   ids.ShortID{0x01},
		ProposalID: ids.ID{0x02},
		VoteStart:  1_700_000_000,
	}, data)
}

func TestParseProposalQueryErrors(t *testing.T) {
	tests := map[string]struct {
		mutate func(*QueryResponse)
		err    error
	}{
		"not finalized": {
			mutate: func(q *QueryResponse) { q.Finality = "safe" },
			err:    ErrInvalidQueryFinality,
		},
		"wrong selector": {
			mutate: func(q *QueryResponse) { q.CallData[0] = 0 },
			err:    ErrInvalidFunctionSignature,
		},
		"short call data": {
			mutate: func(q *QueryResponse) { q.CallData = q.CallData[:2] },
			err:    ErrInvalidFunctionSignature,
		},
		"short result": {
			mutate: func(q *QueryResponse) { q.Result = q.Result[:ProposalResultLen-1] },
			err:    ErrInvalidResultLength,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseProposalQuery(proposalQuery(t, tt.mutate))
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseQueryResponseTruncated(t *testing.T) {
	b := proposalQuery(t, nil)
	_, err := ParseQueryResponse(b[:len(b)-1])
	require.Error(t, err)
}

func TestEnvelope(t *testing.T) {
	require := require.New(t)

	e := &Envelope{
		EmitterChain:   2,
		EmitterAddress: ids.ID{0xfe},
		Sequence:       9,
		Payload:        []byte{1, 2, 3},
	}
	b, err := e.Bytes()
	require.NoError(err)
	require.Equal([]byte{0, 2, 0xfe}, b[:3])

	parsed, err := ParseEnvelope(b)
	require.NoError(err)
	require.Equal(e, parsed)

	_, err = ParseEnvelope(b[:10])
	require.Error(err)
}

func TestMessageABI(t *testing.T) {
	require := require.New(t)

	msg := &Message{
		MessageID:       uint256.NewInt(1),
		WormholeChainID: uint256.NewInt(1),
		Instructions: []Instruction{
			{
				ProgramID: ids.ID{0x22},
				Accounts: []AccountMeta{
					{Pubkey: ids.ID{0x11}, IsSigner: true, IsWritable: true},
					{Pubkey: ids.ID{0x33}, IsWritable: true},
				},
				Data: []byte{0x01, 0x02, 0x03},
			},
			{
				ProgramID: ids.ID{0x44},
				Accounts:  []AccountMeta{},
				Data:      make([]byte, 40),
			},
		},
	}
	b := msg.Bytes()
	require.Zero(len(b) % wordLen)

	// outer tuple offset then the two uint256 heads
	require.Equal(uint64(32), new(uint256.Int).SetBytes32(b[:32]).Uint64())
	require.Equal(uint64(1), new(uint256.Int).SetBytes32(b[32:64]).Uint64())

	parsed, err := ParseMessage(b)
	require.NoError(err)
	require.Equal(msg, parsed)
	require.Equal(ids.ID{31: 1}, parsed.ID())
}

func TestParseMessageErrors(t *testing.T) {
	valid := (&Message{
		MessageID:       uint256.NewInt(7),
		WormholeChainID: uint256.NewInt(1),
		Instructions: []Instruction{{
			ProgramID: ids.ID{1},
			Accounts:  []AccountMeta{{Pubkey: ids.ID{2}}},
			Data:      []byte{9},
		}},
	}).Bytes()

	tests := map[string]struct {
		bytes func() []byte
		err   error
	}{
		"empty": {
			bytes: func() []byte { return nil },
			err:   errOffsetOutOfRange,
		},
		"truncated": {
			bytes: func() []byte { return valid[:len(valid)-40] },
			err:   errOffsetOutOfRange,
		},
		"bad bool": {
			bytes: func() []byte {
				b := append([]byte(nil), valid...)
				// is_signer word of the first account
				b[len(b)-3*wordLen-1] = 2
				return b
			},
			err: errInvalidBool,
		},
		"huge offset": {
			bytes: func() []byte {
				b := append([]byte(nil), valid...)
				b[0] = 0xff
				return b
			},
			err: errNotUint64,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseMessage(tt.bytes())
			require.ErrorIs(t, err, ErrInvalidABIEncoding)
			require.ErrorIs(t, err, tt.err)
		})
	}
}
