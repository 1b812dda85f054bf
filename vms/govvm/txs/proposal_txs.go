// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"errors"
	"fmt"
	"math"

	"github.com/luxfi/ids"

	"github.com/luxfi/multigov/vms/govvm/guardian"
)

var (
	_ UnsignedTx = (*PostSignaturesTx)(nil)
	_ UnsignedTx = (*CloseSignaturesTx)(nil)
	_ UnsignedTx = (*AddProposalTx)(nil)
	_ UnsignedTx = (*CastVoteTx)(nil)

	ErrNoSignatures        = errors.New("no signatures")
	ErrZeroTotalSignatures = errors.New("total signatures must be positive")
	ErrEmptyResponse       = errors.New("empty query response")
)

// PostSignaturesTx stages guardian signatures in batch [BatchID]. The first
// post creates the batch with the signer as its refund recipient.
type PostSignaturesTx struct {
	BatchID    ids.ID               `serialize:"true" json:"batchID"`
	Total      uint8                `serialize:"true" json:"total"`
	Signatures []guardian.Signature `serialize:"true" json:"signatures"`
}

func (tx *PostSignaturesTx) SyntacticVerify() error {
	switch {
	case tx.Total == 0:
		return ErrZeroTotalSignatures
	case len(tx.Signatures) == 0:
		return ErrNoSignatures
	case len(tx.Signatures) > math.MaxUint8:
		return fmt.Errorf("%w: %d", guardian.ErrTooManyGuardianSignatures, len(tx.Signatures))
	}
	return nil
}

func (tx *PostSignaturesTx) Visit(visitor Visitor) error {
	return visitor.PostSignaturesTx(tx)
}

// CloseSignaturesTx discards an unused batch.
type CloseSignaturesTx struct {
	BatchID ids.ID `serialize:"true" json:"batchID"`
}

func (*CloseSignaturesTx) SyntacticVerify() error {
	return nil
}

func (tx *CloseSignaturesTx) Visit(visitor Visitor) error {
	return visitor.CloseSignaturesTx(tx)
}

// AddProposalTx admits a hub proposal attested by the guardian signatures
// staged in [SignatureBatch].
type AddProposalTx struct {
	ProposalID       ids.ID `serialize:"true" json:"proposalID"`
	Response         []byte `serialize:"true" json:"response"`
	GuardianSetIndex uint32 `serialize:"true" json:"guardianSetIndex"`
	SignatureBatch   ids.ID `serialize:"true" json:"signatureBatch"`
}

func (tx *AddProposalTx) SyntacticVerify() error {
	if len(tx.Response) == 0 {
		return ErrEmptyResponse
	}
	return nil
}

func (tx *AddProposalTx) Visit(visitor Visitor) error {
	return visitor.AddProposalTx(tx)
}

// CastVoteTx votes with the signer's windowed weight. [CheckpointSegment] is
// the segment of the signer's checkpoints covering the window start; when
// the window continues past that segment, [HasNextSegment] and
// [NextCheckpointSegment] supply the following one.
type CastVoteTx struct {
	ProposalID            ids.ID `serialize:"true" json:"proposalID"`
	AgainstVotes          uint64 `serialize:"true" json:"againstVotes"`
	ForVotes              uint64 `serialize:"true" json:"forVotes"`
	AbstainVotes          uint64 `serialize:"true" json:"abstainVotes"`
	CheckpointSegment     uint8  `serialize:"true" json:"checkpointSegment"`
	HasNextSegment        bool   `serialize:"true" json:"hasNextSegment"`
	NextCheckpointSegment uint8  `serialize:"true" json:"nextCheckpointSegment"`
}

func (*CastVoteTx) SyntacticVerify() error {
	return nil
}

func (tx *CastVoteTx) Visit(visitor Visitor) error {
	return visitor.CastVoteTx(tx)
}
