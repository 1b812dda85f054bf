// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"

	"github.com/luxfi/multigov/utils/hashing"
	"github.com/luxfi/multigov/vms/govvm/events"
	"github.com/luxfi/multigov/vms/govvm/guardian"
	"github.com/luxfi/multigov/vms/govvm/message"
	"github.com/luxfi/multigov/vms/govvm/state"
	"github.com/luxfi/multigov/vms/govvm/txs"
)

func (e *standardTxExecutor) PostSignaturesTx(tx *txs.PostSignaturesTx) error {
	var oldSize uint64
	batch, err := e.state.GetSignatureBatch(tx.BatchID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		batch = &guardian.SignatureBatch{
			RefundRecipient: e.signer,
			Total:           tx.Total,
		}
	case err != nil:
		return err
	default:
		oldSize = batch.Size()
	}

	if err := batch.Append(e.signer, tx.Signatures); err != nil {
		return err
	}
	if err := e.chargeRent(oldSize, batch.Size()); err != nil {
		return err
	}
	e.state.SetSignatureBatch(tx.BatchID, batch)
	return nil
}

func (e *standardTxExecutor) CloseSignaturesTx(tx *txs.CloseSignaturesTx) error {
	batch, err := e.signatureBatch(tx.BatchID)
	if err != nil {
		return err
	}
	if e.signer != batch.RefundRecipient {
		return fmt.Errorf("%w: %s is not %s", guardian.ErrWriteAuthorityMismatch, e.signer, batch.RefundRecipient)
	}
	return e.consumeSignatureBatch(tx.BatchID, batch)
}

// AddProposalTx admits a hub proposal once the guardians have attested to
// the query response carrying its metadata.
func (e *standardTxExecutor) AddProposalTx(tx *txs.AddProposalTx) error {
	collector, err := e.state.GetSpokeMetadataCollector()
	if errors.Is(err, database.ErrNotFound) {
		return ErrNotInitialized
	}
	if err != nil {
		return err
	}

	batch, err := e.verifyAttestation(tx.GuardianSetIndex, tx.SignatureBatch, guardian.QueryResponseDigest(tx.Response))
	if err != nil {
		return err
	}

	response, data, err := message.ParseProposalQuery(tx.Response)
	if err != nil {
		return err
	}
	switch {
	case response.ChainID != collector.HubChainID:
		return fmt.Errorf("%w: %d != %d", ErrSenderChainMismatch, response.ChainID, collector.HubChainID)
	case response.To != collector.HubProposalMetadata:
		return fmt.Errorf("%w: queried %s", ErrInvalidHubProposalMetadataContract, response.To)
	case data.Contract != collector.HubProposalMetadata:
		return fmt.Errorf("%w: result from %s", ErrInvalidHubProposalMetadataContract, data.Contract)
	case data.ProposalID != tx.ProposalID:
		return fmt.Errorf("%w: %s != %s", ErrInvalidProposalID, data.ProposalID, tx.ProposalID)
	case data.VoteStart == 0:
		return fmt.Errorf("%w: %s", ErrProposalNotInitialized, tx.ProposalID)
	}

	switch _, err := e.state.GetProposal(tx.ProposalID); {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrProposalAlreadyExists, tx.ProposalID)
	case !errors.Is(err, database.ErrNotFound):
		return err
	}

	e.state.SetProposal(state.Proposal{
		ID:        tx.ProposalID,
		VoteStart: data.VoteStart,
	})
	if err := e.consumeSignatureBatch(tx.SignatureBatch, batch); err != nil {
		return err
	}
	e.emit(&events.ProposalCreated{
		ProposalID: tx.ProposalID,
		VoteStart:  data.VoteStart,
	})
	return nil
}

func (e *standardTxExecutor) signatureBatch(batchID ids.ID) (*guardian.SignatureBatch, error) {
	batch, err := e.state.GetSignatureBatch(batchID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSignatureBatchNotFound, batchID)
	}
	return batch, err
}

// verifyAttestation checks that the signatures staged in [batchID] reach
// quorum over [digest] under guardian set [setIndex].
func (e *standardTxExecutor) verifyAttestation(setIndex uint32, batchID ids.ID, digest [hashing.HashLen]byte) (*guardian.SignatureBatch, error) {
	set, err := e.state.GetGuardianSet(setIndex)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrGuardianSetNotFound, setIndex)
	}
	if err != nil {
		return nil, err
	}
	batch, err := e.signatureBatch(batchID)
	if err != nil {
		return nil, err
	}
	if err := guardian.Verify(set, batch.Signatures, digest, e.now); err != nil {
		return nil, err
	}
	return batch, nil
}

// consumeSignatureBatch deletes a batch and refunds its rent.
func (e *standardTxExecutor) consumeSignatureBatch(batchID ids.ID, batch *guardian.SignatureBatch) error {
	e.state.DeleteSignatureBatch(batchID)
	return e.refundRent(batch.RefundRecipient, batch.Size())
}
