// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/database"

	"github.com/luxfi/multigov/vms/govvm/events"
	"github.com/luxfi/multigov/vms/govvm/guardian"
	"github.com/luxfi/multigov/vms/govvm/message"
	"github.com/luxfi/multigov/vms/govvm/txs"
)

// ReceiveMessageTx runs the instruction list of a guardian-attested hub
// message. Every instruction and the replay record commit together.
func (e *standardTxExecutor) ReceiveMessageTx(tx *txs.ReceiveMessageTx) error {
	spoke, err := e.state.GetSpokeMessageExecutor()
	if errors.Is(err, database.ErrNotFound) {
		return ErrNotInitialized
	}
	if err != nil {
		return err
	}

	batch, err := e.verifyAttestation(tx.GuardianSetIndex, tx.SignatureBatch, guardian.BodyDigest(tx.Body))
	if err != nil {
		return err
	}
	envelope, err := message.ParseEnvelope(tx.Body)
	if err != nil {
		return err
	}
	if envelope.EmitterChain != spoke.HubChainID {
		return fmt.Errorf("%w: %d != %d", ErrInvalidEmitterChain, envelope.EmitterChain, spoke.HubChainID)
	}
	if envelope.EmitterAddress != spoke.HubDispatcher {
		return fmt.Errorf("%w: %s", ErrInvalidHubDispatcher, envelope.EmitterAddress)
	}

	msg, err := message.ParseMessage(envelope.Payload)
	if err != nil {
		return err
	}
	if !msg.WormholeChainID.Eq(uint256.NewInt(uint64(spoke.SpokeChainID))) {
		return fmt.Errorf("%w: %s != %d", ErrInvalidWormholeChainID, msg.WormholeChainID, spoke.SpokeChainID)
	}

	messageID := msg.ID()
	switch _, err := e.state.GetMessageReceived(messageID); {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrMessageAlreadyExecuted, messageID)
	case !errors.Is(err, database.ErrNotFound):
		return err
	}
	e.state.SetMessageReceived(messageID, e.now)

	for i, instruction := range msg.Instructions {
		if err := e.dispatch(instruction); err != nil {
			return fmt.Errorf("instruction %d of %s: %w", i, messageID, err)
		}
	}

	if err := e.consumeSignatureBatch(tx.SignatureBatch, batch); err != nil {
		return err
	}
	e.emit(&events.MessageReceived{
		MessageID:      messageID,
		EmitterChain:   envelope.EmitterChain,
		EmitterAddress: envelope.EmitterAddress,
		Sequence:       envelope.Sequence,
		Instructions:   len(msg.Instructions),
	})
	return nil
}

// dispatch runs one relayed instruction. Governance operations execute
// with the airlock as their signer; rent stays with the relayer.
func (e *standardTxExecutor) dispatch(instruction message.Instruction) error {
	if instruction.ProgramID != GovernanceProgramID {
		if e.backend.Airlock == nil {
			return fmt.Errorf("%w: %s", ErrUnsupportedProgram, instruction.ProgramID)
		}
		return e.backend.Airlock.Dispatch(e.state, instruction)
	}

	unsigned, err := txs.ParseUnsigned(instruction.Data)
	if err != nil {
		return err
	}
	if _, ok := unsigned.(*txs.ReceiveMessageTx); ok {
		return ErrNestedMessage
	}
	if err := unsigned.SyntacticVerify(); err != nil {
		return err
	}

	airlock := &standardTxExecutor{
		backend: e.backend,
		state:   e.state,
		ledger:  e.ledger,
		signer:  AirlockAddress,
		payer:   e.payer,
		now:     e.now,
	}
	err = unsigned.Visit(airlock)
	e.emit(airlock.events...)
	return err
}
