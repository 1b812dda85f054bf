// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"errors"

	"github.com/luxfi/ids"
)

var (
	_ UnsignedTx = (*ReceiveMessageTx)(nil)

	ErrEmptyMessage = errors.New("empty message body")
)

// ReceiveMessageTx executes a hub message attested by the guardian
// signatures staged in [SignatureBatch].
type ReceiveMessageTx struct {
	Body             []byte `serialize:"true" json:"body"`
	GuardianSetIndex uint32 `serialize:"true" json:"guardianSetIndex"`
	SignatureBatch   ids.ID `serialize:"true" json:"signatureBatch"`
}

func (tx *ReceiveMessageTx) SyntacticVerify() error {
	if len(tx.Body) == 0 {
		return ErrEmptyMessage
	}
	return nil
}

func (tx *ReceiveMessageTx) Visit(visitor Visitor) error {
	return visitor.ReceiveMessageTx(tx)
}
