// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package guardian

import (
	"errors"
	"fmt"
	"math"

	"github.com/luxfi/ids"

	"github.com/luxfi/multigov/utils/wrappers"
)

const batchHeaderLen = wrappers.AddressLen + wrappers.ByteLen + wrappers.IntLen

var (
	ErrWriteAuthorityMismatch    = errors.New("write authority mismatch")
	ErrTooManyGuardianSignatures = errors.New("too many guardian signatures")
	errInvalidBatchLength        = errors.New("invalid signature batch length")
)

// SignatureBatch stages detached signatures posted over several operations
// until a proposal or message consumes them. The poster is refunded the
// storage when the batch is closed.
type SignatureBatch struct {
	RefundRecipient ids.ShortID
	Total           uint8
	Signatures      []Signature
}

// Append adds [sigs] posted by [payer].
func (b *SignatureBatch) Append(payer ids.ShortID, sigs []Signature) error {
	if payer != b.RefundRecipient {
		return fmt.Errorf("%w: %s is not %s", ErrWriteAuthorityMismatch, payer, b.RefundRecipient)
	}
	if len(b.Signatures)+len(sigs) > int(b.Total) {
		return fmt.Errorf("%w: %d + %d > %d", ErrTooManyGuardianSignatures, len(b.Signatures), len(sigs), b.Total)
	}
	b.Signatures = append(b.Signatures, sigs...)
	return nil
}

// Size is the encoded length of the batch.
func (b *SignatureBatch) Size() uint64 {
	return batchHeaderLen + uint64(len(b.Signatures))*SignatureLen
}

// Marshal encodes refund_recipient[20] | total u8 | count u32 LE | sigs.
func (b *SignatureBatch) Marshal() ([]byte, error) {
	if len(b.Signatures) > math.MaxUint8 {
		return nil, fmt.Errorf("%w: %d", ErrTooManyGuardianSignatures, len(b.Signatures))
	}
	size := batchHeaderLen + len(b.Signatures)*SignatureLen
	p := wrappers.NewLEPacker(make([]byte, 0, size), size)
	p.PackFixedBytes(b.RefundRecipient[:])
	p.PackByte(b.Total)
	p.PackInt(uint32(len(b.Signatures)))
	for _, sig := range b.Signatures {
		p.PackFixedBytes(sig[:])
	}
	return p.Bytes, p.Err
}

func ParseSignatureBatch(bytes []byte) (*SignatureBatch, error) {
	p := wrappers.NewLEPacker(bytes, len(bytes))
	b := &SignatureBatch{}
	copy(b.RefundRecipient[:], p.UnpackFixedBytes(wrappers.AddressLen))
	b.Total = p.UnpackByte()
	count := p.UnpackInt()
	if p.Errored() {
		return nil, p.Err
	}
	if uint64(count)*SignatureLen != uint64(p.Remaining()) {
		return nil, fmt.Errorf("%w: %d signatures in %d bytes", errInvalidBatchLength, count, p.Remaining())
	}
	b.Signatures = make([]Signature, count)
	for i := range b.Signatures {
		copy(b.Signatures[i][:], p.UnpackFixedBytes(SignatureLen))
	}
	p.Done()
	return b, p.Err
}
