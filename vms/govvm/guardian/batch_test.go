// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package guardian

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
)

func TestSignatureBatchAppend(t *testing.T) {
	require := require.New(t)

	payer := ids.GenerateTestShortID()
	b := &SignatureBatch{
		RefundRecipient: payer,
		Total:           3,
	}
	require.NoError(b.Append(payer, []Signature{{0}, {1}}))
	require.ErrorIs(b.Append(ids.GenerateTestShortID(), []Signature{{2}}), ErrWriteAuthorityMismatch)
	require.ErrorIs(b.Append(payer, []Signature{{2}, {3}}), ErrTooManyGuardianSignatures)
	require.NoError(b.Append(payer, []Signature{{2}}))
	require.Len(b.Signatures, 3)
}

func TestSignatureBatchLayout(t *testing.T) {
	require := require.New(t)

	b := &SignatureBatch{
		RefundRecipient: ids.ShortID{0xaa},
		Total:           2,
		Signatures:      []Signature{{7, 1}, {9, 2}},
	}
	bytes, err := b.Marshal()
	require.NoError(err)
	require.Len(bytes, batchHeaderLen+2*SignatureLen)
	require.Equal(byte(0xaa), bytes[0])
	require.Equal(byte(2), bytes[20])
	require.Equal([]byte{2, 0, 0, 0}, bytes[21:25])
	require.Equal(byte(7), bytes[batchHeaderLen])
	require.Equal(byte(9), bytes[batchHeaderLen+SignatureLen])

	parsed, err := ParseSignatureBatch(bytes)
	require.NoError(err)
	require.Equal(b, parsed)

	_, err = ParseSignatureBatch(bytes[:len(bytes)-1])
	require.ErrorIs(err, errInvalidBatchLength)
}
