// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashing

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
)

func TestKeccak256(t *testing.T) {
	require := require.New(t)

	empty := Keccak256()
	require.Equal(
		"c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		hex.EncodeToString(empty[:]),
	)

	// concatenation is hashed, not each part
	require.Equal(Keccak256([]byte("ab")), Keccak256([]byte("a"), []byte("b")))
}

func TestEthAddressRejectsCompressed(t *testing.T) {
	require.Equal(t, ids.ShortEmpty, EthAddress(make([]byte, 33)))
}

func TestDeriveIDDomainSeparation(t *testing.T) {
	seed := []byte{1, 2, 3}
	require.NotEqual(t, DeriveID("a", seed), DeriveID("b", seed))
}
