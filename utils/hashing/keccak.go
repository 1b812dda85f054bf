// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package hashing provides the legacy Keccak-256 digests used by
// Ethereum-style addresses and cross-chain attestations.
package hashing

import (
	"golang.org/x/crypto/sha3"

	"github.com/luxfi/ids"
)

const HashLen = 32

// Keccak256 returns the legacy Keccak-256 digest of the concatenation of
// [data].
func Keccak256(data ...[]byte) [HashLen]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		_, _ = h.Write(d)
	}
	var out [HashLen]byte
	h.Sum(out[:0])
	return out
}

// EthAddress derives an Ethereum-style address from a 65-byte uncompressed
// secp256k1 public key.
func EthAddress(uncompressed []byte) ids.ShortID {
	var addr ids.ShortID
	if len(uncompressed) != 65 {
		return addr
	}
	digest := Keccak256(uncompressed[1:])
	copy(addr[:], digest[HashLen-len(addr):])
	return addr
}

// DeriveID derives a 32-byte id from a domain tag and seeds.
func DeriveID(tag string, seeds ...[]byte) ids.ID {
	return ids.ID(Keccak256(append([][]byte{[]byte(tag)}, seeds...)...))
}

// DeriveShortID derives a 20-byte address from a domain tag.
func DeriveShortID(tag string) ids.ShortID {
	digest := Keccak256([]byte(tag))
	var addr ids.ShortID
	copy(addr[:], digest[HashLen-len(addr):])
	return addr
}
