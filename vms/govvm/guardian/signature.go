// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package guardian

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/luxfi/ids"

	"github.com/luxfi/multigov/utils/hashing"
)

const (
	// SignatureLen is guardian_index u8 | r[32] | s[32] | recovery_id u8.
	SignatureLen = 1 + 32 + 32 + 1

	compactMagicOffset = 27
)

type Signature [SignatureLen]byte

func (s Signature) GuardianIndex() uint8 {
	return s[0]
}

// recover returns the address of the key that produced [s] over [digest].
func (s Signature) recover(digest [hashing.HashLen]byte) (ids.ShortID, error) {
	v := s[SignatureLen-1]
	if v >= compactMagicOffset {
		v -= compactMagicOffset
	}
	if v > 3 {
		return ids.ShortEmpty, ErrInvalidGuardianKeyRecovery
	}

	// ecdsa.RecoverCompact expects the recovery code first.
	var compact [SignatureLen - 1]byte
	compact[0] = compactMagicOffset + v
	copy(compact[1:], s[1:SignatureLen-1])

	pub, _, err := ecdsa.RecoverCompact(compact[:], digest[:])
	if err != nil {
		return ids.ShortEmpty, ErrInvalidGuardianKeyRecovery
	}
	return hashing.EthAddress(pub.SerializeUncompressed()), nil
}

// Sign produces the detached signature of guardian [index] over [digest].
func Sign(key *secp256k1.PrivateKey, index uint8, digest [hashing.HashLen]byte) Signature {
	compact := ecdsa.SignCompact(key, digest[:], false)

	var sig Signature
	sig[0] = index
	copy(sig[1:], compact[1:])
	sig[SignatureLen-1] = compact[0] - compactMagicOffset
	return sig
}

// Address returns the guardian key of [key].
func Address(key *secp256k1.PrivateKey) ids.ShortID {
	return hashing.EthAddress(key.PubKey().SerializeUncompressed())
}
