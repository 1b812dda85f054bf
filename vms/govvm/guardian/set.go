// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package guardian verifies that a batch of detached secp256k1 signatures
// meets quorum over a versioned guardian set.
package guardian

import "github.com/luxfi/ids"

// Set is one version of the guardian roster. Keys are Ethereum-style
// addresses of the guardians' secp256k1 public keys.
type Set struct {
	Index          uint32        `serialize:"true" json:"index"`
	Keys           []ids.ShortID `serialize:"true" json:"keys"`
	CreationTime   uint32        `serialize:"true" json:"creationTime"`
	ExpirationTime uint32        `serialize:"true" json:"expirationTime"`
}

// IsActive reports whether the set may attest at unix time [now]. A zero
// expiration never expires.
func (s *Set) IsActive(now uint64) bool {
	return s.ExpirationTime == 0 || now <= uint64(s.ExpirationTime)
}

// Quorum returns the number of signatures required from a set of [n]
// guardians: floor(2n/3) + 1.
func Quorum(n int) int {
	return n*2/3 + 1
}
