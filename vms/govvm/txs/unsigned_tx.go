// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

// UnsignedTx is a governance operation before it is signed.
type UnsignedTx interface {
	// SyntacticVerify verifies the operation without any provided state.
	SyntacticVerify() error

	// Visit calls [visitor] with this operation's concrete type
	Visit(visitor Visitor) error
}
