// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wrappers provides fixed width packing helpers.
package wrappers

const (
	ByteLen  = 1
	ShortLen = 2
	IntLen   = 4
	LongLen  = 8
	BoolLen  = 1
	// HashLen is the size of a keccak256 digest or a 32-byte account id.
	HashLen = 32
	// AddressLen is the size of an Ethereum style address.
	AddressLen = 20
)

// Errs collects the first error of a series of operations.
type Errs struct {
	Err error
}

func (errs *Errs) Errored() bool {
	return errs.Err != nil
}

// Add records the first non-nil error.
func (errs *Errs) Add(errors ...error) {
	if errs.Err == nil {
		for _, err := range errors {
			if err != nil {
				errs.Err = err
				break
			}
		}
	}
}
