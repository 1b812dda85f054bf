// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package rent prices the backing storage of growable records.
package rent

import (
	"errors"
	"fmt"

	safemath "github.com/luxfi/multigov/utils/math"
)

var ErrInsufficientRent = errors.New("insufficient rent balance")

// Config prices storage the way an exemption threshold does: a record is
// funded once it holds enough to pay for its bytes for ExemptionYears.
type Config struct {
	LamportsPerByteYear uint64 `json:"lamports-per-byte-year"`
	ExemptionYears      uint64 `json:"exemption-years"`
	// AccountOverhead is charged on top of every record's payload.
	AccountOverhead uint64 `json:"account-overhead"`
}

var DefaultConfig = Config{
	LamportsPerByteYear: 3_480,
	ExemptionYears:      2,
	AccountOverhead:     128,
}

// Calculator calculates the balance a record of a given size must hold.
type Calculator interface {
	MinimumBalance(size uint64) (uint64, error)
}

type calculator struct {
	config Config
}

func NewCalculator(config Config) Calculator {
	return &calculator{config: config}
}

func (c *calculator) MinimumBalance(size uint64) (uint64, error) {
	bytes, err := safemath.Add(size, c.config.AccountOverhead)
	if err != nil {
		return 0, err
	}
	perYear, err := safemath.Mul(bytes, c.config.LamportsPerByteYear)
	if err != nil {
		return 0, err
	}
	return safemath.Mul(perYear, c.config.ExemptionYears)
}

// TopUp returns the amount a payer must add to a funded record growing from
// [oldSize] to [newSize] bytes.
func TopUp(c Calculator, oldSize, newSize uint64) (uint64, error) {
	held, err := c.MinimumBalance(oldSize)
	if err != nil {
		return 0, err
	}
	required, err := c.MinimumBalance(newSize)
	if err != nil {
		return 0, err
	}
	return safemath.SaturatingSub(required, held), nil
}

// Charge debits [amount] from [balance], failing without side effects if
// the balance is short.
func Charge(balance, amount uint64) (uint64, error) {
	remaining, err := safemath.Sub(balance, amount)
	if err != nil {
		return 0, fmt.Errorf("%w: have %d, need %d", ErrInsufficientRent, balance, amount)
	}
	return remaining, nil
}
