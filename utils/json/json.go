// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package json provides JSON-RPC helpers: a codec and integer types that
// marshal as strings so 64-bit balances survive JavaScript clients.
package json

import (
	"strconv"

	"github.com/gorilla/rpc/v2/json2"
)

const Null = "null"

// NewCodec returns the JSON 2.0 codec used by every RPC service.
func NewCodec() *json2.Codec {
	return json2.NewCodec()
}

// Uint8 is a uint8 that can be JSON marshaled as a string.
type Uint8 uint8

func (u Uint8) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(u), 10) + `"`), nil
}

func (u *Uint8) UnmarshalJSON(b []byte) error {
	val, err := parseUint(b, 8)
	if err != nil {
		return err
	}
	*u = Uint8(val)
	return nil
}

// Uint16 is a uint16 that can be JSON marshaled as a string.
type Uint16 uint16

func (u Uint16) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(u), 10) + `"`), nil
}

func (u *Uint16) UnmarshalJSON(b []byte) error {
	val, err := parseUint(b, 16)
	if err != nil {
		return err
	}
	*u = Uint16(val)
	return nil
}

// Uint32 is a uint32 that can be JSON marshaled as a string.
type Uint32 uint32

func (u Uint32) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(u), 10) + `"`), nil
}

func (u *Uint32) UnmarshalJSON(b []byte) error {
	val, err := parseUint(b, 32)
	if err != nil {
		return err
	}
	*u = Uint32(val)
	return nil
}

// Uint64 is a uint64 that can be JSON marshaled as a string.
type Uint64 uint64

func (u Uint64) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(u), 10) + `"`), nil
}

func (u *Uint64) UnmarshalJSON(b []byte) error {
	val, err := parseUint(b, 64)
	if err != nil {
		return err
	}
	*u = Uint64(val)
	return nil
}

// parseUint accepts both quoted and bare integers. null decodes to 0.
func parseUint(b []byte, bitSize int) (uint64, error) {
	str := string(b)
	if str == Null {
		return 0, nil
	}
	if len(str) >= 2 {
		if lastIndex := len(str) - 1; str[0] == '"' && str[lastIndex] == '"' {
			str = str[1:lastIndex]
		}
	}
	return strconv.ParseUint(str, 10, bitSize)
}
