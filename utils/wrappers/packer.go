// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wrappers

import (
	"encoding/binary"
	"errors"
	"math"
)

const MaxStringLen = math.MaxUint8

var (
	ErrInsufficientLength = errors.New("packer has insufficient length for input")
	ErrTrailingBytes      = errors.New("unexpected trailing bytes")
	errNegativeOffset     = errors.New("negative offset")
	errInvalidInput       = errors.New("input does not match expected format")
	errBadBool            = errors.New("unexpected value when unpacking bool")
	errOversized          = errors.New("size is larger than limit")
)

// Packer packs and unpacks a byte array from/to fixed width values.
//
// On-chain account layouts are little-endian while cross-chain message
// envelopes are big-endian, so the byte order is selectable. A nil Order
// packs big-endian.
type Packer struct {
	Errs

	// The largest allowed size of expanding the byte array
	MaxSize int
	// The current byte array
	Bytes []byte
	// The offset that is being written to in the byte array
	Offset int
	// Byte order of multi-byte integers
	Order binary.ByteOrder
}

// NewLEPacker returns a little-endian packer over [b].
func NewLEPacker(b []byte, maxSize int) *Packer {
	return &Packer{
		MaxSize: maxSize,
		Bytes:   b,
		Order:   binary.LittleEndian,
	}
}

func (p *Packer) order() binary.ByteOrder {
	if p.Order == nil {
		return binary.BigEndian
	}
	return p.Order
}

// Remaining returns the number of unread bytes.
func (p *Packer) Remaining() int {
	return max(len(p.Bytes)-p.Offset, 0)
}

// Done records ErrTrailingBytes if any input was left unread.
func (p *Packer) Done() {
	if !p.Errored() && p.Remaining() != 0 {
		p.Add(ErrTrailingBytes)
	}
}

func (p *Packer) PackByte(val byte) {
	p.expand(ByteLen)
	if p.Errored() {
		return
	}

	p.Bytes[p.Offset] = val
	p.Offset++
}

func (p *Packer) UnpackByte() byte {
	p.checkSpace(ByteLen)
	if p.Errored() {
		return 0
	}

	val := p.Bytes[p.Offset]
	p.Offset += ByteLen
	return val
}

func (p *Packer) PackShort(val uint16) {
	p.expand(ShortLen)
	if p.Errored() {
		return
	}

	p.order().PutUint16(p.Bytes[p.Offset:], val)
	p.Offset += ShortLen
}

func (p *Packer) UnpackShort() uint16 {
	p.checkSpace(ShortLen)
	if p.Errored() {
		return 0
	}

	val := p.order().Uint16(p.Bytes[p.Offset:])
	p.Offset += ShortLen
	return val
}

func (p *Packer) PackInt(val uint32) {
	p.expand(IntLen)
	if p.Errored() {
		return
	}

	p.order().PutUint32(p.Bytes[p.Offset:], val)
	p.Offset += IntLen
}

func (p *Packer) UnpackInt() uint32 {
	p.checkSpace(IntLen)
	if p.Errored() {
		return 0
	}

	val := p.order().Uint32(p.Bytes[p.Offset:])
	p.Offset += IntLen
	return val
}

func (p *Packer) PackLong(val uint64) {
	p.expand(LongLen)
	if p.Errored() {
		return
	}

	p.order().PutUint64(p.Bytes[p.Offset:], val)
	p.Offset += LongLen
}

func (p *Packer) UnpackLong() uint64 {
	p.checkSpace(LongLen)
	if p.Errored() {
		return 0
	}

	val := p.order().Uint64(p.Bytes[p.Offset:])
	p.Offset += LongLen
	return val
}

func (p *Packer) PackBool(b bool) {
	if b {
		p.PackByte(1)
	} else {
		p.PackByte(0)
	}
}

func (p *Packer) UnpackBool() bool {
	b := p.UnpackByte()
	switch b {
	case 0:
		return false
	case 1:
		return true
	default:
		p.Add(errBadBool)
		return false
	}
}

// PackFixedBytes appends a byte slice with no length descriptor to the byte array
func (p *Packer) PackFixedBytes(bytes []byte) {
	p.expand(len(bytes))
	if p.Errored() {
		return
	}

	copy(p.Bytes[p.Offset:], bytes)
	p.Offset += len(bytes)
}

// UnpackFixedBytes unpacks a byte slice with no length descriptor from the
// byte array. The result aliases the packer's buffer.
func (p *Packer) UnpackFixedBytes(size int) []byte {
	p.checkSpace(size)
	if p.Errored() {
		return nil
	}

	bytes := p.Bytes[p.Offset : p.Offset+size]
	p.Offset += size
	return bytes
}

// PackBytes appends a u32 length prefixed byte slice.
func (p *Packer) PackBytes(bytes []byte) {
	if uint64(len(bytes)) > math.MaxUint32 {
		p.Add(errOversized)
		return
	}
	p.PackInt(uint32(len(bytes)))
	p.PackFixedBytes(bytes)
}

// UnpackLimitedBytes unpacks a u32 length prefixed byte slice. If the size of
// the slice is greater than limit, adds errOversized to the packer and
// returns nil.
func (p *Packer) UnpackLimitedBytes(limit uint32) []byte {
	size := p.UnpackInt()
	if size > limit {
		p.Add(errOversized)
		return nil
	}
	return p.UnpackFixedBytes(int(size))
}

// PackStr appends a u8 length prefixed string.
func (p *Packer) PackStr(str string) {
	if len(str) > MaxStringLen {
		p.Add(errInvalidInput)
		return
	}
	p.PackByte(byte(len(str)))
	p.PackFixedBytes([]byte(str))
}

func (p *Packer) UnpackStr() string {
	strSize := p.UnpackByte()
	return string(p.UnpackFixedBytes(int(strSize)))
}

// checkSpace requires that there is at least bytes of write space left in the
// byte array. If this is not true, an error is added to the packer.
func (p *Packer) checkSpace(bytes int) {
	switch {
	case p.Offset < 0:
		p.Add(errNegativeOffset)
	case bytes < 0:
		p.Add(errInvalidInput)
	case len(p.Bytes)-p.Offset < bytes:
		p.Add(ErrInsufficientLength)
	}
}

// expand ensures that there is bytes bytes left of space in the byte slice.
// If this is not allowed due to the maximum size, an error is added to the packer.
func (p *Packer) expand(bytes int) {
	neededSize := bytes + p.Offset
	switch {
	case neededSize <= len(p.Bytes):
		return
	case neededSize > p.MaxSize:
		p.Add(ErrInsufficientLength)
		return
	case neededSize <= cap(p.Bytes):
		p.Bytes = p.Bytes[:neededSize]
		return
	default:
		p.Bytes = append(p.Bytes[:cap(p.Bytes)], make([]byte, neededSize-cap(p.Bytes))...)
	}
}
