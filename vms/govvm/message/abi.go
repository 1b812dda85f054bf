// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/luxfi/ids"
)

const (
	wordLen = 32

	// maxABILength bounds any decoded array or byte string length.
	maxABILength = 1 << 16
)

var (
	ErrInvalidABIEncoding = errors.New("invalid ABI encoding")

	errOffsetOutOfRange = errors.New("offset out of range")
	errNotUint64        = errors.New("value does not fit in 64 bits")
	errInvalidBool      = errors.New("invalid bool word")
)

// AccountMeta references an account touched by an instruction.
type AccountMeta struct {
	Pubkey     ids.ID `json:"pubkey"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

// Instruction is one call of a relayed instruction list.
type Instruction struct {
	ProgramID ids.ID        `json:"programID"`
	Accounts  []AccountMeta `json:"accounts"`
	Data      []byte        `json:"data"`
}

// Message is an instruction list dispatched from the hub:
//
//	abi.encode((uint256 messageId, uint256 wormholeChainId,
//	  (bytes32 programId, (bytes32, bool, bool)[] accounts, bytes data)[]))
type Message struct {
	MessageID       *uint256.Int
	WormholeChainID *uint256.Int
	Instructions    []Instruction
}

// ID returns the message id as a 32-byte big-endian key.
func (m *Message) ID() ids.ID {
	return ids.ID(m.MessageID.Bytes32())
}

// ParseMessage decodes an ABI-encoded Message.
func ParseMessage(b []byte) (*Message, error) {
	r := abiReader{b: b}
	msg, err := r.message()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidABIEncoding, err)
	}
	return msg, nil
}

type abiReader struct {
	b []byte
}

func (r *abiReader) word(offset uint64) ([]byte, error) {
	if offset > uint64(len(r.b)) || uint64(len(r.b))-offset < wordLen {
		return nil, fmt.Errorf("%w: word at %d", errOffsetOutOfRange, offset)
	}
	return r.b[offset : offset+wordLen], nil
}

func (r *abiReader) uint256(offset uint64) (*uint256.Int, error) {
	w, err := r.word(offset)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes32(w), nil
}

func (r *abiReader) uint64(offset uint64) (uint64, error) {
	v, err := r.uint256(offset)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: at %d", errNotUint64, offset)
	}
	return v.Uint64(), nil
}

// pointer reads a relative offset stored at [offset] and resolves it
// against [base].
func (r *abiReader) pointer(base, offset uint64) (uint64, error) {
	rel, err := r.uint64(offset)
	if err != nil {
		return 0, err
	}
	target := base + rel
	if target < base || target > uint64(len(r.b)) {
		return 0, fmt.Errorf("%w: pointer %d from %d", errOffsetOutOfRange, rel, base)
	}
	return target, nil
}

func (r *abiReader) length(offset uint64) (uint64, error) {
	n, err := r.uint64(offset)
	if err != nil {
		return 0, err
	}
	if n > maxABILength {
		return 0, fmt.Errorf("%w: length %d", errOffsetOutOfRange, n)
	}
	return n, nil
}

func (r *abiReader) bool(offset uint64) (bool, error) {
	v, err := r.uint256(offset)
	if err != nil {
		return false, err
	}
	switch {
	case v.IsZero():
		return false, nil
	case v.Eq(uint256.NewInt(1)):
		return true, nil
	default:
		return false, fmt.Errorf("%w: at %d", errInvalidBool, offset)
	}
}

func (r *abiReader) bytes32(offset uint64) (ids.ID, error) {
	w, err := r.word(offset)
	if err != nil {
		return ids.Empty, err
	}
	return ids.ID(w), nil
}

func (r *abiReader) dynamicBytes(offset uint64) ([]byte, error) {
	n, err := r.length(offset)
	if err != nil {
		return nil, err
	}
	start := offset + wordLen
	if start+n > uint64(len(r.b)) {
		return nil, fmt.Errorf("%w: %d bytes at %d", errOffsetOutOfRange, n, start)
	}
	return bytes.Clone(r.b[start : start+n]), nil
}

func (r *abiReader) message() (*Message, error) {
	// the outer tuple is dynamic, so the encoding starts with its offset
	tuple, err := r.pointer(0, 0)
	if err != nil {
		return nil, err
	}

	msg := &Message{}
	if msg.MessageID, err = r.uint256(tuple); err != nil {
		return nil, err
	}
	if msg.WormholeChainID, err = r.uint256(tuple + wordLen); err != nil {
		return nil, err
	}
	array, err := r.pointer(tuple, tuple+2*wordLen)
	if err != nil {
		return nil, err
	}
	n, err := r.length(array)
	if err != nil {
		return nil, err
	}

	elems := array + wordLen
	msg.Instructions = make([]Instruction, n)
	for i := range msg.Instructions {
		instr, err := r.pointer(elems, elems+uint64(i)*wordLen)
		if err != nil {
			return nil, err
		}
		if msg.Instructions[i], err = r.instruction(instr); err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
	}
	return msg, nil
}

func (r *abiReader) instruction(tuple uint64) (Instruction, error) {
	programID, err := r.bytes32(tuple)
	if err != nil {
		return Instruction{}, err
	}
	accountsAt, err := r.pointer(tuple, tuple+wordLen)
	if err != nil {
		return Instruction{}, err
	}
	dataAt, err := r.pointer(tuple, tuple+2*wordLen)
	if err != nil {
		return Instruction{}, err
	}

	n, err := r.length(accountsAt)
	if err != nil {
		return Instruction{}, err
	}
	accounts := make([]AccountMeta, n)
	for i := range accounts {
		at := accountsAt + wordLen + uint64(i)*3*wordLen
		if accounts[i].Pubkey, err = r.bytes32(at); err != nil {
			return Instruction{}, err
		}
		if accounts[i].IsSigner, err = r.bool(at + wordLen); err != nil {
			return Instruction{}, err
		}
		if accounts[i].IsWritable, err = r.bool(at + 2*wordLen); err != nil {
			return Instruction{}, err
		}
	}

	data, err := r.dynamicBytes(dataAt)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		ProgramID: programID,
		Accounts:  accounts,
		Data:      data,
	}, nil
}

// Bytes ABI-encodes the message.
func (m *Message) Bytes() []byte {
	var tuple abiWriter
	tuple.uint256(m.MessageID)
	tuple.uint256(m.WormholeChainID)
	tuple.uint64(3 * wordLen)

	var array abiWriter
	array.uint64(uint64(len(m.Instructions)))
	encoded := make([][]byte, len(m.Instructions))
	offset := uint64(len(m.Instructions)) * wordLen
	for i, instr := range m.Instructions {
		encoded[i] = encodeInstruction(instr)
		array.uint64(offset)
		offset += uint64(len(encoded[i]))
	}
	for _, e := range encoded {
		array.raw(e)
	}
	tuple.raw(array.b)

	var out abiWriter
	out.uint64(wordLen)
	out.raw(tuple.b)
	return out.b
}

func encodeInstruction(instr Instruction) []byte {
	var accounts abiWriter
	accounts.uint64(uint64(len(instr.Accounts)))
	for _, a := range instr.Accounts {
		accounts.raw(a.Pubkey[:])
		accounts.bool(a.IsSigner)
		accounts.bool(a.IsWritable)
	}

	var data abiWriter
	data.uint64(uint64(len(instr.Data)))
	data.raw(instr.Data)
	data.pad()

	var tuple abiWriter
	tuple.raw(instr.ProgramID[:])
	tuple.uint64(3 * wordLen)
	tuple.uint64(3*wordLen + uint64(len(accounts.b)))
	tuple.raw(accounts.b)
	tuple.raw(data.b)
	return tuple.b
}

type abiWriter struct {
	b []byte
}

func (w *abiWriter) uint256(v *uint256.Int) {
	word := v.Bytes32()
	w.b = append(w.b, word[:]...)
}

func (w *abiWriter) uint64(v uint64) {
	w.uint256(uint256.NewInt(v))
}

func (w *abiWriter) bool(v bool) {
	if v {
		w.uint64(1)
	} else {
		w.uint64(0)
	}
}

func (w *abiWriter) raw(b []byte) {
	w.b = append(w.b, b...)
}

func (w *abiWriter) pad() {
	if rem := len(w.b) % wordLen; rem != 0 {
		w.b = append(w.b, make([]byte, wordLen-rem)...)
	}
}
