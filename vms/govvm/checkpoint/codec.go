// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package checkpoint

import (
	"errors"
	"fmt"
	"math"

	"github.com/luxfi/ids"

	"github.com/luxfi/multigov/utils/wrappers"
)

const (
	// HeaderSize is owner_id[32] | next_index u64.
	HeaderSize = ids.IDLen + wrappers.LongLen
	// RecordSize is timestamp u64 | value u64.
	RecordSize = 2 * wrappers.LongLen
)

var (
	errPartialRecord  = errors.New("tail is not a whole number of records")
	errNextIndexRange = errors.New("next index exceeds capacity")
	errTruncated      = errors.New("truncated header")
)

// Marshal encodes the store in its persisted little-endian layout. Records
// between next_index and capacity are zero.
func (s *Store) Marshal() ([]byte, error) {
	size := s.Size()
	if size > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCheckpointOutOfBounds, size)
	}
	p := wrappers.NewLEPacker(make([]byte, 0, size), int(size))
	p.PackFixedBytes(s.Owner[:])
	p.PackLong(s.NextIndex())
	for _, c := range s.checkpoints {
		p.PackLong(c.Timestamp)
		p.PackLong(c.Value)
	}
	p.PackFixedBytes(make([]byte, (s.capacity-s.NextIndex())*RecordSize))
	return p.Bytes, p.Err
}

// Parse decodes a store from its persisted layout. The capacity is implied
// by the length of the tail.
func Parse(b []byte) (*Store, error) {
	if len(b) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", errTruncated, len(b))
	}
	tail := len(b) - HeaderSize
	if tail%RecordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", errPartialRecord, tail)
	}
	capacity := uint64(tail / RecordSize)

	p := wrappers.NewLEPacker(b, len(b))
	s := &Store{capacity: capacity}
	copy(s.Owner[:], p.UnpackFixedBytes(ids.IDLen))
	nextIndex := p.UnpackLong()
	if p.Errored() {
		return nil, p.Err
	}
	if nextIndex > capacity {
		return nil, fmt.Errorf("%w: %d > %d", errNextIndexRange, nextIndex, capacity)
	}

	s.checkpoints = make([]Checkpoint, nextIndex, capacity)
	for i := range s.checkpoints {
		s.checkpoints[i] = Checkpoint{
			Timestamp: p.UnpackLong(),
			Value:     p.UnpackLong(),
		}
		if i > 0 && s.checkpoints[i].Timestamp < s.checkpoints[i-1].Timestamp {
			return nil, fmt.Errorf("%w: record %d", ErrInvalidTimestamp, i)
		}
	}
	return s, p.Err
}
