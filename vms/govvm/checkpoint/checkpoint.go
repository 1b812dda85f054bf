// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package checkpoint implements an append-only, per-owner time series of
// (timestamp, value) pairs. Timestamps are non-decreasing, the latest entry
// is rewritten in place by a push at the same timestamp, and historical
// values are found with a tail-biased binary search.
package checkpoint

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"

	safemath "github.com/luxfi/multigov/utils/math"
)

// tailSearchThreshold is the store length above which lookups first check
// len-sqrt(len) before bisecting.
const tailSearchThreshold = 5

var (
	ErrInvalidTimestamp      = errors.New("invalid timestamp")
	ErrArithmeticOverflow    = errors.New("arithmetic overflow")
	ErrArithmeticUnderflow   = errors.New("arithmetic underflow")
	ErrCheckpointOutOfBounds = errors.New("checkpoint out of bounds")
	ErrInvalidOperation      = errors.New("invalid operation")
)

type Operation uint8

const (
	Add Operation = iota
	Subtract
)

func (o Operation) String() string {
	switch o {
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	default:
		return "unknown"
	}
}

// DeltaOperation returns the absolute difference between [from] and [to]
// and the operation that moves [from] to [to].
func DeltaOperation(from, to uint64) (uint64, Operation) {
	if to >= from {
		return to - from, Add
	}
	return from - to, Subtract
}

type Checkpoint struct {
	Timestamp uint64 `json:"timestamp"`
	Value     uint64 `json:"value"`
}

// Store holds the populated checkpoints of one segment together with the
// number of records its backing storage has been grown to hold.
type Store struct {
	Owner       ids.ID
	checkpoints []Checkpoint
	capacity    uint64
}

// New returns an empty store with no backing capacity.
func New(owner ids.ID) *Store {
	return &Store{Owner: owner}
}

// NextIndex is the number of populated checkpoints.
func (s *Store) NextIndex() uint64 {
	return uint64(len(s.checkpoints))
}

// Capacity is the number of records the backing storage can hold.
func (s *Store) Capacity() uint64 {
	return s.capacity
}

// Size is the byte size of the backing storage.
func (s *Store) Size() uint64 {
	return RequiredSize(s.capacity)
}

// RequiredSize returns the byte size needed to hold [records] checkpoints.
func RequiredSize(records uint64) uint64 {
	return HeaderSize + records*RecordSize
}

// Growth reports whether a push at [timestamp] would append past the
// current capacity, and if so the size the storage must grow to.
func (s *Store) Growth(timestamp uint64) (uint64, bool) {
	if latest, ok := s.Latest(); ok && latest.Timestamp >= timestamp {
		return 0, false
	}
	next := s.NextIndex()
	if next < s.capacity {
		return 0, false
	}
	return RequiredSize(next + 1), true
}

// Appends reports whether a push at [timestamp] adds a checkpoint rather
// than overwriting the latest one.
func (s *Store) Appends(timestamp uint64) bool {
	latest, ok := s.Latest()
	return !ok || latest.Timestamp < timestamp
}

// Grow extends the backing storage by exactly one record.
func (s *Store) Grow() {
	s.capacity++
}

// Full reports whether the store holds at least [limit] checkpoints.
func (s *Store) Full(limit uint64) bool {
	return s.NextIndex() >= limit
}

func (s *Store) Latest() (Checkpoint, bool) {
	if len(s.checkpoints) == 0 {
		return Checkpoint{}, false
	}
	return s.checkpoints[len(s.checkpoints)-1], true
}

// LatestValue returns the latest value, or 0 if the store is empty.
func (s *Store) LatestValue() uint64 {
	latest, _ := s.Latest()
	return latest.Value
}

func (s *Store) At(index uint64) (Checkpoint, error) {
	if index >= s.NextIndex() {
		return Checkpoint{}, fmt.Errorf("%w: index %d >= %d", ErrCheckpointOutOfBounds, index, s.NextIndex())
	}
	return s.checkpoints[index], nil
}

// Push applies [delta] to the latest value and records the result at
// [timestamp], returning the previous and new values. A push at the latest
// timestamp overwrites the latest checkpoint. Appending requires spare
// capacity; callers grow the store first.
func (s *Store) Push(timestamp, delta uint64, op Operation) (uint64, uint64, error) {
	latest, hasLatest := s.Latest()
	if hasLatest && timestamp < latest.Timestamp {
		return 0, 0, fmt.Errorf("%w: %d < latest %d", ErrInvalidTimestamp, timestamp, latest.Timestamp)
	}

	var (
		current uint64
		err     error
	)
	switch op {
	case Add:
		current, err = safemath.Add(latest.Value, delta)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %d + %d", ErrArithmeticOverflow, latest.Value, delta)
		}
	case Subtract:
		current, err = safemath.Sub(latest.Value, delta)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %d - %d", ErrArithmeticUnderflow, latest.Value, delta)
		}
	default:
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidOperation, op)
	}

	checkpoint := Checkpoint{
		Timestamp: timestamp,
		Value:     current,
	}
	if hasLatest && timestamp == latest.Timestamp {
		s.checkpoints[len(s.checkpoints)-1] = checkpoint
		return latest.Value, current, nil
	}
	if err := s.Append(checkpoint); err != nil {
		return 0, 0, err
	}
	return latest.Value, current, nil
}

// Append writes [checkpoint] after the latest entry without applying a
// delta. It is used to seed a fresh segment and to set absolute values.
func (s *Store) Append(checkpoint Checkpoint) error {
	if latest, ok := s.Latest(); ok && checkpoint.Timestamp < latest.Timestamp {
		return fmt.Errorf("%w: %d < latest %d", ErrInvalidTimestamp, checkpoint.Timestamp, latest.Timestamp)
	}
	if s.NextIndex() >= s.capacity {
		return fmt.Errorf("%w: capacity %d exhausted", ErrCheckpointOutOfBounds, s.capacity)
	}
	s.checkpoints = append(s.checkpoints, checkpoint)
	return nil
}

// FindAtOrBefore returns the index and value of the checkpoint with the
// greatest timestamp <= [timestamp]. It returns false if [timestamp]
// predates every checkpoint.
func (s *Store) FindAtOrBefore(timestamp uint64) (uint64, Checkpoint, bool) {
	var (
		low    uint64
		high   = s.NextIndex()
		found  bool
		result uint64
	)
	if high > tailSearchThreshold {
		mid := high - safemath.Sqrt(high)
		if s.checkpoints[mid].Timestamp <= timestamp {
			found, result = true, mid
			low = mid + 1
		} else {
			high = mid
		}
	}
	for low < high {
		mid := low + (high-low)/2
		if s.checkpoints[mid].Timestamp <= timestamp {
			found, result = true, mid
			low = mid + 1
		} else {
			high = mid
		}
	}
	if !found {
		return 0, Checkpoint{}, false
	}
	return result, s.checkpoints[result], true
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	checkpoints := make([]Checkpoint, len(s.checkpoints), s.capacity)
	copy(checkpoints, s.checkpoints)
	return &Store{
		Owner:       s.Owner,
		checkpoints: checkpoints,
		capacity:    s.capacity,
	}
}

// Checkpoints returns a copy of the populated checkpoints.
func (s *Store) Checkpoints() []Checkpoint {
	checkpoints := make([]Checkpoint, len(s.checkpoints))
	copy(checkpoints, s.checkpoints)
	return checkpoints
}
