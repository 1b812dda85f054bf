// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"bytes"
	"fmt"
	"math"

	"github.com/luxfi/ids"

	"github.com/luxfi/multigov/utils/wrappers"
)

// Envelope is an observed message body. Integers are big-endian.
type Envelope struct {
	EmitterChain   uint16
	EmitterAddress ids.ID
	Sequence       uint64
	Payload        []byte
}

func (e *Envelope) Bytes() ([]byte, error) {
	p := wrappers.Packer{MaxSize: math.MaxInt32}
	p.PackShort(e.EmitterChain)
	p.PackFixedBytes(e.EmitterAddress[:])
	p.PackLong(e.Sequence)
	p.PackFixedBytes(e.Payload)
	return p.Bytes, p.Err
}

func ParseEnvelope(b []byte) (*Envelope, error) {
	p := wrappers.Packer{Bytes: b, MaxSize: len(b)}
	e := &Envelope{EmitterChain: p.UnpackShort()}
	copy(e.EmitterAddress[:], p.UnpackFixedBytes(ids.IDLen))
	e.Sequence = p.UnpackLong()
	if p.Errored() {
		return nil, fmt.Errorf("couldn't parse envelope: %w", p.Err)
	}
	e.Payload = bytes.Clone(p.UnpackFixedBytes(p.Remaining()))
	return e, nil
}
