// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"errors"
	"fmt"
	"math"

	"github.com/luxfi/codec"
	"github.com/luxfi/codec/linearcodec"
	"github.com/luxfi/ids"
)

const CodecVersion = 0

var (
	Codec codec.Manager

	errDuplicateAllocation = errors.New("duplicate allocation")
)

func init() {
	Codec = codec.NewManager(math.MaxInt32)
	if err := Codec.RegisterCodec(CodecVersion, linearcodec.NewDefault()); err != nil {
		panic(err)
	}
}

// Allocation funds an address at genesis. Tokens are liquid in the
// address's wallet; rent pays for record storage.
type Allocation struct {
	Address      ids.ShortID `serialize:"true" json:"address"`
	TokenBalance uint64      `serialize:"true" json:"tokenBalance"`
	RentBalance  uint64      `serialize:"true" json:"rentBalance"`
}

type Genesis struct {
	Timestamp uint64 `serialize:"true" json:"timestamp"`
	// Initializer is the only address allowed to initialize the governance
	// configuration.
	Initializer ids.ShortID  `serialize:"true" json:"initializer"`
	Allocations []Allocation `serialize:"true" json:"allocations"`
}

func (g *Genesis) Verify() error {
	seen := make(map[ids.ShortID]struct{}, len(g.Allocations))
	for _, a := range g.Allocations {
		if _, ok := seen[a.Address]; ok {
			return fmt.Errorf("%w: %s", errDuplicateAllocation, a.Address)
		}
		seen[a.Address] = struct{}{}
	}
	return nil
}

func Parse(bytes []byte) (*Genesis, error) {
	g := &Genesis{}
	if _, err := Codec.Unmarshal(bytes, g); err != nil {
		return nil, err
	}
	return g, g.Verify()
}

func (g *Genesis) Bytes() ([]byte, error) {
	return Codec.Marshal(CodecVersion, g)
}
