// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package json

import (
	stdjson "encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint64RoundTrip(t *testing.T) {
	require := require.New(t)

	b, err := stdjson.Marshal(Uint64(18446744073709551615))
	require.NoError(err)
	require.Equal(`"18446744073709551615"`, string(b))

	var u Uint64
	require.NoError(stdjson.Unmarshal([]byte(`"42"`), &u))
	require.Equal(Uint64(42), u)
	require.NoError(stdjson.Unmarshal([]byte(`7`), &u))
	require.Equal(Uint64(7), u)
}

func TestUintBounds(t *testing.T) {
	var u8 Uint8
	require.Error(t, stdjson.Unmarshal([]byte(`"256"`), &u8))

	var u32 Uint32
	require.NoError(t, stdjson.Unmarshal([]byte(`"4294967295"`), &u32))
	require.Equal(t, Uint32(4294967295), u32)
}
