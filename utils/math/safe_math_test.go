// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package math

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	require := require.New(t)

	sum, err := Add[uint64](math.MaxUint64-1, 1)
	require.NoError(err)
	require.Equal(uint64(math.MaxUint64), sum)

	_, err = Add[uint64](math.MaxUint64, 1)
	require.ErrorIs(err, ErrOverflow)

	_, err = Add[uint8](200, 56)
	require.ErrorIs(err, ErrOverflow)
}

func TestSub(t *testing.T) {
	require := require.New(t)

	diff, err := Sub[uint64](10, 10)
	require.NoError(err)
	require.Zero(diff)

	_, err = Sub[uint64](0, 1)
	require.ErrorIs(err, ErrUnderflow)
}

func TestMul(t *testing.T) {
	require := require.New(t)

	got, err := Mul[uint64](0, math.MaxUint64)
	require.NoError(err)
	require.Zero(got)

	_, err = Mul[uint64](math.MaxUint64/2+1, 2)
	require.ErrorIs(err, ErrOverflow)
}

func TestAbsDiff(t *testing.T) {
	require := require.New(t)

	require.Equal(uint64(5), AbsDiff[uint64](10, 5))
	require.Equal(uint64(5), AbsDiff[uint64](5, 10))
	require.Equal(uint64(5), SaturatingSub[uint64](10, 5))
	require.Zero(SaturatingSub[uint64](5, 10))
}

func TestSqrt(t *testing.T) {
	require := require.New(t)

	for n := uint64(0); n < 10_000; n++ {
		r := Sqrt(n)
		require.LessOrEqual(r*r, n)
		require.Greater((r+1)*(r+1), n)
	}
	require.Equal(uint64(math.MaxUint32), Sqrt(math.MaxUint64))
	require.Equal(uint64(1), Sqrt(2))
	require.Equal(uint64(1), Sqrt(3))
	require.Equal(uint64(2), Sqrt(4))
}
