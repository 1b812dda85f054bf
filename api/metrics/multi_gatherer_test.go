// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	dto "github.com/prometheus/client_model/go"
)

var (
	errTest = errors.New("non-nil error")

	hello      = "hello"
	world      = "world"
	helloWorld = "hello_world"
)

type testGatherer struct {
	mfs []*dto.MetricFamily
	err error
}

func (g *testGatherer) Gather() ([]*dto.MetricFamily, error) {
	return g.mfs, g.err
}

func counterFamily(name string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Type: dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{{
			Counter: &dto.Counter{Value: proto.Float64(0)},
		}},
	}
}

func TestMultiGathererEmptyGather(t *testing.T) {
	require := require.New(t)

	g := NewPrefixGatherer()

	mfs, err := g.Gather()
	require.NoError(err)
	require.Empty(mfs)
}

func TestMultiGathererAddedError(t *testing.T) {
	require := require.New(t)

	g := NewPrefixGatherer()
	require.NoError(g.Register("", &testGatherer{err: errTest}))

	mfs, err := g.Gather()
	require.ErrorIs(err, errTest)
	require.Empty(mfs)
}

func TestMultiGathererNoAddedPrefix(t *testing.T) {
	require := require.New(t)

	g := NewPrefixGatherer()
	require.NoError(g.Register("", &testGatherer{
		mfs: []*dto.MetricFamily{counterFamily(hello)},
	}))

	mfs, err := g.Gather()
	require.NoError(err)
	require.Len(mfs, 1)
	require.Equal(hello, mfs[0].GetName())
}

func TestMultiGathererAddedPrefix(t *testing.T) {
	require := require.New(t)

	g := NewPrefixGatherer()
	require.NoError(g.Register(hello, &testGatherer{
		mfs: []*dto.MetricFamily{counterFamily(world)},
	}))

	mfs, err := g.Gather()
	require.NoError(err)
	require.Len(mfs, 1)
	require.Equal(helloWorld, mfs[0].GetName())
}

func TestMultiGathererJustPrefix(t *testing.T) {
	require := require.New(t)

	g := NewPrefixGatherer()
	require.NoError(g.Register(hello, &testGatherer{
		mfs: []*dto.MetricFamily{counterFamily("")},
	}))

	mfs, err := g.Gather()
	require.NoError(err)
	require.Len(mfs, 1)
	require.Equal(hello, mfs[0].GetName())
}

func TestMultiGathererSorted(t *testing.T) {
	require := require.New(t)

	g := NewPrefixGatherer()
	require.NoError(g.Register("", &testGatherer{
		mfs: []*dto.MetricFamily{
			counterFamily("z"),
			counterFamily("a"),
		},
	}))

	mfs, err := g.Gather()
	require.NoError(err)
	require.Len(mfs, 2)
	require.Equal("a", mfs[0].GetName())
	require.Equal("z", mfs[1].GetName())
}

func TestMultiGathererDeregister(t *testing.T) {
	require := require.New(t)

	g := NewPrefixGatherer()
	require.NoError(g.Register(hello, &testGatherer{
		mfs: []*dto.MetricFamily{counterFamily(world)},
	}))
	require.NoError(g.Register(world, &testGatherer{
		mfs: []*dto.MetricFamily{counterFamily(hello)},
	}))

	require.True(g.Deregister(hello))
	require.False(g.Deregister(hello))

	mfs, err := g.Gather()
	require.NoError(err)
	require.Len(mfs, 1)
	require.Equal("world_hello", mfs[0].GetName())

	// The prefix is free again.
	require.NoError(g.Register(hello, &testGatherer{}))
}

func TestMakeAndRegister(t *testing.T) {
	require := require.New(t)

	g := NewPrefixGatherer()
	reg, err := MakeAndRegister(g, "gov")
	require.NoError(err)
	require.NotNil(reg)

	_, err = MakeAndRegister(g, "gov")
	require.ErrorIs(err, errOverlappingNamespaces)
}
