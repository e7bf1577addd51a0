package shapes

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeAndProperties(t *testing.T) {
	s := Make(dtypes.Float32, 2, 3)
	assert.Equal(t, 2, s.Rank())
	assert.Equal(t, 6, s.Size())
	assert.Equal(t, "(Float32)[2 3]", s.String())
	assert.Equal(t, 3, s.Dim(-1))
	assert.Equal(t, 2, s.Dim(0))
	assert.False(t, s.IsScalar())
	assert.False(t, s.IsZeroSize())

	scalar := Make(dtypes.Int64)
	assert.True(t, scalar.IsScalar())
	assert.Equal(t, 1, scalar.Size())

	empty := Make(dtypes.Float64, 0, 3)
	assert.True(t, empty.IsZeroSize())
	assert.Equal(t, 0, empty.Size())

	require.Panics(t, func() { Make(dtypes.Float32, -1) })
	require.Panics(t, func() { s.Dim(2) })
}

func TestEqualAndClone(t *testing.T) {
	s := Make(dtypes.Int32, 4, 5)
	s2 := s.Clone()
	assert.True(t, s.Equal(s2))
	s2.Dimensions[0] = 7
	assert.False(t, s.Equal(s2))
	assert.True(t, s.EqualDimensions(Make(dtypes.Float32, 4, 5)))
	assert.False(t, s.Equal(Make(dtypes.Float32, 4, 5)))
}

func TestStrides(t *testing.T) {
	s := Make(dtypes.Float32, 2, 3, 4)
	assert.Equal(t, []int{12, 4, 1}, s.Strides())
	assert.Nil(t, Make(dtypes.Float32).Strides())
}

func TestAdjustAxis(t *testing.T) {
	s := Make(dtypes.Float32, 2, 3, 4)
	assert.Equal(t, 2, s.AdjustAxis(-1))
	assert.Equal(t, 0, s.AdjustAxis(0))
	require.Panics(t, func() { s.AdjustAxis(3) })
	require.Panics(t, func() { s.AdjustAxis(-4) })
}

func TestAsserts(t *testing.T) {
	s := Make(dtypes.Float32, 2, 3)
	require.NotPanics(t, func() { s.AssertDims(2, -1) })
	require.Panics(t, func() { s.AssertDims(3, -1) })
	require.NotPanics(t, func() { s.AssertRank(2) })
	require.Panics(t, func() { s.AssertRank(1) })
	require.NoError(t, s.Check(dtypes.Float32, 2, 3))
	require.Error(t, s.Check(dtypes.Float64, 2, 3))
}

func TestIter(t *testing.T) {
	s := Make(dtypes.Float64, 2, 1, 3)
	want := [][]int{
		{0, 0, 0}, {0, 0, 1}, {0, 0, 2},
		{1, 0, 0}, {1, 0, 1}, {1, 0, 2},
	}
	var got [][]int
	for indices := range s.Iter() {
		got = append(got, append([]int{}, indices...))
	}
	require.Equal(t, want, got)

	// Scalar: a single empty index.
	count := 0
	for range Make(dtypes.Float32).Iter() {
		count++
	}
	assert.Equal(t, 1, count)

	// Zero-size: no indices.
	for range Make(dtypes.Float32, 0, 2).Iter() {
		t.Fatal("zero-size shape should yield no indices")
	}
}
