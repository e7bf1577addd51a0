package kernels

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/staticshape/ops"
	"github.com/gomlx/staticshape/tensors"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogramBinEdges(t *testing.T) {
	samples := tensors.FromValue([]float64{0, 1, 2, 3, 4})
	edges := HistogramBinEdges(samples, WithBinCount(4))
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, edges.Value())

	// Explicit range overrides the data extent.
	edges = HistogramBinEdges(samples, WithBinCount(2), WithRange(0, 10))
	assert.Equal(t, []float64{0, 5, 10}, edges.Value())

	// Degenerate extent expands by half a unit each way.
	edges = HistogramBinEdges(tensors.FromValue([]float64{5, 5, 5}), WithBinCount(2))
	assert.Equal(t, []float64{4.5, 5, 5.5}, edges.Value())

	// No samples and no range: the unit interval.
	empty := tensors.FromFlatDataAndDimensions([]float64{}, 0)
	edges = HistogramBinEdges(empty, WithBinCount(2))
	assert.Equal(t, []float64{0, 0.5, 1}, edges.Value())

	// Integer samples get floating edges.
	edges = HistogramBinEdges(tensors.FromValue([]int64{0, 10}), WithBinCount(2))
	require.Equal(t, dtypes.Float64, edges.DType())
	assert.Equal(t, []float64{0, 5, 10}, edges.Value())

	// Explicit edges pass through untouched.
	given := tensors.FromValue([]float64{1, 2, 4})
	assert.True(t, HistogramBinEdges(samples, WithBinEdges(given)).Equal(given))
}

func TestHistogram(t *testing.T) {
	samples := tensors.FromValue([]float64{1, 2, 1})
	counts, edges := Histogram(samples, WithBinEdges(tensors.FromValue([]float64{0, 1, 2, 3})))
	assert.Equal(t, []float64{0, 1, 2, 3}, edges.Value())
	assert.Equal(t, []int64{0, 2, 1}, counts.Value())

	// The last bin is closed on the right; out-of-range samples are dropped.
	samples = tensors.FromValue([]float64{-1, 0, 3, 4})
	counts, _ = Histogram(samples, WithBinEdges(tensors.FromValue([]float64{0, 1, 2, 3})))
	assert.Equal(t, []int64{1, 0, 1}, counts.Value())
}

func TestHistogramWeights(t *testing.T) {
	samples := tensors.FromValue([]float64{0.5, 1.5, 0.5})
	weights := tensors.FromValue([]float64{1.5, 2.0, 0.5})
	counts, _ := Histogram(samples,
		WithBinEdges(tensors.FromValue([]float64{0, 1, 2})), WithWeights(weights))
	assert.Equal(t, []float64{2, 2}, counts.Value())

	// Total weight is conserved when every sample is in range.
	total := tensors.ToScalar[float64](ops.ReduceAllSum(counts))
	assert.Equal(t, 4.0, total)
}

func TestHistogramDensity(t *testing.T) {
	samples := tensors.FromValue([]float64{1, 2, 3, 4})
	counts, edges := Histogram(samples, WithBinCount(2), WithDensity())
	assert.Equal(t, []float64{1, 2.5, 4}, edges.Value())
	want := tensors.FromValue([]float64{1.0 / 3, 1.0 / 3})
	assert.True(t, counts.InDelta(want, 1e-12))
}

func TestHistogramErrors(t *testing.T) {
	samples := tensors.FromValue([]float64{1, 2})
	_, _, err := HistogramErr(samples, WithRange(2, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValue))

	_, _, err = HistogramErr(samples, WithBinCount(0))
	assert.True(t, errors.Is(err, ErrValue))

	_, _, err = HistogramErr(samples, WithWeights(tensors.FromValue([]float64{1, 2, 3})))
	assert.True(t, errors.Is(err, ErrValue))

	_, _, err = HistogramErr(samples, WithBinEdges(tensors.FromValue([][]float64{{1, 2}})))
	assert.True(t, errors.Is(err, ErrValue))
}

func TestHistogramDD(t *testing.T) {
	sample := tensors.FromValue([][]float64{{0.5, 0.5}, {1.5, 0.5}, {1.5, 1.5}, {2.0, 2.0}})
	counts, edgesPerAxis := HistogramDD(sample,
		WithBinCounts(2, 2), WithRangePerAxis([2]float64{0, 2}, [2]float64{0, 2}))
	require.Len(t, edgesPerAxis, 2)
	assert.Equal(t, []float64{0, 1, 2}, edgesPerAxis[0].Value())
	assert.Equal(t, []float64{0, 1, 2}, edgesPerAxis[1].Value())
	// The sample on the far corner sits exactly on the last edge of both axes and
	// lands in the last bin.
	assert.Equal(t, [][]int64{{1, 0}, {1, 2}}, counts.Value())
}

func TestHistogram2D(t *testing.T) {
	x := tensors.FromValue([]float64{0.5, 1.5, 1.5})
	y := tensors.FromValue([]float64{0.5, 0.5, 1.5})
	counts, xEdges, yEdges := Histogram2D(x, y,
		WithBinCounts(2, 2), WithRangePerAxis([2]float64{0, 2}, [2]float64{0, 2}))
	assert.Equal(t, []float64{0, 1, 2}, xEdges.Value())
	assert.Equal(t, []float64{0, 1, 2}, yEdges.Value())
	assert.Equal(t, [][]int64{{1, 0}, {1, 1}}, counts.Value())
}

func TestRavelMultiIndex(t *testing.T) {
	rows := tensors.FromValue([]int32{1, 2})
	cols := tensors.FromValue([]int32{0, 3})
	got := RavelMultiIndex([]*tensors.Tensor{rows, cols}, []int{3, 4}, ops.BoundsRaise)
	assert.Equal(t, []int32{4, 11}, got.Value())

	// Clip clamps, wrap folds.
	over := tensors.FromValue([]int32{5, -1})
	zero := tensors.FromValue([]int32{0, 0})
	assert.Equal(t, []int32{8, 0}, RavelMultiIndex([]*tensors.Tensor{over, zero}, []int{3, 4}, ops.BoundsClip).Value())
	assert.Equal(t, []int32{8, 8}, RavelMultiIndex([]*tensors.Tensor{over, zero}, []int{3, 4}, ops.BoundsWrap).Value())

	err := exceptions.TryCatch[error](func() {
		RavelMultiIndex([]*tensors.Tensor{over, zero}, []int{3, 4}, ops.BoundsRaise)
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValue))
}
