package ops

import (
	"math"
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/staticshape/tensors"
	"github.com/gomlx/staticshape/types/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryOpsWithBroadcast(t *testing.T) {
	lhs := tensors.FromValue([][]float32{{1, 2, 3}, {4, 5, 6}})
	rhs := tensors.FromValue([]float32{10, 20, 30})
	got := Add(lhs, rhs)
	require.Equal(t, []int{2, 3}, got.Shape().Dimensions)
	assert.Equal(t, [][]float32{{11, 22, 33}, {14, 25, 36}}, got.Value())

	// Scalar broadcasts against anything.
	got = Mul(lhs, tensors.FromScalar(float32(2)))
	assert.Equal(t, [][]float32{{2, 4, 6}, {8, 10, 12}}, got.Value())

	got = Sub(tensors.FromValue([]int64{10, 20}), tensors.FromValue([]int64{1, 2}))
	assert.Equal(t, []int64{9, 18}, got.Value())

	got = Max(tensors.FromValue([]int32{1, 5, 3}), tensors.FromValue([]int32{4, 2, 3}))
	assert.Equal(t, []int32{4, 5, 3}, got.Value())

	// Incompatible dimensions must panic.
	require.Panics(t, func() {
		Add(tensors.FromValue([]float32{1, 2, 3}), tensors.FromValue([]float32{1, 2}))
	})
}

func TestCompareAndWhere(t *testing.T) {
	x := tensors.FromValue([]float64{1, 4, 2, 8})
	y := tensors.FromValue([]float64{3, 3, 3, 3})
	cond := LessThan(x, y)
	require.Equal(t, dtypes.Bool, cond.DType())
	assert.Equal(t, []bool{true, false, true, false}, cond.Value())

	got := Where(cond, x, y)
	assert.Equal(t, []float64{1, 3, 2, 3}, got.Value())

	// Broadcasting scalar branches.
	got = Where(cond, tensors.FromScalar(-1.0), tensors.FromScalar(1.0))
	assert.Equal(t, []float64{-1, 1, -1, 1}, got.Value())
}

func TestScalarHelpers(t *testing.T) {
	x := tensors.FromValue([]int32{1, 2, 3})
	assert.Equal(t, []int32{3, 4, 5}, AddScalar(x, 2).Value())
	assert.Equal(t, []int32{2, 4, 6}, MulScalar(x, 2).Value())
	assert.Equal(t, []int32{1, 2, 2}, MinScalar(x, 2).Value())
	require.Panics(t, func() { DivScalar(x, 0) })
}

func TestCreation(t *testing.T) {
	got := Iota1D(dtypes.Int32, 5)
	assert.Equal(t, []int32{0, 1, 2, 3, 4}, got.Value())

	got = FillScalar(shapes.Make(dtypes.Float32, 2, 3), 7)
	assert.Equal(t, [][]float32{{7, 7, 7}, {7, 7, 7}}, got.Value())

	got = Ones(shapes.Make(dtypes.Uint8, 3))
	assert.Equal(t, []uint8{1, 1, 1}, got.Value())

	got = Linspace(dtypes.Float64, 0, 1, 5, true)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, got.Value())

	got = Linspace(dtypes.Float64, 0, 1, 4, false)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75}, got.Value())
}

func TestConvertDType(t *testing.T) {
	x := tensors.FromValue([]float64{1.7, -2.3, 0})
	assert.Equal(t, []int32{1, -2, 0}, ConvertDType(x, dtypes.Int32).Value())
	assert.Equal(t, []bool{true, true, false}, ConvertDType(x, dtypes.Bool).Value())
	assert.Equal(t, []float32{1.7, -2.3, 0}, ConvertDType(x, dtypes.Float32).Value())

	// Round-trip through the 16-bit float types.
	y := tensors.FromValue([]float32{1, -2, 0.5})
	assert.Equal(t, y.Value(), ConvertDType(ConvertDType(y, dtypes.Float16), dtypes.Float32).Value())
	assert.Equal(t, y.Value(), ConvertDType(ConvertDType(y, dtypes.BFloat16), dtypes.Float32).Value())

	// Same dtype returns an independent copy.
	clone := ConvertDType(x, dtypes.Float64)
	require.True(t, clone.Equal(x))
}

func TestPromoteDTypes(t *testing.T) {
	assert.Equal(t, dtypes.Float64, PromoteDTypes(dtypes.Float64, dtypes.Int32))
	assert.Equal(t, dtypes.Float32, PromoteDTypes(dtypes.Float16, dtypes.Float32))
	assert.Equal(t, dtypes.Int64, PromoteDTypes(dtypes.Int64, dtypes.Int8))
	assert.Equal(t, dtypes.Int32, PromoteDTypes(dtypes.Uint16, dtypes.Int16))
	assert.Equal(t, dtypes.Float64, PromoteDTypes(dtypes.Uint64, dtypes.Int8))
	assert.Equal(t, dtypes.Uint32, PromoteDTypes(dtypes.Uint32, dtypes.Uint8))
}

func TestConcatenate(t *testing.T) {
	a := tensors.FromValue([][]int32{{1, 2}, {3, 4}})
	b := tensors.FromValue([][]int32{{5, 6}})
	got := Concatenate(0, a, b)
	assert.Equal(t, [][]int32{{1, 2}, {3, 4}, {5, 6}}, got.Value())

	c := tensors.FromValue([][]int32{{7}, {8}})
	got = Concatenate(1, a, c)
	assert.Equal(t, [][]int32{{1, 2, 7}, {3, 4, 8}}, got.Value())

	// Negative axis and empty operand.
	empty := tensors.FromShape(shapes.Make(dtypes.Int32, 2, 0))
	got = Concatenate(-1, a, empty)
	assert.Equal(t, [][]int32{{1, 2}, {3, 4}}, got.Value())

	require.Panics(t, func() { Concatenate(0, a, c) })
}

func TestSliceAxisAndReverse(t *testing.T) {
	x := tensors.FromValue([][]float32{{1, 2, 3, 4}, {5, 6, 7, 8}})
	got := SliceAxis(x, 1, 1, 3)
	assert.Equal(t, [][]float32{{2, 3}, {6, 7}}, got.Value())

	got = SliceAxis(x, 0, 1, 2)
	assert.Equal(t, [][]float32{{5, 6, 7, 8}}, got.Value())

	// Empty slice is legal.
	got = SliceAxis(x, 1, 2, 2)
	require.Equal(t, []int{2, 0}, got.Shape().Dimensions)

	got = Reverse(x, 1)
	assert.Equal(t, [][]float32{{4, 3, 2, 1}, {8, 7, 6, 5}}, got.Value())
	got = Reverse(x, 0)
	assert.Equal(t, [][]float32{{5, 6, 7, 8}, {1, 2, 3, 4}}, got.Value())

	require.Panics(t, func() { SliceAxis(x, 1, 3, 2) })
}

func TestReshapeExpandSqueeze(t *testing.T) {
	x := tensors.FromValue([]int64{1, 2, 3, 4, 5, 6})
	got := Reshape(x, 2, 3)
	assert.Equal(t, [][]int64{{1, 2, 3}, {4, 5, 6}}, got.Value())

	got = Reshape(x, 3, -1)
	require.Equal(t, []int{3, 2}, got.Shape().Dimensions)

	got = ExpandAxis(x, 0)
	require.Equal(t, []int{1, 6}, got.Shape().Dimensions)
	got = ExpandAxis(x, -1)
	require.Equal(t, []int{6, 1}, got.Shape().Dimensions)
	got = Squeeze(got, -1)
	require.Equal(t, []int{6}, got.Shape().Dimensions)

	require.Panics(t, func() { Reshape(x, 4, -1) })
}

func TestBroadcastTo(t *testing.T) {
	row := tensors.FromValue([]int64{1, 2, 3})
	got := BroadcastTo(row, 2, 3)
	assert.Equal(t, [][]int64{{1, 2, 3}, {1, 2, 3}}, got.Value())

	col := tensors.FromValue([][]int64{{1}, {2}})
	got = BroadcastTo(col, 2, 3)
	assert.Equal(t, [][]int64{{1, 1, 1}, {2, 2, 2}}, got.Value())

	scalar := tensors.FromScalar(float32(7))
	got = BroadcastTo(scalar, 2, 2)
	assert.Equal(t, [][]float32{{7, 7}, {7, 7}}, got.Value())

	require.Panics(t, func() { BroadcastTo(row, 2, 2) })
	require.Panics(t, func() { BroadcastTo(tensors.FromValue([][]int64{{1, 2}}), 2) })
}

func TestTileAxis(t *testing.T) {
	x := tensors.FromValue([]int32{1, 2})
	got := TileAxis(x, 0, 3)
	assert.Equal(t, []int32{1, 2, 1, 2, 1, 2}, got.Value())

	got = TileAxis(x, 0, 0)
	require.Equal(t, []int{0}, got.Shape().Dimensions)
}

func TestTakeAndBoundsModes(t *testing.T) {
	x := tensors.FromValue([]float32{10, 20, 30, 40})
	idx := tensors.FromValue([]int32{3, 0, 1})
	got := Take(x, idx, BoundsRaise)
	assert.Equal(t, []float32{40, 10, 20}, got.Value())

	// Output takes the shape of the indices.
	idx2D := tensors.FromValue([][]int32{{0, 1}, {2, 3}})
	got = Take(x, idx2D, BoundsRaise)
	assert.Equal(t, [][]float32{{10, 20}, {30, 40}}, got.Value())

	oob := tensors.FromValue([]int32{-1, 4})
	require.Panics(t, func() { Take(x, oob, BoundsRaise) })
	assert.Equal(t, []float32{10, 40}, Take(x, oob, BoundsClip).Value())
	assert.Equal(t, []float32{40, 10}, Take(x, oob, BoundsWrap).Value())
	assert.Equal(t, []float32{0, 0}, Take(x, oob, BoundsDrop).Value())
}

func TestTakeAxis(t *testing.T) {
	x := tensors.FromValue([][]int64{{1, 2, 3}, {4, 5, 6}})
	idx := tensors.FromValue([]int32{2, 0})
	got := TakeAxis(x, idx, 1, BoundsRaise)
	assert.Equal(t, [][]int64{{3, 1}, {6, 4}}, got.Value())

	got = TakeAxis(x, tensors.FromValue([]int32{1, 1, 0}), 0, BoundsRaise)
	assert.Equal(t, [][]int64{{4, 5, 6}, {4, 5, 6}, {1, 2, 3}}, got.Value())
}

func TestScatterSetAndAdd(t *testing.T) {
	operand := tensors.FromValue([]float64{0, 0, 0, 0})
	indices := tensors.FromValue([]int32{2, 0, 2})
	updates := tensors.FromValue([]float64{1, 2, 3})

	got := ScatterSet1D(operand, indices, updates, BoundsRaise)
	assert.Equal(t, []float64{2, 0, 3, 0}, got.Value())
	// Operand is never modified in place.
	assert.Equal(t, []float64{0, 0, 0, 0}, operand.Value())

	got = ScatterAdd1D(operand, indices, updates, BoundsRaise)
	assert.Equal(t, []float64{2, 0, 4, 0}, got.Value())

	oob := tensors.FromValue([]int32{5, 1, 5})
	require.Panics(t, func() { ScatterAdd1D(operand, oob, updates, BoundsRaise) })
	got = ScatterAdd1D(operand, oob, updates, BoundsDrop)
	assert.Equal(t, []float64{0, 2, 0, 0}, got.Value())
}

func TestBincount(t *testing.T) {
	x := tensors.FromValue([]int64{1, 1, 2, 5})
	got := Bincount(x, nil, 0)
	assert.Equal(t, []int64{0, 2, 1, 0, 0, 1}, got.Value())

	got = Bincount(x, nil, 8)
	assert.Equal(t, []int64{0, 2, 1, 0, 0, 1, 0, 0}, got.Value())

	weights := tensors.FromValue([]float64{0.5, 0.5, 2, 1})
	got = Bincount(x, weights, 0)
	assert.Equal(t, []float64{0, 1, 2, 0, 0, 1}, got.Value())

	require.Panics(t, func() { Bincount(tensors.FromValue([]int64{-1}), nil, 0) })
}

func TestCumSum(t *testing.T) {
	x := tensors.FromValue([]int64{1, 2, 3, 4})
	assert.Equal(t, []int64{1, 3, 6, 10}, CumSum(x, 0).Value())
	assert.Equal(t, []int64{0, 1, 3, 6}, ExclusiveCumSum(x, 0).Value())

	m := tensors.FromValue([][]float32{{1, 2}, {3, 4}, {5, 6}})
	assert.Equal(t, [][]float32{{1, 2}, {4, 6}, {9, 12}}, CumSum(m, 0).Value())
	assert.Equal(t, [][]float32{{1, 3}, {3, 7}, {5, 11}}, CumSum(m, 1).Value())
	assert.Equal(t, [][]float32{{0, 0}, {1, 2}, {4, 6}}, ExclusiveCumSum(m, 0).Value())
}

func TestReduce(t *testing.T) {
	x := tensors.FromValue([][]float64{{1, 2, 3}, {4, 5, 6}})
	assert.Equal(t, []float64{5, 7, 9}, ReduceSum(x, 0, false).Value())
	assert.Equal(t, [][]float64{{6}, {15}}, ReduceSum(x, 1, true).Value())
	assert.Equal(t, []float64{1, 2, 3}, ReduceMin(x, 0, false).Value())
	assert.Equal(t, []float64{3, 6}, ReduceMax(x, 1, false).Value())
	assert.Equal(t, 21.0, tensors.ToScalar[float64](ReduceAllSum(x)))

	// Summing an empty axis gives zeros, min/max panic.
	empty := tensors.FromShape(shapes.Make(dtypes.Float64, 2, 0))
	assert.Equal(t, []float64{0, 0}, ReduceSum(empty, 1, false).Value())
	require.Panics(t, func() { ReduceMin(empty, 1, false) })
}

func TestMeanAndMedian(t *testing.T) {
	x := tensors.FromValue([][]float64{{1, 2, 3, 10}, {4, 4, 4, 4}})
	assert.Equal(t, []float64{4, 4}, MeanAxis(x, 1, false).Value())
	assert.Equal(t, [][]float64{{2.5}, {4}}, MedianAxis(x, 1, true).Value())

	// Integer means and medians round half to even.
	ints := tensors.FromValue([]int32{1, 2})
	assert.Equal(t, []int32{2}, MeanAxis(Reshape(ints, 1, 2), 1, false).Value())
	ints = tensors.FromValue([]int32{1, 2, 2, 3})
	assert.Equal(t, []int32{2}, MedianAxis(Reshape(ints, 1, 4), 1, false).Value())
}

func TestSortAndArgSort(t *testing.T) {
	x := tensors.FromValue([]float64{3, 1, 2, 1})
	assert.Equal(t, []float64{1, 1, 2, 3}, SortAxis(x, 0).Value())

	// Stable argsort keeps the original order of equal values.
	perm := ArgSort1D(x)
	assert.Equal(t, []int32{1, 3, 2, 0}, perm.Value())

	ranks := Ranks1D(x)
	assert.Equal(t, []int32{3, 0, 2, 1}, ranks.Value())

	// NaNs sort last.
	withNaN := tensors.FromValue([]float64{2, math.NaN(), 1})
	sorted := SortAxis(withNaN, 0)
	flat := tensors.CopyFlatData[float64](sorted)
	assert.Equal(t, []float64{1, 2}, flat[:2])
	assert.True(t, math.IsNaN(flat[2]))

	// Per-lane sort on a 2-D tensor.
	m := tensors.FromValue([][]int32{{3, 1}, {2, 4}})
	assert.Equal(t, [][]int32{{1, 3}, {2, 4}}, SortAxis(m, 1).Value())
	assert.Equal(t, [][]int32{{2, 1}, {3, 4}}, SortAxis(m, 0).Value())
}

func TestIndexHelpers(t *testing.T) {
	assert.Equal(t, dtypes.Int32, IndexDTypeFor(100))
	assert.Equal(t, dtypes.Int64, IndexDTypeFor(math.MaxInt32+1))

	idx := IntsToTensor(dtypes.Int32, []int{3, 1, 2})
	assert.Equal(t, []int32{3, 1, 2}, idx.Value())
	assert.Equal(t, []int{3, 1, 2}, IntsFromTensor(idx))
}

func TestIndexBoundsModeStrings(t *testing.T) {
	assert.Equal(t, "clip", BoundsClip.String())
	mode, err := IndexBoundsModeString("wrap")
	require.NoError(t, err)
	assert.Equal(t, BoundsWrap, mode)
	_, err = IndexBoundsModeString("bogus")
	require.Error(t, err)
}

func TestErrorsAreCatchable(t *testing.T) {
	err := exceptions.TryCatch[error](func() {
		Add(tensors.FromValue([]float32{1}), tensors.FromValue([]float64{1}))
	})
	require.Error(t, err)
}
