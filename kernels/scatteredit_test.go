package kernels

import (
	"testing"

	"github.com/gomlx/staticshape/tensors"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepeat(t *testing.T) {
	x := tensors.FromValue([][]int64{{1, 2}, {3, 4}})
	assert.Equal(t, [][]int64{{1, 1, 2, 2}, {3, 3, 4, 4}}, Repeat(x, 2, -1).Value())
	assert.Equal(t, [][]int64{{1, 2}, {1, 2}, {3, 4}, {3, 4}}, Repeat(x, 2, 0).Value())
	assert.Equal(t, []int64{1, 1, 2, 2, 3, 3, 4, 4}, Repeat(x, 2, AxisFlat).Value())

	// Per-element repeats, including zero.
	got := Repeat(tensors.FromValue([]int64{1, 2, 3}), []int{0, 2, 3}, 0)
	assert.Equal(t, []int64{2, 2, 3, 3, 3}, got.Value())

	got = Repeat(x, tensors.FromValue([]int32{1, 2}), 0)
	assert.Equal(t, [][]int64{{1, 2}, {3, 4}, {3, 4}}, got.Value())

	// Zero repeats empty the axis but keep the other dimensions.
	got = Repeat(x, 0, 1)
	assert.Equal(t, []int{2, 0}, got.Shape().Dimensions)
}

func TestRepeatWithTotalLength(t *testing.T) {
	x := tensors.FromValue([]int64{1, 2, 3})
	// Shorter than the sum of repeats: truncated.
	got := RepeatWithTotalLength(x, 2, 0, 4)
	assert.Equal(t, []int64{1, 1, 2, 2}, got.Value())
	// Longer: the final element fills the remainder.
	got = RepeatWithTotalLength(x, 2, 0, 8)
	assert.Equal(t, []int64{1, 1, 2, 2, 3, 3, 3, 3}, got.Value())
}

func TestRepeatErrors(t *testing.T) {
	x := tensors.FromValue([]int64{1, 2, 3})
	_, err := RepeatErr(x, -1, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValue))

	_, err = RepeatErr(x, []int{1, 2}, 0)
	assert.True(t, errors.Is(err, ErrShape))
}

func TestInsert(t *testing.T) {
	x := tensors.FromValue([]int64{1, 2, 3})
	// A single position takes a contiguous block of any length.
	assert.Equal(t, []int64{1, 10, 11, 2, 3}, Insert(x, 1, []int64{10, 11}, 0).Value())
	assert.Equal(t, []int64{1, 2, 99, 3}, Insert(x, -1, int64(99), 0).Value())
	// The axis length itself appends.
	assert.Equal(t, []int64{1, 2, 3, 4}, Insert(x, 3, int64(4), 0).Value())

	// Multiple positions refer to the original indexing; equal positions keep
	// argument order.
	got := Insert(x, []int{1, 1, 3}, []int64{10, 11, 12}, 0)
	assert.Equal(t, []int64{1, 10, 11, 2, 3, 12}, got.Value())

	// A single value is reused for every position.
	got = Insert(x, []int{0, 2}, int64(9), 0)
	assert.Equal(t, []int64{9, 1, 2, 9, 3}, got.Value())
}

func TestInsert2D(t *testing.T) {
	x := tensors.FromValue([][]int64{{1, 2}, {3, 4}})
	got := Insert(x, 1, int64(9), 1)
	assert.Equal(t, [][]int64{{1, 9, 2}, {3, 9, 4}}, got.Value())

	// A rank-(n-1) value is one slice.
	got = Insert(x, 1, []int64{9, 8}, 0)
	assert.Equal(t, [][]int64{{1, 2}, {9, 8}, {3, 4}}, got.Value())

	got = Insert(x, 2, int64(7), AxisFlat)
	assert.Equal(t, []int64{1, 2, 7, 3, 4}, got.Value())
}

func TestInsertErrors(t *testing.T) {
	x := tensors.FromValue([]int64{1, 2, 3})
	_, err := InsertErr(x, 4, int64(0), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValue))

	_, err = InsertErr(x, []int{0, 1}, []int64{1, 2, 3}, 0)
	assert.True(t, errors.Is(err, ErrShape))
}

func TestDelete(t *testing.T) {
	x := tensors.FromValue([]int64{1, 2, 3, 4, 5})
	assert.Equal(t, []int64{1, 3, 4, 5}, Delete(x, 1, 0, false).Value())
	assert.Equal(t, []int64{1, 2, 3, 4}, Delete(x, -1, 0, false).Value())
	assert.Equal(t, []int64{2, 4, 5}, Delete(x, []int{0, 2}, 0, false).Value())
	// Duplicate positions delete once.
	assert.Equal(t, []int64{2, 4, 5}, Delete(x, []int{0, 0, 2}, 0, false).Value())
	// The unique fast path agrees.
	assert.Equal(t, []int64{2, 4, 5}, Delete(x, []int{2, 0}, 0, true).Value())
	assert.Equal(t, []int64{1, 3, 5}, Delete(x, tensors.FromValue([]int32{1, 3}), 0, true).Value())
}

func TestDeleteMaskAndAxes(t *testing.T) {
	x := tensors.FromValue([]int64{1, 2, 3, 4, 5})
	mask := tensors.FromValue([]bool{true, false, true, false, false})
	assert.Equal(t, []int64{2, 4, 5}, Delete(x, mask, 0, false).Value())

	xx := tensors.FromValue([][]int64{{1, 2}, {3, 4}, {5, 6}})
	assert.Equal(t, [][]int64{{1, 2}, {5, 6}}, Delete(xx, 1, 0, false).Value())
	assert.Equal(t, [][]int64{{2}, {4}, {6}}, Delete(xx, 0, 1, false).Value())
	assert.Equal(t, []int64{1, 2, 4, 5, 6}, Delete(xx, 2, AxisFlat, false).Value())

	// Deleting everything leaves a zero-length axis.
	got := Delete(x, []int{0, 1, 2, 3, 4}, 0, true)
	assert.Equal(t, []int{0}, got.Shape().Dimensions)
}

func TestInsertDeleteRoundTrip(t *testing.T) {
	x := tensors.FromValue([]float64{1, 2, 3, 4})
	grown := must.M1(InsertErr(x, 2, 99.0, 0))
	assert.True(t, must.M1(DeleteErr(grown, 2, 0, false)).Equal(x))
}

func TestDeleteErrors(t *testing.T) {
	x := tensors.FromValue([]int64{1, 2, 3})
	_, err := DeleteErr(x, 3, 0, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValue))

	_, err = DeleteErr(x, tensors.FromValue([]bool{true, false}), 0, false)
	assert.True(t, errors.Is(err, ErrShape))
}

func TestFillDiagonal(t *testing.T) {
	zeros2x3 := tensors.FromValue([][]int64{{0, 0, 0}, {0, 0, 0}})
	got := FillDiagonal(zeros2x3, int64(5))
	assert.Equal(t, [][]int64{{5, 0, 0}, {0, 5, 0}}, got.Value())

	// Tall matrices stop at the square part.
	zeros3x2 := tensors.FromValue([][]int64{{0, 0}, {0, 0}, {0, 0}})
	got = FillDiagonal(zeros3x2, int64(5))
	assert.Equal(t, [][]int64{{5, 0}, {0, 5}, {0, 0}}, got.Value())

	// Values are reused cyclically along the diagonal.
	zeros3x3 := tensors.FromValue([][]int64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}})
	got = FillDiagonal(zeros3x3, []int64{1, 2})
	assert.Equal(t, [][]int64{{1, 0, 0}, {0, 2, 0}, {0, 0, 1}}, got.Value())

	// The input is never mutated.
	assert.Equal(t, [][]int64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}, zeros3x3.Value())

	cube := tensors.FromValue([][][]int64{{{0, 0}, {0, 0}}, {{0, 0}, {0, 0}}})
	got = FillDiagonal(cube, int64(7))
	assert.Equal(t, [][][]int64{{{7, 0}, {0, 0}}, {{0, 0}, {0, 7}}}, got.Value())
}

func TestFillDiagonalErrors(t *testing.T) {
	_, err := FillDiagonalErr(tensors.FromValue([]int64{1, 2}), int64(0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValue))

	uneven := tensors.FromValue([][][]int64{{{0, 0, 0}, {0, 0, 0}}})
	_, err = FillDiagonalErr(uneven, int64(0))
	assert.True(t, errors.Is(err, ErrValue))
}
