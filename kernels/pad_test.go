package kernels

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/staticshape/ops"
	"github.com/gomlx/staticshape/tensors"
	"github.com/gomlx/staticshape/types/shapes"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPadConstant(t *testing.T) {
	x := tensors.FromValue([]float64{1, 2, 3})
	got := must.M1(PadErr(x, 2, PadConstant))
	assert.Equal(t, []float64{0, 0, 1, 2, 3, 0, 0}, got.Value())

	got = Pad(x, [2]int{1, 2}, PadConstant, WithConstantValues(9.0))
	assert.Equal(t, []float64{9, 1, 2, 3, 9, 9}, got.Value())

	got = Pad(x, 1, PadConstant, WithConstantValues([2]float64{-1, 7}))
	assert.Equal(t, []float64{-1, 1, 2, 3, 7}, got.Value())

	// Output shape is input shape plus both widths, per axis.
	xx := tensors.FromValue([][]int32{{1, 2, 3}, {4, 5, 6}})
	got = Pad(xx, [][2]int{{1, 1}, {2, 2}}, PadConstant)
	require.Equal(t, []int{4, 7}, got.Shape().Dimensions)
	// Slicing the pad back off returns the original.
	core := ops.SliceAxis(ops.SliceAxis(got, 0, 1, 3), 1, 2, 5)
	assert.True(t, core.Equal(xx))
}

func TestPadEdgeAndWrap(t *testing.T) {
	x := tensors.FromValue([]int64{1, 2, 3})
	assert.Equal(t, []int64{1, 1, 1, 2, 3, 3, 3}, Pad(x, 2, PadEdge).Value())
	assert.Equal(t, []int64{2, 3, 1, 2, 3, 1, 2, 3}, Pad(x, [2]int{2, 3}, PadWrap).Value())

	// Wrap widths past one full period keep cycling.
	assert.Equal(t, []int64{3, 1, 2, 3, 1, 2, 3}, Pad(x, [2]int{4, 0}, PadWrap).Value())
}

func TestPadReflect(t *testing.T) {
	x := tensors.FromValue([]int64{1, 2, 3})
	assert.Equal(t, []int64{3, 2, 1, 2, 3, 2, 1}, Pad(x, 2, PadReflect).Value())

	// Widths beyond the mirror period bounce back and forth.
	two := tensors.FromValue([]int64{1, 2})
	assert.Equal(t, []int64{2, 1, 2, 1, 2}, Pad(two, [2]int{3, 0}, PadReflect).Value())
	assert.Equal(t, []int64{1, 2, 3, 2, 1, 2, 3, 2, 1}, Pad(x, [2]int{0, 6}, PadReflect).Value())

	// Each side mirrors with the period of the unpadded axis, so a bouncing width on
	// one side is unaffected by padding on the other.
	assert.Equal(t, []int64{2, 1, 2, 3, 2, 1, 2, 3}, Pad(x, [2]int{1, 4}, PadReflect).Value())

	// Odd reflection continues the slope through the edge value.
	got := Pad(x, 2, PadReflect, WithReflectStyle(ReflectOdd))
	assert.Equal(t, []int64{-1, 0, 1, 2, 3, 4, 5}, got.Value())

	// A singleton axis has nothing to mirror and degrades to edge repetition.
	one := tensors.FromValue([]int64{7})
	assert.Equal(t, []int64{7, 7, 7, 7}, Pad(one, [2]int{2, 1}, PadReflect).Value())
}

func TestPadSymmetric(t *testing.T) {
	x := tensors.FromValue([]int64{1, 2, 3})
	assert.Equal(t, []int64{2, 1, 1, 2, 3}, Pad(x, [2]int{2, 0}, PadSymmetric).Value())
	assert.Equal(t, []int64{1, 2, 3, 3, 2}, Pad(x, [2]int{0, 2}, PadSymmetric).Value())
}

func TestPadReflectReversalSymmetry(t *testing.T) {
	// Mirrored padding commutes with reversing the axis: padding then reversing
	// equals reversing then padding with the side widths swapped. The widths force
	// several bounces off both ends.
	x := tensors.FromValue([]int64{3, 1, 4, 1, 5})
	reversed := ops.Reverse(x, 0)
	for _, mode := range []PadMode{PadReflect, PadSymmetric} {
		for _, style := range []ReflectStyle{ReflectEven, ReflectOdd} {
			padded := Pad(x, [2]int{3, 15}, mode, WithReflectStyle(style))
			flipped := Pad(reversed, [2]int{15, 3}, mode, WithReflectStyle(style))
			assert.True(t, ops.Reverse(padded, 0).Equal(flipped),
				"mode=%s style=%s: %v vs reversed %v", mode, style, padded.Value(), flipped.Value())
		}
	}
}

func TestPadLinearRamp(t *testing.T) {
	x := tensors.FromValue([]float64{1, 3})
	got := Pad(x, 2, PadLinearRamp, WithEndValues([2]float64{0, 10}))
	assert.Equal(t, []float64{0, 0.5, 1, 3, 6.5, 10}, got.Value())

	// Default end value is 0.
	got = Pad(tensors.FromValue([]float64{4}), [2]int{2, 0}, PadLinearRamp)
	assert.Equal(t, []float64{0, 2, 4}, got.Value())
}

func TestPadStatModes(t *testing.T) {
	x := tensors.FromValue([]int64{3, 1, 4, 2})
	assert.Equal(t, []int64{4, 3, 1, 4, 2, 4}, Pad(x, 1, PadMaximum).Value())
	assert.Equal(t, []int64{1, 1, 3, 1, 4, 2}, Pad(x, [2]int{2, 0}, PadMinimum).Value())

	f := tensors.FromValue([]float64{1, 2, 3, 4})
	assert.Equal(t, []float64{2.5, 1, 2, 3, 4, 2.5}, Pad(f, 1, PadMean).Value())
	assert.Equal(t, []float64{2.5, 1, 2, 3, 4, 2.5}, Pad(f, 1, PadMedian).Value())

	// stat_length restricts the window to the outermost elements of each side.
	got := Pad(f, 1, PadMean, WithStatLength(2))
	assert.Equal(t, []float64{1.5, 1, 2, 3, 4, 3.5}, got.Value())
}

func TestPadEmpty(t *testing.T) {
	x := tensors.FromValue([]float32{1, 2, 3})
	got := Pad(x, 1, PadEmpty)
	require.Equal(t, []int{5}, got.Shape().Dimensions)
	assert.Equal(t, []float32{0, 1, 2, 3, 0}, got.Value())
}

func TestPadErrors(t *testing.T) {
	x := tensors.FromValue([]float64{1, 2, 3})
	_, err := PadErr(x, -1, PadConstant)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidWidth))

	_, err = PadErr(x, 2, PadMode(99))
	assert.True(t, errors.Is(err, ErrUnsupportedMode))

	_, err = PadErr(x, 1, PadMaximum, WithStatLength(0))
	assert.True(t, errors.Is(err, ErrValue))

	// A zero-length axis has no content to extend.
	empty := ops.Zeros(shapes.Make(dtypes.Float64, 0))
	_, err = PadErr(empty, 1, PadEdge)
	assert.True(t, errors.Is(err, ErrInvalidWidth))
}

func TestPadFunc(t *testing.T) {
	x := tensors.FromValue([]int64{1, 2, 3})
	got := PadFunc(x, [2]int{1, 2}, func(lane *tensors.Tensor, axis int, w PadWidth) *tensors.Tensor {
		// Overwrite the padded region with -1 on each side.
		n := lane.Size()
		left := ops.FillScalar(shapes.Make(lane.DType(), w.Before), -1)
		mid := ops.SliceAxis(lane, 0, w.Before, n-w.After)
		right := ops.FillScalar(shapes.Make(lane.DType(), w.After), -1)
		return ops.Concatenate(0, left, mid, right)
	})
	assert.Equal(t, []int64{-1, 1, 2, 3, -1, -1}, got.Value())

	// Returning a lane of the wrong shape is rejected.
	require.Panics(t, func() {
		PadFunc(x, 1, func(lane *tensors.Tensor, axis int, w PadWidth) *tensors.Tensor {
			return ops.SliceAxis(lane, 0, 0, 1)
		})
	})
}
