package kernels

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/staticshape/ops"
	"github.com/gomlx/staticshape/tensors"
	"github.com/gomlx/staticshape/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// PadMode selects the fill strategy of Pad.
type PadMode int

const (
	// PadConstant fills with a caller-supplied value, default 0.
	PadConstant PadMode = iota

	// PadEdge repeats the first/last slice of the axis.
	PadEdge

	// PadWrap treats the axis as circular, wrapping around as often as needed.
	PadWrap

	// PadReflect mirrors the axis without duplicating the edge element.
	PadReflect

	// PadSymmetric mirrors the axis including the edge element.
	PadSymmetric

	// PadLinearRamp interpolates linearly from a caller end value to the edge value.
	PadLinearRamp

	// PadMaximum fills with the maximum over the edge region.
	PadMaximum

	// PadMinimum fills with the minimum over the edge region.
	PadMinimum

	// PadMean fills with the mean over the edge region.
	PadMean

	// PadMedian fills with the median over the edge region.
	PadMedian

	// PadEmpty allocates the output without a defined fill value (zeros here).
	PadEmpty
)

//go:generate go tool enumer -type=PadMode -trimprefix=Pad -transform=snake -output=gen_padmode_enumer.go pad.go

// ReflectStyle selects between a pure mirror and a point reflection around the edge
// value for PadReflect and PadSymmetric.
type ReflectStyle int

const (
	// ReflectEven is the pure mirror.
	ReflectEven ReflectStyle = iota

	// ReflectOdd point-reflects: each mirrored value v becomes 2*edge - v.
	ReflectOdd
)

//go:generate go tool enumer -type=ReflectStyle -trimprefix=Reflect -transform=snake -output=gen_reflectstyle_enumer.go pad.go

type padConfig struct {
	constantValues any
	endValues      any
	statLength     any
	reflectStyle   ReflectStyle
}

// PadOption configures mode-specific parameters of Pad.
type PadOption func(*padConfig)

// WithConstantValues sets the fill values of PadConstant. Accepts the same scalar,
// pair and per-axis forms as pad widths, with float64 values.
func WithConstantValues(values any) PadOption {
	return func(cfg *padConfig) { cfg.constantValues = values }
}

// WithEndValues sets the outermost ramp values of PadLinearRamp, same forms as
// WithConstantValues.
func WithEndValues(values any) PadOption {
	return func(cfg *padConfig) { cfg.endValues = values }
}

// WithStatLength limits the per-side window the statistic modes (PadMaximum,
// PadMinimum, PadMean, PadMedian) compute over. Accepts the same forms as pad
// widths; windows are clipped to the axis length and a window of 0 is rejected.
func WithStatLength(spec any) PadOption {
	return func(cfg *padConfig) { cfg.statLength = spec }
}

// WithReflectStyle selects even or odd reflection for PadReflect and PadSymmetric.
func WithReflectStyle(style ReflectStyle) PadOption {
	return func(cfg *padConfig) { cfg.reflectStyle = style }
}

// Pad returns x grown along every axis according to the normalized width
// specification, with the new elements filled according to mode:
// output dimension i is x dimension i + width[i].Before + width[i].After.
//
// Axes are padded one at a time, left to right, each step consuming the already
// padded result of the previous axis — the convention that defines the corner
// values for the multi-axis case.
//
// Padding a zero-length axis with a nonzero width panics wrapping ErrInvalidWidth:
// there is no edge value to extend.
func Pad(x *tensors.Tensor, widthSpec any, mode PadMode, options ...PadOption) *tensors.Tensor {
	cfg := padConfig{constantValues: 0.0, endValues: 0.0, reflectStyle: ReflectEven}
	for _, opt := range options {
		opt(&cfg)
	}
	if !mode.IsAPadMode() {
		panic(errors.Wrapf(ErrUnsupportedMode, "unknown pad mode %d", mode))
	}
	rank := x.Rank()
	widths := NormalizePadWidths(widthSpec, rank)
	klog.V(2).Infof("Pad: mode=%s, widths=%v, shape=%s", mode, widths, x.Shape())

	for axisIdx, w := range widths {
		if x.Shape().Dimensions[axisIdx] == 0 && (w.Before > 0 || w.After > 0) {
			panic(errors.Wrapf(ErrInvalidWidth, "cannot pad zero-length axis %d of shape %s with widths (%d, %d)",
				axisIdx, x.Shape(), w.Before, w.After))
		}
	}

	if mode == PadEmpty {
		outDims := make([]int, rank)
		for axisIdx, dim := range x.Shape().Dimensions {
			outDims[axisIdx] = dim + widths[axisIdx].Before + widths[axisIdx].After
		}
		return ops.Zeros(shapes.Make(x.DType(), outDims...))
	}

	var constants, ends []valuePair
	if mode == PadConstant {
		constants = normalizeValuePairs(cfg.constantValues, rank, "constant values")
	}
	if mode == PadLinearRamp {
		ends = normalizeValuePairs(cfg.endValues, rank, "end values")
	}
	var statWidths []PadWidth
	if isStatMode(mode) && cfg.statLength != nil {
		statWidths = NormalizePadWidths(cfg.statLength, rank)
	}

	cur := x
	for axis, w := range widths {
		if w.Before == 0 && w.After == 0 {
			continue
		}
		switch mode {
		case PadConstant:
			cur = padAxisConstant(cur, axis, w, constants[axis])
		case PadEdge:
			cur = padAxisEdge(cur, axis, w)
		case PadWrap:
			cur = padAxisWrap(cur, axis, w)
		case PadReflect, PadSymmetric:
			dim := cur.Shape().Dimensions[axis]
			cur = buildReflectSide(cur, axis, w.Before, dim, true, mode == PadSymmetric, cfg.reflectStyle)
			cur = buildReflectSide(cur, axis, w.After, dim, false, mode == PadSymmetric, cfg.reflectStyle)
		case PadLinearRamp:
			cur = padAxisLinearRamp(cur, axis, w, ends[axis])
		case PadMaximum, PadMinimum, PadMean, PadMedian:
			cur = padAxisStat(cur, axis, w, mode, statWidths)
		}
	}
	return cur
}

func isStatMode(mode PadMode) bool {
	return mode == PadMaximum || mode == PadMinimum || mode == PadMean || mode == PadMedian
}

func padAxisConstant(x *tensors.Tensor, axis int, w PadWidth, values valuePair) *tensors.Tensor {
	blockShape := func(width int) shapes.Shape {
		dims := x.Shape().Clone().Dimensions
		dims[axis] = width
		return shapes.Make(x.DType(), dims...)
	}
	before := ops.FillScalar(blockShape(w.Before), values.before)
	after := ops.FillScalar(blockShape(w.After), values.after)
	return ops.Concatenate(axis, before, x, after)
}

func padAxisEdge(x *tensors.Tensor, axis int, w PadWidth) *tensors.Tensor {
	dim := x.Shape().Dimensions[axis]
	before := ops.TileAxis(ops.SliceAxis(x, axis, 0, 1), axis, w.Before)
	after := ops.TileAxis(ops.SliceAxis(x, axis, dim-1, dim), axis, w.After)
	return ops.Concatenate(axis, before, x, after)
}

func padAxisWrap(x *tensors.Tensor, axis int, w PadWidth) *tensors.Tensor {
	dim := x.Shape().Dimensions[axis]
	wrapBlock := func(width int, fromTail bool) *tensors.Tensor {
		if width == 0 {
			return ops.SliceAxis(x, axis, 0, 0)
		}
		periods := (width + dim - 1) / dim
		tiled := ops.TileAxis(x, axis, periods)
		if fromTail {
			return ops.SliceAxis(tiled, axis, periods*dim-width, periods*dim)
		}
		return ops.SliceAxis(tiled, axis, 0, width)
	}
	return ops.Concatenate(axis, wrapBlock(w.Before, true), x, wrapBlock(w.After, false))
}

// buildReflectSide grows one side of one axis by mirroring, in chunks bounded by the
// mirror period of the unpadded axis: a single reflection cannot reach further than
// mirrorSize (minus one, when the edge element is excluded). Each chunk mirrors the
// current, already grown content, which is what makes multi-bounce widths come out
// right; mirrorSize must be the axis length before this axis was padded, so that a
// bounce on one side is not stretched by padding already added on the other. With
// ReflectOdd the running edge value follows the outermost chunk element, except on
// singleton axes where the original edge is kept.
func buildReflectSide(x *tensors.Tensor, axis, padding, mirrorSize int, before, includeEdge bool, style ReflectStyle) *tensors.Tensor {
	if padding == 0 {
		return x
	}
	axisSize := x.Shape().Dimensions[axis]
	offset, period := 0, mirrorSize
	if !includeEdge && mirrorSize > 1 {
		// Reflect excludes the edge element from the mirror. On a singleton axis
		// there is nothing else to mirror, so it degrades to repeating the edge.
		offset, period = 1, mirrorSize-1
	}

	var edge *tensors.Tensor
	if style == ReflectOdd {
		if before {
			edge = ops.SliceAxis(x, axis, 0, 1)
		} else {
			edge = ops.SliceAxis(x, axis, axisSize-1, axisSize)
		}
	}

	array := x
	for padding > 0 {
		chunkLen := min(padding, period)
		padding -= chunkLen
		var chunk *tensors.Tensor
		if before {
			chunk = ops.Reverse(ops.SliceAxis(array, axis, offset, offset+chunkLen), axis)
		} else {
			dim := array.Shape().Dimensions[axis]
			chunk = ops.Reverse(ops.SliceAxis(array, axis, dim-offset-chunkLen, dim-offset), axis)
		}
		if style == ReflectOdd {
			compute := arithmeticDType(array.DType())
			mirrored := ops.Sub(ops.MulScalar(ops.ConvertDType(edge, compute), 2),
				ops.ConvertDType(chunk, compute))
			chunk = ops.ConvertDType(mirrored, array.DType())
			if mirrorSize > 1 {
				if before {
					edge = ops.SliceAxis(chunk, axis, 0, 1)
				} else {
					edge = ops.SliceAxis(chunk, axis, chunkLen-1, chunkLen)
				}
			}
		}
		if before {
			array = ops.Concatenate(axis, chunk, array)
		} else {
			array = ops.Concatenate(axis, array, chunk)
		}
	}
	return array
}

func padAxisLinearRamp(x *tensors.Tensor, axis int, w PadWidth, ends valuePair) *tensors.Tensor {
	dim := x.Shape().Dimensions[axis]
	rampBlock := func(width int, endValue float64, before bool) *tensors.Tensor {
		if width == 0 {
			return ops.SliceAxis(x, axis, 0, 0)
		}
		var edge *tensors.Tensor
		if before {
			edge = ops.SliceAxis(x, axis, 0, 1)
		} else {
			edge = ops.SliceAxis(x, axis, dim-1, dim)
		}
		edge64 := ops.ConvertDType(edge, dtypes.Float64)
		// Ramp coefficients: 0 at the outermost position, approaching (but
		// excluding) 1 at the edge.
		coeffs := make([]float64, width)
		for pos := range coeffs {
			coeffs[pos] = float64(pos) / float64(width)
		}
		if !before {
			for ii, jj := 0, width-1; ii < jj; ii, jj = ii+1, jj-1 {
				coeffs[ii], coeffs[jj] = coeffs[jj], coeffs[ii]
			}
		}
		coeffDims := make([]int, x.Rank())
		for ii := range coeffDims {
			coeffDims[ii] = 1
		}
		coeffDims[axis] = width
		coeffT := ops.Reshape(tensors.FromFlatDataAndDimensions(coeffs, width), coeffDims...)
		ramp := ops.AddScalar(ops.Mul(ops.SubScalar(edge64, endValue), coeffT), endValue)
		return ops.ConvertDType(ramp, x.DType())
	}
	before := rampBlock(w.Before, ends.before, true)
	after := rampBlock(w.After, ends.after, false)
	return ops.Concatenate(axis, before, x, after)
}

func padAxisStat(x *tensors.Tensor, axis int, w PadWidth, mode PadMode, statWidths []PadWidth) *tensors.Tensor {
	dim := x.Shape().Dimensions[axis]
	statBlock := func(width, statLen int, before bool) *tensors.Tensor {
		if width == 0 {
			return ops.SliceAxis(x, axis, 0, 0)
		}
		if statLen == 0 {
			panic(errors.Wrapf(ErrValue, "stat_length of 0 yields a degenerate statistic for axis %d", axis))
		}
		statLen = min(statLen, dim)
		var window *tensors.Tensor
		if before {
			window = ops.SliceAxis(x, axis, 0, statLen)
		} else {
			window = ops.SliceAxis(x, axis, dim-statLen, dim)
		}
		window = ops.ConvertDType(window, arithmeticDType(x.DType()))
		var stat *tensors.Tensor
		switch mode {
		case PadMaximum:
			stat = ops.ReduceMax(window, axis, true)
		case PadMinimum:
			stat = ops.ReduceMin(window, axis, true)
		case PadMean:
			stat = ops.MeanAxis(window, axis, true)
		case PadMedian:
			stat = ops.MedianAxis(window, axis, true)
		}
		return ops.TileAxis(ops.ConvertDType(stat, x.DType()), axis, width)
	}
	statBefore, statAfter := dim, dim
	if statWidths != nil {
		statBefore, statAfter = statWidths[axis].Before, statWidths[axis].After
	}
	before := statBlock(w.Before, statBefore, true)
	after := statBlock(w.After, statAfter, false)
	return ops.Concatenate(axis, before, x, after)
}

// PadFuncCallback receives one 1-D lane of the zero-padded output together with the
// axis it runs along and that axis' pad widths, and returns the transformed lane,
// which must keep the lane's shape and dtype.
type PadFuncCallback func(lane *tensors.Tensor, axis int, width PadWidth) *tensors.Tensor

// PadFunc pads x with zeros per the width specification, then applies fn once per
// 1-D lane along every axis in turn, feeding each lane of the intermediate result
// through the callback and splicing the returned lane back in.
func PadFunc(x *tensors.Tensor, widthSpec any, fn PadFuncCallback) *tensors.Tensor {
	widths := NormalizePadWidths(widthSpec, x.Rank())
	padded := Pad(x, widths, PadConstant)
	for axis, w := range widths {
		padded = applyLanes(padded, axis, w, fn)
	}
	return padded
}

func applyLanes(x *tensors.Tensor, axis int, w PadWidth, fn PadFuncCallback) *tensors.Tensor {
	shape := x.Shape()
	outer := 1
	for _, dim := range shape.Dimensions[:axis] {
		outer *= dim
	}
	mid := shape.Dimensions[axis]
	inner := 1
	for _, dim := range shape.Dimensions[axis+1:] {
		inner *= dim
	}
	elemSize := int(shape.DType.Memory())
	output := x.Clone()
	output.MutableBytes(func(data []byte) {
		lane := tensors.FromShape(shapes.Make(shape.DType, mid))
		for blockIdx := 0; blockIdx < outer; blockIdx++ {
			for innerIdx := 0; innerIdx < inner; innerIdx++ {
				start := (blockIdx*mid*inner + innerIdx) * elemSize
				lane.MutableBytes(func(laneData []byte) {
					for ii := 0; ii < mid; ii++ {
						copy(laneData[ii*elemSize:(ii+1)*elemSize], data[start+ii*inner*elemSize:])
					}
				})
				result := fn(lane, axis, w)
				if !result.Shape().Equal(lane.Shape()) {
					panic(errors.Wrapf(ErrShape, "pad function returned shape %s for a lane of shape %s",
						result.Shape(), lane.Shape()))
				}
				result.ConstBytes(func(resData []byte) {
					for ii := 0; ii < mid; ii++ {
						copy(data[start+ii*inner*elemSize:start+ii*inner*elemSize+elemSize], resData[ii*elemSize:])
					}
				})
			}
		}
	})
	return output
}
