package ops

import (
	"math"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/staticshape/tensors"
	"github.com/gomlx/staticshape/types/shapes"
)

type reduceOpType int

const (
	reduceSum reduceOpType = iota
	reduceMin
	reduceMax
)

var reduceOpNames = [...]string{"ReduceSum", "ReduceMin", "ReduceMax"}

// ReduceSum sums x along the given axis. With keepDims the reduced axis is kept with
// dimension 1, otherwise it is removed from the output shape.
func ReduceSum(x *tensors.Tensor, axis int, keepDims bool) *tensors.Tensor {
	return execReduce(reduceSum, x, axis, keepDims)
}

// ReduceMin takes the minimum of x along the given axis. The axis must not be empty.
func ReduceMin(x *tensors.Tensor, axis int, keepDims bool) *tensors.Tensor {
	return execReduce(reduceMin, x, axis, keepDims)
}

// ReduceMax takes the maximum of x along the given axis. The axis must not be empty.
func ReduceMax(x *tensors.Tensor, axis int, keepDims bool) *tensors.Tensor {
	return execReduce(reduceMax, x, axis, keepDims)
}

// ReduceAllSum sums every element of x into a scalar of the same dtype.
func ReduceAllSum(x *tensors.Tensor) *tensors.Tensor {
	flat := Reshape(x, x.Size())
	return ReduceSum(flat, 0, false)
}

func execReduce(op reduceOpType, x *tensors.Tensor, axis int, keepDims bool) *tensors.Tensor {
	opName := reduceOpNames[op]
	shape := x.Shape()
	axis = shape.AdjustAxis(axis)
	assertPODNumeric(opName, shape.DType)
	if op != reduceSum && shape.Dimensions[axis] == 0 {
		exceptions.Panicf("ops.%s: cannot reduce empty axis %d of shape %s", opName, axis, shape)
	}
	outDims := make([]int, 0, shape.Rank())
	outDims = append(outDims, shape.Dimensions[:axis]...)
	if keepDims {
		outDims = append(outDims, 1)
	}
	outDims = append(outDims, shape.Dimensions[axis+1:]...)
	output := tensors.FromShape(shapes.Make(shape.DType, outDims...))
	if output.Shape().IsZeroSize() || shape.IsZeroSize() {
		return output
	}
	switch shape.DType {
	case dtypes.Int8:
		reduceGeneric[int8](op, x, output, axis)
	case dtypes.Int16:
		reduceGeneric[int16](op, x, output, axis)
	case dtypes.Int32:
		reduceGeneric[int32](op, x, output, axis)
	case dtypes.Int64:
		reduceGeneric[int64](op, x, output, axis)
	case dtypes.Uint8:
		reduceGeneric[uint8](op, x, output, axis)
	case dtypes.Uint16:
		reduceGeneric[uint16](op, x, output, axis)
	case dtypes.Uint32:
		reduceGeneric[uint32](op, x, output, axis)
	case dtypes.Uint64:
		reduceGeneric[uint64](op, x, output, axis)
	case dtypes.Float32:
		reduceGeneric[float32](op, x, output, axis)
	case dtypes.Float64:
		reduceGeneric[float64](op, x, output, axis)
	}
	return output
}

func reduceGeneric[T PODNumericConstraints](op reduceOpType, x, output *tensors.Tensor, axis int) {
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
	tensors.ConstFlatData(x, func(inFlat []T) {
		tensors.MutableFlatData(output, func(outFlat []T) {
			for blockIdx := 0; blockIdx < outer; blockIdx++ {
				for innerIdx := 0; innerIdx < inner; innerIdx++ {
					pos := blockIdx*mid*inner + innerIdx
					acc := inFlat[pos]
					pos += inner
					for ii := 1; ii < mid; ii++ {
						switch op {
						case reduceSum:
							acc += inFlat[pos]
						case reduceMin:
							acc = min(acc, inFlat[pos])
						case reduceMax:
							acc = max(acc, inFlat[pos])
						}
						pos += inner
					}
					outFlat[blockIdx*inner+innerIdx] = acc
				}
			}
		})
	})
}

// MeanAxis returns the mean of x along the given axis, computed in float64 and
// converted back to x's dtype. For integer dtypes the mean is rounded half to even
// before conversion. The axis must not be empty.
func MeanAxis(x *tensors.Tensor, axis int, keepDims bool) *tensors.Tensor {
	shape := x.Shape()
	axis = shape.AdjustAxis(axis)
	mid := shape.Dimensions[axis]
	if mid == 0 {
		exceptions.Panicf("ops.MeanAxis: cannot take the mean of empty axis %d of shape %s", axis, shape)
	}
	means := DivScalar(ReduceSum(ConvertDType(x, dtypes.Float64), axis, keepDims), float64(mid))
	return roundIfIntAndConvert(means, shape.DType)
}

// MedianAxis returns the median of x along the given axis, computed in float64. For
// an even dimension it is the average of the two middle values; for integer dtypes
// the result is rounded half to even before conversion back. The axis must not be
// empty.
func MedianAxis(x *tensors.Tensor, axis int, keepDims bool) *tensors.Tensor {
	shape := x.Shape()
	axis = shape.AdjustAxis(axis)
	mid := shape.Dimensions[axis]
	if mid == 0 {
		exceptions.Panicf("ops.MedianAxis: cannot take the median of empty axis %d of shape %s", axis, shape)
	}
	sorted := SortAxis(ConvertDType(x, dtypes.Float64), axis)
	low := SliceAxis(sorted, axis, (mid-1)/2, (mid-1)/2+1)
	high := SliceAxis(sorted, axis, mid/2, mid/2+1)
	medians := DivScalar(Add(low, high), 2)
	if !keepDims {
		medians = Squeeze(medians, axis)
	}
	return roundIfIntAndConvert(medians, shape.DType)
}

// roundIfIntAndConvert rounds a Float64 tensor half to even when the target dtype is
// an integer, then converts to the target dtype.
func roundIfIntAndConvert(x *tensors.Tensor, dtype dtypes.DType) *tensors.Tensor {
	if dtype.IsInt() && dtype != dtypes.Bool {
		rounded := x.Clone()
		tensors.MutableFlatData(rounded, func(flat []float64) {
			for ii, v := range flat {
				flat[ii] = math.RoundToEven(v)
			}
		})
		x = rounded
	}
	return ConvertDType(x, dtype)
}
