package ops

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/staticshape/tensors"
)

// CumSum returns the inclusive cumulative sum of x along the given axis:
// output[..., i, ...] = sum of x[..., 0:i+1, ...].
func CumSum(x *tensors.Tensor, axis int) *tensors.Tensor {
	return execCumSum(x, axis, false)
}

// ExclusiveCumSum returns the exclusive cumulative sum of x along the given axis:
// output[..., i, ...] = sum of x[..., 0:i, ...], so the first entry is always zero.
func ExclusiveCumSum(x *tensors.Tensor, axis int) *tensors.Tensor {
	return execCumSum(x, axis, true)
}

func execCumSum(x *tensors.Tensor, axis int, exclusive bool) *tensors.Tensor {
	shape := x.Shape()
	axis = shape.AdjustAxis(axis)
	assertPODNumeric("CumSum", shape.DType)
	output := tensors.FromShape(shape.Clone())
	if shape.IsZeroSize() {
		return output
	}
	switch shape.DType {
	case dtypes.Int8:
		cumsumGeneric[int8](x, output, axis, exclusive)
	case dtypes.Int16:
		cumsumGeneric[int16](x, output, axis, exclusive)
	case dtypes.Int32:
		cumsumGeneric[int32](x, output, axis, exclusive)
	case dtypes.Int64:
		cumsumGeneric[int64](x, output, axis, exclusive)
	case dtypes.Uint8:
		cumsumGeneric[uint8](x, output, axis, exclusive)
	case dtypes.Uint16:
		cumsumGeneric[uint16](x, output, axis, exclusive)
	case dtypes.Uint32:
		cumsumGeneric[uint32](x, output, axis, exclusive)
	case dtypes.Uint64:
		cumsumGeneric[uint64](x, output, axis, exclusive)
	case dtypes.Float32:
		cumsumGeneric[float32](x, output, axis, exclusive)
	case dtypes.Float64:
		cumsumGeneric[float64](x, output, axis, exclusive)
	default:
		exceptions.Panicf("unsupported dtype %s for CumSum()", shape.DType)
	}
	return output
}

func cumsumGeneric[T PODNumericConstraints](x, output *tensors.Tensor, axis int, exclusive bool) {
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
				blockStart := blockIdx * mid * inner
				for innerIdx := 0; innerIdx < inner; innerIdx++ {
					var acc T
					pos := blockStart + innerIdx
					for ii := 0; ii < mid; ii++ {
						if exclusive {
							outFlat[pos] = acc
							acc += inFlat[pos]
						} else {
							acc += inFlat[pos]
							outFlat[pos] = acc
						}
						pos += inner
					}
				}
			}
		})
	})
}
