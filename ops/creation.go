package ops

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/staticshape/tensors"
	"github.com/gomlx/staticshape/types/shapes"
)

// Zeros returns a tensor of the given shape filled with zeros.
func Zeros(shape shapes.Shape) *tensors.Tensor {
	return tensors.FromShape(shape)
}

// Ones returns a tensor of the given shape filled with ones.
func Ones(shape shapes.Shape) *tensors.Tensor {
	return FillScalar(shape, 1)
}

// FillScalar returns a tensor of the given shape with every element set to value,
// converted to the shape's dtype.
func FillScalar(shape shapes.Shape, value float64) *tensors.Tensor {
	output := tensors.FromShape(shape)
	if shape.IsZeroSize() || value == 0 {
		return output
	}
	scalar := Scalar(shape.DType, value)
	elemSize := int(shape.DType.Memory())
	scalar.ConstBytes(func(src []byte) {
		output.MutableBytes(func(data []byte) {
			copy(data, src)
			// Doubling copy to fill the rest.
			for filled := elemSize; filled < len(data); filled *= 2 {
				copy(data[filled:], data[:filled])
			}
		})
	})
	return output
}

// Iota1D returns a 1-D tensor of the given dtype with values 0, 1, ..., n-1.
func Iota1D(dtype dtypes.DType, n int) *tensors.Tensor {
	if n < 0 {
		exceptions.Panicf("ops.Iota1D: n must be non-negative, got %d", n)
	}
	values := make([]int64, n)
	for ii := range values {
		values[ii] = int64(ii)
	}
	return ConvertDType(tensors.FromFlatDataAndDimensions(values, n), dtype)
}

// Linspace returns num evenly spaced values from start to stop, as a 1-D tensor of the
// given dtype. If endpoint is true the last value is exactly stop, otherwise stop is
// excluded and the step is (stop-start)/num.
func Linspace(dtype dtypes.DType, start, stop float64, num int, endpoint bool) *tensors.Tensor {
	if num < 0 {
		exceptions.Panicf("ops.Linspace: num must be non-negative, got %d", num)
	}
	values := make([]float64, num)
	if num > 0 {
		div := num
		if endpoint {
			div = num - 1
		}
		if div == 0 {
			values[0] = start
		} else {
			step := (stop - start) / float64(div)
			for ii := range values {
				values[ii] = start + float64(ii)*step
			}
			if endpoint {
				// Pin the last value, accumulated float error would drift it.
				values[num-1] = stop
			}
		}
	}
	return ConvertDType(tensors.FromFlatDataAndDimensions(values, num), dtype)
}
