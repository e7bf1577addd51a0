package ops

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/gomlx/staticshape/tensors"
	"github.com/gomlx/staticshape/types/shapes"
	"github.com/x448/float16"
)

// ConvertDType returns a copy of t with every element converted to the given dtype.
// Float to integer conversion truncates towards zero. Bool converts to 0/1 and any
// non-zero value converts to true. Float16 and BFloat16 are supported on both ends,
// going through float32.
func ConvertDType(t *tensors.Tensor, dtype dtypes.DType) *tensors.Tensor {
	t.AssertValid()
	if t.DType() == dtype {
		return t.Clone()
	}
	output := tensors.FromShape(shapes.Make(dtype, t.Shape().Dimensions...))
	switch t.DType() {
	case dtypes.Bool:
		tensors.ConstFlatData(t, func(from []bool) {
			asInt := make([]uint8, len(from))
			for ii, v := range from {
				if v {
					asInt[ii] = 1
				}
			}
			convertFlatTo(asInt, output)
		})
	case dtypes.Float16:
		tensors.ConstFlatData(t, func(from []float16.Float16) {
			asF32 := make([]float32, len(from))
			for ii, v := range from {
				asF32[ii] = v.Float32()
			}
			convertFlatTo(asF32, output)
		})
	case dtypes.BFloat16:
		tensors.ConstFlatData(t, func(from []bfloat16.BFloat16) {
			asF32 := make([]float32, len(from))
			for ii, v := range from {
				asF32[ii] = v.Float32()
			}
			convertFlatTo(asF32, output)
		})
	case dtypes.Int8:
		convertFromGeneric[int8](t, output)
	case dtypes.Int16:
		convertFromGeneric[int16](t, output)
	case dtypes.Int32:
		convertFromGeneric[int32](t, output)
	case dtypes.Int64:
		convertFromGeneric[int64](t, output)
	case dtypes.Uint8:
		convertFromGeneric[uint8](t, output)
	case dtypes.Uint16:
		convertFromGeneric[uint16](t, output)
	case dtypes.Uint32:
		convertFromGeneric[uint32](t, output)
	case dtypes.Uint64:
		convertFromGeneric[uint64](t, output)
	case dtypes.Float32:
		convertFromGeneric[float32](t, output)
	case dtypes.Float64:
		convertFromGeneric[float64](t, output)
	default:
		exceptions.Panicf("unsupported dtype %s for ConvertDType()", t.DType())
	}
	return output
}

func convertFromGeneric[From PODNumericConstraints](input, output *tensors.Tensor) {
	tensors.ConstFlatData(input, func(from []From) {
		convertFlatTo(from, output)
	})
}

func convertFlatTo[From PODNumericConstraints](from []From, output *tensors.Tensor) {
	switch output.DType() {
	case dtypes.Bool:
		tensors.MutableFlatData(output, func(out []bool) {
			for ii, v := range from {
				out[ii] = v != 0
			}
		})
	case dtypes.Float16:
		tensors.MutableFlatData(output, func(out []float16.Float16) {
			for ii, v := range from {
				out[ii] = float16.Fromfloat32(float32(v))
			}
		})
	case dtypes.BFloat16:
		tensors.MutableFlatData(output, func(out []bfloat16.BFloat16) {
			for ii, v := range from {
				out[ii] = bfloat16.FromFloat32(float32(v))
			}
		})
	case dtypes.Int8:
		castFlat[From, int8](from, output)
	case dtypes.Int16:
		castFlat[From, int16](from, output)
	case dtypes.Int32:
		castFlat[From, int32](from, output)
	case dtypes.Int64:
		castFlat[From, int64](from, output)
	case dtypes.Uint8:
		castFlat[From, uint8](from, output)
	case dtypes.Uint16:
		castFlat[From, uint16](from, output)
	case dtypes.Uint32:
		castFlat[From, uint32](from, output)
	case dtypes.Uint64:
		castFlat[From, uint64](from, output)
	case dtypes.Float32:
		castFlat[From, float32](from, output)
	case dtypes.Float64:
		castFlat[From, float64](from, output)
	default:
		exceptions.Panicf("unsupported target dtype %s for ConvertDType()", output.DType())
	}
}

func castFlat[From, To PODNumericConstraints](from []From, output *tensors.Tensor) {
	tensors.MutableFlatData(output, func(out []To) {
		for ii, v := range from {
			out[ii] = To(v)
		}
	})
}

// promotionRank orders dtypes for PromoteDTypes. Wider and "more float" wins.
var promotionRank = map[dtypes.DType]int{
	dtypes.Bool:     0,
	dtypes.Int8:     1,
	dtypes.Uint8:    2,
	dtypes.Int16:    3,
	dtypes.Uint16:   4,
	dtypes.Int32:    5,
	dtypes.Uint32:   6,
	dtypes.Int64:    7,
	dtypes.Uint64:   8,
	dtypes.Float16:  9,
	dtypes.BFloat16: 10,
	dtypes.Float32:  11,
	dtypes.Float64:  12,
}

// PromoteDTypes returns a dtype both a and b convert to without changing their
// numeric class: mixing a signed and an unsigned integer promotes to the next wider
// signed integer (or Float64 when Uint64 is involved), otherwise the wider of the
// two wins.
func PromoteDTypes(a, b dtypes.DType) dtypes.DType {
	if a == b {
		return a
	}
	rankA, okA := promotionRank[a]
	rankB, okB := promotionRank[b]
	if !okA || !okB {
		exceptions.Panicf("cannot promote dtypes %s and %s", a, b)
	}
	if rankB > rankA {
		a, b = b, a
	}
	// a is now the higher-ranked dtype.
	if isUnsignedInt(a) && b.IsInt() && !isUnsignedInt(b) && b != dtypes.Bool {
		switch a {
		case dtypes.Uint8:
			return dtypes.Int16
		case dtypes.Uint16:
			return dtypes.Int32
		case dtypes.Uint32:
			return dtypes.Int64
		case dtypes.Uint64:
			return dtypes.Float64
		}
	}
	return a
}

func isUnsignedInt(dtype dtypes.DType) bool {
	switch dtype {
	case dtypes.Uint8, dtypes.Uint16, dtypes.Uint32, dtypes.Uint64:
		return true
	}
	return false
}
