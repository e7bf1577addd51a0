package ops

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/staticshape/tensors"
	"github.com/gomlx/staticshape/types/shapes"
)

// IndexBoundsMode defines what gather and scatter operations do with indices that
// fall outside the valid range [0, dim).
type IndexBoundsMode int

const (
	// BoundsRaise panics on any out-of-bounds index.
	BoundsRaise IndexBoundsMode = iota

	// BoundsClip clamps out-of-bounds indices to the nearest valid index.
	BoundsClip

	// BoundsWrap takes indices modulo the dimension.
	BoundsWrap

	// BoundsDrop silently skips out-of-bounds positions: gathers read zero, scatters
	// discard the update.
	BoundsDrop
)

//go:generate go tool enumer -type=IndexBoundsMode -trimprefix=Bounds -transform=snake -output=gen_indexboundsmode_enumer.go gather.go

// resolveIndex maps idx into [0, dim) according to mode. The second result is false
// when the position should be dropped.
func resolveIndex(opName string, idx, dim int, mode IndexBoundsMode) (int, bool) {
	if idx >= 0 && idx < dim {
		return idx, true
	}
	switch mode {
	case BoundsClip:
		if idx < 0 {
			return 0, true
		}
		return dim - 1, true
	case BoundsWrap:
		idx = idx % dim
		if idx < 0 {
			idx += dim
		}
		return idx, true
	case BoundsDrop:
		return 0, false
	default:
		exceptions.Panicf("ops.%s: index %d out of bounds for dimension %d", opName, idx, dim)
	}
	return 0, false
}

// Take gathers elements from a 1-D tensor x at the given integer indices. The output
// has the shape of indices and the dtype of x. Out-of-bounds indices are handled
// according to mode; with BoundsDrop they read as zero.
func Take(x, indices *tensors.Tensor, mode IndexBoundsMode) *tensors.Tensor {
	if x.Rank() != 1 {
		exceptions.Panicf("ops.Take: x must be 1-D, got shape %s", x.Shape())
	}
	if !indices.DType().IsInt() {
		exceptions.Panicf("ops.Take: indices must be an integer tensor, got %s", indices.Shape())
	}
	dim := x.Shape().Dimensions[0]
	idxValues := IntsFromTensor(indices)
	output := tensors.FromShape(shapes.Make(x.DType(), indices.Shape().Dimensions...))
	if len(idxValues) == 0 {
		return output
	}
	if dim == 0 {
		exceptions.Panicf("ops.Take: cannot gather from an empty tensor with non-empty indices")
	}
	elemSize := int(x.DType().Memory())
	x.ConstBytes(func(inData []byte) {
		output.MutableBytes(func(outData []byte) {
			for ii, idx := range idxValues {
				srcIdx, keep := resolveIndex("Take", idx, dim, mode)
				if !keep {
					continue
				}
				copy(outData[ii*elemSize:(ii+1)*elemSize], inData[srcIdx*elemSize:(srcIdx+1)*elemSize])
			}
		})
	})
	return output
}

// TakeAxis gathers slices of x along the given axis at the given 1-D integer indices:
// output[..., i, ...] = x[..., indices[i], ...]. The axis dimension of the output is
// the number of indices.
func TakeAxis(x, indices *tensors.Tensor, axis int, mode IndexBoundsMode) *tensors.Tensor {
	shape := x.Shape()
	axis = shape.AdjustAxis(axis)
	if indices.Rank() != 1 {
		exceptions.Panicf("ops.TakeAxis: indices must be 1-D, got shape %s", indices.Shape())
	}
	if !indices.DType().IsInt() {
		exceptions.Panicf("ops.TakeAxis: indices must be an integer tensor, got %s", indices.Shape())
	}
	dim := shape.Dimensions[axis]
	idxValues := IntsFromTensor(indices)
	outDims := shape.Clone().Dimensions
	outDims[axis] = len(idxValues)
	output := tensors.FromShape(shapes.Make(shape.DType, outDims...))
	if output.Shape().IsZeroSize() {
		return output
	}
	if dim == 0 {
		exceptions.Panicf("ops.TakeAxis: cannot gather from empty axis %d with non-empty indices", axis)
	}
	outer, mid, innerBytes := axisSplit(shape, axis)
	newMid := len(idxValues)
	x.ConstBytes(func(inData []byte) {
		output.MutableBytes(func(outData []byte) {
			for blockIdx := 0; blockIdx < outer; blockIdx++ {
				for ii, idx := range idxValues {
					srcIdx, keep := resolveIndex("TakeAxis", idx, dim, mode)
					if !keep {
						continue
					}
					src := inData[(blockIdx*mid+srcIdx)*innerBytes : (blockIdx*mid+srcIdx+1)*innerBytes]
					dstStart := (blockIdx*newMid + ii) * innerBytes
					copy(outData[dstStart:dstStart+innerBytes], src)
				}
			}
		})
	})
	return output
}
