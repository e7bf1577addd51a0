package ops

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/staticshape/tensors"
	"github.com/gomlx/staticshape/types/shapes"
)

// This file implements the data movement primitives. They are dtype-agnostic: all of
// them move whole elements around as bytes, so one implementation serves every dtype.

// axisSplit decomposes a row-major shape around an axis: outer is the number of
// independent blocks before the axis, mid the dimension of the axis itself, and
// innerBytes the size in bytes of one slice of everything after the axis.
func axisSplit(shape shapes.Shape, axis int) (outer, mid, innerBytes int) {
	outer = 1
	for _, dim := range shape.Dimensions[:axis] {
		outer *= dim
	}
	mid = shape.Dimensions[axis]
	innerBytes = int(shape.DType.Memory())
	for _, dim := range shape.Dimensions[axis+1:] {
		innerBytes *= dim
	}
	return
}

// Concatenate joins the operands along the given axis. All operands must share the
// dtype and all dimensions except the concatenation axis. Negative axis counts from
// the end.
func Concatenate(axis int, operands ...*tensors.Tensor) *tensors.Tensor {
	if len(operands) == 0 {
		exceptions.Panicf("ops.Concatenate: requires at least one operand")
	}
	first := operands[0].Shape()
	axis = first.AdjustAxis(axis)
	outDims := first.Clone().Dimensions
	assertSameDType("Concatenate", operands...)
	for _, operand := range operands[1:] {
		s := operand.Shape()
		if s.Rank() != first.Rank() {
			exceptions.Panicf("ops.Concatenate: operands have different ranks, %s vs %s", first, s)
		}
		for axisIdx, dim := range s.Dimensions {
			if axisIdx == axis {
				outDims[axis] += dim
				continue
			}
			if dim != first.Dimensions[axisIdx] {
				exceptions.Panicf("ops.Concatenate: dimensions mismatch on axis %d, %s vs %s", axisIdx, first, s)
			}
		}
	}
	output := tensors.FromShape(shapes.Make(first.DType, outDims...))
	outer, outMid, innerBytes := axisSplit(output.Shape(), axis)
	if innerBytes == 0 || outer == 0 {
		return output
	}
	output.MutableBytes(func(outData []byte) {
		offset := 0
		for _, operand := range operands {
			_, mid, _ := axisSplit(operand.Shape(), axis)
			operand.ConstBytes(func(inData []byte) {
				for blockIdx := 0; blockIdx < outer; blockIdx++ {
					src := inData[blockIdx*mid*innerBytes : (blockIdx+1)*mid*innerBytes]
					dstStart := (blockIdx*outMid + offset) * innerBytes
					copy(outData[dstStart:dstStart+mid*innerBytes], src)
				}
			})
			offset += operand.Shape().Dimensions[axis]
		}
	})
	return output
}

// SliceAxis returns the sub-tensor x[..., start:limit, ...] along the given axis, all
// other axes taken in full. Negative axis counts from the end; start and limit must
// satisfy 0 <= start <= limit <= dim.
func SliceAxis(x *tensors.Tensor, axis, start, limit int) *tensors.Tensor {
	shape := x.Shape()
	axis = shape.AdjustAxis(axis)
	dim := shape.Dimensions[axis]
	if start < 0 || start > limit || limit > dim {
		exceptions.Panicf("ops.SliceAxis: invalid range [%d, %d) for axis %d with dimension %d", start, limit, axis, dim)
	}
	outDims := shape.Clone().Dimensions
	outDims[axis] = limit - start
	output := tensors.FromShape(shapes.Make(shape.DType, outDims...))
	outer, mid, innerBytes := axisSplit(shape, axis)
	newMid := limit - start
	if output.Shape().IsZeroSize() {
		return output
	}
	x.ConstBytes(func(inData []byte) {
		output.MutableBytes(func(outData []byte) {
			for blockIdx := 0; blockIdx < outer; blockIdx++ {
				srcStart := (blockIdx*mid + start) * innerBytes
				copy(outData[blockIdx*newMid*innerBytes:(blockIdx+1)*newMid*innerBytes],
					inData[srcStart:srcStart+newMid*innerBytes])
			}
		})
	})
	return output
}

// Reverse returns x with the order of elements along the given axis reversed.
func Reverse(x *tensors.Tensor, axis int) *tensors.Tensor {
	shape := x.Shape()
	axis = shape.AdjustAxis(axis)
	output := tensors.FromShape(shape.Clone())
	if shape.IsZeroSize() {
		return output
	}
	outer, mid, innerBytes := axisSplit(shape, axis)
	x.ConstBytes(func(inData []byte) {
		output.MutableBytes(func(outData []byte) {
			for blockIdx := 0; blockIdx < outer; blockIdx++ {
				blockStart := blockIdx * mid * innerBytes
				for ii := 0; ii < mid; ii++ {
					src := inData[blockStart+ii*innerBytes : blockStart+(ii+1)*innerBytes]
					dstStart := blockStart + (mid-1-ii)*innerBytes
					copy(outData[dstStart:dstStart+innerBytes], src)
				}
			}
		})
	})
	return output
}

// Reshape returns x with the same flat contents and new dimensions. At most one
// dimension may be -1, in which case it is inferred from the size of x.
func Reshape(x *tensors.Tensor, dimensions ...int) *tensors.Tensor {
	inferIdx := -1
	known := 1
	for axisIdx, dim := range dimensions {
		if dim == -1 {
			if inferIdx != -1 {
				exceptions.Panicf("ops.Reshape: at most one dimension can be -1, got %v", dimensions)
			}
			inferIdx = axisIdx
			continue
		}
		known *= dim
	}
	newDims := make([]int, len(dimensions))
	copy(newDims, dimensions)
	if inferIdx != -1 {
		if known == 0 || x.Size()%known != 0 {
			exceptions.Panicf("ops.Reshape: cannot infer dimension %d of %v for size %d", inferIdx, dimensions, x.Size())
		}
		newDims[inferIdx] = x.Size() / known
	}
	newShape := shapes.Make(x.DType(), newDims...)
	if newShape.Size() != x.Size() {
		exceptions.Panicf("ops.Reshape: new shape %s is incompatible with size %d", newShape, x.Size())
	}
	output := tensors.FromShape(newShape)
	x.ConstBytes(func(inData []byte) {
		output.MutableBytes(func(outData []byte) {
			copy(outData, inData)
		})
	})
	return output
}

// ExpandAxis returns x with a new axis of dimension 1 inserted at the given position.
// axis can be from 0 to x.Rank(), or negative counting from the end, with -1 meaning
// a new last axis.
func ExpandAxis(x *tensors.Tensor, axis int) *tensors.Tensor {
	rank := x.Rank()
	if axis < 0 {
		axis += rank + 1
	}
	if axis < 0 || axis > rank {
		exceptions.Panicf("ops.ExpandAxis: invalid axis %d for shape %s", axis, x.Shape())
	}
	newDims := make([]int, 0, rank+1)
	newDims = append(newDims, x.Shape().Dimensions[:axis]...)
	newDims = append(newDims, 1)
	newDims = append(newDims, x.Shape().Dimensions[axis:]...)
	return Reshape(x, newDims...)
}

// Squeeze returns x with the given axis of dimension 1 removed.
func Squeeze(x *tensors.Tensor, axis int) *tensors.Tensor {
	shape := x.Shape()
	axis = shape.AdjustAxis(axis)
	if shape.Dimensions[axis] != 1 {
		exceptions.Panicf("ops.Squeeze: axis %d of shape %s does not have dimension 1", axis, shape)
	}
	newDims := make([]int, 0, shape.Rank()-1)
	newDims = append(newDims, shape.Dimensions[:axis]...)
	newDims = append(newDims, shape.Dimensions[axis+1:]...)
	return Reshape(x, newDims...)
}

// TileAxis returns x repeated as a whole `repeats` times along the given axis. The
// output dimension of the axis is repeats * x.Shape().Dimensions[axis].
func TileAxis(x *tensors.Tensor, axis, repeats int) *tensors.Tensor {
	if repeats < 0 {
		exceptions.Panicf("ops.TileAxis: repeats must be non-negative, got %d", repeats)
	}
	shape := x.Shape()
	axis = shape.AdjustAxis(axis)
	operands := make([]*tensors.Tensor, repeats)
	for ii := range operands {
		operands[ii] = x
	}
	if repeats == 0 {
		outDims := shape.Clone().Dimensions
		outDims[axis] = 0
		return tensors.FromShape(shapes.Make(shape.DType, outDims...))
	}
	return Concatenate(axis, operands...)
}

// BroadcastTo returns x broadcast to the given dimensions, numpy rules: dimensions
// align on the right and axes of dimension 1 stretch. The rank of x must not exceed
// the target rank, and every non-1 dimension of x must match its target dimension.
func BroadcastTo(x *tensors.Tensor, dimensions ...int) *tensors.Tensor {
	target := shapes.Make(x.DType(), dimensions...)
	if x.Rank() > target.Rank() {
		exceptions.Panicf("ops.BroadcastTo: cannot broadcast shape %s to lower-rank %s", x.Shape(), target)
	}
	expanded := expandToRank(x.Shape(), target.Rank())
	for axis, dim := range expanded.Dimensions {
		if dim != 1 && dim != target.Dimensions[axis] {
			exceptions.Panicf("ops.BroadcastTo: shape %s is not broadcastable to %s", x.Shape(), target)
		}
	}
	output := tensors.FromShape(target)
	if target.IsZeroSize() {
		return output
	}
	elemSize := int(target.DType.Memory())
	iter := newBroadcastIterator(expanded, target)
	x.ConstBytes(func(src []byte) {
		output.MutableBytes(func(dst []byte) {
			for ii := 0; ii < target.Size(); ii++ {
				srcIdx := iter.Next()
				copy(dst[ii*elemSize:(ii+1)*elemSize], src[srcIdx*elemSize:srcIdx*elemSize+elemSize])
			}
		})
	})
	return output
}
