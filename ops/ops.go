/*
 *	Copyright 2023 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

// Package ops implements the fixed-shape primitives over which the kernels are built:
// elementwise select and arithmetic, gather/scatter, cumulative sums, reductions, sort
// and the shape-manipulation helpers (concatenate, slice, reverse, reshape).
//
// Every function here is pure -- inputs are never mutated, outputs are freshly
// allocated -- and the shape of every output depends only on the shapes of the inputs
// and on static arguments, never on the data values. This is the contract that lets
// the kernels package compose them into data-dependent-looking algorithms (binary
// search, histogramming, repeat/insert/delete) whose compiled form is static.
//
// The arithmetic primitives operate on the plain-old-data numeric dtypes
// (8/16/32/64-bit ints, 32/64-bit floats). Float16 and BFloat16 values are supported
// through ConvertDType; converting to Float32 before arithmetic is the caller's
// responsibility, mirroring how accelerator backends handle those types.
package ops

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/staticshape/tensors"
	"github.com/gomlx/staticshape/types/shapes"
)

// PODNumericConstraints are used for generics over the Go pod (plain-old-data)
// numeric types. Float16 and BFloat16 are not included because they are specialized
// types, not natively supported by Go arithmetic.
type PODNumericConstraints interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// PODIntegerConstraints are used for generics over the Go pod integer types.
type PODIntegerConstraints interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64
}

// PODFloatConstraints are used for generics over the Go pod float types.
type PODFloatConstraints interface {
	float32 | float64
}

// IsPODNumeric returns whether the arithmetic primitives in this package support the
// given dtype directly.
func IsPODNumeric(dtype dtypes.DType) bool {
	switch dtype {
	case dtypes.Int8, dtypes.Int16, dtypes.Int32, dtypes.Int64,
		dtypes.Uint8, dtypes.Uint16, dtypes.Uint32, dtypes.Uint64,
		dtypes.Float32, dtypes.Float64:
		return true
	}
	return false
}

func assertPODNumeric(opName string, dtype dtypes.DType) {
	if !IsPODNumeric(dtype) {
		exceptions.Panicf("ops.%s: dtype %s is not supported for arithmetic -- convert to Float32 first", opName, dtype)
	}
}

func assertSameDType(opName string, xs ...*tensors.Tensor) {
	dtype := xs[0].DType()
	for _, x := range xs[1:] {
		if x.DType() != dtype {
			exceptions.Panicf("ops.%s: operands have different dtypes (%s vs %s) -- convert or promote them first",
				opName, dtype, x.DType())
		}
	}
}

// IndexDTypeFor returns the smallest of Int32/Int64 able to address indices in the
// range [0, size].
func IndexDTypeFor(size int) dtypes.DType {
	const maxInt32 = 1<<31 - 1
	if size > maxInt32 {
		return dtypes.Int64
	}
	return dtypes.Int32
}

// IntsFromTensor converts a tensor of any integer dtype to a flat []int slice.
// It is used to consume index tensors; it panics for non-integer dtypes.
func IntsFromTensor(t *tensors.Tensor) []int {
	out := make([]int, t.Size())
	switch t.DType() {
	case dtypes.Int8:
		copyToInts[int8](t, out)
	case dtypes.Int16:
		copyToInts[int16](t, out)
	case dtypes.Int32:
		copyToInts[int32](t, out)
	case dtypes.Int64:
		copyToInts[int64](t, out)
	case dtypes.Uint8:
		copyToInts[uint8](t, out)
	case dtypes.Uint16:
		copyToInts[uint16](t, out)
	case dtypes.Uint32:
		copyToInts[uint32](t, out)
	case dtypes.Uint64:
		copyToInts[uint64](t, out)
	default:
		exceptions.Panicf("ops.IntsFromTensor: tensor with dtype %s is not a valid index tensor", t.DType())
	}
	return out
}

func copyToInts[T PODIntegerConstraints](t *tensors.Tensor, out []int) {
	tensors.ConstFlatData(t, func(flat []T) {
		for ii, v := range flat {
			out[ii] = int(v)
		}
	})
}

// IntsToTensor creates a 1D index tensor of the given dtype (Int32 or Int64) from
// the given values.
func IntsToTensor(dtype dtypes.DType, values []int) *tensors.Tensor {
	t := tensors.FromShape(shapes.Make(dtype, len(values)))
	switch dtype {
	case dtypes.Int32:
		tensors.MutableFlatData(t, func(flat []int32) {
			for ii, v := range values {
				flat[ii] = int32(v)
			}
		})
	case dtypes.Int64:
		tensors.MutableFlatData(t, func(flat []int64) {
			for ii, v := range values {
				flat[ii] = int64(v)
			}
		})
	default:
		exceptions.Panicf("ops.IntsToTensor: dtype %s is not a valid index dtype", dtype)
	}
	return t
}

// broadcastIterator allows one to iterate over the flat indices of a tensor that is
// being broadcast (some dimensions will grow).
//
// It is used by implicit broadcasting in the binary and compare ops.
type broadcastIterator struct {
	flatIdx     int
	perAxesIdx  []int
	targetDims  []int
	isBroadcast []bool
	strides     []int
}

// newBroadcastIterator returns an iterator over the flat indices of a tensor of
// fromShape being broadcast to toShape.
//
// Pre-requisite: fromShape.Rank() == toShape.Rank(), and each fromShape dimension is
// either 1 or the matching toShape dimension.
func newBroadcastIterator(fromShape, toShape shapes.Shape) *broadcastIterator {
	rank := fromShape.Rank()
	if rank != toShape.Rank() {
		exceptions.Panicf("broadcastIterator: rank mismatch fromShape=%s, toShape=%s", fromShape, toShape)
	}
	bi := &broadcastIterator{
		perAxesIdx:  make([]int, rank),
		targetDims:  toShape.Dimensions,
		isBroadcast: make([]bool, rank),
		strides:     make([]int, rank),
	}
	stride := 1
	for axis := rank - 1; axis >= 0; axis-- {
		bi.strides[axis] = stride
		stride *= fromShape.Dimensions[axis]
		bi.isBroadcast[axis] = fromShape.Dimensions[axis] != toShape.Dimensions[axis]
	}
	return bi
}

func (bi *broadcastIterator) Next() (flatIdx int) {
	flatIdx = bi.flatIdx
	bi.flatIdx++
	rank := len(bi.perAxesIdx)
	for axis := rank - 1; axis >= 0; axis-- {
		bi.perAxesIdx[axis]++
		if bi.perAxesIdx[axis] < bi.targetDims[axis] {
			if bi.isBroadcast[axis] {
				// If we are broadcasting on this axis, we need to go back and repeat the
				// same slice of the tensor.
				bi.flatIdx -= bi.strides[axis]
			}
			break
		}
		bi.perAxesIdx[axis] = 0
	}
	return
}

// broadcastShapes returns the shape resulting from broadcasting the dimensions of a
// and b together (numpy rules: align right, dimensions of 1 stretch), and the two
// input shapes expanded with leading 1-dimensions to the output rank.
//
// DType of the returned shape is taken from a.
func broadcastShapes(opName string, a, b shapes.Shape) (out, aExpanded, bExpanded shapes.Shape) {
	rank := max(a.Rank(), b.Rank())
	aExpanded = expandToRank(a, rank)
	bExpanded = expandToRank(b, rank)
	out = shapes.Shape{DType: a.DType, Dimensions: make([]int, rank)}
	for axis := range rank {
		aDim, bDim := aExpanded.Dimensions[axis], bExpanded.Dimensions[axis]
		switch {
		case aDim == bDim:
			out.Dimensions[axis] = aDim
		case aDim == 1:
			out.Dimensions[axis] = bDim
		case bDim == 1:
			out.Dimensions[axis] = aDim
		default:
			exceptions.Panicf("ops.%s: shapes %s and %s are not broadcastable", opName, a, b)
		}
	}
	return
}

func expandToRank(s shapes.Shape, rank int) shapes.Shape {
	if s.Rank() == rank {
		return s
	}
	dims := make([]int, rank)
	for ii := range rank - s.Rank() {
		dims[ii] = 1
	}
	copy(dims[rank-s.Rank():], s.Dimensions)
	return shapes.Shape{DType: s.DType, Dimensions: dims}
}
