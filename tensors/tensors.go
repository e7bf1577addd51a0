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

// Package tensors implements a `Tensor`, a representation of a multi-dimensional array.
//
// Tensors are multidimensional arrays (from scalar with 0 dimensions, to arbitrarily large
// dimensions), defined by their shape (a data type and its axes' dimensions) and their
// actual content, stored as a flat (1D) slice of the Go type corresponding to the DType.
//
// The kernels in this library treat tensors as immutable values: every kernel returns a
// freshly allocated tensor and never writes to its inputs. The mutable accessors below
// (MutableFlatData and friends) exist so kernels can fill in the output they just
// allocated; user code normally only reads.
//
// There are various ways to construct a Tensor from local data:
//
//   - FromShape(shape shapes.Shape): creates a tensor with the given shape, and zero values.
//
//   - FromScalarAndDimensions[T dtypes.Supported](value T, dimensions ...int): creates a
//     Tensor with the given dimensions, filled with the scalar value given.
//
//   - FromFlatDataAndDimensions[T dtypes.Supported](data []T, dimensions ...int): creates a
//     Tensor with the given dimensions, and set the flattened values with the given data.
//     Example:
//
//     t := FromFlatDataAndDimensions([]int8{1, 2, 3, 4}, 2, 2) // Tensor with [[1,2], [3,4]]
//
//   - FromValue[S MultiDimensionSlice](value S): Generic conversion, works with the scalar
//     supported `DType`s as well as with any arbitrary multidimensional slice of them.
//     Slices of rank > 1 must be regular, that is all the sub-slices must have the same
//     shape. Example:
//
//     t := FromValue([][]float32{{1, 2}, {3, 5}, {7, 11}})
//
//   - FromAnyValue(value any): same as FromValue but non-generic, it takes an anonymous
//     type `any`. The exception is if `value` is already a tensor, then it is a no-op and
//     it returns the tensor itself.
package tensors

import (
	"reflect"
	"unsafe"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/staticshape/types/shapes"
	"github.com/gomlx/staticshape/types/xslices"
	"github.com/pkg/errors"
)

// Tensor represents a multidimensional array (from scalar with 0 dimensions, to
// arbitrarily large dimensions), defined by its shape -- a data type (dtypes.DType)
// and its axes' dimensions -- and its content, stored as a flat (1D) slice of values.
//
// Even scalar values have a flattened data representation of one element.
type Tensor struct {
	// shape of the tensor. Considered immutable after construction.
	shape shapes.Shape

	// flat holds the slice with the actual data, of the Go type for the shape's dtype.
	flat any
}

// newTensor returns a Tensor object initialized only with the shape and no storage.
// Some flat data must still be associated to it.
func newTensor(shape shapes.Shape) *Tensor {
	return &Tensor{shape: shape}
}

// FromShape returns a Tensor with the given shape, with the data initialized with zeros.
func FromShape(shape shapes.Shape) (t *Tensor) {
	if !shape.Ok() {
		panic(errors.New("invalid shape"))
	}
	t = newTensor(shape)
	flatV := reflect.MakeSlice(reflect.SliceOf(shape.DType.GoType()), t.Size(), t.Size())
	t.flat = flatV.Interface()
	return
}

// Shape of the tensor, including its DType.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// DType returns the DType of the tensor's shape.
// It is a shortcut to `Tensor.Shape().DType`.
func (t *Tensor) DType() dtypes.DType {
	return t.shape.DType
}

// Rank returns the rank of the tensor's shape.
// It is a shortcut to `Tensor.Shape().Rank()`.
func (t *Tensor) Rank() int { return t.shape.Rank() }

// IsScalar returns whether the tensor represents a scalar value.
// It is a shortcut to `Tensor.Shape().IsScalar()`.
func (t *Tensor) IsScalar() bool { return t.shape.IsScalar() }

// Size returns the number of elements in the tensor.
// It is a shortcut to `Tensor.Shape().Size()`.
func (t *Tensor) Size() int { return t.shape.Size() }

// Memory returns the number of bytes used to store the tensor. An alias to Tensor.Shape().Memory().
func (t *Tensor) Memory() uintptr { return t.shape.Memory() }

// Ok returns whether the Tensor is in a valid state: it is not nil and holds data.
func (t *Tensor) Ok() bool {
	return t != nil && t.shape.Ok() && t.flat != nil
}

// AssertValid panics if the tensor is nil, or if its shape is invalid.
func (t *Tensor) AssertValid() {
	if t == nil {
		panic(errors.New("Tensor is nil"))
	}
	if !t.shape.Ok() {
		panic(errors.New("Tensor shape is invalid"))
	}
	if t.flat == nil {
		panic(errors.New("Tensor has no data associated"))
	}
}

// Clone creates a deep copy of the Tensor.
func (t *Tensor) Clone() *Tensor {
	t.AssertValid()
	clone := newTensor(t.shape.Clone())
	flatV := reflect.ValueOf(t.flat)
	size := flatV.Len()
	cloneFlatV := reflect.MakeSlice(flatV.Type(), size, size)
	reflect.Copy(cloneFlatV, flatV)
	clone.flat = cloneFlatV.Interface()
	return clone
}

// ConstFlatData calls accessFn with the flattened data as a slice of the Go type
// corresponding to the DType type.
// Even scalar values have a flattened data representation of one element.
//
// This provides accessFn with the actual Tensor data (not a copy), owned by the Tensor;
// it must not be changed -- see Tensor.MutableFlatData for that.
//
// See Tensor.Size for the number of elements, and Tensor.LayoutStrides to calculate the
// offset of individual positions, given the indices at each axis.
func (t *Tensor) ConstFlatData(accessFn func(flat any)) {
	t.AssertValid()
	accessFn(t.flat)
}

// ConstFlatData is the "generics" version of Tensor.ConstFlatData, for when the caller
// knows the tensor's DType. It panics if T doesn't match the tensor's dtype.
func ConstFlatData[T dtypes.Supported](t *Tensor, accessFn func(flat []T)) {
	if t.shape.DType != dtypes.FromGenericsType[T]() {
		var v T
		exceptions.Panicf("ConstFlatData[%T] is incompatible with Tensor's dtype %s -- expected dtype %s",
			v, t.shape.DType, dtypes.FromGenericsType[T]())
	}
	t.ConstFlatData(func(anyFlat any) {
		accessFn(anyFlat.([]T))
	})
}

// MutableFlatData calls accessFn with a flat slice pointing to the Tensor data. The
// contents of the slice can be changed until accessFn returns.
//
// It is meant for kernels filling in the output tensor they just allocated. Mutating a
// tensor that has already been handed to a caller breaks the value semantics of the
// library.
func (t *Tensor) MutableFlatData(accessFn func(flat any)) {
	t.AssertValid()
	accessFn(t.flat)
}

// MutableFlatData is the "generics" version of Tensor.MutableFlatData, for when the
// caller knows the tensor's DType. It panics if T doesn't match the tensor's dtype.
func MutableFlatData[T dtypes.Supported](t *Tensor, accessFn func(flat []T)) {
	if t.shape.DType != dtypes.FromGenericsType[T]() {
		var v T
		exceptions.Panicf("MutableFlatData[%T] is incompatible with Tensor's dtype %s",
			v, t.shape.DType)
	}
	t.MutableFlatData(func(anyFlat any) {
		accessFn(anyFlat.([]T))
	})
}

// ConstBytes calls accessFn with the data as a bytes slice.
//
// This provides accessFn with a view of the actual Tensor data (not a copy), owned by
// the Tensor; it must not be changed.
func (t *Tensor) ConstBytes(accessFn func(data []byte)) {
	t.ConstFlatData(func(flat any) {
		accessFn(flatToBytes(flat))
	})
}

// MutableBytes gives mutable access to the storage of the values for the tensor, as bytes.
// It's similar to MutableFlatData, but provides a bytes view to the same data.
func (t *Tensor) MutableBytes(accessFn func(data []byte)) {
	t.MutableFlatData(func(flat any) {
		accessFn(flatToBytes(flat))
	})
}

func flatToBytes(flat any) []byte {
	flatV := reflect.ValueOf(flat)
	if flatV.Len() == 0 {
		return nil
	}
	element0 := flatV.Index(0)
	flatValuesPtr := element0.Addr().UnsafePointer()
	sizeBytes := uintptr(flatV.Len()) * element0.Type().Size()
	return unsafe.Slice((*byte)(flatValuesPtr), sizeBytes)
}

// AssignFlatData will copy over the values in fromFlat to the storage used by toTensor.
// If the dtypes are not compatible or if the size is wrong, it will panic.
func AssignFlatData[T dtypes.Supported](toTensor *Tensor, fromFlat []T) {
	MutableFlatData(toTensor, func(toFlat []T) {
		if len(toFlat) != len(fromFlat) {
			var v T
			exceptions.Panicf("AssignFlatData[%T] is trying to store %d values into shape %s, which requires %d values",
				v, len(fromFlat), toTensor.Shape(), toTensor.Shape().Size())
		}
		copy(toFlat, fromFlat)
	})
}

// ToScalar returns the scalar value of the Tensor.
//
// It will panic if the given generic type doesn't match the DType of the tensor, or if
// the tensor is not a scalar.
func ToScalar[T dtypes.Supported](t *Tensor) T {
	t.AssertValid()
	if t.shape.DType != dtypes.FromGenericsType[T]() {
		var v T
		exceptions.Panicf("ToScalar[%T] is incompatible with Tensor's dtype %s",
			v, t.shape.DType)
	}
	if !t.shape.IsScalar() {
		var v T
		exceptions.Panicf("ToScalar[%T] requires scalar Tensor, got shape %s instead", v, t.shape)
	}
	return t.flat.([]T)[0]
}

// CopyFlatData returns a copy of the flat data of the Tensor.
//
// It will panic if the given generic type doesn't match the DType of the tensor.
func CopyFlatData[T dtypes.Supported](t *Tensor) []T {
	var flatCopy []T
	ConstFlatData(t, func(flat []T) {
		flatCopy = xslices.Copy(flat)
	})
	return flatCopy
}

// LayoutStrides return the strides for each axis. This can be handy when manipulating the flat data.
func (t *Tensor) LayoutStrides() (strides []int) {
	return t.shape.Strides()
}

// FromScalar creates a local tensor with the given scalar.
// The `DType` is inferred from the value.
func FromScalar[T dtypes.Supported](value T) (t *Tensor) {
	return FromScalarAndDimensions(value)
}

// FromScalarAndDimensions creates a local tensor with the given dimensions, filled with the
// given scalar value replicated everywhere.
// The `DType` is inferred from the value.
func FromScalarAndDimensions[T dtypes.Supported](value T, dimensions ...int) (t *Tensor) {
	dtype := dtypes.FromGenericsType[T]()
	shape := shapes.Make(dtype, dimensions...)
	t = FromShape(shape)
	MutableFlatData(t, func(flat []T) {
		xslices.FillSlice(flat, value)
	})
	return
}

// FromFlatDataAndDimensions creates a tensor with the given dimensions, filled with the
// flattened values given in `data`.
// The data is copied to the Tensor.
// The `DType` is inferred from the `data` type.
func FromFlatDataAndDimensions[T dtypes.Supported](data []T, dimensions ...int) (t *Tensor) {
	dtype := dtypes.FromGenericsType[T]()
	shape := shapes.Make(dtype, dimensions...)
	if len(data) != shape.Size() {
		exceptions.Panicf("FromFlatDataAndDimensions(%s): data size is %d, but dimensions size is %d", shape, len(data), shape.Size())
	}
	t = FromShape(shape)
	var dummy T
	switch any(dummy).(type) {
	case int:
		// The underlying tensor data could be int32 or int64 depending on the type int for
		// the platform. In this case we just copy the bytes.
		t.MutableBytes(func(tensorData []byte) {
			if len(data) == 0 {
				return
			}
			dataAsBytes := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(data))), uintptr(len(data))*unsafe.Sizeof(dummy))
			copy(tensorData, dataAsBytes)
		})
	default:
		MutableFlatData(t, func(flat []T) {
			copy(flat, data)
		})
	}
	return
}

// Equal checks whether t == otherTensor.
// If they are the same pointer they are considered equal.
// If the shapes are different it returns false.
// If either are invalid (nil) it panics.
//
// Slow implementation: fine for small tensors, but write something specialized for the
// DType if speed is desired.
func (t *Tensor) Equal(otherTensor *Tensor) bool {
	t.AssertValid()
	otherTensor.AssertValid()

	if t == otherTensor {
		return true
	}
	if !t.shape.Equal(otherTensor.shape) {
		return false
	}
	equal := true // Set to false at the first difference.
	t.ConstFlatData(func(flat0 any) {
		otherTensor.ConstFlatData(func(flat1 any) {
			t0V := reflect.ValueOf(flat0)
			t1V := reflect.ValueOf(flat1)
			for ii := range t0V.Len() {
				if !t0V.Index(ii).Equal(t1V.Index(ii)) {
					equal = false
					return
				}
			}
		})
	})
	return equal
}

// InDelta checks whether Abs(t - otherTensor) < delta for every element.
// If they are the same pointer they are considered equal.
// If the shapes are different it returns false.
// If either are invalid (nil) it panics.
//
// Slow implementation: fine for small tensors, but write something specialized for the
// DType if speed is desired.
func (t *Tensor) InDelta(otherTensor *Tensor, delta float64) bool {
	t.AssertValid()
	otherTensor.AssertValid()

	if t == otherTensor {
		return true
	}
	if !t.shape.Equal(otherTensor.shape) {
		return false
	}
	if t.shape.IsZeroSize() {
		// If any of the axes is zero-dimensional, there is no data to compare.
		return true
	}

	inDelta := true
	t.ConstFlatData(func(flat0 any) {
		otherTensor.ConstFlatData(func(flat1 any) {
			inDelta = xslices.SlicesInDelta(flat0, flat1, delta)
		})
	})
	return inDelta
}
