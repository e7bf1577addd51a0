package ops

import (
	"sort"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/staticshape/internal/workers"
	"github.com/gomlx/staticshape/tensors"
)

// sortPool splits the independent lane sorts of SortAxis across CPUs.
var sortPool = workers.New()

// minLanesPerWorker keeps tiny tensors on a single goroutine.
const minLanesPerWorker = 8

// lessWithNaN orders values ascending with NaNs after every ordinary value, the same
// total order numpy sorts with. For integer dtypes it is plain "<".
func lessWithNaN[T PODNumericConstraints](a, b T) bool {
	if a < b {
		return true
	}
	// v != v is only true for NaN.
	return b != b && a == a
}

// SortAxis returns x with values sorted ascending along the given axis, NaNs last.
// The sort is independent per lane, all other axes are preserved.
func SortAxis(x *tensors.Tensor, axis int) *tensors.Tensor {
	shape := x.Shape()
	axis = shape.AdjustAxis(axis)
	assertPODNumeric("SortAxis", shape.DType)
	output := x.Clone()
	if shape.IsZeroSize() || shape.Dimensions[axis] <= 1 {
		return output
	}
	switch shape.DType {
	case dtypes.Int8:
		sortAxisGeneric[int8](output, axis)
	case dtypes.Int16:
		sortAxisGeneric[int16](output, axis)
	case dtypes.Int32:
		sortAxisGeneric[int32](output, axis)
	case dtypes.Int64:
		sortAxisGeneric[int64](output, axis)
	case dtypes.Uint8:
		sortAxisGeneric[uint8](output, axis)
	case dtypes.Uint16:
		sortAxisGeneric[uint16](output, axis)
	case dtypes.Uint32:
		sortAxisGeneric[uint32](output, axis)
	case dtypes.Uint64:
		sortAxisGeneric[uint64](output, axis)
	case dtypes.Float32:
		sortAxisGeneric[float32](output, axis)
	case dtypes.Float64:
		sortAxisGeneric[float64](output, axis)
	}
	return output
}

func sortAxisGeneric[T PODNumericConstraints](output *tensors.Tensor, axis int) {
	shape := output.Shape()
	outer := 1
	for _, dim := range shape.Dimensions[:axis] {
		outer *= dim
	}
	mid := shape.Dimensions[axis]
	inner := 1
	for _, dim := range shape.Dimensions[axis+1:] {
		inner *= dim
	}
	tensors.MutableFlatData(output, func(flat []T) {
		// Lanes are disjoint, each span of them sorts in its own goroutine with its
		// own scratch buffer.
		sortPool.For(outer*inner, minLanesPerWorker, func(start, end int) {
			lane := make([]T, mid)
			for laneIdx := start; laneIdx < end; laneIdx++ {
				pos := (laneIdx/inner)*mid*inner + laneIdx%inner
				for ii := range lane {
					lane[ii] = flat[pos+ii*inner]
				}
				sort.Slice(lane, func(i, j int) bool { return lessWithNaN(lane[i], lane[j]) })
				for ii := range lane {
					flat[pos+ii*inner] = lane[ii]
				}
			}
		})
	})
}

// ArgSort1D returns the permutation that sorts a 1-D tensor ascending, as an integer
// tensor of the same dimension. The sort is stable: equal values keep their original
// order, and NaNs go last.
func ArgSort1D(x *tensors.Tensor) *tensors.Tensor {
	if x.Rank() != 1 {
		exceptions.Panicf("ops.ArgSort1D: x must be 1-D, got shape %s", x.Shape())
	}
	assertPODNumeric("ArgSort1D", x.DType())
	n := x.Size()
	perm := make([]int, n)
	for ii := range perm {
		perm[ii] = ii
	}
	switch x.DType() {
	case dtypes.Int8:
		argSortGeneric[int8](x, perm)
	case dtypes.Int16:
		argSortGeneric[int16](x, perm)
	case dtypes.Int32:
		argSortGeneric[int32](x, perm)
	case dtypes.Int64:
		argSortGeneric[int64](x, perm)
	case dtypes.Uint8:
		argSortGeneric[uint8](x, perm)
	case dtypes.Uint16:
		argSortGeneric[uint16](x, perm)
	case dtypes.Uint32:
		argSortGeneric[uint32](x, perm)
	case dtypes.Uint64:
		argSortGeneric[uint64](x, perm)
	case dtypes.Float32:
		argSortGeneric[float32](x, perm)
	case dtypes.Float64:
		argSortGeneric[float64](x, perm)
	}
	return IntsToTensor(IndexDTypeFor(n), perm)
}

func argSortGeneric[T PODNumericConstraints](x *tensors.Tensor, perm []int) {
	tensors.ConstFlatData(x, func(flat []T) {
		sort.SliceStable(perm, func(i, j int) bool {
			return lessWithNaN(flat[perm[i]], flat[perm[j]])
		})
	})
}

// Ranks1D returns, for each element of a 1-D tensor, its position in the stable
// ascending sort of the tensor: ranks[perm[i]] = i where perm = ArgSort1D(x).
func Ranks1D(x *tensors.Tensor) *tensors.Tensor {
	perm := IntsFromTensor(ArgSort1D(x))
	ranks := make([]int, len(perm))
	for ii, p := range perm {
		ranks[p] = ii
	}
	return IntsToTensor(IndexDTypeFor(len(perm)), ranks)
}
