package kernels

import (
	"math/bits"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/staticshape/ops"
	"github.com/gomlx/staticshape/tensors"
	"github.com/gomlx/staticshape/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// SearchSide selects which insertion point SearchSorted reports for runs of equal
// values.
type SearchSide int

const (
	// SideLeft reports the index of the first equal element: the count of reference
	// elements strictly less than the query.
	SideLeft SearchSide = iota

	// SideRight reports the index one past the last equal element: the count of
	// reference elements less than or equal to the query.
	SideRight
)

//go:generate go tool enumer -type=SearchSide -trimprefix=Side -transform=snake -output=gen_searchside_enumer.go searchsorted.go

// SearchMethod selects the insertion-point algorithm. All methods return identical
// results on well-formed input; they trade sequential depth against total work.
type SearchMethod int

const (
	// MethodScan is a fixed-trip-count vectorized bisection: ceil(log2(n+1))
	// iterations, each halving every query's index window at once.
	MethodScan SearchMethod = iota

	// MethodScanUnrolled is MethodScan with the iteration count unrolled instead of
	// looped, a hint for compiling executors; evaluated eagerly it runs the same
	// steps.
	MethodScanUnrolled

	// MethodSort ranks the concatenation of query and reference with a stable sort
	// and recovers insertion points as rank differences.
	MethodSort

	// MethodCompareAll materializes the full reference-by-query comparison matrix
	// and sums along the reference axis; O(n*m) but with no sequential dependency.
	MethodCompareAll
)

//go:generate go tool enumer -type=SearchMethod -trimprefix=Method -transform=snake -output=gen_searchmethod_enumer.go searchsorted.go

// SearchSorted returns, for every element of query, the index at which it would be
// inserted into the 1-D non-decreasing tensor sorted to keep it ordered. The output
// has the shape of query and dtype Int32 when len(sorted) is addressable in 32 bits,
// Int64 otherwise. sorted is not verified to be ordered: unsorted input yields
// deterministic but unspecified indices.
func SearchSorted(sorted, query *tensors.Tensor, side SearchSide, method SearchMethod) *tensors.Tensor {
	if sorted.Rank() != 1 {
		panic(errors.Wrapf(ErrValue, "SearchSorted requires a 1-D reference tensor, got shape %s", sorted.Shape()))
	}
	if !side.IsASearchSide() {
		panic(errors.Wrapf(ErrUnsupportedMode, "unknown search side %d", side))
	}
	if !method.IsASearchMethod() {
		panic(errors.Wrapf(ErrUnsupportedMode, "unknown search method %d", method))
	}
	n := sorted.Size()
	outDType := ops.IndexDTypeFor(n)
	if n == 0 {
		// Nothing compares: every insertion point is 0.
		return ops.Zeros(shapes.Make(outDType, query.Shape().Dimensions...))
	}
	klog.V(2).Infof("SearchSorted: n=%d, queries=%d, side=%s, method=%s", n, query.Size(), side, method)

	common := arithmeticDType(ops.PromoteDTypes(sorted.DType(), query.DType()))
	ref := ops.ConvertDType(sorted, common)
	flatQuery := ops.Reshape(ops.ConvertDType(query, common), query.Size())

	var flatIndices *tensors.Tensor
	switch method {
	case MethodScan:
		flatIndices = searchSortedViaScan(ref, flatQuery, side, false)
	case MethodScanUnrolled:
		flatIndices = searchSortedViaScan(ref, flatQuery, side, true)
	case MethodSort:
		flatIndices = searchSortedViaSort(ref, flatQuery, side)
	case MethodCompareAll:
		flatIndices = searchSortedViaCompareAll(ref, flatQuery, side)
	}
	return ops.Reshape(ops.ConvertDType(flatIndices, outDType), query.Shape().Dimensions...)
}

// searchSortedViaScan bisects all queries at once. The window [low, high] starts as
// [0, n] and each of the fixed ceil(log2(n+1)) steps compares every query against
// its window midpoint and shrinks one side; high converges on the insertion point
// and converged windows are fixed points of the update, so extra steps are harmless.
// The unrolled flag only changes how a compiling executor would lay the steps out.
func searchSortedViaScan(ref, query *tensors.Tensor, side SearchSide, unrolled bool) *tensors.Tensor {
	n := ref.Size()
	m := query.Size()
	low := ops.Zeros(shapes.Make(dtypes.Int64, m))
	high := ops.FillScalar(shapes.Make(dtypes.Int64, m), float64(n))
	steps := bits.Len(uint(n)) // == ceil(log2(n+1))
	for step := 0; step < steps; step++ {
		// Midpoints stay well inside int64, no overflow care needed.
		mid := ops.DivScalar(ops.Add(low, high), 2)
		midValues := ops.Take(ref, mid, ops.BoundsClip)
		var goLeft *tensors.Tensor
		if side == SideLeft {
			goLeft = ops.LessOrEqual(query, midValues)
		} else {
			goLeft = ops.LessThan(query, midValues)
		}
		low = ops.Where(goLeft, low, mid)
		high = ops.Where(goLeft, mid, high)
	}
	return high
}

// searchSortedViaSort recovers each query's insertion point as the difference
// between its rank in the query+reference concatenation and its rank among the
// queries alone. The concatenation order decides how stable-sort ties break, which
// is exactly the left/right distinction.
func searchSortedViaSort(ref, query *tensors.Tensor, side SearchSide) *tensors.Tensor {
	n := ref.Size()
	m := query.Size()
	var combined *tensors.Tensor
	if side == SideLeft {
		combined = ops.Concatenate(0, query, ref)
	} else {
		combined = ops.Concatenate(0, ref, query)
	}
	combinedRanks := ops.ConvertDType(ops.Ranks1D(combined), dtypes.Int64)
	var queryPart *tensors.Tensor
	if side == SideLeft {
		queryPart = ops.SliceAxis(combinedRanks, 0, 0, m)
	} else {
		queryPart = ops.SliceAxis(combinedRanks, 0, n, n+m)
	}
	queryRanks := ops.ConvertDType(ops.Ranks1D(query), dtypes.Int64)
	return ops.Sub(queryPart, queryRanks)
}

// searchSortedViaCompareAll counts, per query, the reference elements before its
// insertion point by reducing the full comparison matrix.
func searchSortedViaCompareAll(ref, query *tensors.Tensor, side SearchSide) *tensors.Tensor {
	n := ref.Size()
	m := query.Size()
	refColumn := ops.Reshape(ref, n, 1)
	queryRow := ops.Reshape(query, 1, m)
	var comparisons *tensors.Tensor
	if side == SideLeft {
		comparisons = ops.LessThan(refColumn, queryRow)
	} else {
		comparisons = ops.LessOrEqual(refColumn, queryRow)
	}
	return ops.ReduceSum(ops.ConvertDType(comparisons, dtypes.Int64), 0, false)
}

// Digitize returns the index of the bin each element of x falls into, with bins a
// 1-D tensor of boundaries that is monotonically increasing or decreasing. With
// right false, bin i is the half-open interval [bins[i-1], bins[i]); with right
// true it is (bins[i-1], bins[i]]. Index 0 means below the first boundary (above,
// for decreasing bins).
//
// Monotonicity is detected from the first and last element only; bins that are not
// consistently ordered give deterministic but meaningless indices.
func Digitize(x, bins *tensors.Tensor, right bool) *tensors.Tensor {
	if bins.Rank() != 1 {
		panic(errors.Wrapf(ErrValue, "Digitize requires 1-D bins, got shape %s", bins.Shape()))
	}
	n := bins.Size()
	if n == 0 {
		return ops.Zeros(shapes.Make(dtypes.Int32, x.Shape().Dimensions...))
	}
	side := SideRight
	if right {
		side = SideLeft
	}
	asFloat := ops.ConvertDType(bins, dtypes.Float64)
	first := tensors.ToScalar[float64](ops.Reshape(ops.SliceAxis(asFloat, 0, 0, 1)))
	last := tensors.ToScalar[float64](ops.Reshape(ops.SliceAxis(asFloat, 0, n-1, n)))
	if last >= first {
		return SearchSorted(bins, x, side, MethodScan)
	}
	indices := SearchSorted(ops.Reverse(bins, 0), x, side, MethodScan)
	return ops.Sub(ops.Scalar(indices.DType(), float64(n)), indices)
}
