// Package kernels implements array transformation kernels — padding, insertion-point
// search, histogramming and scatter-based structural edits (repeat, insert, delete,
// fill-diagonal) — written under a static-shape discipline: no control flow and no
// output shape ever depends on a runtime array value. Each kernel is a composition of
// the fixed-shape primitives in package ops: where/select, gather, scatter-add and
// fixed-length cumulative sums. Binary search runs a fixed ceil(log2(n+1)) iteration
// count instead of an early-exit loop, and the variable-length edits (repeat, insert,
// delete) compute per-element destination offsets with prefix sums and finish with a
// single gather or scatter into a buffer whose size is known up front.
//
// All kernels are copy-producing, the input tensors are never mutated.
//
// Validation failures panic with an error value wrapping one of the sentinel errors
// below; use the *Err variants (PadErr, SearchSortedErr, ...) or
// exceptions.TryCatch to recover them as ordinary errors.
package kernels

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/staticshape/tensors"
	"github.com/pkg/errors"
)

// Sentinel errors for the kernel call boundaries. Panicked values wrap these with
// context, so errors.Is works on anything recovered with exceptions.TryCatch.
var (
	// ErrShape indicates a wrong-rank or non-broadcastable width/bin specification.
	ErrShape = errors.New("shape mismatch")

	// ErrInvalidWidth indicates a negative pad width, or padding a zero-length axis.
	ErrInvalidWidth = errors.New("invalid pad width")

	// ErrValue indicates a degenerate or out-of-domain argument value: zero
	// stat_length windows, non-1D bin edges, out-of-range insert/delete positions.
	ErrValue = errors.New("invalid value")

	// ErrUnsupportedMode indicates an unrecognized mode, side or method selector.
	ErrUnsupportedMode = errors.New("unsupported mode")
)

// AxisFlat selects the flattened form of Repeat, Insert and Delete: the input is
// raveled to 1-D before the edit, like the axis=None forms in array libraries.
const AxisFlat = -1 << 30

// arithmeticDType returns the dtype the kernels compute in for values of the given
// dtype. The 16-bit float formats, which package ops stores and converts but does
// not operate on, widen to Float32; every other dtype passes through.
func arithmeticDType(dtype dtypes.DType) dtypes.DType {
	if dtype == dtypes.Float16 || dtype == dtypes.BFloat16 {
		return dtypes.Float32
	}
	return dtype
}

// PadErr is Pad with the panic converted to an error.
func PadErr(x *tensors.Tensor, widths any, mode PadMode, options ...PadOption) (padded *tensors.Tensor, err error) {
	err = exceptions.TryCatch[error](func() {
		padded = Pad(x, widths, mode, options...)
	})
	return
}

// SearchSortedErr is SearchSorted with the panic converted to an error.
func SearchSortedErr(sorted, query *tensors.Tensor, side SearchSide, method SearchMethod) (indices *tensors.Tensor, err error) {
	err = exceptions.TryCatch[error](func() {
		indices = SearchSorted(sorted, query, side, method)
	})
	return
}

// DigitizeErr is Digitize with the panic converted to an error.
func DigitizeErr(x, bins *tensors.Tensor, right bool) (indices *tensors.Tensor, err error) {
	err = exceptions.TryCatch[error](func() {
		indices = Digitize(x, bins, right)
	})
	return
}

// HistogramErr is Histogram with the panic converted to an error.
func HistogramErr(samples *tensors.Tensor, options ...HistogramOption) (counts, edges *tensors.Tensor, err error) {
	err = exceptions.TryCatch[error](func() {
		counts, edges = Histogram(samples, options...)
	})
	return
}

// RepeatErr is Repeat with the panic converted to an error.
func RepeatErr(x *tensors.Tensor, repeats any, axis int) (repeated *tensors.Tensor, err error) {
	err = exceptions.TryCatch[error](func() {
		repeated = Repeat(x, repeats, axis)
	})
	return
}

// InsertErr is Insert with the panic converted to an error.
func InsertErr(x *tensors.Tensor, positions, values any, axis int) (inserted *tensors.Tensor, err error) {
	err = exceptions.TryCatch[error](func() {
		inserted = Insert(x, positions, values, axis)
	})
	return
}

// DeleteErr is Delete with the panic converted to an error.
func DeleteErr(x *tensors.Tensor, positions any, axis int, assumeUnique bool) (deleted *tensors.Tensor, err error) {
	err = exceptions.TryCatch[error](func() {
		deleted = Delete(x, positions, axis, assumeUnique)
	})
	return
}

// FillDiagonalErr is FillDiagonal with the panic converted to an error.
func FillDiagonalErr(x *tensors.Tensor, value any) (filled *tensors.Tensor, err error) {
	err = exceptions.TryCatch[error](func() {
		filled = FillDiagonal(x, value)
	})
	return
}
