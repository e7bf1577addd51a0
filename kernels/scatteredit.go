package kernels

import (
	"sort"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/staticshape/ops"
	"github.com/gomlx/staticshape/tensors"
	"github.com/gomlx/staticshape/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Repeat repeats each element of x along the axis. Repeats is either a single
// non-negative int applied to every element, or a per-element vector ([]int, or an
// integer tensor) with one entry per element of the axis. Pass AxisFlat to repeat
// over the flattened tensor, like an axis-less numpy repeat.
//
// The output length is the sum of the repeats, a function of the repeats argument
// alone: per-element repetition runs as a scatter of run-start markers into a
// fixed-size buffer followed by a cumulative sum and a gather, never as a loop over
// runtime values.
func Repeat(x *tensors.Tensor, repeats any, axis int) *tensors.Tensor {
	x, axis = resolveEditAxis(x, axis)
	reps := normalizeRepeats(repeats, x.Shape().Dim(axis))
	total := 0
	for _, r := range reps {
		total += r
	}
	return repeatTo(x, reps, axis, total)
}

// RepeatWithTotalLength is Repeat with the output length along the axis fixed to
// totalLength instead of the sum of the repeats: trailing repetitions are truncated
// when the sum exceeds it, and the final element is repeated to fill the remainder
// when the sum falls short.
func RepeatWithTotalLength(x *tensors.Tensor, repeats any, axis, totalLength int) *tensors.Tensor {
	if totalLength < 0 {
		panic(errors.Wrapf(ErrValue, "total length must be non-negative, got %d", totalLength))
	}
	x, axis = resolveEditAxis(x, axis)
	reps := normalizeRepeats(repeats, x.Shape().Dim(axis))
	return repeatTo(x, reps, axis, totalLength)
}

func repeatTo(x *tensors.Tensor, reps []int, axis, total int) *tensors.Tensor {
	dim := x.Shape().Dim(axis)
	outDims := append([]int{}, x.Shape().Dimensions...)
	outDims[axis] = total
	if total == 0 {
		return ops.Zeros(shapes.Make(x.DType(), outDims...))
	}
	if dim == 0 {
		panic(errors.Wrapf(ErrValue, "cannot repeat an empty axis to length %d", total))
	}
	klog.V(2).Infof("Repeat: axis=%d, dim=%d -> %d", axis, dim, total)

	// Uniform repeats reduce to a tile of a one-wider view.
	if uniform, r := uniformRepeat(reps, dim, total); uniform {
		tiled := ops.TileAxis(ops.ExpandAxis(x, axis+1), axis+1, r)
		return ops.Reshape(tiled, outDims...)
	}

	// Mark where each element's run starts, then the running count of started runs
	// (minus one) is the source index of every output slot. Runs past totalLength
	// fall off the buffer; empty runs collapse by stacking markers on one slot.
	offsets := ops.ExclusiveCumSum(ops.IntsToTensor(dtypes.Int64, reps), 0)
	markers := ops.ScatterAdd1D(
		ops.Zeros(shapes.Make(dtypes.Int64, total)),
		offsets, ops.Ones(shapes.Make(dtypes.Int64, dim)), ops.BoundsDrop)
	gatherIndices := ops.MaxScalar(ops.SubScalar(ops.CumSum(markers, 0), 1), 0)
	return ops.TakeAxis(x, gatherIndices, axis, ops.BoundsClip)
}

func uniformRepeat(reps []int, dim, total int) (bool, int) {
	if len(reps) == 0 || dim*reps[0] != total {
		return false, 0
	}
	for _, r := range reps[1:] {
		if r != reps[0] {
			return false, 0
		}
	}
	return true, reps[0]
}

// Insert inserts values into x before the given positions along the axis. A single
// position takes a block of values of any length along the axis, inserted
// contiguously. Multiple positions each refer to the original (pre-insertion)
// indexing, take one slice of values apiece (a single value is reused for all), and
// equal positions insert their values in argument order. Negative positions count
// from the end; the axis length itself is a valid position and appends. Pass
// AxisFlat to insert into the flattened tensor.
func Insert(x *tensors.Tensor, positions, values any, axis int) *tensors.Tensor {
	x, axis = resolveEditAxis(x, axis)
	dim := x.Shape().Dim(axis)
	pos, scalarPos := normalizePositions(positions, dim, true)
	if len(pos) == 0 {
		return x.Clone()
	}
	if scalarPos {
		block, _ := insertBlock(x, values, axis, -1)
		before := ops.SliceAxis(x, axis, 0, pos[0])
		after := ops.SliceAxis(x, axis, pos[0], dim)
		return ops.Concatenate(axis, before, block, after)
	}

	numInserted := len(pos)
	block, _ := insertBlock(x, values, axis, numInserted)
	outDim := dim + numInserted

	// Stable-sort the positions; adding each sorted position's ordinal makes the
	// output slots strictly increasing, so equal positions land side by side in
	// argument order and scatters never collide.
	order := make([]int, numInserted)
	for ii := range order {
		order[ii] = ii
	}
	sort.SliceStable(order, func(a, b int) bool { return pos[order[a]] < pos[order[b]] })
	outPos := make([]int, numInserted)
	for ii, o := range order {
		outPos[ii] = pos[o] + ii
	}

	idxDType := ops.IndexDTypeFor(outDim)
	outPosT := ops.IntsToTensor(idxDType, outPos)
	insertedMask := ops.ScatterSet1D(
		ops.Zeros(shapes.Make(dtypes.Int64, outDim)),
		outPosT, ops.Ones(shapes.Make(dtypes.Int64, numInserted)), ops.BoundsRaise)
	valueSlots := ops.ScatterSet1D(
		ops.Zeros(shapes.Make(idxDType, outDim)),
		outPosT, ops.IntsToTensor(idxDType, order), ops.BoundsRaise)
	kept := ops.Sub(ops.Ones(insertedMask.Shape()), insertedMask)
	sourceSlots := ops.MaxScalar(ops.SubScalar(ops.CumSum(kept, 0), 1), 0)

	fromX := ops.TakeAxis(x, sourceSlots, axis, ops.BoundsClip)
	fromValues := ops.TakeAxis(block, valueSlots, axis, ops.BoundsClip)
	condDims := make([]int, x.Rank())
	for ii := range condDims {
		condDims[ii] = 1
	}
	condDims[axis] = outDim
	cond := ops.Reshape(ops.Equal(insertedMask, ops.Scalar(dtypes.Int64, 1)), condDims...)
	return ops.Where(cond, fromValues, fromX)
}

// insertBlock shapes values into a block compatible with x along the axis. When
// count is -1 any block length is accepted (single-position insert); otherwise the
// block must hold count slices, with a single slice reused for all count positions.
func insertBlock(x *tensors.Tensor, values any, axis, count int) (*tensors.Tensor, int) {
	v, ok := values.(*tensors.Tensor)
	if !ok {
		v = tensors.FromAnyValue(values)
	}
	v = ops.ConvertDType(v, x.DType())
	switch {
	case v.Rank() == 0:
		// Scalar: one slice worth of it, broadcast below.
	case v.Rank() == x.Rank():
		// Already per-slice shaped.
	case v.Rank() == x.Rank()-1:
		v = ops.ExpandAxis(v, axis)
	default:
		panic(errors.Wrapf(ErrShape, "cannot shape values %s for insertion into %s along axis %d",
			v.Shape(), x.Shape(), axis))
	}
	blockLen := 1
	if v.Rank() > 0 {
		blockLen = v.Shape().Dim(axis)
	}
	if count >= 0 && blockLen != count {
		if blockLen != 1 {
			panic(errors.Wrapf(ErrShape, "got %d value slices for %d insertion positions", blockLen, count))
		}
		if v.Rank() > 0 {
			v = ops.TileAxis(v, axis, count)
		}
		blockLen = count
	}
	targetDims := append([]int{}, x.Shape().Dimensions...)
	targetDims[axis] = blockLen
	var block *tensors.Tensor
	err := exceptions.TryCatch[error](func() {
		block = ops.BroadcastTo(v, targetDims...)
	})
	if err != nil {
		panic(errors.Wrapf(ErrShape, "values %s do not broadcast to %v: %v", v.Shape(), targetDims, err))
	}
	return block, blockLen
}

// Delete removes the slices of x at the given positions along the axis. Positions
// are an int, a []int, an integer tensor, or a boolean mask with one entry per
// slice of the axis; negative positions count from the end, duplicates delete once,
// and out-of-range positions wrap ErrValue. Set assumeUnique when integer positions
// are known to be distinct: deletion then runs as pure index arithmetic against the
// sorted positions, with no membership mask; duplicate positions under this promise
// return garbage. Pass AxisFlat to delete from the flattened tensor.
func Delete(x *tensors.Tensor, positions any, axis int, assumeUnique bool) *tensors.Tensor {
	x, axis = resolveEditAxis(x, axis)
	dim := x.Shape().Dim(axis)

	if mask, ok := positions.(*tensors.Tensor); ok && mask.DType() == dtypes.Bool {
		if mask.Rank() != 1 || mask.Size() != dim {
			panic(errors.Wrapf(ErrShape, "boolean deletion mask must have shape [%d], got %s", dim, mask.Shape()))
		}
		return deleteByMask(x, ops.IntsFromTensor(ops.ConvertDType(mask, dtypes.Int64)), axis)
	}

	pos, scalarPos := normalizePositions(positions, dim, false)
	if scalarPos {
		before := ops.SliceAxis(x, axis, 0, pos[0])
		after := ops.SliceAxis(x, axis, pos[0]+1, dim)
		return ops.Concatenate(axis, before, after)
	}
	if len(pos) == 0 {
		return x.Clone()
	}
	if !assumeUnique {
		deleted := make([]int, dim)
		for _, p := range pos {
			deleted[p] = 1
		}
		return deleteByMask(x, deleted, axis)
	}

	// Unique positions: output slot i comes from source slot i plus the number of
	// deletions at or left of it, which is a searchsorted over the sorted deletion
	// positions each shifted down by its rank.
	sorted := append([]int{}, pos...)
	sort.Ints(sorted)
	outDim := dim - len(pos)
	if outDim < 0 {
		panic(errors.Wrapf(ErrValue, "deleting %d positions from an axis of length %d", len(pos), dim))
	}
	klog.V(2).Infof("Delete: axis=%d, dim=%d -> %d (unique)", axis, dim, outDim)
	shifted := make([]int, len(sorted))
	for ii, p := range sorted {
		shifted[ii] = p - ii
	}
	outDims := append([]int{}, x.Shape().Dimensions...)
	outDims[axis] = outDim
	if outDim == 0 {
		return ops.Zeros(shapes.Make(x.DType(), outDims...))
	}
	slots := ops.Iota1D(dtypes.Int64, outDim)
	skips := SearchSorted(ops.IntsToTensor(dtypes.Int64, shifted), slots, SideRight, MethodScan)
	sources := ops.Add(slots, ops.ConvertDType(skips, dtypes.Int64))
	return ops.TakeAxis(x, sources, axis, ops.BoundsRaise)
}

// deleteByMask compacts the kept slices: each kept slice's output slot is the count
// of kept slices before it, deleted slices scatter off the end of the slot buffer.
func deleteByMask(x *tensors.Tensor, deleted []int, axis int) *tensors.Tensor {
	dim := x.Shape().Dim(axis)
	outDim := 0
	for _, d := range deleted {
		if d == 0 {
			outDim++
		}
	}
	klog.V(2).Infof("Delete: axis=%d, dim=%d -> %d (mask)", axis, dim, outDim)
	outDims := append([]int{}, x.Shape().Dimensions...)
	outDims[axis] = outDim
	if outDim == 0 {
		return ops.Zeros(shapes.Make(x.DType(), outDims...))
	}
	deletedT := ops.IntsToTensor(dtypes.Int64, deleted)
	kept := ops.Sub(ops.Ones(deletedT.Shape()), deletedT)
	outSlots := ops.Where(
		ops.Equal(deletedT, ops.Scalar(dtypes.Int64, 0)),
		ops.ExclusiveCumSum(kept, 0),
		ops.Scalar(dtypes.Int64, float64(dim)))
	sources := ops.ScatterSet1D(
		ops.Zeros(shapes.Make(dtypes.Int64, outDim)),
		outSlots, ops.Iota1D(dtypes.Int64, dim), ops.BoundsDrop)
	return ops.TakeAxis(x, sources, axis, ops.BoundsRaise)
}

// FillDiagonal returns x with its main diagonal overwritten by value, which is a
// scalar or a tensor whose elements are reused cyclically along the diagonal. For a
// 2-D tensor the diagonal stops at the square part, without wrapping; tensors of
// higher rank must have all dimensions equal.
func FillDiagonal(x *tensors.Tensor, value any) *tensors.Tensor {
	if x.Rank() < 2 {
		panic(errors.Wrapf(ErrValue, "FillDiagonal requires rank at least 2, got shape %s", x.Shape()))
	}
	dims := x.Shape().Dimensions
	var step, count int
	if x.Rank() == 2 {
		step = dims[1] + 1
		count = min(dims[0], dims[1])
	} else {
		for _, d := range dims[1:] {
			if d != dims[0] {
				panic(errors.Wrapf(ErrValue, "FillDiagonal beyond rank 2 requires equal dimensions, got shape %s", x.Shape()))
			}
		}
		step = 0
		for _, s := range x.Shape().Strides() {
			step += s
		}
		count = dims[0]
	}
	if count == 0 {
		return x.Clone()
	}

	v, ok := value.(*tensors.Tensor)
	if !ok {
		v = tensors.FromAnyValue(value)
	}
	v = ops.Reshape(ops.ConvertDType(v, x.DType()), v.Size())
	if v.Size() == 0 {
		panic(errors.Wrapf(ErrValue, "FillDiagonal value must have at least one element"))
	}
	if v.Size() < count {
		v = ops.TileAxis(v, 0, (count+v.Size()-1)/v.Size())
	}
	diagonal := ops.SliceAxis(v, 0, 0, count)

	size := x.Size()
	idxDType := ops.IndexDTypeFor(size)
	indices := ops.MulScalar(ops.Iota1D(idxDType, count), float64(step))
	flat := ops.ScatterSet1D(ops.Reshape(x, size), indices, diagonal, ops.BoundsRaise)
	return ops.Reshape(flat, dims...)
}

// resolveEditAxis maps AxisFlat to a flattened view and normalizes negative axes.
func resolveEditAxis(x *tensors.Tensor, axis int) (*tensors.Tensor, int) {
	if axis == AxisFlat {
		return ops.Reshape(x, x.Size()), 0
	}
	return x, x.Shape().AdjustAxis(axis)
}

// normalizeRepeats accepts an int, a []int or an integer tensor and returns one
// repeat count per element of an axis of length dim. A single count broadcasts.
func normalizeRepeats(repeats any, dim int) []int {
	var reps []int
	switch r := repeats.(type) {
	case int:
		reps = []int{r}
	case []int:
		reps = r
	case *tensors.Tensor:
		if r.Rank() > 1 {
			panic(errors.Wrapf(ErrShape, "repeats tensor must be a scalar or 1-D, got shape %s", r.Shape()))
		}
		reps = ops.IntsFromTensor(r)
	default:
		panic(errors.Wrapf(ErrValue, "repeats must be an int, []int or an integer tensor, got %T", repeats))
	}
	for _, r := range reps {
		if r < 0 {
			panic(errors.Wrapf(ErrValue, "repeats must be non-negative, got %d", r))
		}
	}
	if len(reps) == 1 && dim != 1 {
		broadcast := make([]int, dim)
		for ii := range broadcast {
			broadcast[ii] = reps[0]
		}
		reps = broadcast
	}
	if len(reps) != dim {
		panic(errors.Wrapf(ErrShape, "got %d repeat counts for an axis of length %d", len(reps), dim))
	}
	return reps
}

// normalizePositions accepts an int, a []int or an integer tensor and returns the
// positions resolved against an axis of length dim, plus whether the argument was a
// scalar. When allowEnd is set, dim itself is in range (insertion point past the
// last element).
func normalizePositions(positions any, dim int, allowEnd bool) (pos []int, scalar bool) {
	switch p := positions.(type) {
	case int:
		pos, scalar = []int{p}, true
	case []int:
		pos = append([]int{}, p...)
	case *tensors.Tensor:
		if p.Rank() > 1 {
			panic(errors.Wrapf(ErrShape, "positions tensor must be a scalar or 1-D, got shape %s", p.Shape()))
		}
		pos = ops.IntsFromTensor(p)
		scalar = p.Rank() == 0
	default:
		panic(errors.Wrapf(ErrValue, "positions must be an int, []int or an integer tensor, got %T", positions))
	}
	limit := dim
	if allowEnd {
		limit = dim + 1
	}
	for ii, p := range pos {
		if p < 0 {
			p += dim
		}
		if p < 0 || p >= limit {
			panic(errors.Wrapf(ErrValue, "position %d out of range for an axis of length %d", pos[ii], dim))
		}
		pos[ii] = p
	}
	return pos, scalar
}
