package shapes

import "iter"

// Iter iterates over all possible indices of the given shape, in row-major order
// (the last index changes fastest).
// To avoid allocating the slice of indices, the yielded indices is owned by the Iter() method:
// don't change it inside the loop.
func (s Shape) Iter() iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if !s.Ok() {
			return
		}

		rank := s.Rank()
		if rank == 0 {
			// Valid scalar: yield one empty index slice.
			_ = yield(make([]int, 0))
			return
		}

		// Zero-sized shapes hold no indices.
		for _, dimSize := range s.Dimensions {
			if dimSize <= 0 {
				return
			}
		}

		currentIndices := make([]int, rank)
		// N-dimensional counter over the indices.
		for {
			if !yield(currentIndices) {
				return
			}

			axis := rank - 1
			for ; axis >= 0; axis-- {
				if s.Dimensions[axis] == 1 {
					// Nothing to iterate at this axis.
					continue
				}
				currentIndices[axis]++
				if currentIndices[axis] < s.Dimensions[axis] {
					break
				}
				// Carry-over to the next higher-order axis.
				currentIndices[axis] = 0
			}
			if axis < 0 {
				break
			}
		}
	}
}
