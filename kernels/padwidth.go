package kernels

import (
	"github.com/pkg/errors"
)

// PadWidth is the number of elements added before and after one axis.
type PadWidth struct {
	Before, After int
}

// NormalizePadWidths canonicalizes a pad-width specification into exactly one
// (before, after) pair per axis. Accepted forms for spec:
//
//   - int: the same width on both sides of every axis.
//   - PadWidth or [2]int: one (before, after) pair applied to every axis.
//   - []int of length 1 or 2: like int / [2]int.
//   - []PadWidth or [][2]int of length 1 (broadcast) or rank.
//   - [][]int with 1 or rank rows, each row of length 1 or 2; all rows must have
//     the same length.
//
// Any other form panics wrapping ErrShape; negative widths panic wrapping
// ErrInvalidWidth. Pure function.
func NormalizePadWidths(spec any, rank int) []PadWidth {
	var widths []PadWidth
	switch v := spec.(type) {
	case int:
		widths = broadcastPair(PadWidth{v, v}, rank)
	case PadWidth:
		widths = broadcastPair(v, rank)
	case [2]int:
		widths = broadcastPair(PadWidth{v[0], v[1]}, rank)
	case []int:
		switch len(v) {
		case 1:
			widths = broadcastPair(PadWidth{v[0], v[0]}, rank)
		case 2:
			widths = broadcastPair(PadWidth{v[0], v[1]}, rank)
		default:
			panic(errors.Wrapf(ErrShape, "pad width []int must have length 1 or 2, got %d", len(v)))
		}
	case []PadWidth:
		widths = perAxisPairs(v, rank)
	case [][2]int:
		pairs := make([]PadWidth, len(v))
		for ii, p := range v {
			pairs[ii] = PadWidth{p[0], p[1]}
		}
		widths = perAxisPairs(pairs, rank)
	case [][]int:
		widths = fromRows(v, rank)
	default:
		panic(errors.Wrapf(ErrShape, "unsupported pad width specification of type %T", spec))
	}
	for axisIdx, w := range widths {
		if w.Before < 0 || w.After < 0 {
			panic(errors.Wrapf(ErrInvalidWidth, "pad width for axis %d is negative: (%d, %d)", axisIdx, w.Before, w.After))
		}
	}
	return widths
}

func broadcastPair(pair PadWidth, rank int) []PadWidth {
	widths := make([]PadWidth, rank)
	for ii := range widths {
		widths[ii] = pair
	}
	return widths
}

func perAxisPairs(pairs []PadWidth, rank int) []PadWidth {
	if len(pairs) == 1 {
		return broadcastPair(pairs[0], rank)
	}
	if len(pairs) != rank {
		panic(errors.Wrapf(ErrShape, "pad width must give 1 or %d (before, after) pairs, got %d", rank, len(pairs)))
	}
	widths := make([]PadWidth, rank)
	copy(widths, pairs)
	return widths
}

func fromRows(rows [][]int, rank int) []PadWidth {
	if len(rows) == 0 {
		panic(errors.Wrapf(ErrShape, "pad width [][]int must not be empty"))
	}
	rowLen := len(rows[0])
	for _, row := range rows {
		if len(row) != rowLen {
			panic(errors.Wrapf(ErrShape, "ragged pad width: rows have lengths %d and %d", rowLen, len(row)))
		}
	}
	pairs := make([]PadWidth, len(rows))
	for ii, row := range rows {
		switch rowLen {
		case 1:
			pairs[ii] = PadWidth{row[0], row[0]}
		case 2:
			pairs[ii] = PadWidth{row[0], row[1]}
		default:
			panic(errors.Wrapf(ErrShape, "pad width rows must have length 1 or 2, got %d", rowLen))
		}
	}
	return perAxisPairs(pairs, rank)
}

// valuePair is a per-axis (before, after) pair of float parameters, used for the
// constant values of PadConstant and the end values of PadLinearRamp.
type valuePair struct {
	before, after float64
}

// normalizeValuePairs canonicalizes a per-axis-per-side value specification the same
// way NormalizePadWidths canonicalizes widths. Accepted forms: float64, int,
// [2]float64, []float64 of length 1 or 2, and [][2]float64 of length 1 or rank.
func normalizeValuePairs(spec any, rank int, what string) []valuePair {
	broadcast := func(pair valuePair) []valuePair {
		pairs := make([]valuePair, rank)
		for ii := range pairs {
			pairs[ii] = pair
		}
		return pairs
	}
	switch v := spec.(type) {
	case int:
		return broadcast(valuePair{float64(v), float64(v)})
	case float64:
		return broadcast(valuePair{v, v})
	case [2]float64:
		return broadcast(valuePair{v[0], v[1]})
	case []float64:
		switch len(v) {
		case 1:
			return broadcast(valuePair{v[0], v[0]})
		case 2:
			return broadcast(valuePair{v[0], v[1]})
		}
		panic(errors.Wrapf(ErrShape, "%s []float64 must have length 1 or 2, got %d", what, len(v)))
	case [][2]float64:
		if len(v) == 1 {
			return broadcast(valuePair{v[0][0], v[0][1]})
		}
		if len(v) != rank {
			panic(errors.Wrapf(ErrShape, "%s must give 1 or %d (before, after) pairs, got %d", what, rank, len(v)))
		}
		pairs := make([]valuePair, rank)
		for ii, p := range v {
			pairs[ii] = valuePair{p[0], p[1]}
		}
		return pairs
	}
	panic(errors.Wrapf(ErrShape, "unsupported %s specification of type %T", what, spec))
}
