package kernels

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePadWidths(t *testing.T) {
	assert.Equal(t, []PadWidth{{3, 3}, {3, 3}}, NormalizePadWidths(3, 2))
	assert.Equal(t, []PadWidth{{1, 2}, {1, 2}, {1, 2}}, NormalizePadWidths([2]int{1, 2}, 3))
	assert.Equal(t, []PadWidth{{0, 1}, {0, 1}}, NormalizePadWidths(PadWidth{After: 1}, 2))
	assert.Equal(t, []PadWidth{{2, 2}}, NormalizePadWidths([]int{2}, 1))
	assert.Equal(t, []PadWidth{{1, 2}, {1, 2}}, NormalizePadWidths([]int{1, 2}, 2))
	assert.Equal(t, []PadWidth{{1, 2}, {3, 4}}, NormalizePadWidths([][2]int{{1, 2}, {3, 4}}, 2))
	assert.Equal(t, []PadWidth{{1, 2}, {1, 2}}, NormalizePadWidths([]PadWidth{{1, 2}}, 2))
	assert.Equal(t, []PadWidth{{1, 1}, {2, 2}}, NormalizePadWidths([][]int{{1}, {2}}, 2))
	assert.Equal(t, []PadWidth{{1, 2}, {3, 4}}, NormalizePadWidths([][]int{{1, 2}, {3, 4}}, 2))
}

func TestNormalizePadWidthsErrors(t *testing.T) {
	err := exceptions.TryCatch[error](func() { NormalizePadWidths([][2]int{{1, 2}, {3, 4}, {5, 6}}, 2) })
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShape))

	err = exceptions.TryCatch[error](func() { NormalizePadWidths([]int{1, 2, 3}, 3) })
	assert.True(t, errors.Is(err, ErrShape))

	// Ragged rows.
	err = exceptions.TryCatch[error](func() { NormalizePadWidths([][]int{{1, 2}, {3}}, 2) })
	assert.True(t, errors.Is(err, ErrShape))

	err = exceptions.TryCatch[error](func() { NormalizePadWidths("wide", 1) })
	assert.True(t, errors.Is(err, ErrShape))

	err = exceptions.TryCatch[error](func() { NormalizePadWidths(-1, 1) })
	assert.True(t, errors.Is(err, ErrInvalidWidth))

	err = exceptions.TryCatch[error](func() { NormalizePadWidths([][2]int{{1, -2}}, 1) })
	assert.True(t, errors.Is(err, ErrInvalidWidth))
}
