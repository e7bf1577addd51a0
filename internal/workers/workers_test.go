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

package workers

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolFor(t *testing.T) {
	pool := NewWithParallelism(4)
	n := 1000
	covered := make([]int32, n)
	pool.For(n, 10, func(start, end int) {
		require.LessOrEqual(t, start, end)
		for ii := start; ii < end; ii++ {
			atomic.AddInt32(&covered[ii], 1)
		}
	})
	// Every index is visited exactly once.
	for ii, c := range covered {
		require.Equalf(t, int32(1), c, "index %d", ii)
	}
}

func TestPoolForSmallRanges(t *testing.T) {
	pool := NewWithParallelism(8)

	// Fewer elements than minPerWorker: a single inline span.
	var calls, total atomic.Int32
	pool.For(5, 10, func(start, end int) {
		calls.Add(1)
		total.Add(int32(end - start))
	})
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(5), total.Load())

	// Empty range: no calls at all.
	calls.Store(0)
	pool.For(0, 1, func(start, end int) { calls.Add(1) })
	assert.Equal(t, int32(0), calls.Load())
}

func TestPoolDisabled(t *testing.T) {
	pool := NewWithParallelism(0)
	assert.False(t, pool.IsEnabled())
	var total atomic.Int32
	pool.For(100, 1, func(start, end int) { total.Add(int32(end - start)) })
	assert.Equal(t, int32(100), total.Load())
}
