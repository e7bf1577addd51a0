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

// Package workers splits data-parallel kernel loops across goroutines.
package workers

import (
	"runtime"
	"sync"
)

// Pool bounds the number of goroutines used to split loops over tensor lanes.
// MaxParallelism 0 disables parallelism, everything runs inline.
type Pool struct {
	maxParallelism int
}

// New returns a Pool with parallelism runtime.NumCPU().
func New() *Pool {
	return &Pool{maxParallelism: runtime.NumCPU()}
}

// NewWithParallelism returns a Pool limited to maxParallelism goroutines.
func NewWithParallelism(maxParallelism int) *Pool {
	return &Pool{maxParallelism: maxParallelism}
}

// IsEnabled returns whether the pool runs anything concurrently at all.
func (p *Pool) IsEnabled() bool {
	return p.maxParallelism > 1
}

// MaxParallelism returns the goroutine limit; 0 means disabled.
func (p *Pool) MaxParallelism() int {
	return p.maxParallelism
}

// For partitions the half-open range [0, n) into contiguous spans of at least
// minPerWorker elements and calls fn(start, end) for each span, concurrently up to
// the pool's parallelism. It returns after every span finished. Spans are disjoint,
// so fn may write to per-index data without synchronization.
func (p *Pool) For(n, minPerWorker int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if minPerWorker < 1 {
		minPerWorker = 1
	}
	numSpans := n / minPerWorker
	if numSpans > p.maxParallelism {
		numSpans = p.maxParallelism
	}
	if !p.IsEnabled() || numSpans <= 1 {
		fn(0, n)
		return
	}
	span := n / numSpans
	var wg sync.WaitGroup
	for start := 0; start < n; start += span {
		end := start + span
		// The last span absorbs the remainder.
		if n-end < span {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
		if end == n {
			break
		}
	}
	wg.Wait()
}
