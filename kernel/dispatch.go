// Copyright 2025 coclust Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package kernel implements the two data-parallel reduction kernels the
// co-clustering loop is dominated by: the block-average accumulation and
// the row/column reassignment argmin. Both fan their inner reduction out
// over a pool of goroutines, the way a GPU implementation fans the same
// reduction out over device threads.
package kernel

import (
	"os"
	"runtime"
)

// Backend selects how the inner per-row/per-column reduction is executed.
type Backend int

const (
	// BackendGoroutinePool fans the reduction out over up to GOMAXPROCS
	// goroutines, each owning a contiguous block of the index space.
	BackendGoroutinePool Backend = iota
	// BackendScalar runs the reduction on the calling goroutine only.
	// Useful for deterministic single-threaded debugging, matching the
	// teacher's HWY_NO_SIMD scalar-fallback escape hatch.
	BackendScalar
)

// String implements fmt.Stringer.
func (b Backend) String() string {
	switch b {
	case BackendGoroutinePool:
		return "goroutine-pool"
	case BackendScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// DefaultBackend returns BackendScalar if COCLUST_SCALAR is set to a
// non-empty value, and BackendGoroutinePool otherwise.
func DefaultBackend() Backend {
	if os.Getenv("COCLUST_SCALAR") != "" {
		return BackendScalar
	}
	return BackendGoroutinePool
}

// workers returns how many goroutines a block reduction should use for the
// given backend.
func workers(b Backend) int {
	if b == BackendScalar {
		return 1
	}
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	return n
}
