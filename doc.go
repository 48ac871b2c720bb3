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

// Package coclust co-clusters a dense numeric matrix: it simultaneously
// partitions rows into R groups and columns into C groups so that every
// (row-group, column-group) block is well approximated by its mean.
//
// The engine is organized the way a distributed MPI+GPU implementation
// would be, translated into idiomatic Go:
//
//   - partition plans balanced row/column slabs across simulated worker
//     ranks (package partition).
//   - kernel computes block averages and reassigns rows/columns, fanning
//     the inner reduction out over a goroutine pool the way a GPU kernel
//     fans a reduction out over threads (package kernel).
//   - collective simulates the MPI-style all-reduce/all-gather/barrier
//     primitives that keep ranks synchronized (package collective).
//   - Cluster, in this package, is the iteration controller that sequences
//     the above into the co-clustering loop.
package coclust
