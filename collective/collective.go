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

// Package collective simulates the MPI-style collective operations the
// co-clustering loop depends on: all-reduce, all-gather, and barrier. A
// World runs P "ranks" as goroutines in a single process; ranks are
// independent between collective calls and rendezvous only inside them.
//
// Every rank must call the same sequence of collectives in the same order,
// exactly as a real MPI deployment requires — calling them out of order,
// or skipping one on some ranks, deadlocks the World.
package collective

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// World coordinates P simulated ranks.
type World struct {
	n       int
	reduce  *rendezvous[[]float64]
	gather  *rendezvous[[]int32]
	barrier *rendezvous[struct{}]
}

// NewWorld creates a World with n ranks. n must be >= 1.
func NewWorld(n int) (*World, error) {
	if n < 1 {
		return nil, fmt.Errorf("collective: world size must be >= 1, got %d", n)
	}
	return &World{
		n:       n,
		reduce:  newRendezvous[[]float64](n),
		gather:  newRendezvous[[]int32](n),
		barrier: newRendezvous[struct{}](n),
	}, nil
}

// Size returns the number of ranks.
func (w *World) Size() int { return w.n }

// Comm is a World handle bound to one rank; every method call from a given
// rank must be matched by every other rank calling the same method, the
// same number of times, in the same order.
type Comm struct {
	world *World
	rank  int
}

// Rank returns this Comm's rank, in [0, world.Size()).
func (c *Comm) Rank() int { return c.rank }

// IsRoot reports whether this Comm is rank 0, the rank responsible for
// reporting diagnostics and writing final output.
func (c *Comm) IsRoot() bool { return c.rank == 0 }

// AllReduceSum sums local element-wise across every rank's contribution
// and returns the same combined slice on every rank. Every rank's local
// slice must have the same length.
func (c *Comm) AllReduceSum(ctx context.Context, local []float64) ([]float64, error) {
	return c.world.reduce.do(ctx, c.rank, local, func(contributions [][]float64) ([]float64, error) {
		if len(contributions) == 0 {
			return nil, nil
		}
		n := len(contributions[0])
		for _, contrib := range contributions {
			if len(contrib) != n {
				return nil, fmt.Errorf("collective: AllReduceSum contributions have mismatched lengths")
			}
		}
		sum := make([]float64, n)
		for _, contrib := range contributions {
			for i, v := range contrib {
				sum[i] += v
			}
		}
		return sum, nil
	})
}

// AllGatherVarying reassembles each rank's contiguous local slab into a
// full vector, visible on every rank. Ranks must be given in ascending
// slab order (rank k's slab starts where rank k-1's ends), matching the
// partition plan's disp/counts invariant.
func (c *Comm) AllGatherVarying(ctx context.Context, local []int32) ([]int32, error) {
	return c.world.gather.do(ctx, c.rank, local, func(contributions [][]int32) ([]int32, error) {
		total := 0
		for _, contrib := range contributions {
			total += len(contrib)
		}
		full := make([]int32, 0, total)
		for _, contrib := range contributions {
			full = append(full, contrib...)
		}
		return full, nil
	})
}

// Barrier blocks until every rank has called Barrier, then releases all of
// them together. Used as the phase boundary between row- and
// column-reassignment so that row labels are fully published before column
// work reads them.
func (c *Comm) Barrier(ctx context.Context) error {
	_, err := c.world.barrier.do(ctx, c.rank, struct{}{}, func([]struct{}) (struct{}, error) {
		return struct{}{}, nil
	})
	return err
}

// RankFunc is the body executed by a single simulated rank.
type RankFunc func(ctx context.Context, comm *Comm) error

// Run spawns one goroutine per rank, each calling fn with a Comm bound to
// that rank, and waits for all of them to finish. If any rank's fn returns
// an error, Run cancels the context so ranks blocked inside a collective
// are released with that error instead of hanging forever, and returns the
// first error encountered (spec: a fatal condition on any rank must
// terminate all ranks to avoid deadlock at the next collective).
//
// A panic on any rank is recovered and turned into that rank's error, so it
// still cancels gctx and unblocks the other ranks instead of crashing the
// process with an unhandled goroutine panic.
func (w *World) Run(ctx context.Context, fn RankFunc) error {
	g, gctx := errgroup.WithContext(ctx)
	for rank := 0; rank < w.n; rank++ {
		comm := &Comm{world: w, rank: rank}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("collective: rank %d panicked: %v", comm.rank, r)
				}
			}()
			return fn(gctx, comm)
		})
	}
	return g.Wait()
}
