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

package coclust

import (
	"context"
	"fmt"

	"github.com/kjsanger/coclust/collective"
	"github.com/kjsanger/coclust/kernel"
	"github.com/kjsanger/coclust/partition"
)

// IterationStat is rank 0's per-iteration diagnostic snapshot.
type IterationStat struct {
	Iteration   int
	RowChanges  int
	ColChanges  int
	MeanSqError float64
}

// Result is returned by Cluster once the loop terminates, either by
// convergence or by exhausting MaxIterations.
type Result struct {
	Iterations int
	Converged  bool
	Stats      []IterationStat
}

// Cluster co-clusters m into lbl.R row-groups and lbl.C column-groups,
// mutating lbl in place. All of m, cfg's scalar fields, and lbl's initial
// values must be identical across a real distributed deployment's ranks;
// here they are simply read once by the single process that simulates
// those ranks.
func Cluster(ctx context.Context, cfg Config, m Matrix, lbl *Labels) (Result, error) {
	if err := lbl.Validate(); err != nil {
		return Result{}, fmt.Errorf("coclust: invalid initial labels: %w", err)
	}
	if len(lbl.Row) != m.NumRows() {
		return Result{}, fmt.Errorf("coclust: len(labels.Row)=%d, want %d", len(lbl.Row), m.NumRows())
	}
	if len(lbl.Col) != m.NumCols() {
		return Result{}, fmt.Errorf("coclust: len(labels.Col)=%d, want %d", len(lbl.Col), m.NumCols())
	}

	workers := cfg.effectiveWorkers()
	maxIterations := cfg.effectiveMaxIterations()
	backend := cfg.Backend
	logger := cfg.effectiveLogger()

	rowPlan, err := partition.Compute(m.NumRows(), workers)
	if err != nil {
		return Result{}, fmt.Errorf("coclust: row partition: %w", err)
	}
	colPlan, err := partition.Compute(m.NumCols(), workers)
	if err != nil {
		return Result{}, fmt.Errorf("coclust: column partition: %w", err)
	}

	world, err := collective.NewWorld(workers)
	if err != nil {
		return Result{}, fmt.Errorf("coclust: %w", err)
	}

	R, C := lbl.R, lbl.C
	numRows, numCols := m.NumRows(), m.NumCols()
	matrixData := m.data

	initialRow := append([]int32(nil), lbl.Row...)
	initialCol := append([]int32(nil), lbl.Col...)

	var result Result

	runErr := world.Run(ctx, func(ctx context.Context, comm *collective.Comm) error {
		rl := append([]int32(nil), initialRow...)
		cl := append([]int32(nil), initialCol...)

		rowStart, rowEnd := rowPlan.Slab(comm.Rank())
		colStart, colEnd := colPlan.Slab(comm.Rank())

		var stats []IterationStat
		converged := false
		iteration := 0

		for ; iteration < maxIterations; iteration++ {
			// 1. Block-average.
			localSums, localCounts, err := kernel.LocalBlockSums(matrixData, numCols, rl, cl, R, C, rowStart, rowEnd, backend)
			if err != nil {
				return fmt.Errorf("coclust: block average: %w", err)
			}
			sums, err := comm.AllReduceSum(ctx, localSums)
			if err != nil {
				return err
			}
			countsF, err := comm.AllReduceSum(ctx, int64SliceToFloat64(localCounts))
			if err != nil {
				return err
			}
			avg := kernel.Average(sums, float64SliceToInt64(countsF))

			// 2. Row phase.
			rowChangeCount, _, err := kernel.ReassignRows(matrixData, numCols, cl, avg, R, C, rl, rowStart, rowEnd, backend)
			if err != nil {
				return fmt.Errorf("coclust: row reassignment: %w", err)
			}
			rl, err = comm.AllGatherVarying(ctx, rl[rowStart:rowEnd])
			if err != nil {
				return err
			}
			rowChangeTotal, err := comm.AllReduceSum(ctx, []float64{float64(rowChangeCount)})
			if err != nil {
				return err
			}
			if err := comm.Barrier(ctx); err != nil {
				return err
			}

			// 3. Column phase.
			colChangeCount, colErrSum, err := kernel.ReassignCols(matrixData, numCols, rl, avg, R, C, cl, colStart, colEnd, backend)
			if err != nil {
				return fmt.Errorf("coclust: column reassignment: %w", err)
			}
			cl, err = comm.AllGatherVarying(ctx, cl[colStart:colEnd])
			if err != nil {
				return err
			}
			colChangeTotal, err := comm.AllReduceSum(ctx, []float64{float64(colChangeCount)})
			if err != nil {
				return err
			}
			totalError, err := comm.AllReduceSum(ctx, []float64{colErrSum})
			if err != nil {
				return err
			}

			rowChanges := int(rowChangeTotal[0])
			colChanges := int(colChangeTotal[0])

			if comm.IsRoot() {
				meanErr := totalError[0] / float64(numRows*numCols)
				stat := IterationStat{
					Iteration:   iteration,
					RowChanges:  rowChanges,
					ColChanges:  colChanges,
					MeanSqError: meanErr,
				}
				stats = append(stats, stat)
				logger.Info(ctx, "coclust: iteration complete",
					"iteration", stat.Iteration,
					"row_changes", stat.RowChanges,
					"col_changes", stat.ColChanges,
					"mean_sq_error", stat.MeanSqError,
				)
			}

			if rowChanges+colChanges == 0 {
				converged = true
				iteration++
				break
			}
		}

		if comm.IsRoot() {
			lbl.Row = rl
			lbl.Col = cl
			result = Result{Iterations: iteration, Converged: converged, Stats: stats}
		}
		return nil
	})
	if runErr != nil {
		return Result{}, fmt.Errorf("coclust: %w", runErr)
	}
	return result, nil
}

func int64SliceToFloat64(in []int64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

func float64SliceToInt64(in []float64) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}
