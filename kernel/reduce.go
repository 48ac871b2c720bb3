package kernel

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BlockSize is the maximum number of indices handled by a single reduction
// block, matching the per-block scratchpad size (1024 doubles) specified
// for the GPU reference kernel. Here it bounds the slice handed to each
// goroutine rather than a CUDA block's shared memory, but the role is the
// same: a unit of work that is reduced locally before being combined with
// its neighbors.
const BlockSize = 1024

// blockAccum is a single block's partial sums and counts, keyed by cluster
// id. Only the block-average kernel accumulates into it; the reassignment
// kernels use parallelFor instead.
type blockAccum struct {
	sums   []float64
	counts []int64
}

// reduceBlocks partitions [0, n) into blocks of at most BlockSize indices
// and runs accumulate once per block, capping in-flight goroutines at
// workers(backend). accumulate must write its partial result into the
// given *blockAccum (length numBins each); reduceBlocks combines the block
// partials itself, in block order, so results are reproducible across runs
// for a fixed backend and GOMAXPROCS.
//
// A panic inside accumulate on any block is recovered and reported as the
// returned error, rather than crashing the process: the GPU reference
// kernel a faulting block would hang the whole launch, but a goroutine
// panic here would instead take down every other rank's goroutine with it.
func reduceBlocks(n, numBins int, backend Backend, accumulate func(start, end int, acc *blockAccum)) (sums []float64, counts []int64, err error) {
	sums = make([]float64, numBins)
	counts = make([]int64, numBins)
	if n == 0 {
		return sums, counts, nil
	}

	numBlocks := (n + BlockSize - 1) / BlockSize
	partials := make([]blockAccum, numBlocks)
	for b := range partials {
		partials[b] = blockAccum{sums: make([]float64, numBins), counts: make([]int64, numBins)}
	}

	var g errgroup.Group
	g.SetLimit(workers(backend))
	for b := 0; b < numBlocks; b++ {
		start := b * BlockSize
		end := start + BlockSize
		if end > n {
			end = n
		}
		b := b
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("kernel: block [%d,%d) panicked: %v", start, end, r)
				}
			}()
			accumulate(start, end, &partials[b])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Host-side combine: fixed block order keeps the result deterministic
	// regardless of goroutine completion order.
	for b := 0; b < numBlocks; b++ {
		for bin := 0; bin < numBins; bin++ {
			sums[bin] += partials[b].sums[bin]
			counts[bin] += partials[b].counts[bin]
		}
	}
	return sums, counts, nil
}

// parallelFor runs body once per index in [0, n), fanning out over up to
// workers(backend) goroutines. Unlike reduceBlocks, each call's output is
// independent (one row or column's reassignment does not interact with
// any other's), so there is nothing to combine afterward.
//
// A panic inside body on any index is recovered and reported as the
// returned error instead of crashing the process.
func parallelFor(n int, backend Backend, body func(i int)) error {
	if n == 0 {
		return nil
	}
	var g errgroup.Group
	g.SetLimit(workers(backend))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("kernel: index %d panicked: %v", i, r)
				}
			}()
			body(i)
			return nil
		})
	}
	return g.Wait()
}
