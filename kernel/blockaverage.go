package kernel

// LocalBlockSums computes this rank's partial contribution to the R×C
// cluster sums and counts, over its local row slab [rowStart, rowEnd).
// matrix is the full row-major num_rows×num_cols matrix; rl/cl are the
// globally-consistent row/column labels. The caller (the iteration
// controller) is responsible for all-reducing the returned sums/counts
// across ranks before calling Average.
//
// cid(i,j) = rl[i]*C + cl[j], accumulated as 64-bit floats/counts per
// spec: row/column lengths can exceed 2^24, at which point naive 32-bit
// accumulation loses precision.
//
// A panic inside the per-block accumulation (e.g. an out-of-range label)
// is recovered by reduceBlocks and returned here as an error rather than
// crashing the process.
func LocalBlockSums(matrix []float32, numCols int, rl, cl []int32, R, C int, rowStart, rowEnd int, backend Backend) (sums []float64, counts []int64, err error) {
	numBins := R * C
	n := rowEnd - rowStart
	return reduceBlocks(n, numBins, backend, func(blockStart, blockEnd int, acc *blockAccum) {
		for d := blockStart; d < blockEnd; d++ {
			i := rowStart + d
			row := matrix[i*numCols : (i+1)*numCols]
			ri := int(rl[i])
			for j, v := range row {
				cid := ri*C + int(cl[j])
				acc.sums[cid] += float64(v)
				acc.counts[cid]++
			}
		}
	})
}

// Average turns accumulated sums/counts (already combined across every
// rank) into the R×C block-average matrix. An empty block (count == 0)
// reports 0 and therefore cannot attract any row or column, per spec: its
// contribution to any candidate distance is the sum of squared items,
// which a non-empty block with a non-trivial mean will not exceed except
// pathologically.
func Average(sums []float64, counts []int64) []float32 {
	avg := make([]float32, len(sums))
	for i := range sums {
		if counts[i] > 0 {
			avg[i] = float32(sums[i] / float64(counts[i]))
		}
	}
	return avg
}
