package kernel

import "github.com/samber/lo"

// ReassignRows finds, for each row i in the local slab [rowStart, rowEnd),
// the row-label minimizing Σⱼ (avg[r,cl[j]] - M[i,j])² over r in [0,R), and
// writes the result into rl in place for that slab. It returns the number
// of local rows whose label changed and the sum of best-distances over
// local rows (spec: localChangeCount, localRowError).
//
// The rows of the slab are the data-parallel axis: parallelFor hands one
// row to each task, matching a per-thread-one-row GPU assignment strategy.
// Within a row, the argmin over R and the sum over columns are sequential
// loops.
//
// A panic inside the per-row work is recovered by parallelFor and reported
// here as the returned error.
func ReassignRows(matrix []float32, numCols int, cl []int32, avg []float32, R, C int, rl []int32, rowStart, rowEnd int, backend Backend) (changeCount int, errSum float64, err error) {
	n := rowEnd - rowStart
	changes := make([]bool, n)
	errs := make([]float64, n)

	if err := parallelFor(n, backend, func(d int) {
		i := rowStart + d
		row := matrix[i*numCols : (i+1)*numCols]
		best, dist := argminDistance(R, int(rl[i]), func(r int) float64 {
			var sum float64
			for j, v := range row {
				diff := float64(avg[r*C+int(cl[j])]) - float64(v)
				sum += diff * diff
			}
			return sum
		})
		errs[d] = dist
		if best != rl[i] {
			changes[d] = true
			rl[i] = best
		}
	}); err != nil {
		return 0, 0, err
	}

	for d := 0; d < n; d++ {
		errSum += errs[d]
		if changes[d] {
			changeCount++
		}
	}
	return changeCount, errSum, nil
}

// ReassignCols is symmetric to ReassignRows: it reassigns columns in the
// local slab [colStart, colEnd) using the already-refreshed row labels rl.
func ReassignCols(matrix []float32, numCols int, rl []int32, avg []float32, R, C int, cl []int32, colStart, colEnd int, backend Backend) (changeCount int, errSum float64, err error) {
	numRows := len(rl)
	n := colEnd - colStart
	changes := make([]bool, n)
	errs := make([]float64, n)

	if err := parallelFor(n, backend, func(d int) {
		j := colStart + d
		best, dist := argminDistance(C, int(cl[j]), func(c int) float64 {
			var sum float64
			for i := 0; i < numRows; i++ {
				diff := float64(avg[int(rl[i])*C+c]) - float64(matrix[i*numCols+j])
				sum += diff * diff
			}
			return sum
		})
		errs[d] = dist
		if best != cl[j] {
			changes[d] = true
			cl[j] = best
		}
	}); err != nil {
		return 0, 0, err
	}

	for d := 0; d < n; d++ {
		errSum += errs[d]
		if changes[d] {
			changeCount++
		}
	}
	return changeCount, errSum, nil
}

// argminDistance evaluates distance(k) for k in [0, numLabels) and returns
// the winning label plus its distance. Tie-break: among labels achieving
// the minimum distance, keep current if it is one of them, otherwise pick
// the smallest label index — matching spec's tie-break rule exactly.
func argminDistance(numLabels int, current int32, distance func(int) float64) (label int32, dist float64) {
	best := dist
	tiedWithCurrent := false
	tiedLabels := make([]int, 0, 1)

	for k := 0; k < numLabels; k++ {
		d := distance(k)
		switch {
		case k == 0 || d < best:
			best = d
			tiedLabels = tiedLabels[:0]
			tiedLabels = append(tiedLabels, k)
			tiedWithCurrent = int32(k) == current
		case d == best:
			tiedLabels = append(tiedLabels, k)
			if int32(k) == current {
				tiedWithCurrent = true
			}
		}
	}

	if tiedWithCurrent {
		return current, best
	}
	return int32(lo.Min(tiedLabels)), best
}
