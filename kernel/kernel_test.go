package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBlockSumsAndAverage(t *testing.T) {
	// 4x4 block-diagonal matrix, R=C=2, rl=cl=[0,0,1,1].
	m := []float32{
		1, 1, 0, 0,
		1, 1, 0, 0,
		0, 0, 1, 1,
		0, 0, 1, 1,
	}
	rl := []int32{0, 0, 1, 1}
	cl := []int32{0, 0, 1, 1}

	for _, backend := range []Backend{BackendScalar, BackendGoroutinePool} {
		sums, counts, err := LocalBlockSums(m, 4, rl, cl, 2, 2, 0, 4, backend)
		require.NoError(t, err)
		avg := Average(sums, counts)

		require.Len(t, avg, 4)
		assert.InDelta(t, 1.0, avg[0*2+0], 1e-9, "backend=%v", backend)
		assert.InDelta(t, 0.0, avg[0*2+1], 1e-9, "backend=%v", backend)
		assert.InDelta(t, 0.0, avg[1*2+0], 1e-9, "backend=%v", backend)
		assert.InDelta(t, 1.0, avg[1*2+1], 1e-9, "backend=%v", backend)
	}
}

func TestLocalBlockSums_PartialSlab(t *testing.T) {
	m := []float32{
		1, 1, 0, 0,
		1, 1, 0, 0,
		0, 0, 1, 1,
		0, 0, 1, 1,
	}
	rl := []int32{0, 0, 1, 1}
	cl := []int32{0, 0, 1, 1}

	sumsA, countsA, err := LocalBlockSums(m, 4, rl, cl, 2, 2, 0, 2, BackendScalar)
	require.NoError(t, err)
	sumsB, countsB, err := LocalBlockSums(m, 4, rl, cl, 2, 2, 2, 4, BackendScalar)
	require.NoError(t, err)

	for i := range sumsA {
		sumsA[i] += sumsB[i]
		countsA[i] += countsB[i]
	}
	full, fullCounts, err := LocalBlockSums(m, 4, rl, cl, 2, 2, 0, 4, BackendScalar)
	require.NoError(t, err)
	assert.Equal(t, full, sumsA)
	assert.Equal(t, fullCounts, countsA)
}

func TestAverage_EmptyBlockIsZero(t *testing.T) {
	sums := []float64{10, 0}
	counts := []int64{2, 0}
	avg := Average(sums, counts)
	assert.Equal(t, float32(5), avg[0])
	assert.Equal(t, float32(0), avg[1])
}

func TestReassignRows_PicksClosestRowCluster(t *testing.T) {
	// 2 rows, 2 cols: m = [[0,0],[10,10]]. avg = [0,10] over R=2,C=1 (cl all 0).
	m := []float32{0, 0, 10, 10}
	cl := []int32{0, 0}
	avg := []float32{0, 10} // R=2, C=1: avg[r*1+0]

	rl := []int32{1, 0} // deliberately wrong to start
	changeCount, errSum, err := ReassignRows(m, 2, cl, avg, 2, 1, rl, 0, 2, BackendScalar)
	require.NoError(t, err)

	assert.Equal(t, int32(0), rl[0])
	assert.Equal(t, int32(1), rl[1])
	assert.Equal(t, 2, changeCount)
	assert.InDelta(t, 0.0, errSum, 1e-9)
}

func TestReassignRows_TieBreakPrefersCurrent(t *testing.T) {
	// Row equidistant from both clusters' averages; current label must win.
	m := []float32{5}
	cl := []int32{0}
	avg := []float32{0, 10} // R=2,C=1

	rl := []int32{1}
	changeCount, _, err := ReassignRows(m, 1, cl, avg, 2, 1, rl, 0, 1, BackendScalar)
	require.NoError(t, err)
	assert.Equal(t, int32(1), rl[0], "tie must preserve current label")
	assert.Equal(t, 0, changeCount)
}

func TestReassignRows_TieBreakSmallestWhenCurrentNotTied(t *testing.T) {
	// row value 5; avg = [0, 5, 5] for R=3, C=1. Clusters 1 and 2 tie at
	// distance 0; current label 0 is not among the tied set, so the
	// smallest tied label (1) must win.
	m := []float32{5}
	cl := []int32{0}
	avg := []float32{0, 5, 5}

	rl := []int32{0}
	changeCount, errSum, err := ReassignRows(m, 1, cl, avg, 3, 1, rl, 0, 1, BackendScalar)
	require.NoError(t, err)
	assert.Equal(t, int32(1), rl[0])
	assert.Equal(t, 1, changeCount)
	assert.InDelta(t, 0.0, errSum, 1e-9)
}

func TestReassignCols_Symmetric(t *testing.T) {
	m := []float32{0, 10, 0, 10}
	rl := []int32{0, 0}
	avg := []float32{0, 10} // R=1, C=2: avg[0*2+c]

	cl := []int32{1, 0} // deliberately wrong
	changeCount, errSum, err := ReassignCols(m, 2, rl, avg, 1, 2, cl, 0, 2, BackendScalar)
	require.NoError(t, err)

	assert.Equal(t, int32(0), cl[0])
	assert.Equal(t, int32(1), cl[1])
	assert.Equal(t, 2, changeCount)
	assert.InDelta(t, 0.0, errSum, 1e-9)
}

func TestLocalBlockSums_RecoversPanicAsError(t *testing.T) {
	// rl[1] = 5 is out of range for R=2, so cid overruns acc.sums/counts
	// (len R*C = 4). The resulting index-out-of-range panic must come back
	// as an error, not crash the test binary.
	m := []float32{1, 1, 0, 0, 1, 1, 0, 0}
	rl := []int32{0, 5}
	cl := []int32{0, 0}

	_, _, err := LocalBlockSums(m, 4, rl, cl, 2, 2, 0, 2, BackendScalar)
	require.Error(t, err)
}

func TestBackendString(t *testing.T) {
	assert.Equal(t, "goroutine-pool", BackendGoroutinePool.String())
	assert.Equal(t, "scalar", BackendScalar.String())
	assert.Equal(t, "unknown", Backend(99).String())
}
