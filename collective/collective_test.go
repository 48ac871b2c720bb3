package collective

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllReduceSum(t *testing.T) {
	world, err := NewWorld(4)
	require.NoError(t, err)

	got := make([][]float64, 4)
	err = world.Run(context.Background(), func(ctx context.Context, comm *Comm) error {
		local := []float64{float64(comm.Rank() + 1), 1}
		sum, err := comm.AllReduceSum(ctx, local)
		if err != nil {
			return err
		}
		got[comm.Rank()] = sum
		return nil
	})
	require.NoError(t, err)

	for _, sum := range got {
		assert.Equal(t, []float64{10, 4}, sum) // 1+2+3+4=10, four ranks each contributing 1
	}
}

func TestAllGatherVarying(t *testing.T) {
	world, err := NewWorld(3)
	require.NoError(t, err)

	slabs := map[int][]int32{
		0: {0, 0},
		1: {1, 1, 1},
		2: {2},
	}
	got := make([][]int32, 3)
	err = world.Run(context.Background(), func(ctx context.Context, comm *Comm) error {
		full, err := comm.AllGatherVarying(ctx, slabs[comm.Rank()])
		if err != nil {
			return err
		}
		got[comm.Rank()] = full
		return nil
	})
	require.NoError(t, err)

	want := []int32{0, 0, 1, 1, 1, 2}
	for _, full := range got {
		assert.Equal(t, want, full)
	}
}

func TestBarrier_ReleasesAllRanksTogether(t *testing.T) {
	world, err := NewWorld(5)
	require.NoError(t, err)

	var mu chan struct{} = make(chan struct{}, 5)
	err = world.Run(context.Background(), func(ctx context.Context, comm *Comm) error {
		time.Sleep(time.Duration(comm.Rank()) * time.Millisecond)
		if err := comm.Barrier(ctx); err != nil {
			return err
		}
		mu <- struct{}{}
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, mu, 5)
}

func TestWorld_ReusableAcrossMultipleRounds(t *testing.T) {
	world, err := NewWorld(2)
	require.NoError(t, err)

	const rounds = 5
	results := make([][]float64, rounds)
	for r := 0; r < rounds; r++ {
		r := r
		err = world.Run(context.Background(), func(ctx context.Context, comm *Comm) error {
			sum, err := comm.AllReduceSum(ctx, []float64{1})
			if err != nil {
				return err
			}
			if comm.IsRoot() {
				results[r] = sum
			}
			return nil
		})
		require.NoError(t, err)
	}
	for r := 0; r < rounds; r++ {
		assert.Equal(t, []float64{2}, results[r])
	}
}

func TestRun_ErrorCancelsOtherRanks(t *testing.T) {
	world, err := NewWorld(3)
	require.NoError(t, err)

	boom := assertErr("boom")
	err = world.Run(context.Background(), func(ctx context.Context, comm *Comm) error {
		if comm.Rank() == 0 {
			return boom
		}
		// Ranks 1 and 2 wait at a barrier that rank 0 never reaches;
		// rank 0's error must cancel the context and release them.
		return comm.Barrier(ctx)
	})
	require.Error(t, err)
}

func TestRun_RecoversPanicAsError(t *testing.T) {
	world, err := NewWorld(3)
	require.NoError(t, err)

	err = world.Run(context.Background(), func(ctx context.Context, comm *Comm) error {
		if comm.Rank() == 1 {
			panic("kaboom")
		}
		// Ranks 0 and 2 wait at a barrier rank 1 never reaches; rank 1's
		// panic must still cancel the context and release them.
		return comm.Barrier(ctx)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
