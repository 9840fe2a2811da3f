package parallel

import (
	"sync/atomic"
	"testing"
)

func TestPoolRunsEveryJob(t *testing.T) {
	for _, workers := range []int{1, 4} {
		pool := Start(workers)
		if pool.Workers() != workers {
			t.Errorf("Expected %d workers, got %d", workers, pool.Workers())
		}

		var sum atomic.Int64
		for i := 1; i <= 100; i++ {
			pool.Do(func() {
				sum.Add(int64(i))
			})
		}
		pool.Wait(true)

		if sum.Load() != 5050 {
			t.Errorf("%d workers: expected sum 5050, got %d", workers, sum.Load())
		}
	}
}

func TestPoolDefaultWorkers(t *testing.T) {
	pool := Start(0)
	defer pool.Wait(true)

	if pool.Workers() < 1 {
		t.Errorf("Expected at least one worker, got %d", pool.Workers())
	}
}

func TestPoolCancelTwice(t *testing.T) {
	pool := Start(2)
	pool.Cancel()
	pool.Cancel()
	pool.Wait(true)
}

func TestEachClosesPool(t *testing.T) {
	pool := Start(2)
	Each(pool, []int{1, 2, 3}, func(int, int) {})
	// Already closed by Each; a second close must not panic.
	pool.Cancel()
}

func TestEachKeepsOrder(t *testing.T) {
	items := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	lengths := make([]int, len(items))

	Each(Start(3), items, func(i int, s string) {
		lengths[i] = len(s)
	})

	for i, n := range lengths {
		if n != i+1 {
			t.Errorf("Item %d: expected length %d, got %d", i, i+1, n)
		}
	}
}
