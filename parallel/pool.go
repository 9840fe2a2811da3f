// Package parallel runs independent jobs on a bounded set of workers.
package parallel

import (
	"runtime"
	"sync"
)

type (
	// WorkerFunc queues a job. It may block until a worker is free.
	WorkerFunc func(func())
	// WaitFunc waits for queued jobs; done also closes the queue.
	WaitFunc func(done bool)
	// CancelFunc closes the queue. It is safe to call more than once.
	CancelFunc func()
)

// Pool is a fixed set of workers fed from one queue. With a single worker
// jobs run inline on the caller's goroutine.
type Pool struct {
	wg      sync.WaitGroup
	workers int
	Do      WorkerFunc
	Wait    WaitFunc
	Cancel  CancelFunc
}

// Start launches numWorkers workers. Values below one use GOMAXPROCS.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		workers: numWorkers,
		Do: func(f func()) {
			f()
		},
		Wait:   func(bool) {},
		Cancel: func() {},
	}

	if numWorkers > 1 {
		workChan := make(chan func(), numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for f := range workChan {
					f()
				}
			})
		}

		pool.Do = func(f func()) {
			workChan <- f
		}

		pool.Wait = func(done bool) {
			if done {
				pool.Cancel()
			}
			pool.wg.Wait()
		}
		pool.Cancel = sync.OnceFunc(func() { close(workChan) })
	}

	return pool
}

// Workers returns the number of workers.
func (p *Pool) Workers() int {
	return p.workers
}

// Each runs f on every item and waits for all of them. The pool is closed
// afterwards. f receives the item's index so results can be stored in
// input order.
func Each[T any](p *Pool, items []T, f func(i int, item T)) {
	for i, item := range items {
		p.Do(func() {
			f(i, item)
		})
	}
	p.Wait(true)
}
