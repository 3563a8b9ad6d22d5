// Package parallel runs independent jobs on a bounded set of goroutines.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	WaitFunc   func()
)

// Pool runs functions passed to Do on its workers. A pool with a single
// worker runs them inline on the caller's goroutine.
type Pool struct {
	wg   sync.WaitGroup
	Do   WorkerFunc
	Wait WaitFunc
}

// Start returns a pool of numWorkers goroutines, or GOMAXPROCS when
// numWorkers is less than one. Wait must be called once all work has been
// submitted; the pool cannot be reused afterwards.
func Start(numWorkers int) *Pool {
	numWorkers = workers(numWorkers)

	pool := &Pool{
		Do: func(f func()) {
			f()
		},
		Wait: func() {},
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
		closeWork := sync.OnceFunc(func() { close(workChan) })
		pool.Wait = func() {
			closeWork()
			pool.wg.Wait()
		}
	}

	return pool
}

// Each calls fn for every index in [0, n) using numWorkers goroutines and
// returns the first error. No further indexes are started once an error
// has occurred or ctx is done.
func Each(ctx context.Context, numWorkers, n int, fn func(i int) error) error {
	if n == 0 {
		return ctx.Err()
	}
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	pool := Start(min(workers(numWorkers), n))
	for i := range n {
		if ctx.Err() != nil {
			break
		}
		pool.Do(func() {
			if ctx.Err() != nil {
				return
			}
			if err := fn(i); err != nil {
				cancel(err)
			}
		})
	}
	pool.Wait()

	return context.Cause(ctx)
}

func workers(numWorkers int) int {
	if numWorkers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return numWorkers
}
