package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool runs tasks on a fixed set of goroutines. A pool with one worker runs
// each task synchronously inside Do.
type Pool struct {
	wg       sync.WaitGroup
	workers  int
	tasks    chan func()
	stopped  atomic.Bool
	shutdown func()
}

func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		workers:  numWorkers,
		shutdown: func() {},
	}

	if numWorkers > 1 {
		pool.tasks = make(chan func(), numWorkers)
		for range numWorkers {
			pool.wg.Go(func() {
				for f := range pool.tasks {
					if !pool.stopped.Load() {
						f()
					}
				}
			})
		}
		pool.shutdown = sync.OnceFunc(func() { close(pool.tasks) })
	}

	return pool
}

func (p *Pool) Workers() int {
	return p.workers
}

// Do schedules f. It blocks while all workers are busy and the queue is full.
// Do must not be called after Wait.
func (p *Pool) Do(f func()) {
	if p.stopped.Load() {
		return
	}
	if p.tasks == nil {
		f()
		return
	}
	p.tasks <- f
}

// Stop discards every task that has not started yet, including those
// submitted afterwards. Running tasks are not interrupted.
func (p *Pool) Stop() {
	p.stopped.Store(true)
}

func (p *Pool) Stopped() bool {
	return p.stopped.Load()
}

// Wait closes the pool to new tasks and blocks until queued ones are done.
func (p *Pool) Wait() {
	p.shutdown()
	p.wg.Wait()
}
