package pipeline

import (
	"sync"

	"github.com/inodb/vibevcf/internal/apperr"
)

// Task is a zero-argument unit of work submitted to a Pool.
type Task func() error

// Future is the completion handle returned by Pool.Submit. Wait blocks the
// caller until the task finishes and surfaces any error it returned.
type Future struct {
	done chan struct{}
	err  error
}

// Wait blocks until the submitted task completes and returns its error.
func (f *Future) Wait() error {
	<-f.done
	return f.err
}

// Pool is a fixed-size goroutine pool. Tasks queue on a shared buffered
// channel; workers pull from it until the pool is stopped. This is the Go
// channel equivalent of the mutex+condition-variable task deque the
// original thread pool used: the channel itself is the guarded queue and
// its buffer removes the need for an explicit lock in the common case.
type Pool struct {
	tasks    chan func()
	wg       sync.WaitGroup
	stopOnce sync.Once
	mu       sync.RWMutex
	stopped  bool
}

// NewPool starts a pool of size workers (minimum 1) with a task backlog of
// the same size.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{tasks: make(chan func(), workers)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// Submit enqueues task and returns a Future the caller can Wait on. Submit
// fails with a "pool stopped" error once Stop has been called.
func (p *Pool) Submit(task Task) (*Future, error) {
	p.mu.RLock()
	stopped := p.stopped
	p.mu.RUnlock()
	if stopped {
		return nil, apperr.WorkerPool("submit on stopped pool")
	}

	f := &Future{done: make(chan struct{})}
	p.tasks <- func() {
		defer close(f.done)
		f.err = task()
	}
	return f, nil
}

// Stop signals no further tasks will be submitted, waits for in-flight and
// already-queued tasks to drain, and returns once every worker has exited.
// Safe to call more than once; only the first call has an effect.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()
		close(p.tasks)
		p.wg.Wait()
	})
}
