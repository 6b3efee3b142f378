package pipeline

import (
	"context"
	"sync"
)

// Queue is a fixed-capacity FIFO channel wrapper. Send blocks while the
// queue is full; Receive blocks while it is empty. Any number of goroutines
// may call Send and Receive concurrently; ordering across producers is
// unspecified, but a single producer's sends are delivered in order.
//
// The queue never rejects a send: callers rely entirely on the blocking
// behavior for backpressure, matching the bounded-queue contract that
// coordinates the reader, parsers, and writer.
type Queue[T any] struct {
	ch       chan T
	capacity int
	closeOne sync.Once
}

// NewQueue creates a queue with the given fixed capacity.
func NewQueue[T any](capacity int) *Queue[T] {
	return &Queue[T]{
		ch:       make(chan T, capacity),
		capacity: capacity,
	}
}

// Send enqueues v, blocking if the queue is at capacity.
func (q *Queue[T]) Send(v T) {
	q.ch <- v
}

// SendContext enqueues v, blocking until there is room or ctx is done.
// It reports whether the send happened. Used by the reader so a cancelled
// run does not deadlock while the queue is full and its consumers have
// already exited.
func (q *Queue[T]) SendContext(ctx context.Context, v T) bool {
	select {
	case q.ch <- v:
		return true
	case <-ctx.Done():
		return false
	}
}

// Receive dequeues a value, blocking if the queue is empty. ok is false only
// once the queue has been closed and drained.
func (q *Queue[T]) Receive() (v T, ok bool) {
	v, ok = <-q.ch
	return v, ok
}

// Len reports the number of elements currently buffered. Useful for
// observability; callers must not rely on it for correctness since it is
// racy by nature in a concurrent producer/consumer setting.
func (q *Queue[T]) Len() int {
	return len(q.ch)
}

// Cap reports the queue's fixed capacity.
func (q *Queue[T]) Cap() int {
	return q.capacity
}

// Close closes the underlying channel. Safe to call more than once; only the
// first call has an effect. Sends after Close panics, matching Go channel
// semantics, so callers must ensure all producers have finished before
// closing. The pipeline orchestrator never closes its queues; workers stop
// on end tokens instead.
func (q *Queue[T]) Close() {
	q.closeOne.Do(func() {
		close(q.ch)
	})
}
