package queue

import (
	"context"
	"sync"
)

// CondQueue is a bounded queue built on the classic monitor pattern:
// one mutex guarding the buffer, plus a "not full" condition for
// producers and a "not empty" condition for consumers.
//
// sync.Cond cannot wait on a channel, so cancellation is delivered by a
// context.AfterFunc that broadcasts both conditions under the mutex. Every
// waiter re-checks its context after waking.
type CondQueue[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond
	buf      *ring[T]
	capacity int
}

// NewCond creates a CondQueue with the specified capacity.
// It panics if size is less than one.
func NewCond[T any](size int) *CondQueue[T] {
	mustPositive(size)
	q := &CondQueue[T]{
		buf:      newRing[T](size),
		capacity: size,
	}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// TryPut adds an item to the queue.
// Returns false if the queue is full (non-blocking).
func (q *CondQueue[T]) TryPut(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.buf.push(v) {
		return false
	}
	q.notEmpty.Signal()
	return true
}

// TryTake removes and returns an item from the queue.
// Returns false if the queue is empty (non-blocking).
func (q *CondQueue[T]) TryTake() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	v, ok := q.buf.pop()
	if ok {
		q.notFull.Signal()
	}
	return v, ok
}

// Put adds an item to the queue, blocking while it is full.
func (q *CondQueue[T]) Put(ctx context.Context, v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	var stop func() bool
	for q.buf.full() {
		if ctx.Err() != nil {
			return waitErr(ctx)
		}
		if stop == nil {
			stop = context.AfterFunc(ctx, q.wakeAll)
			defer stop()
		}
		q.notFull.Wait()
	}
	if ctx.Err() != nil {
		// Hand the wake-up this waiter may have consumed to the next producer.
		q.notFull.Signal()
		return waitErr(ctx)
	}

	q.buf.push(v)
	q.notEmpty.Signal()
	return nil
}

// Take removes and returns the oldest item, blocking while the queue is empty.
func (q *CondQueue[T]) Take(ctx context.Context) (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	var stop func() bool
	for q.buf.empty() {
		if ctx.Err() != nil {
			return zero, waitErr(ctx)
		}
		if stop == nil {
			stop = context.AfterFunc(ctx, q.wakeAll)
			defer stop()
		}
		q.notEmpty.Wait()
	}
	if ctx.Err() != nil {
		q.notEmpty.Signal()
		return zero, waitErr(ctx)
	}

	v, _ := q.buf.pop()
	q.notFull.Signal()
	return v, nil
}

// Len returns the current number of items in the queue.
func (q *CondQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.len()
}

// Cap returns the capacity of the queue.
func (q *CondQueue[T]) Cap() int {
	return q.capacity
}

// wakeAll runs when a waiter's context is done. Taking the mutex orders
// the broadcast after the waiter has either observed ctx.Err() or parked
// in Wait, so the wake-up cannot be lost.
func (q *CondQueue[T]) wakeAll() {
	q.mu.Lock()
	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
	q.mu.Unlock()
}
