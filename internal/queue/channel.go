package queue

import "context"

// ChannelQueue wraps a buffered channel as a Queue.
//
// The channel provides the blocking semantics directly: a send blocks
// while the buffer is full and a receive blocks while it is empty. The
// blocking operations select on ctx.Done() alongside the channel.
type ChannelQueue[T any] struct {
	ch chan T
}

// NewChannel creates a ChannelQueue with the specified capacity.
// It panics if size is less than one.
func NewChannel[T any](size int) *ChannelQueue[T] {
	mustPositive(size)
	return &ChannelQueue[T]{
		ch: make(chan T, size),
	}
}

// TryPut adds an item to the queue.
// Returns false if the queue is full (non-blocking).
func (q *ChannelQueue[T]) TryPut(v T) bool {
	select {
	case q.ch <- v:
		return true
	default:
		return false
	}
}

// TryTake removes and returns an item from the queue.
// Returns false if the queue is empty (non-blocking).
func (q *ChannelQueue[T]) TryTake() (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Put adds an item to the queue, blocking while it is full.
func (q *ChannelQueue[T]) Put(ctx context.Context, v T) error {
	if ctx.Err() != nil {
		return waitErr(ctx)
	}
	select {
	case q.ch <- v:
		return nil
	case <-ctx.Done():
		return waitErr(ctx)
	}
}

// Take removes and returns the oldest item, blocking while the queue is empty.
func (q *ChannelQueue[T]) Take(ctx context.Context) (T, error) {
	var zero T
	if ctx.Err() != nil {
		return zero, waitErr(ctx)
	}
	select {
	case v := <-q.ch:
		return v, nil
	case <-ctx.Done():
		return zero, waitErr(ctx)
	}
}

// Len returns the current number of items in the queue.
func (q *ChannelQueue[T]) Len() int {
	return len(q.ch)
}

// Cap returns the capacity of the queue.
func (q *ChannelQueue[T]) Cap() int {
	return cap(q.ch)
}
