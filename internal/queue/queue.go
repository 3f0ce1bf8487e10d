// Package queue provides bounded blocking FIFO queues.
//
// This package offers two implementations of the Queue interface:
//   - ChannelQueue: a native buffered Go channel
//   - CondQueue: a mutex with "not full" and "not empty" condition variables
//
// Both are safe for any number of concurrent producers and consumers.
// Every element is delivered to exactly one Take caller, in insertion order.
//
// # Blocking and cancellation
//
// Put blocks while the queue is full and Take blocks while it is empty.
// Both honor the context they are given:
//   - cancellation fails the wait with ErrInterrupted
//   - an expired deadline fails the wait with ErrTimeout
//
// A context that is already done fails the call immediately. A failed wait
// leaves the queue untouched and usable.
package queue

import (
	"context"
	"fmt"
)

// Queue is a bounded multi-producer multi-consumer FIFO queue.
type Queue[T any] interface {
	// TryPut adds an item to the tail of the queue.
	// Returns false if the queue is full (non-blocking).
	TryPut(T) bool

	// TryTake removes and returns the head of the queue.
	// Returns false if the queue is empty (non-blocking).
	TryTake() (T, bool)

	// Put adds an item to the tail of the queue, waiting for space.
	Put(ctx context.Context, v T) error

	// Take removes and returns the head of the queue, waiting for an item.
	Take(ctx context.Context) (T, error)

	// Len returns the number of queued items. The value is a snapshot and
	// may be stale by the time the caller looks at it.
	Len() int

	// Cap returns the fixed capacity of the queue.
	Cap() int
}

// Queue kinds accepted by New.
const (
	KindChannel = "channel"
	KindCond    = "cond"
)

// DefaultKind is the implementation used when none is configured.
const DefaultKind = KindCond

// New creates a queue of the given kind and capacity.
func New[T any](kind string, capacity int) (Queue[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	switch kind {
	case KindCond, "":
		return NewCond[T](capacity), nil
	case KindChannel:
		return NewChannel[T](capacity), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func mustPositive(capacity int) {
	if capacity < 1 {
		panic(fmt.Sprintf("queue: capacity must be positive, got %d", capacity))
	}
}
