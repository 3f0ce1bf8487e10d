package queue

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInterrupted is returned when a blocking wait is cancelled.
	ErrInterrupted = errors.New("queue: wait interrupted")

	// ErrTimeout is returned when a blocking wait reaches its deadline.
	ErrTimeout = errors.New("queue: wait timed out")

	// ErrInvalidCapacity is returned by New for a capacity below one.
	ErrInvalidCapacity = errors.New("queue: invalid capacity")

	// ErrUnknownKind is returned by New for an unrecognised kind.
	ErrUnknownKind = errors.New("queue: unknown kind")
)

// waitErr maps the error of a done context onto the queue taxonomy.
// The context error stays in the chain.
func waitErr(ctx context.Context) error {
	err := ctx.Err()
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrInterrupted, err)
}
