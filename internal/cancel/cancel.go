// Package cancel provides the shutdown trigger for a tokenq process.
//
// A Canceler owns the root context of a run. Whoever decides the run is
// over calls Cancel with the reason: the signal handler with the signal
// it caught, the service with the producer's fatal error. Every blocking
// call downstream receives Context(), so one cancellation ends the
// producer loop and releases any goroutine parked on the queue. Cause
// reports why.
package cancel

import (
	"context"
	"errors"
)

// ErrSignalled is the cause recorded when an OS signal ends the run.
var ErrSignalled = errors.New("cancel: signal received")

// Canceler ends a run and remembers why.
//
// Implementations must be safe for concurrent use. The first Cancel wins;
// later calls do not change the cause.
type Canceler interface {
	// Context returns the context that is done once the run is cancelled.
	Context() context.Context
	// Cancel ends the run. A nil cause is recorded as context.Canceled.
	Cancel(cause error)
	// Cause returns the recorded cause, or nil while the run is live.
	Cause() error
}
