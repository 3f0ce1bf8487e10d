package cancel

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// ShutdownSignals are the signals NewSignal listens for when none are given.
var ShutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// SignalCanceler is a ContextCanceler that also cancels itself on the
// first delivery of one of its signals. The cause then wraps ErrSignalled
// and names the signal.
type SignalCanceler struct {
	*ContextCanceler
}

// NewSignal creates a SignalCanceler listening for sigs below parent.
// With no sigs it listens for ShutdownSignals.
//
// Once the run is cancelled, for any reason, the signals are released
// back to their default behaviour, so a second Ctrl-C terminates the
// process immediately.
func NewSignal(parent context.Context, sigs ...os.Signal) *SignalCanceler {
	if len(sigs) == 0 {
		sigs = ShutdownSignals
	}
	s := &SignalCanceler{ContextCanceler: NewContext(parent)}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			s.Cancel(fmt.Errorf("%w: %v", ErrSignalled, sig))
		case <-s.ctx.Done():
		}
	}()
	return s
}
