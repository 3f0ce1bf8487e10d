package cancel

import "context"

// ContextCanceler is a Canceler cancelled only by an explicit Cancel or by
// its parent.
type ContextCanceler struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewContext creates a ContextCanceler below parent.
func NewContext(parent context.Context) *ContextCanceler {
	ctx, cancel := context.WithCancelCause(parent)
	return &ContextCanceler{ctx: ctx, cancel: cancel}
}

// Context returns the run context.
func (c *ContextCanceler) Context() context.Context {
	return c.ctx
}

// Cancel ends the run with cause.
func (c *ContextCanceler) Cancel(cause error) {
	c.cancel(cause)
}

// Cause returns why the run ended. A parent cancellation reports the
// parent's cause.
func (c *ContextCanceler) Cause() error {
	if c.ctx.Err() == nil {
		return nil
	}
	return context.Cause(c.ctx)
}
