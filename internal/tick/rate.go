package tick

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RatePacer admits one production per interval on average, allowing bursts
// of up to burst productions after an idle period (for example once a full
// queue drains).
type RatePacer struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// NewRate creates a RatePacer. burst is clamped to at least 1. An interval
// of zero never waits.
func NewRate(interval time.Duration, burst int) *RatePacer {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &RatePacer{
		limiter:  rate.NewLimiter(limit, burst),
		interval: interval,
	}
}

// Wait blocks until the limiter admits the next production.
//
// rate.Limiter.Wait refuses up front when ctx's deadline falls before the
// next admission. The admission can then never happen within ctx, so Wait
// sits out the deadline and returns only once ctx is actually done.
func (p *RatePacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.limiter.Wait(ctx); err != nil {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

// Interval returns the average spacing between productions.
func (p *RatePacer) Interval() time.Duration {
	return p.interval
}

// Burst returns the limiter's burst size.
func (p *RatePacer) Burst() int {
	return p.limiter.Burst()
}

// Stop is a no-op for RatePacer (no resources to release).
func (p *RatePacer) Stop() {}
