package tick

import (
	"context"
	"time"
)

// TickerPacer wraps time.Ticker for the Pacer interface.
//
// Productions start on tick boundaries. If a production overruns (for
// example while blocked on a full queue) the missed ticks are dropped, as
// with time.Ticker, so the producer never bursts to catch up.
type TickerPacer struct {
	ticker   *time.Ticker
	interval time.Duration
}

// NewTicker creates a TickerPacer. An interval of zero never waits.
func NewTicker(interval time.Duration) *TickerPacer {
	p := &TickerPacer{interval: interval}
	if interval > 0 {
		p.ticker = time.NewTicker(interval)
	}
	return p
}

// Wait blocks until the next tick or until ctx is done.
func (p *TickerPacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.ticker == nil {
		return nil
	}

	select {
	case <-p.ticker.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Interval returns the ticker's interval.
func (p *TickerPacer) Interval() time.Duration {
	return p.interval
}

// Stop stops the ticker and releases resources.
func (p *TickerPacer) Stop() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}
