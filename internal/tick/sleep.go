package tick

import (
	"context"
	"time"
)

// SleepPacer pauses for a fixed interval on every Wait.
//
// The interval is measured from the end of one production, so time spent
// blocked on a full queue is not counted.
type SleepPacer struct {
	timer    *time.Timer
	interval time.Duration
}

// NewSleep creates a SleepPacer. An interval of zero never waits.
func NewSleep(interval time.Duration) *SleepPacer {
	p := &SleepPacer{interval: interval}
	if interval > 0 {
		p.timer = time.NewTimer(interval)
		p.timer.Stop()
	}
	return p
}

// Wait sleeps for the interval or until ctx is done.
func (p *SleepPacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.timer == nil {
		return nil
	}

	p.timer.Reset(p.interval)
	select {
	case <-p.timer.C:
		return nil
	case <-ctx.Done():
		p.timer.Stop()
		return ctx.Err()
	}
}

// Interval returns the pause between productions.
func (p *SleepPacer) Interval() time.Duration {
	return p.interval
}

// Stop stops the timer and releases resources.
func (p *SleepPacer) Stop() {
	if p.timer != nil {
		p.timer.Stop()
	}
}
