// Package tick paces the token producer between productions.
//
// This package offers several implementations of the Pacer interface:
//   - SleepPacer: a fixed pause after every production
//   - TickerPacer: a fixed-rate schedule on a time.Ticker
//   - RatePacer: a token-bucket limiter from golang.org/x/time/rate
//
// Pacing is a rate limit independent of queue backpressure. Every Wait is
// interruptible, so a cancelled producer never sits out a full interval.
package tick

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Pacer decides when the next production may start.
//
// A Pacer is driven by a single goroutine.
type Pacer interface {
	// Wait blocks until the next production may start. It returns the
	// context's error if ctx is done first.
	Wait(ctx context.Context) error

	// Interval returns the configured spacing between productions.
	Interval() time.Duration

	// Stop releases any resources held by the pacer.
	// After Stop, the pacer should not be used.
	Stop()
}

// DefaultInterval is the pause between productions when none is configured.
const DefaultInterval = 250 * time.Millisecond

// Pacer kinds accepted by New.
const (
	KindSleep  = "sleep"
	KindTicker = "ticker"
	KindRate   = "rate"
)

// ErrUnknownKind is returned by New for an unrecognised kind.
var ErrUnknownKind = errors.New("tick: unknown pacer kind")

// New creates a pacer of the given kind. burst only applies to KindRate.
func New(kind string, interval time.Duration, burst int) (Pacer, error) {
	if interval < 0 {
		return nil, fmt.Errorf("tick: negative interval %v", interval)
	}
	switch kind {
	case KindSleep, "":
		return NewSleep(interval), nil
	case KindTicker:
		return NewTicker(interval), nil
	case KindRate:
		return NewRate(interval, burst), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
