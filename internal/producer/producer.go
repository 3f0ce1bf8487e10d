// Package producer runs the token production loop.
//
// A Producer repeatedly generates a token, inserts it into a bounded queue
// (blocking while the queue is full) and then waits on its pacer. It runs
// until its context is cancelled or the generator fails:
//   - cancellation, during the put or the pacing wait, is a clean stop and
//     Run returns nil
//   - a generator failure is fatal and Run returns it
package producer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/randomizedcoder/tokenq/internal/queue"
	"github.com/randomizedcoder/tokenq/internal/telemetry/logger"
	"github.com/randomizedcoder/tokenq/internal/telemetry/metric"
	"github.com/randomizedcoder/tokenq/internal/tick"
	"github.com/randomizedcoder/tokenq/internal/token"
)

// ErrAlreadyStarted is returned when Run is called more than once.
var ErrAlreadyStarted = errors.New("producer: already started")

// State is the lifecycle state of a Producer.
type State int32

const (
	// StateIdle is a constructed producer that has not run yet.
	StateIdle State = iota
	// StateRunning is a producer inside its loop.
	StateRunning
	// StateStopped is terminal.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Producer feeds a queue with generated tokens.
type Producer struct {
	gen     token.Generator
	q       queue.Queue[token.Token]
	pacer   tick.Pacer
	log     logger.Logger
	metrics *metric.Registry

	state    atomic.Int32
	produced atomic.Uint64

	done    chan struct{}
	errOnce sync.Once
	err     error
}

// Option configures a Producer.
type Option func(*Producer)

// WithLogger sets the logger (discarding by default).
func WithLogger(l logger.Logger) Option {
	return func(p *Producer) {
		p.log = l
	}
}

// WithMetrics records production metrics in r.
func WithMetrics(r *metric.Registry) Option {
	return func(p *Producer) {
		p.metrics = r
	}
}

// New creates a Producer. It does not start producing until Run or Start.
func New(gen token.Generator, q queue.Queue[token.Token], pacer tick.Pacer, opts ...Option) *Producer {
	p := &Producer{
		gen:   gen,
		q:     q,
		pacer: pacer,
		log:   logger.Nop(),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With("component", "producer")
	return p
}

// Run produces tokens on the calling goroutine until ctx is done or the
// generator fails. It returns nil on cancellation.
func (p *Producer) Run(ctx context.Context) error {
	if !p.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrAlreadyStarted
	}
	p.metrics.SetRunning(true)
	p.log.Info("producer started",
		"capacity", p.q.Cap(),
		"interval", p.pacer.Interval().String(),
	)

	err := p.loop(ctx)

	p.pacer.Stop()
	p.state.Store(int32(StateStopped))
	p.metrics.SetRunning(false)
	p.finish(err)
	return err
}

// Start runs the producer on a detached goroutine. The goroutine is not
// joined by anything; Done and Err report how it ended.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		if err := p.Run(ctx); errors.Is(err, ErrAlreadyStarted) {
			p.log.Warn("producer start ignored", "error", err)
		}
	}()
}

// Done returns a channel that is closed when the loop has exited.
func (p *Producer) Done() <-chan struct{} {
	return p.done
}

// Err returns the error that ended the loop. It is nil while running and
// after a clean stop.
func (p *Producer) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// State returns the current lifecycle state.
func (p *Producer) State() State {
	return State(p.state.Load())
}

// Running reports whether the loop is currently producing.
func (p *Producer) Running() bool {
	return p.State() == StateRunning
}

// Produced returns the number of tokens inserted so far.
func (p *Producer) Produced() uint64 {
	return p.produced.Load()
}

func (p *Producer) loop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			p.stopped(ctx.Err())
			return nil
		}

		tok, err := p.gen.Generate()
		if err != nil {
			p.log.Error("token generation failed", "error", err)
			return fmt.Errorf("producer: %w", err)
		}

		if err := p.q.Put(ctx, tok); err != nil {
			if errors.Is(err, queue.ErrInterrupted) || errors.Is(err, queue.ErrTimeout) {
				p.metrics.Cancelled(metric.OpPut, reason(err))
				p.stopped(err)
				return nil
			}
			return fmt.Errorf("producer: put: %w", err)
		}
		n := p.produced.Add(1)
		p.metrics.Produced()
		p.log.Debug("token produced", "size", p.q.Len(), "produced", n)

		if err := p.pacer.Wait(ctx); err != nil {
			p.stopped(err)
			return nil
		}
	}
}

func (p *Producer) stopped(cause error) {
	p.log.Info("producer stopped",
		"reason", cause.Error(),
		"produced", p.produced.Load(),
	)
}

func (p *Producer) finish(err error) {
	p.errOnce.Do(func() {
		p.err = err
		close(p.done)
	})
}

func reason(err error) string {
	if errors.Is(err, queue.ErrTimeout) {
		return metric.ReasonTimeout
	}
	return metric.ReasonInterrupted
}
