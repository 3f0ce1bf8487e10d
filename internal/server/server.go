// Package server exposes the token queue over HTTP.
//
// It is the bridge through which remote callers take tokens. Each
// GET /v1/token performs one blocking take bound to the request, so a
// client that disconnects releases its wait.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/randomizedcoder/tokenq/internal/telemetry/logger"
	"github.com/randomizedcoder/tokenq/internal/telemetry/metric"
	"github.com/randomizedcoder/tokenq/internal/token"
)

// Taker is the consumer side of the queue.
type Taker interface {
	Take(ctx context.Context) (token.Token, error)
	Len() int
	Cap() int
}

// Status reports the producer's progress for /v1/stats.
type Status interface {
	Produced() uint64
	Running() bool
}

// Config configures the HTTP bridge.
type Config struct {
	// Address is the listen address.
	Address string
	// MaxWait caps the wait of a single token request.
	MaxWait time.Duration
	// Source is reported in every token message.
	Source string
	// BaseContext, if set, is the parent of every request context.
	// Cancelling it interrupts in-flight takes during shutdown.
	BaseContext context.Context
}

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
}

// New creates a new HTTP server. metrics may be nil, in which case
// /metrics is not served.
func New(cfg Config, q Taker, status Status, metrics *metric.Registry, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	h := newHandler(cfg, q, status, metrics, log)

	var root http.Handler = h
	root = logRequests(log)(root)
	root = recoverPanics(log)(root)

	hs := &http.Server{
		Addr:              cfg.Address,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.BaseContext != nil {
		base := cfg.BaseContext
		hs.BaseContext = func(net.Listener) context.Context { return base }
	}

	return &Server{
		httpServer: hs,
		handler:    root,
	}
}

// Handler returns the root handler, including middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve accepts connections on l.
func (s *Server) Serve(l net.Listener) error {
	return s.httpServer.Serve(l)
}

// ListenAndServe starts the HTTP server.
// It returns http.ErrServerClosed after Shutdown.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
