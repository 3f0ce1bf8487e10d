package command

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/randomizedcoder/tokenq/internal/cancel"
	"github.com/randomizedcoder/tokenq/internal/config"
	"github.com/randomizedcoder/tokenq/internal/producer"
	"github.com/randomizedcoder/tokenq/internal/queue"
	"github.com/randomizedcoder/tokenq/internal/server"
	"github.com/randomizedcoder/tokenq/internal/telemetry/logger"
	"github.com/randomizedcoder/tokenq/internal/telemetry/metric"
	"github.com/randomizedcoder/tokenq/internal/tick"
	"github.com/randomizedcoder/tokenq/internal/token"
)

// service is one running tokenq instance: a daemon producer feeding a
// queue that the HTTP bridge drains.
type service struct {
	cfg      *config.Config
	log      logger.Logger
	metrics  *metric.Registry
	queue    queue.Queue[token.Token]
	producer *producer.Producer
}

func newService(cfg *config.Config, log logger.Logger, genOpts ...token.Option) (*service, error) {
	gen, err := token.New(cfg.Producer.Generator, genOpts...)
	if err != nil {
		return nil, err
	}
	q, err := queue.New[token.Token](cfg.Queue.Kind, cfg.Queue.Capacity)
	if err != nil {
		return nil, err
	}
	pacer, err := tick.New(cfg.Producer.Pacing, cfg.Producer.Interval, cfg.Producer.Burst)
	if err != nil {
		return nil, err
	}

	var reg *metric.Registry
	if cfg.Metrics.Enabled {
		reg = metric.NewRegistry()
		reg.ObserveQueue(q)
	}

	return &service{
		cfg:      cfg,
		log:      log,
		metrics:  reg,
		queue:    q,
		producer: producer.New(gen, q, pacer, producer.WithLogger(log), producer.WithMetrics(reg)),
	}, nil
}

// run serves on l until c is cancelled. The producer is started as a
// daemon and never joined; if it fails, run cancels c with the failure so
// everything sharing the run context stops, and returns it.
func (s *service) run(c cancel.Canceler, l net.Listener) error {
	g, gctx := errgroup.WithContext(c.Context())

	s.producer.Start(gctx)

	srv := server.New(server.Config{
		Address:     l.Addr().String(),
		MaxWait:     s.cfg.Server.Timeout,
		BaseContext: gctx,
	}, s.queue, s.producer, s.metrics, s.log)

	s.log.Info("server listening",
		"address", l.Addr().String(),
		"queue", s.cfg.Queue.Kind,
		"capacity", s.cfg.Queue.Capacity,
		"generator", s.cfg.Producer.Generator,
	)

	g.Go(func() error {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("serve: %w", err)
			c.Cancel(err)
			return err
		}
		return nil
	})

	g.Go(func() error {
		select {
		case <-gctx.Done():
			return nil
		case <-s.producer.Done():
			err := s.producer.Err()
			if err != nil {
				c.Cancel(err)
			}
			return err
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down",
			"cause", causeOf(c, gctx),
			"grace", s.cfg.Server.Grace.String(),
		)

		shutdownCtx, stop := context.WithTimeout(context.Background(), s.grace())
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// causeOf names why the run ended for the shutdown log line.
func causeOf(c cancel.Canceler, gctx context.Context) string {
	if cause := c.Cause(); cause != nil {
		return cause.Error()
	}
	return context.Cause(gctx).Error()
}

func (s *service) grace() time.Duration {
	if s.cfg.Server.Grace > 0 {
		return s.cfg.Server.Grace
	}
	return 5 * time.Second
}
