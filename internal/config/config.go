// Package config loads tokenq configuration.
//
// It uses Koanf for loading from multiple sources with priority
// Flag > Env > File > Default. Environment variables use the TOKENQ_
// prefix: TOKENQ_QUEUE_CAPACITY maps to queue.capacity.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/randomizedcoder/tokenq/internal/queue"
	"github.com/randomizedcoder/tokenq/internal/telemetry/logger"
	"github.com/randomizedcoder/tokenq/internal/tick"
	"github.com/randomizedcoder/tokenq/internal/token"
)

// Config is the complete tokenq configuration.
type Config struct {
	Queue    QueueConfig    `koanf:"queue"`
	Producer ProducerConfig `koanf:"producer"`
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// QueueConfig configures the bounded queue.
type QueueConfig struct {
	// Kind is the implementation: cond or channel.
	Kind string `koanf:"kind"`
	// Capacity is the maximum number of pending tokens.
	Capacity int `koanf:"capacity"`
}

// ProducerConfig configures token production.
type ProducerConfig struct {
	// Generator is the token generator: uuid, ulid or random.
	Generator string `koanf:"generator"`
	// Pacing is the pacer kind: sleep, ticker or rate.
	Pacing string `koanf:"pacing"`
	// Interval is the spacing between productions.
	Interval time.Duration `koanf:"interval"`
	// Burst is the burst size for rate pacing.
	Burst int `koanf:"burst"`
}

// ServerConfig configures the HTTP bridge.
type ServerConfig struct {
	Address string `koanf:"address"`
	// Timeout caps how long a single token request may wait.
	Timeout time.Duration `koanf:"timeout"`
	// Grace is the graceful shutdown timeout.
	Grace time.Duration `koanf:"grace"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Queue: QueueConfig{
			Kind:     queue.DefaultKind,
			Capacity: 10,
		},
		Producer: ProducerConfig{
			Generator: token.DefaultKind,
			Pacing:    tick.KindSleep,
			Interval:  tick.DefaultInterval,
			Burst:     1,
		},
		Server: ServerConfig{
			Address: "127.0.0.1:8080",
			Timeout: 30 * time.Second,
			Grace:   5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// defaultMap mirrors Default as koanf keys.
func defaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"queue.kind":         d.Queue.Kind,
		"queue.capacity":     d.Queue.Capacity,
		"producer.generator": d.Producer.Generator,
		"producer.pacing":    d.Producer.Pacing,
		"producer.interval":  d.Producer.Interval.String(),
		"producer.burst":     d.Producer.Burst,
		"server.address":     d.Server.Address,
		"server.timeout":     d.Server.Timeout.String(),
		"server.grace":       d.Server.Grace.String(),
		"log.level":          d.Log.Level,
		"log.format":         d.Log.Format,
		"metrics.enabled":    d.Metrics.Enabled,
	}
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	switch c.Queue.Kind {
	case queue.KindCond, queue.KindChannel:
	default:
		add("queue.kind %q (want %s or %s)", c.Queue.Kind, queue.KindCond, queue.KindChannel)
	}
	if c.Queue.Capacity < 1 {
		add("queue.capacity %d must be positive", c.Queue.Capacity)
	}

	switch c.Producer.Generator {
	case token.KindUUID, token.KindULID, token.KindRandom:
	default:
		add("producer.generator %q", c.Producer.Generator)
	}
	switch c.Producer.Pacing {
	case tick.KindSleep, tick.KindTicker, tick.KindRate:
	default:
		add("producer.pacing %q", c.Producer.Pacing)
	}
	if c.Producer.Interval < 0 {
		add("producer.interval %v must not be negative", c.Producer.Interval)
	}
	if c.Producer.Burst < 1 {
		add("producer.burst %d must be positive", c.Producer.Burst)
	}

	if c.Server.Address == "" {
		add("server.address is empty")
	}
	if c.Server.Timeout <= 0 {
		add("server.timeout %v must be positive", c.Server.Timeout)
	}
	if c.Server.Grace < 0 {
		add("server.grace %v must not be negative", c.Server.Grace)
	}

	if !logger.ValidLevel(c.Log.Level) {
		add("log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text", "console":
	default:
		add("log.format %q", c.Log.Format)
	}

	return errors.Join(errs...)
}
