package command

import (
	"errors"
	"net"

	"github.com/urfave/cli/v2"

	"github.com/randomizedcoder/tokenq/internal/cancel"
	"github.com/randomizedcoder/tokenq/internal/config"
	"github.com/randomizedcoder/tokenq/internal/telemetry/logger"
	"github.com/randomizedcoder/tokenq/internal/token"
)

// ServeCommand returns the serve command.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the producer and serve tokens over HTTP",
		Flags:  serveFlags(),
		Action: runServe,
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file",
			EnvVars: []string{"TOKENQ_CONFIG"},
		},
		&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Usage: "listen address"},
		&cli.StringFlag{Name: "queue", Usage: "queue implementation: cond, channel"},
		&cli.IntFlag{Name: "capacity", Usage: "queue capacity"},
		&cli.StringFlag{Name: "generator", Usage: "token generator: uuid, ulid, random"},
		&cli.StringFlag{Name: "pacing", Usage: "producer pacing: sleep, ticker, rate"},
		&cli.DurationFlag{Name: "interval", Usage: "spacing between productions"},
		&cli.IntFlag{Name: "burst", Usage: "burst for rate pacing"},
		&cli.DurationFlag{Name: "timeout", Usage: "max wait of one token request"},
		&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn, error"},
		&cli.StringFlag{Name: "log-format", Usage: "json, text"},
		&cli.BoolFlag{Name: "metrics", Usage: "serve /metrics", Value: true},
	}
}

// overrides collects the flags the user actually set as koanf keys.
func overrides(c *cli.Context) map[string]any {
	m := make(map[string]any)
	str := func(flag, key string) {
		if c.IsSet(flag) {
			m[key] = c.String(flag)
		}
	}
	num := func(flag, key string) {
		if c.IsSet(flag) {
			m[key] = c.Int(flag)
		}
	}
	dur := func(flag, key string) {
		if c.IsSet(flag) {
			m[key] = c.Duration(flag).String()
		}
	}

	str("address", "server.address")
	str("queue", "queue.kind")
	num("capacity", "queue.capacity")
	str("generator", "producer.generator")
	str("pacing", "producer.pacing")
	dur("interval", "producer.interval")
	num("burst", "producer.burst")
	dur("timeout", "server.timeout")
	str("log-level", "log.level")
	str("log-format", "log.format")
	if c.IsSet("metrics") {
		m["metrics.enabled"] = c.Bool("metrics")
	}
	return m
}

func runServe(c *cli.Context) error {
	opts := []config.Option{
		config.WithConfigFile(c.String("config")),
		config.WithOverrides(overrides(c)),
	}
	cfg, err := config.NewLoader(opts...).Load()
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})

	if path := c.String("config"); path != "" {
		w, err := config.NewWatcher(path, config.NewLoader(opts...).Load, log)
		if err != nil {
			log.Warn("configuration watcher disabled", "error", err)
		} else {
			w.OnChange(config.ApplyLogLevel)
			go w.Start()
			defer w.Stop()
		}
	}

	svc, err := newService(cfg, log)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	l, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	sig := cancel.NewSignal(c.Context)
	defer sig.Cancel(nil)

	if err := svc.run(sig, l); err != nil {
		if errors.Is(err, token.ErrGeneratorExhausted) {
			log.Error("fatal: token generator exhausted", "error", err)
		}
		return cli.Exit(err.Error(), 1)
	}
	return nil
}
