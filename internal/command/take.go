package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/randomizedcoder/tokenq/internal/server"
)

// TakeCommand returns the take command, a poller that prints one token
// message per line.
func TakeCommand() *cli.Command {
	return &cli.Command{
		Name:  "take",
		Usage: "Fetch tokens from a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "tokenq server address",
				EnvVars: []string{"TOKENQ_URL"},
				Value:   "127.0.0.1:8080",
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "stop after this many tokens (0 = no limit)",
			},
			&cli.DurationFlag{
				Name:  "every",
				Usage: "interval between requests",
				Value: time.Second,
			},
			&cli.DurationFlag{
				Name:  "for",
				Usage: "total polling time (0 = no limit)",
				Value: 10 * time.Second,
			},
			&cli.DurationFlag{
				Name:  "wait",
				Usage: "server-side wait for each token",
				Value: 5 * time.Second,
			},
		},
		Action: runTake,
	}
}

// poll holds the take loop parameters.
type poll struct {
	count int
	every time.Duration
	span  time.Duration
	wait  time.Duration
}

func runTake(c *cli.Context) error {
	p := poll{
		count: c.Int("count"),
		every: c.Duration("every"),
		span:  c.Duration("for"),
		wait:  c.Duration("wait"),
	}
	n, err := p.run(c.Context, server.NewClient(c.String("server")), c.App.Writer)
	if err != nil {
		return cli.Exit(fmt.Sprintf("after %d tokens: %v", n, err), 1)
	}
	return nil
}

// run fetches tokens until count or span is reached and writes each as a
// JSON line to out. It returns the number of tokens written.
func (p poll) run(ctx context.Context, c *server.Client, out io.Writer) (int, error) {
	if p.span > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.span)
		defer cancel()
	}

	var ticker *time.Ticker
	if p.every > 0 {
		ticker = time.NewTicker(p.every)
		defer ticker.Stop()
	}

	enc := json.NewEncoder(out)
	n := 0
	for p.count == 0 || n < p.count {
		msg, err := c.Token(ctx, p.wait)
		switch {
		case err == nil:
			if err := enc.Encode(msg); err != nil {
				return n, err
			}
			n++
		case ctx.Err() != nil:
			return n, nil
		case errors.Is(err, server.ErrNoToken):
			// queue stayed empty for the whole wait; poll again
		default:
			return n, err
		}

		if p.count > 0 && n >= p.count {
			break
		}
		if ticker == nil {
			if ctx.Err() != nil {
				return n, nil
			}
			continue
		}
		select {
		case <-ctx.Done():
			return n, nil
		case <-ticker.C:
		}
	}
	return n, nil
}
