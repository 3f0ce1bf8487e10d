package command

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/randomizedcoder/tokenq/internal/queue"
)

// BenchCommand returns the bench command.
func BenchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Measure queue throughput with one producer and several consumers",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "n",
				Usage: "number of items",
				Value: 1_000_000,
			},
			&cli.IntFlag{
				Name:  "size",
				Usage: "queue capacity",
				Value: 1024,
			},
			&cli.IntFlag{
				Name:  "consumers",
				Usage: "number of consumers",
				Value: 1,
			},
		},
		Action: func(c *cli.Context) error {
			b := bench{
				items:     c.Int("n"),
				size:      c.Int("size"),
				consumers: c.Int("consumers"),
			}
			return b.report(c.Context, c.App.Writer)
		},
	}
}

type bench struct {
	items     int
	size      int
	consumers int
}

// report runs every queue kind and prints the comparison.
func (b bench) report(ctx context.Context, out io.Writer) error {
	if b.items < 1 || b.size < 1 || b.consumers < 1 {
		return cli.Exit("n, size and consumers must be positive", 2)
	}

	fmt.Fprintf(out, "Benchmarking bounded queue (%d items, size=%d, consumers=%d)\n",
		b.items, b.size, b.consumers)
	fmt.Fprintln(out, "─────────────────────────────────────────────────")

	kinds := []string{queue.KindChannel, queue.KindCond}
	perOp := make(map[string]float64, len(kinds))
	for _, kind := range kinds {
		d, err := b.run(ctx, kind)
		if err != nil {
			return err
		}
		perOp[kind] = float64(d.Nanoseconds()) / float64(b.items)
		fmt.Fprintf(out, "  %-8s %v (%.2f ns/op, %.2f M ops/sec)\n",
			kind+":", d, perOp[kind], 1000/perOp[kind])
	}

	ch, cond := perOp[queue.KindChannel], perOp[queue.KindCond]
	if cond < ch {
		fmt.Fprintf(out, "\n  Speedup:  %.2fx (cond faster)\n", ch/cond)
	} else {
		fmt.Fprintf(out, "\n  Speedup:  %.2fx (channel faster)\n", cond/ch)
	}
	return nil
}

// run pushes b.items through one queue of the given kind and returns the
// wall time until every item has been taken.
func (b bench) run(ctx context.Context, kind string) (time.Duration, error) {
	q, err := queue.New[int](kind, b.size)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	start := time.Now()

	g.Go(func() error {
		for i := 0; i < b.items; i++ {
			if err := q.Put(gctx, i); err != nil {
				return err
			}
		}
		return nil
	})

	share := b.items / b.consumers
	for c := 0; c < b.consumers; c++ {
		n := share
		if c == 0 {
			n += b.items % b.consumers
		}
		g.Go(func() error {
			for i := 0; i < n; i++ {
				if _, err := q.Take(gctx); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("%s: %w", kind, err)
	}
	return time.Since(start), nil
}
