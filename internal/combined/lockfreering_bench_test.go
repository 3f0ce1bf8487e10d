package combined_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	ring "github.com/randomizedcoder/go-lock-free-ring"

	"github.com/randomizedcoder/tokenq/internal/queue"
)

// ============================================================================
// Comparison Benchmarks: blocking queues vs go-lock-free-ring (MPSC)
// ============================================================================
//
// KEY DIFFERENCE:
// - queue.Queue: bounded, blocking, any number of producers and consumers
// - go-lock-free-ring: MPSC (Multi-Producer, Single-Consumer) with sharding,
//   non-blocking, producers spin when their shard is full
//
// Every target runs N producers against one draining consumer.

var sinkInt int

// mpscTarget is one structure under comparison. setup builds it for the
// given producer count and returns the producer side and a consumer that
// drains until ctx is done.
type mpscTarget struct {
	name  string
	setup func(ctx context.Context, producers int) (put func(pid uint64, v int), consume func())
}

func queueTarget(kind string) mpscTarget {
	return mpscTarget{
		name: kind,
		setup: func(ctx context.Context, _ int) (func(uint64, int), func()) {
			q, _ := queue.New[int](kind, 1024)
			put := func(_ uint64, v int) {
				_ = q.Put(ctx, v)
			}
			consume := func() {
				for {
					v, err := q.Take(ctx)
					if err != nil {
						return
					}
					sinkInt = v
				}
			}
			return put, consume
		},
	}
}

// shardedRing builds a ring with one shard per producer.
func shardedRing(producers int) (write func(uint64, int) bool, read func()) {
	switch producers {
	case 1:
		r, _ := ring.NewShardedRing(1024, 1)
		return func(pid uint64, v int) bool { return r.Write(pid, v) }, func() { r.TryRead() }
	case 4:
		r, _ := ring.NewShardedRing(1024, 4)
		return func(pid uint64, v int) bool { return r.Write(pid, v) }, func() { r.TryRead() }
	default:
		r, _ := ring.NewShardedRing(2048, 8)
		return func(pid uint64, v int) bool { return r.Write(pid, v) }, func() { r.TryRead() }
	}
}

func ringTarget() mpscTarget {
	return mpscTarget{
		name: "shardedring",
		setup: func(ctx context.Context, producers int) (func(uint64, int), func()) {
			write, read := shardedRing(producers)
			put := func(pid uint64, v int) {
				for !write(pid, v) {
				}
			}
			consume := func() {
				for {
					select {
					case <-ctx.Done():
						return
					default:
						read()
					}
				}
			}
			return put, consume
		},
	}
}

// BenchmarkMPSC runs every target for each producer count, so results for
// one producer count sit next to each other.
func BenchmarkMPSC(b *testing.B) {
	targets := []mpscTarget{
		queueTarget(queue.KindChannel),
		queueTarget(queue.KindCond),
		ringTarget(),
	}

	for _, producers := range []int{1, 4, 8} {
		for _, target := range targets {
			b.Run(fmt.Sprintf("%dP/%s", producers, target.name), func(b *testing.B) {
				ctx, stop := context.WithCancel(context.Background())
				put, consume := target.setup(ctx, producers)

				consumerDone := make(chan struct{})
				go func() {
					defer close(consumerDone)
					consume()
				}()

				var producerID atomic.Uint64
				b.SetParallelism(producers)
				b.ResetTimer()

				b.RunParallel(func(pb *testing.PB) {
					pid := producerID.Add(1) - 1
					i := 0
					for pb.Next() {
						put(pid, i)
						i++
					}
				})

				b.StopTimer()
				stop()
				<-consumerDone
			})
		}
	}
}
