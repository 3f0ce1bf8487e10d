package queue_test

import (
	"context"
	"testing"

	"github.com/randomizedcoder/tokenq/internal/queue"
)

// Sink variables to prevent compiler from eliminating benchmark loops
var sinkInt int
var sinkBool bool

// Non-blocking path (uncontended floor)

func BenchmarkQueue_Channel_TryPutTake(b *testing.B) {
	q := queue.NewChannel[int](1024)
	b.ReportAllocs()
	b.ResetTimer()

	var val int
	var ok bool
	for i := 0; i < b.N; i++ {
		q.TryPut(i)
		val, ok = q.TryTake()
	}
	sinkInt = val
	sinkBool = ok
}

func BenchmarkQueue_Cond_TryPutTake(b *testing.B) {
	q := queue.NewCond[int](1024)
	b.ReportAllocs()
	b.ResetTimer()

	var val int
	var ok bool
	for i := 0; i < b.N; i++ {
		q.TryPut(i)
		val, ok = q.TryTake()
	}
	sinkInt = val
	sinkBool = ok
}

// Blocking path on a single goroutine (never actually waits)

func BenchmarkQueue_Channel_PutTake(b *testing.B) {
	q := queue.NewChannel[int](1024)
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	var val int
	for i := 0; i < b.N; i++ {
		_ = q.Put(ctx, i)
		val, _ = q.Take(ctx)
	}
	sinkInt = val
}

func BenchmarkQueue_Cond_PutTake(b *testing.B) {
	q := queue.NewCond[int](1024)
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	var val int
	for i := 0; i < b.N; i++ {
		_ = q.Put(ctx, i)
		val, _ = q.Take(ctx)
	}
	sinkInt = val
}

// Interface benchmarks (with dynamic dispatch overhead)

func BenchmarkQueue_Channel_PutTake_Interface(b *testing.B) {
	var q queue.Queue[int] = queue.NewChannel[int](1024)
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	var val int
	for i := 0; i < b.N; i++ {
		_ = q.Put(ctx, i)
		val, _ = q.Take(ctx)
	}
	sinkInt = val
}

func BenchmarkQueue_Cond_PutTake_Interface(b *testing.B) {
	var q queue.Queue[int] = queue.NewCond[int](1024)
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	var val int
	for i := 0; i < b.N; i++ {
		_ = q.Put(ctx, i)
		val, _ = q.Take(ctx)
	}
	sinkInt = val
}

// Small queue with a dedicated producer: exercises the wait/wake path.

func benchmarkHandoff(b *testing.B, q queue.Queue[int]) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for i := 0; ; i++ {
			if q.Put(ctx, i) != nil {
				return
			}
		}
	}()

	b.ReportAllocs()
	b.ResetTimer()

	var val int
	for i := 0; i < b.N; i++ {
		val, _ = q.Take(ctx)
	}
	sinkInt = val
}

func BenchmarkQueue_Channel_Handoff_Size10(b *testing.B) {
	benchmarkHandoff(b, queue.NewChannel[int](10))
}

func BenchmarkQueue_Cond_Handoff_Size10(b *testing.B) {
	benchmarkHandoff(b, queue.NewCond[int](10))
}
