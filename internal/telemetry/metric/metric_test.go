package metric_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/randomizedcoder/tokenq/internal/telemetry/metric"
)

type fakeQueue struct {
	n, c int
}

func (f *fakeQueue) Len() int { return f.n }
func (f *fakeQueue) Cap() int { return f.c }

func TestRegistry_Counters(t *testing.T) {
	r := metric.NewRegistry()

	r.Produced()
	r.Produced()
	r.Delivered(10 * time.Millisecond)
	r.Cancelled(metric.OpTake, metric.ReasonTimeout)
	r.Cancelled(metric.OpTake, metric.ReasonTimeout)
	r.Cancelled(metric.OpPut, metric.ReasonInterrupted)

	if got := testutil.ToFloat64(r.TokensProduced); got != 2 {
		t.Errorf("tokens_produced_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.TokensDelivered); got != 1 {
		t.Errorf("tokens_delivered_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.WaitsCancelled.WithLabelValues(metric.OpTake, metric.ReasonTimeout)); got != 2 {
		t.Errorf("waits_cancelled_total{take,timeout} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.WaitsCancelled.WithLabelValues(metric.OpPut, metric.ReasonInterrupted)); got != 1 {
		t.Errorf("waits_cancelled_total{put,interrupted} = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(r.TakeWait); n != 1 {
		t.Errorf("take_wait_seconds collected %d metrics, want 1", n)
	}
}

func TestRegistry_ObserveQueue(t *testing.T) {
	r := metric.NewRegistry()
	q := &fakeQueue{n: 3, c: 10}
	r.ObserveQueue(q)

	expected := `
# HELP tokenq_queue_depth Tokens currently waiting in the queue
# TYPE tokenq_queue_depth gauge
tokenq_queue_depth 3
`
	if err := testutil.GatherAndCompare(r.Gatherer(), strings.NewReader(expected), "tokenq_queue_depth"); err != nil {
		t.Error(err)
	}

	// Depth is sampled at scrape time
	q.n = 7
	expected = strings.Replace(expected, "tokenq_queue_depth 3", "tokenq_queue_depth 7", 1)
	if err := testutil.GatherAndCompare(r.Gatherer(), strings.NewReader(expected), "tokenq_queue_depth"); err != nil {
		t.Error(err)
	}

	if got := testutil.ToFloat64(r.QueueCapacity); got != 10 {
		t.Errorf("tokenq_queue_capacity = %v, want 10", got)
	}
}

func TestRegistry_Running(t *testing.T) {
	r := metric.NewRegistry()

	r.SetRunning(true)
	if got := testutil.ToFloat64(r.ProducerRunning); got != 1 {
		t.Errorf("producer_running = %v, want 1", got)
	}
	r.SetRunning(false)
	if got := testutil.ToFloat64(r.ProducerRunning); got != 0 {
		t.Errorf("producer_running = %v, want 0", got)
	}
}

func TestRegistry_NilSafe(t *testing.T) {
	var r *metric.Registry

	r.Produced()
	r.Delivered(time.Second)
	r.Cancelled(metric.OpTake, metric.ReasonInterrupted)
	r.SetRunning(true)
	r.ObserveQueue(&fakeQueue{})
}

func TestRegistry_Handler(t *testing.T) {
	r := metric.NewRegistry()
	r.Produced()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "tokenq_tokens_produced_total 1") {
		t.Errorf("produced counter missing from scrape output")
	}
}
