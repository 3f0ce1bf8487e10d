package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/randomizedcoder/tokenq/internal/queue"
	"github.com/randomizedcoder/tokenq/internal/telemetry/logger"
	"github.com/randomizedcoder/tokenq/internal/telemetry/metric"
)

// DefaultSource is the source reported when Config.Source is empty.
const DefaultSource = "tokenq"

// Message is the body of a successful token request.
type Message struct {
	Source string `json:"source"`
	Value  string `json:"value"`
}

// Stats is the body of /v1/stats.
type Stats struct {
	Size     int    `json:"size"`
	Capacity int    `json:"capacity"`
	Produced uint64 `json:"produced"`
	State    string `json:"state"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	CodeBadRequest  = "bad_request"
	CodeTimeout     = "timeout"
	CodeInterrupted = "interrupted"
	CodeInternal    = "internal"
)

type handler struct {
	cfg     Config
	q       Taker
	status  Status
	metrics *metric.Registry
	log     logger.Logger
}

func newHandler(cfg Config, q Taker, status Status, metrics *metric.Registry, log logger.Logger) http.Handler {
	if cfg.Source == "" {
		cfg.Source = DefaultSource
	}
	if log == nil {
		log = logger.Nop()
	}
	h := &handler{cfg: cfg, q: q, status: status, metrics: metrics, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/token", h.token)
	mux.HandleFunc("GET /v1/stats", h.stats)
	mux.HandleFunc("GET /health", h.health)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler())
	}
	return mux
}

// waitFor returns the effective wait of a token request.
func (h *handler) waitFor(r *http.Request) (time.Duration, error) {
	wait := h.cfg.MaxWait
	raw := r.URL.Query().Get("timeout")
	if raw == "" {
		return wait, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("timeout must be positive")
	}
	if wait <= 0 || d < wait {
		wait = d
	}
	return wait, nil
}

func (h *handler) token(w http.ResponseWriter, r *http.Request) {
	wait, err := h.waitFor(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid timeout: "+err.Error())
		return
	}

	ctx := r.Context()
	if wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wait)
		defer cancel()
	}

	start := time.Now()
	tok, err := h.q.Take(ctx)
	switch {
	case err == nil:
		h.metrics.Delivered(time.Since(start))
		writeJSON(w, http.StatusOK, Message{Source: h.cfg.Source, Value: tok.String()})
	case errors.Is(err, queue.ErrTimeout):
		h.metrics.Cancelled(metric.OpTake, metric.ReasonTimeout)
		writeError(w, http.StatusGatewayTimeout, CodeTimeout, "no token within "+wait.String())
	case errors.Is(err, queue.ErrInterrupted):
		h.metrics.Cancelled(metric.OpTake, metric.ReasonInterrupted)
		writeError(w, http.StatusServiceUnavailable, CodeInterrupted, "wait interrupted")
	default:
		h.log.Error("take failed", "error", err)
		writeError(w, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}

func (h *handler) stats(w http.ResponseWriter, _ *http.Request) {
	st := Stats{
		Size:     h.q.Len(),
		Capacity: h.q.Cap(),
		State:    "stopped",
	}
	if h.status != nil {
		st.Produced = h.status.Produced()
		if h.status.Running() {
			st.State = "running"
		}
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: msg})
}
