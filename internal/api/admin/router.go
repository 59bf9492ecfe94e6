// Package admin serves the operational HTTP endpoints: health and metrics.
package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/certledger/internal/logger"
	"github.com/dtroode/certledger/internal/model"
)

const pingTimeout = 2 * time.Second

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Handler wires the admin endpoints.
type Handler struct {
	store    model.Pinger
	gatherer prometheus.Gatherer
	logger   *logger.Logger
}

// New creates a Handler. store may be nil when the backend cannot be
// pinged.
func New(store model.Pinger, gatherer prometheus.Gatherer, logger *logger.Logger) *Handler {
	return &Handler{
		store:    store,
		gatherer: gatherer,
		logger:   logger,
	}
}

// Router returns the chi router serving /healthz and /metrics.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.HandleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))

	return r
}

// HandleHealth handles GET /healthz by pinging the store backend.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			h.logger.Warn("store health check failed",
				"request_id", middleware.GetReqID(r.Context()),
				"error", err)
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
			return
		}
	}

	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
