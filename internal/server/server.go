// Package server exposes the webhook ingress and health endpoints.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"whalerelay/internal/cooldown"
	"whalerelay/internal/model"
)

// Processor runs one alert through the pipeline.
type Processor interface {
	Process(ctx context.Context, ev model.AlertEvent) *model.PublishRecord
	NarrativeEnabled() bool
	ThresholdETH() float64
}

// Server accepts alert events over HTTP and acknowledges them before
// any pipeline work happens. The handler's response and the pipeline's
// completion are deliberately unlinked: the producer is never blocked
// by outbound calls made downstream.
type Server struct {
	addr      string
	processor Processor
	gate      *cooldown.Gate
	registry  *prometheus.Registry
	logger    *zap.Logger
}

// New builds the ingress server.
func New(addr string, processor Processor, gate *cooldown.Gate, registry *prometheus.Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		addr:      addr,
		processor: processor,
		gate:      gate,
		registry:  registry,
		logger:    logger,
	}
}

// Routes returns the HTTP mux for the relay.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", s.handleWebhook)
	mux.HandleFunc("/health", s.handleHealth)
	if s.registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return mux
}

// Run serves until the context is cancelled, then shuts down the
// listener. In-flight pipeline work is abandoned, not awaited.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("relay listening", zap.String("addr", s.addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

type ackResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var ev model.AlertEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed alert event"})
		return
	}
	if strings.TrimSpace(ev.RuleName) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing rule_name"})
		return
	}

	// Acknowledge now; the pipeline runs on its own, detached from the
	// request context so the producer's disconnect cannot cancel it.
	go s.processor.Process(context.Background(), ev)

	writeJSON(w, http.StatusOK, ackResponse{Status: "accepted"})
}

type healthResponse struct {
	Status           string            `json:"status"`
	NarrativeEnabled bool              `json:"narrative_enabled"`
	ThresholdETH     float64           `json:"threshold_eth"`
	Cooldowns        map[string]string `json:"cooldowns"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	cooldowns := make(map[string]string)
	for rule, t := range s.gate.Snapshot() {
		cooldowns[rule] = t.UTC().Format(time.RFC3339)
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "ok",
		NarrativeEnabled: s.processor.NarrativeEnabled(),
		ThresholdETH:     s.processor.ThresholdETH(),
		Cooldowns:        cooldowns,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
