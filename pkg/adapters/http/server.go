// Package http exposes a node host as a JSON API. It is a thin transport:
// every operation maps directly onto a host or node method.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	nodedev "github.com/ian-griptape-ai/node-development"
	"github.com/ian-griptape-ai/node-development/pkg/domain"
	"github.com/ian-griptape-ai/node-development/pkg/nodes"
)

// Host defines the interface the server needs from the node host.
type Host interface {
	Names() []string
	Get(name string) (nodes.Node, bool)
	Run(ctx context.Context, name string) (*domain.Outcome, error)
}

// Server routes HTTP requests to a Host.
type Server struct {
	host   Host
	logger *slog.Logger
	prom   *prometheus.Registry
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics mounts a Prometheus registry on /metrics.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.prom = reg
	}
}

// NewHandler creates an HTTP handler for the host.
func NewHandler(host Host, opts ...Option) http.Handler {
	s := &Server{
		host:   host,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/nodes", s.listNodes)
	r.Post("/nodes/{name}/run", s.runNode)
	r.Get("/nodes/{name}/slots", s.getSlots)
	r.Put("/nodes/{name}/params/{param}", s.setParam)
	if s.prom != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(s.prom, promhttp.HandlerOpts{}))
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "nodedev-http",
		"version": nodedev.Version,
	})
}

func (s *Server) listNodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"nodes": s.host.Names()})
}

func (s *Server) runNode(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := s.host.Get(name); !ok {
		http.Error(w, fmt.Sprintf("node not found: %s", name), http.StatusNotFound)
		return
	}

	outcome, err := s.host.Run(r.Context(), name)
	if err != nil {
		s.logger.Warn("run failed", "node", name, "err", err)
		s.writeRunError(w, outcome, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) getSlots(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	node, ok := s.host.Get(name)
	if !ok {
		http.Error(w, fmt.Sprintf("node not found: %s", name), http.StatusNotFound)
		return
	}
	reader, ok := node.(nodes.SlotReader)
	if !ok {
		http.Error(w, "node does not expose slots", http.StatusNotImplemented)
		return
	}

	slots, err := reader.Snapshot(r.Context())
	if err != nil {
		s.logger.Error("snapshot failed", "node", name, "err", err)
		http.Error(w, fmt.Sprintf("snapshot error: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Slot{"slots": slots})
}

// setParamRequest is the body of PUT /nodes/{name}/params/{param}.
type setParamRequest struct {
	Value string `json:"value"`
}

func (s *Server) setParam(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	param := chi.URLParam(r, "param")

	node, ok := s.host.Get(name)
	if !ok {
		http.Error(w, fmt.Sprintf("node not found: %s", name), http.StatusNotFound)
		return
	}
	setter, ok := node.(nodes.ParamSetter)
	if !ok {
		http.Error(w, "node does not accept parameter writes", http.StatusNotImplemented)
		return
	}

	var body setParamRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := setter.SetParam(r.Context(), param, body.Value)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownSlot) {
			http.Error(w, fmt.Sprintf("unknown parameter: %s", param), http.StatusNotFound)
			return
		}
		s.logger.Warn("set param failed", "node", name, "param", param, "err", err)
		s.writeRunError(w, outcome, err)
		return
	}
	if outcome == nil {
		outcome = &domain.Outcome{}
	}
	writeJSON(w, http.StatusOK, outcome)
}

// writeRunError maps a failed pass to a status code. Source and document
// problems are the client's to fix; anything else is a server fault. The
// partial outcome rides along so callers still see the recorded status.
func (s *Server) writeRunError(w http.ResponseWriter, outcome *domain.Outcome, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrParse), errors.Is(err, domain.ErrBadRoot):
		status = http.StatusUnprocessableEntity
	}

	resp := map[string]any{"error": err.Error()}
	if outcome != nil {
		resp["outcome"] = outcome
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}
