// Package server exposes the planning conversation over HTTP: the chat
// endpoint driving the stage state machine, session and plan retrieval, and
// Kubernetes-style health probes with graceful shutdown.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/felixgeelhaar/planora/internal/engine"
	"github.com/felixgeelhaar/planora/internal/health"
	"github.com/felixgeelhaar/planora/internal/log"
	"github.com/felixgeelhaar/planora/internal/plan"
	"github.com/felixgeelhaar/planora/internal/session"
)

// Server hosts the planning API.
type Server struct {
	httpServer      *http.Server
	probeManager    *health.ProbeManager
	controller      *engine.Controller
	assembler       *plan.Assembler
	store           session.Store
	logger          *log.Logger
	inShutdown      atomic.Bool
	shutdownTimeout time.Duration
}

// Config holds server configuration.
type Config struct {
	// Address is the listen address (e.g. ":8080").
	Address string

	// ShutdownTimeout is the maximum time to wait for connections to drain
	// during shutdown. Defaults to 30 seconds.
	ShutdownTimeout time.Duration

	// ReadTimeout is the maximum duration for reading the entire request.
	// Defaults to 10 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out response
	// writes. Chat turns make two model calls, so the default is generous:
	// 120 seconds.
	WriteTimeout time.Duration

	// IdleTimeout is the maximum time to wait for the next request.
	// Defaults to 60 seconds.
	IdleTimeout time.Duration
}

// Deps are the collaborators the API handlers need.
type Deps struct {
	Controller   *engine.Controller
	Assembler    *plan.Assembler
	Store        session.Store
	ProbeManager *health.ProbeManager
	Logger       *log.Logger
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(deps Deps, cfg Config) *Server {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 120 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	if deps.Logger == nil {
		deps.Logger = log.DefaultLogger()
	}

	s := &Server{
		probeManager:    deps.ProbeManager,
		controller:      deps.Controller,
		assembler:       deps.Assembler,
		store:           deps.Store,
		logger:          deps.Logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/chat", s.handleChat)
	mux.HandleFunc("GET /api/v1/session/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/v1/session/{id}", s.handleDeleteSession)
	mux.HandleFunc("GET /api/v1/session/{id}/plan", s.handleGetPlan)

	mux.HandleFunc("GET /health/live", s.handleLiveness)
	mux.HandleFunc("GET /health/ready", s.handleReadiness)
	mux.HandleFunc("GET /health/startup", s.handleStartup)
	mux.HandleFunc("GET /healthz", s.handleReadiness)

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler exposes the route table, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the server. It blocks until the server stops, returning
// http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.probeManager.MarkInitialized()
	s.logger.Info("server listening", "address", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains connections gracefully. Readiness probes fail immediately
// so load balancers stop routing new requests while in-flight turns finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)
	s.probeManager.MarkShutdown()
	s.httpServer.SetKeepAlivesEnabled(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}

// IsShuttingDown returns whether the server is shutting down.
func (s *Server) IsShuttingDown() bool {
	return s.inShutdown.Load()
}

func (s *Server) writeProbeResponse(w http.ResponseWriter, result *health.ProbeResult, unhealthyStatus int) {
	w.Header().Set("Content-Type", "application/json")

	if result.Status == health.StatusUnhealthy {
		w.WriteHeader(unhealthyStatus)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode response: %v", err), http.StatusInternalServerError)
	}
}

// handleLiveness answers GET /health/live. It always returns 200; shutdown
// merely degrades the status so orchestrators do not restart a draining pod.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	result := s.probeManager.CheckLiveness(r.Context())
	s.writeProbeResponse(w, result, http.StatusOK)
}

// handleReadiness answers GET /health/ready with 503 when the server cannot
// take traffic (shutting down or a dependency is unhealthy).
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	result := s.probeManager.CheckReadiness(r.Context())
	s.writeProbeResponse(w, result, http.StatusServiceUnavailable)
}

// handleStartup answers GET /health/startup with 503 until initialization
// completes.
func (s *Server) handleStartup(w http.ResponseWriter, r *http.Request) {
	result := s.probeManager.CheckStartup(r.Context())
	s.writeProbeResponse(w, result, http.StatusServiceUnavailable)
}
