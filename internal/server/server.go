package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"matchdeck/internal/config"
	"matchdeck/internal/listcache"
	"matchdeck/internal/logging"
	"matchdeck/internal/metrics"
	"matchdeck/internal/store"
)

// statsNamespace keys the cached dashboard aggregates. Mutations invalidate
// the whole namespace so stale counts never outlive a transition.
const statsNamespace = "stats"

// Server serves the REST API backed by the store.
type Server struct {
	bind      string
	token     string
	logger    *slog.Logger
	store     *store.Store
	collector *metrics.Collector
	startedAt time.Time
	handler   http.Handler

	// statsCache serves dashboard aggregates within the configured
	// staleness window instead of re-aggregating per request.
	statsCache *listcache.Cache[any]

	listener net.Listener
	server   *http.Server
}

// New builds the API server. The collector may be nil.
func New(cfg *config.Config, st *store.Store, collector *metrics.Collector, logger *slog.Logger) *Server {
	srv := &Server{
		bind:      strings.TrimSpace(cfg.Paths.APIBind),
		token:     cfg.Paths.APIToken,
		logger:    logger,
		store:     st,
		collector: collector,
		startedAt: time.Now(),
	}
	statsTTL := time.Duration(cfg.Review.StatsStalenessSeconds) * time.Second
	srv.statsCache = listcache.New[any](statsTTL)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/matches", authMiddleware(srv.token, srv.handleMatches))
	mux.HandleFunc("/api/matches/", authMiddleware(srv.token, srv.handleMatchItem))
	mux.HandleFunc("/api/entries", authMiddleware(srv.token, srv.handleEntries))
	mux.HandleFunc("/api/entries/", authMiddleware(srv.token, srv.handleEntryItem))
	mux.HandleFunc("/api/stats/summary", authMiddleware(srv.token, srv.handleStatsSummary))
	mux.HandleFunc("/api/stats/score-distribution", authMiddleware(srv.token, srv.handleScoreDistribution))
	mux.HandleFunc("/api/stats/not-uploaded-categories", authMiddleware(srv.token, srv.handleNotUploadedCategories))
	mux.HandleFunc("/api/export/", authMiddleware(srv.token, srv.handleExport))
	mux.HandleFunc("/api/health", srv.handleHealth)
	srv.handler = mux

	readTimeout := time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second
	if readTimeout <= 0 {
		readTimeout = 15 * time.Second
	}
	writeTimeout := time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler returns the route table for in-process testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the bound listen address, or the configured bind before
// Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.bind
}

// Start binds the listener and serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *Server) record(op string, started time.Time) {
	s.collector.Record(op, time.Since(started))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
