package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/H0TB0X420/InterchangeDB/pkg/buffer"
	"github.com/H0TB0X420/InterchangeDB/pkg/metrics"
)

// Server is a small HTTP admin surface over a buffer pool: health
// checking, JSON statistics and Prometheus metrics. It performs no
// page operations itself.
type Server struct {
	config     *Config
	pool       *buffer.BufferPool
	exporter   *metrics.PrometheusExporter
	router     *chi.Mux
	httpServer *http.Server
}

// New creates an admin server over the given pool
func New(config *Config, pool *buffer.BufferPool) *Server {
	srv := &Server{
		config:   config,
		pool:     pool,
		exporter: metrics.NewPrometheusExporter(pool),
		router:   chi.NewRouter(),
	}

	srv.router.Use(middleware.Recoverer)
	if config.EnableLogging {
		srv.router.Use(middleware.Logger)
	}
	srv.setupRoutes()

	srv.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      srv.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return srv
}

// Router returns the HTTP handler (useful for tests)
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server; blocks until the listener fails or Shutdown
// is called
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// setupRoutes configures HTTP routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/stats", s.handleStats)
	s.router.Get("/metrics", s.handleMetrics)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap := s.pool.Stats().Snapshot()

	stats := map[string]interface{}{
		"buffer_pool": map[string]interface{}{
			"pool_size":      s.pool.PoolSize(),
			"resident_pages": s.pool.PageCount(),
			"free_frames":    s.pool.FreeFrameCount(),
			"cache_hits":     snap.CacheHits,
			"cache_misses":   snap.CacheMisses,
			"evictions":      snap.Evictions,
			"pages_read":     snap.PagesRead,
			"pages_written":  snap.PagesWritten,
			"hit_rate":       snap.HitRate(),
		},
		"disk": s.pool.DiskManager().Stats(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	if err := s.exporter.WriteMetrics(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
