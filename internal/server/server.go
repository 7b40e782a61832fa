// Package server exposes the research workflow as a small web UI with a
// streaming progress endpoint.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/dusk-indust/agentflow/internal/archive"
	"github.com/dusk-indust/agentflow/internal/logging"
	"github.com/dusk-indust/agentflow/internal/metrics"
	"github.com/dusk-indust/agentflow/internal/workflow"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server serves the web UI for one research workflow.
type Server struct {
	research *workflow.ResearchWorkflow
	store    archive.Store
	metrics  *metrics.Metrics
	pages    map[string]*template.Template
	log      *slog.Logger
	http     *http.Server
	now      func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithStore archives completed runs in store. Without it runs are kept in a
// MemStore for the life of the process.
func WithStore(store archive.Store) Option {
	return func(s *Server) { s.store = store }
}

// WithMetrics exposes m on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New creates a Server around a process-scoped research workflow.
func New(research *workflow.ResearchWorkflow, opts ...Option) (*Server, error) {
	s := &Server{
		research: research,
		log:      logging.New("server"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = archive.NewMemStore()
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}

	s.pages = make(map[string]*template.Template)
	for _, page := range []string{"index", "result"} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("server: parse %s template: %w", page, err)
		}
		s.pages[page] = t
	}
	return s, nil
}

// Handler returns the HTTP handler with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /research", s.handleResearch)
	mux.HandleFunc("GET /research/stream", s.handleStream)
	mux.HandleFunc("GET /runs", s.handleListRuns)
	mux.HandleFunc("GET /runs/{id}", s.handleRun)
	mux.HandleFunc("GET /runs/{id}/report", s.handleReport)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}
