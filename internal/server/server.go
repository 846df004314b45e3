// Package server implements the cardsheet HTTP API.
//
// The API packs card images into sheets, stores the result as a layout job
// and serves derived views of it (cut guides, the print-shop report):
//
//	GET    /health
//	GET    /version
//	GET    /api/layouts
//	POST   /api/layouts
//	GET    /api/layouts/{id}
//	DELETE /api/layouts/{id}
//	GET    /api/layouts/{id}/guides
//	GET    /api/layouts/{id}/report
//
// Errors are written as {"code": ..., "message": ...}. Configuration faults
// map to 400, unknown layouts to 404 and image findings to 422.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cardsheet/pkg/cache"
	"github.com/matzehuels/cardsheet/pkg/pipeline"
	"github.com/matzehuels/cardsheet/pkg/storage"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second

	// maxBodyBytes bounds POST bodies. Image references are paths or URLs,
	// so layouts requests stay small even for large decks.
	maxBodyBytes = 4 << 20
)

// Config holds the server dependencies. Nil fields get defaults: the
// default logger, an in-memory store and no cache.
type Config struct {
	Addr   string
	Logger *log.Logger
	Store  storage.Store
	Cache  cache.Cache
}

// Server is the HTTP API.
type Server struct {
	addr   string
	logger *log.Logger
	store  storage.Store
	runner *pipeline.Runner
	router http.Handler
}

// New builds a server from cfg.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Store == nil {
		cfg.Store = storage.NewMemoryStore()
	}
	s := &Server{
		addr:   cfg.Addr,
		logger: cfg.Logger,
		store:  cfg.Store,
		runner: pipeline.NewRunner(cfg.Cache, pipeline.ReleaseKeyer(), cfg.Logger),
	}
	s.router = s.routes()
	return s
}

// Router returns the HTTP handler with all routes and middleware.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			s.logger.Error("write health response", "error", err)
		}
	})
	r.Get("/version", s.handleVersion)

	r.Route("/api/layouts", func(r chi.Router) {
		r.Get("/", s.handleListLayouts)
		r.Post("/", s.handleCreateLayout)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetLayout)
			r.Delete("/", s.handleDeleteLayout)
			r.Get("/guides", s.handleGuides)
			r.Get("/report", s.handleReport)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server started", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
