// Package httpapi exposes a hobby.Store as a JSON HTTP API.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/etnz/hobby"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Config holds server configuration
type Config struct {
	Addr     string
	Store    *hobby.Store
	Log      zerolog.Logger
	Currency string // used by markdown responses
	DevMode  bool

	// MaxImportSize bounds an imported workbook in bytes, 32 MiB when zero.
	MaxImportSize int64

	// BackupSchedule is a cron spec, e.g. "@daily". Backups are disabled when empty.
	BackupSchedule string
	BackupDir      string
	BackupName     string
}

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	server    *http.Server
	log       zerolog.Logger
	store     *hobby.Store
	currency  string
	scheduler *Scheduler

	maxImportSize int64
}

// New creates a new HTTP server
func New(cfg Config) (*Server, error) {
	s := &Server{
		router:   chi.NewRouter(),
		log:      cfg.Log.With().Str("component", "server").Logger(),
		store:    cfg.Store,
		currency: cfg.Currency,

		maxImportSize: cfg.MaxImportSize,
	}
	if s.maxImportSize <= 0 {
		s.maxImportSize = maxDocumentSize
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if cfg.BackupSchedule != "" {
		s.scheduler = NewScheduler(cfg.Log)
		job := NewBackup(cfg.Store, cfg.BackupDir, cfg.BackupName)
		if err := s.scheduler.AddJob(cfg.BackupSchedule, job); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", s.handleListItems)
			r.Post("/", s.handleAddItem)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetItem)
				r.Patch("/", s.handleUpdateItem)
				r.Delete("/", s.handleDeleteItem)
				r.Post("/list", s.handleMoveToListed)
				r.Post("/hold", s.handleMoveToHeld)
				r.Post("/sell", s.handleSell)
				r.Post("/revert", s.handleRevert)
			})
		})

		r.Route("/fund", func(r chi.Router) {
			r.Get("/", s.handleFund)
			r.Post("/adjust", s.handleAdjust)
		})
		r.Get("/summary", s.handleSummary)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
	})
}

// Start starts the backups and the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	if s.scheduler != nil {
		s.scheduler.Start()
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
