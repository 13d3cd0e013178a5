// Package web provides the HTTP API over the parsing and table packages.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/S-e-t/SimpleExtensions/internal/config"
	"github.com/S-e-t/SimpleExtensions/internal/importer"
	mw "github.com/S-e-t/SimpleExtensions/internal/web/middleware"
	"github.com/S-e-t/SimpleExtensions/table"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DB is the database the copy endpoint writes to. *pgxpool.Pool satisfies it.
type DB interface {
	table.CopyFromer
	Ping(ctx context.Context) error
}

// Server is the HTTP server for the table service.
type Server struct {
	cfg     *config.Config
	db      DB
	imports *importer.Limiter
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a Server. db may be nil, which disables the copy
// endpoint. cfg must have passed Validate.
func NewServer(cfg *config.Config, db DB) *Server {
	s := &Server{
		cfg:     cfg,
		db:      db,
		imports: importer.NewLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWait),
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	// Validate has already rejected malformed prefixes.
	trusted, _ := s.cfg.Server.TrustedProxyPrefixes()

	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(trusted))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5, "application/json", "text/csv"))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/parse/{kind}", s.handleParse)

		r.Post("/tables/convert", s.handleConvert)
		r.With(mw.APIKeyAuth(s.cfg.Server.APIKeyList())).
			Post("/tables/{name}/copy", s.handleCopy)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr, "database", s.db != nil)
	return s.server.ListenAndServe()
}

// Shutdown waits for running imports, then gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if st := s.imports.Status(); st.Active > 0 {
		slog.Info("waiting for imports to complete", "active", st.Active)
		if err := s.imports.WaitForDrain(ctx); err != nil {
			slog.Warn("imports did not complete in time", "error", err)
		}
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Encoding errors are only logged since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "path", r.URL.Path, "error", err)
	}
}
