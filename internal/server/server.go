// Package server exposes the scenario, settlement, and ledger engines over
// a JSON HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/investor-cli/internal/advisor"
	"github.com/sells-group/investor-cli/internal/cache"
	"github.com/sells-group/investor-cli/internal/config"
	"github.com/sells-group/investor-cli/internal/ledger"
	"github.com/sells-group/investor-cli/internal/store"
	"github.com/sells-group/investor-cli/internal/tenant"
)

// Server wires the engines and storage behind HTTP handlers.
type Server struct {
	st       store.Store
	tenants  *tenant.Provider
	cache    cache.Cache
	cacheTTL time.Duration
	advisor  *advisor.Advisor
	ledger   *ledger.Service
	cfg      config.ServerConfig
}

// Options carries the dependencies a Server needs. Cache and Advisor are
// optional; a nil cache never hits and a nil advisor skips narration.
type Options struct {
	Store    store.Store
	Tenants  *tenant.Provider
	Cache    cache.Cache
	CacheTTL time.Duration
	Advisor  *advisor.Advisor
	Config   config.ServerConfig
}

// New builds a Server from its dependencies.
func New(opts Options) *Server {
	return &Server{
		st:       opts.Store,
		tenants:  opts.Tenants,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		advisor:  opts.Advisor,
		ledger:   ledger.NewService(opts.Store),
		cfg:      opts.Config,
	}
}

// Router builds the chi router with middleware and all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(rateLimiter(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/scenarios/compute", s.handleComputeScenario)
		r.Post("/scenarios", s.handleSaveScenario)
		r.Get("/scenarios", s.handleListScenarios)
		r.Get("/scenarios/{id}", s.handleGetScenario)
		r.Delete("/scenarios/{id}", s.handleDeleteScenario)

		r.Post("/settlements/compute", s.handleComputeSettlement)

		r.Post("/ledger/entries", s.handleAddEntry)
		r.Get("/ledger/entries", s.handleListEntries)
		r.Delete("/ledger/entries/{id}", s.handleDeleteEntry)
		r.Get("/ledger/summary", s.handleLedgerSummary)

		r.Get("/tenants", s.handleListTenants)
		r.Get("/tenants/{slug}", s.handleGetTenant)
	})

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", s.cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}
