// Package server exposes the scoring engine, portfolio analyzer, and
// report builder over an HTTP API for the dashboard.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/hangry-labs/siteselect/internal/artifact"
	"github.com/hangry-labs/siteselect/internal/config"
	"github.com/hangry-labs/siteselect/internal/portfolio"
	"github.com/hangry-labs/siteselect/internal/report"
	"github.com/hangry-labs/siteselect/internal/scoring"
	"github.com/hangry-labs/siteselect/internal/store"
)

// Server holds the wired application services behind the HTTP API.
type Server struct {
	engine   *scoring.Engine
	analyzer *portfolio.Analyzer
	builder  *report.Builder
	store    store.Store
	bundle   *artifact.Bundle
	limiter  *rate.Limiter
	cfg      config.ServerConfig
}

// New creates a Server. st may be a NoopStore; run history is best-effort
// and never fails a request.
func New(engine *scoring.Engine, analyzer *portfolio.Analyzer, builder *report.Builder,
	st store.Store, bundle *artifact.Bundle, cfg config.ServerConfig) *Server {
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 10
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 20
	}
	return &Server{
		engine:   engine,
		analyzer: analyzer,
		builder:  builder,
		store:    st,
		bundle:   bundle,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		cfg:      cfg,
	}
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins(),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(requestLogger)
	r.Use(s.rateLimit)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(api chi.Router) {
		api.Post("/locations/score", s.handleScore)
		api.Post("/locations/compare", s.handleCompare)
		api.Get("/portfolio", s.handlePortfolio)
		api.Get("/districts/optimal", s.handleOptimalDistricts)
		api.Post("/reports/expansion", s.handleExpansion)
		api.Get("/landmarks.geojson", s.handleLandmarksGeoJSON)
		api.Get("/branches.geojson", s.handleBranchesGeoJSON)
		api.Get("/runs", s.handleListRuns)
		api.Get("/runs/{runID}", s.handleGetRun)
	})

	return r
}

func (s *Server) corsOrigins() []string {
	if len(s.cfg.CORSOrigins) == 0 {
		return []string{"*"}
	}
	return s.cfg.CORSOrigins
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":        "ok",
		"model_version": s.bundle.ModelVersion,
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
