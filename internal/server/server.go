// Package server exposes the sentiment core over HTTP: a plain ensemble
// endpoint, an aspect-decomposition endpoint, and a health probe.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/finsent-io/finsent/internal/models"
)

// aggregator scores text with the full ensemble.
type aggregator interface {
	Aggregate(ctx context.Context, text string) models.SentimentScore
	ModelNames() []string
}

// decomposer produces the per-aspect breakdown of a document.
type decomposer interface {
	Decompose(ctx context.Context, text string) models.AnalysisReport
}

// ScoreCache is an optional read-through cache for ensemble scores.
type ScoreCache interface {
	Get(ctx context.Context, text string) (models.SentimentScore, bool)
	Set(ctx context.Context, text string, score models.SentimentScore)
}

type Server struct {
	agg     aggregator
	dec     decomposer
	cache   ScoreCache
	healthy *atomic.Bool
}

func New(agg aggregator, dec decomposer, cache ScoreCache, healthy *atomic.Bool) *Server {
	return &Server{
		agg:     agg,
		dec:     dec,
		cache:   cache,
		healthy: healthy,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/analyze/aspects", s.handleAspects)

	return r
}

// recoverer converts an unexpected panic into an opaque 500. Nothing about
// the fault leaks to the caller.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("[Server] Recovered from panic",
					slog.Any("panic", rec),
					slog.String("path", r.URL.Path))
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
