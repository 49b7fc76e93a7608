package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/finsent-io/finsent/internal/sentiment"
)

type analyzeRequest struct {
	Text *string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// parseText enforces the inbound contract: the text field must be present and
// must not be empty or whitespace-only. On failure it writes the 400 response
// itself and reports ok=false.
func (s *Server) parseText(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing 'text' field"})
		return "", false
	}

	text := *req.Text
	if sentiment.ValidateText(text) != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Empty text"})
		return "", false
	}

	return text, true
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	text, ok := s.parseText(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if s.cache != nil {
		if score, hit := s.cache.Get(ctx, text); hit {
			writeJSON(w, http.StatusOK, score)
			return
		}
	}

	start := time.Now()
	score := s.agg.Aggregate(ctx, text)
	slog.Info("[Server] Analysis complete",
		slog.Float64("positive", score.Positive),
		slog.Float64("negative", score.Negative),
		slog.Float64("neutral", score.Neutral),
		slog.Duration("elapsed", time.Since(start)))

	if s.cache != nil {
		s.cache.Set(ctx, text, score)
	}

	writeJSON(w, http.StatusOK, score)
}

func (s *Server) handleAspects(w http.ResponseWriter, r *http.Request) {
	text, ok := s.parseText(w, r)
	if !ok {
		return
	}

	start := time.Now()
	report := s.dec.Decompose(r.Context(), text)
	slog.Info("[Server] Aspect analysis complete",
		slog.Int("aspects_found", report.AspectsFound),
		slog.Duration("elapsed", time.Since(start)))

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if s.healthy != nil && !s.healthy.Load() {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status": status,
		"models": s.agg.ModelNames(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("[Server] Failed to encode response",
			slog.String("error", err.Error()))
	}
}
