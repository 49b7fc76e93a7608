package models

import "github.com/google/uuid"

// AspectResult is the per-topic slice of an analysis: the sentiment of the
// sentences that mentioned the aspect, how many of them there were, and a
// short sample for display.
type AspectResult struct {
	Sentiment SentimentScore `json:"sentiment"`
	Mentions  int            `json:"mentions"`
	Sample    string         `json:"sample"`
}

// AnalysisReport is the full aspect-level breakdown of one document.
// Aspects with no matching sentences are absent from the map.
type AnalysisReport struct {
	Overall      SentimentScore          `json:"overall"`
	Aspects      map[string]AspectResult `json:"aspects"`
	AspectsFound int                     `json:"aspects_found"`
}

type AnalysisRequest struct {
	RequestID string `json:"request_id"`
	Text      string `json:"text"`
}

// EnsureID mints a request ID for envelopes that arrived without one, so
// results can always be keyed and their offsets tracked.
func (r *AnalysisRequest) EnsureID() {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
}

type AnalysisResult struct {
	AnalysisRequest
	Report AnalysisReport `json:"report"`
}
