package models

// SentimentScore is the canonical three-class distribution produced by a
// single model or by the ensemble. Confidence is the highest single-class
// probability observed while computing the score; it travels with the
// distribution but is not part of it.
type SentimentScore struct {
	Positive   float64 `json:"positive"`
	Negative   float64 `json:"negative"`
	Neutral    float64 `json:"neutral"`
	Confidence float64 `json:"confidence"`
}
