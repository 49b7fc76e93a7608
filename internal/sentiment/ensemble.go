package sentiment

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/finsent-io/finsent/internal/models"
)

// Aggregator averages the scores of an ordered set of models into one
// distribution. Models are invoked sequentially in configured order.
type Aggregator struct {
	specs []ModelSpec
}

func NewAggregator(specs ...ModelSpec) *Aggregator {
	return &Aggregator{specs: specs}
}

// ModelNames returns the configured model names in ensemble order.
func (a *Aggregator) ModelNames() []string {
	names := make([]string, len(a.specs))
	for i, spec := range a.specs {
		names[i] = spec.Name()
	}
	return names
}

// ValidateText rejects empty or whitespace-only input. Callers run this
// before any classifier work happens.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}

// EmptyTextScore is the deterministic neutral-biased default returned for
// empty input, regardless of how many models are configured.
func EmptyTextScore() models.SentimentScore {
	return models.SentimentScore{Positive: 0.33, Negative: 0.33, Neutral: 0.34, Confidence: 0.0}
}

// Aggregate scores text with every configured model and averages the results.
//
// A model that fails is skipped, but the divisor stays the configured model
// count: a dead model drags the average toward zero instead of leaving the
// pool. Partial failure therefore yields a distribution that does not sum to
// 1.0, and confidence reflects only the models that answered. If every model
// fails the result is all zeros with confidence zero, which callers must
// treat as "no usable signal" rather than an error.
func (a *Aggregator) Aggregate(ctx context.Context, text string) models.SentimentScore {
	if ValidateText(text) != nil {
		return EmptyTextScore()
	}

	var posSum, negSum, neuSum, maxProb float64
	for _, spec := range a.specs {
		score, err := spec.Score(ctx, text)
		if err != nil {
			var cerr *ClassifierError
			if errors.As(err, &cerr) {
				slog.Warn("[Ensemble] Model failed, skipping its contribution",
					slog.String("model", cerr.Model),
					slog.String("error", cerr.Err.Error()))
				continue
			}
			slog.Warn("[Ensemble] Model failed, skipping its contribution",
				slog.String("model", spec.Name()),
				slog.String("error", err.Error()))
			continue
		}

		posSum += score.Positive
		negSum += score.Negative
		neuSum += score.Neutral
		maxProb = math.Max(maxProb, math.Max(score.Positive, math.Max(score.Negative, score.Neutral)))
	}

	count := float64(len(a.specs))
	if count == 0 {
		return models.SentimentScore{}
	}

	return models.SentimentScore{
		Positive:   posSum / count,
		Negative:   negSum / count,
		Neutral:    neuSum / count,
		Confidence: maxProb,
	}
}
