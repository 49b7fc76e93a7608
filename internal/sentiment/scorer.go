package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finsent-io/finsent/internal/models"
)

// MaxInputChars is the hard input cap shared by every entry point. Classifier
// backends additionally enforce their own token limits with truncation.
const MaxInputChars = 512

const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// Classifier is the external capability a ModelSpec wraps: given a text,
// return one probability per label in the order reported by Labels.
type Classifier interface {
	Infer(ctx context.Context, text string) ([]float64, error)
	Labels() []string
}

// ModelSpec pairs a classifier with its verified label order. Built once at
// process start and shared read-only by all requests.
type ModelSpec struct {
	name       string
	classifier Classifier
	labels     [3]string
	timeout    time.Duration
}

// NewModelSpec verifies at construction that the classifier reports exactly
// the three canonical labels. A classifier whose label metadata does not line
// up is a configuration error, not something to average around.
func NewModelSpec(name string, classifier Classifier, timeout time.Duration) (ModelSpec, error) {
	declared := classifier.Labels()
	if len(declared) != 3 {
		return ModelSpec{}, fmt.Errorf("model %q: expected 3 labels, got %d", name, len(declared))
	}

	seen := make(map[string]bool, 3)
	for _, label := range declared {
		switch label {
		case LabelPositive, LabelNegative, LabelNeutral:
			if seen[label] {
				return ModelSpec{}, fmt.Errorf("model %q: duplicate label %q", name, label)
			}
			seen[label] = true
		default:
			return ModelSpec{}, fmt.Errorf("model %q: unknown label %q", name, label)
		}
	}

	spec := ModelSpec{name: name, classifier: classifier, timeout: timeout}
	copy(spec.labels[:], declared)
	return spec, nil
}

func (m ModelSpec) Name() string { return m.name }

// Score runs one classifier call and remaps its raw vector into the canonical
// label space. Input is capped at MaxInputChars and the call is bounded by
// the spec's timeout; a timeout surfaces as a ClassifierError like any other
// inference failure.
func (m ModelSpec) Score(ctx context.Context, text string) (models.SentimentScore, error) {
	text = truncate(text, MaxInputChars)

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	probs, err := m.classifier.Infer(ctx, text)
	if err != nil {
		return models.SentimentScore{}, &ClassifierError{Model: m.name, Err: err}
	}
	if len(probs) != len(m.labels) {
		return models.SentimentScore{}, &ClassifierError{
			Model: m.name,
			Err:   fmt.Errorf("expected %d class probabilities, got %d", len(m.labels), len(probs)),
		}
	}

	var score models.SentimentScore
	for i, label := range m.labels {
		switch label {
		case LabelPositive:
			score.Positive = probs[i]
		case LabelNegative:
			score.Negative = probs[i]
		case LabelNeutral:
			score.Neutral = probs[i]
		}
	}

	slog.Debug("[Scorer] Model probabilities",
		slog.String("model", m.name),
		slog.Float64("positive", score.Positive),
		slog.Float64("negative", score.Negative),
		slog.Float64("neutral", score.Neutral))

	return score, nil
}

// truncate caps s at max characters (runes, not bytes), so multibyte input
// is never cut mid-rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
