package classifiers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/finsent-io/finsent/config"
	"github.com/finsent-io/finsent/internal/sentiment"
)

// BuildEnsemble constructs the configured models in the order they are
// listed and wraps them into an Aggregator. The result is immutable and
// shared by every request for the life of the process.
func BuildEnsemble(cfg config.Settings) (*sentiment.Aggregator, error) {
	var specs []sentiment.ModelSpec

	for _, name := range cfg.Models {
		classifier, err := buildClassifier(name, cfg)
		if err != nil {
			return nil, fmt.Errorf("building model %q: %w", name, err)
		}

		spec, err := sentiment.NewModelSpec(name, classifier, cfg.ClassifierTimeout)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)

		slog.Info("[Registry] Model registered",
			slog.String("model", name),
			slog.Duration("timeout", cfg.ClassifierTimeout))
	}

	if len(specs) == 0 {
		return nil, errors.New("no sentiment models configured")
	}

	return sentiment.NewAggregator(specs...), nil
}

func buildClassifier(name string, cfg config.Settings) (sentiment.Classifier, error) {
	switch name {
	case "finbert":
		return NewFinBERT(cfg.ModelDir)
	case "vader":
		return NewVADER(), nil
	case "openai":
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case "remote":
		if cfg.RemoteAnalyzerURL == "" {
			return nil, errors.New("REMOTE_ANALYZER_URL is not set")
		}
		return NewRemoteAnalyzer(cfg.RemoteAnalyzerURL, nil), nil
	default:
		return nil, fmt.Errorf("unknown model %q", name)
	}
}
