package classifiers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelineBackends"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/finsent-io/finsent/internal/sentiment"
)

const (
	finbertModelID  = "ProsusAI/finbert"
	finbertModelDir = "ProsusAI_finbert"
)

// FinBERT runs the ProsusAI/finbert ONNX model in-process through hugot.
// The model outputs its classes as positive, negative, neutral.
type FinBERT struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	labels   []string
}

// NewFinBERT loads the FinBERT model from modelDir, downloading it on first
// use. The returned classifier is safe for concurrent use; the underlying
// session is read-only after construction.
func NewFinBERT(modelDir string) (*FinBERT, error) {
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("creating model directory: %w", err)
	}

	modelPath := filepath.Join(modelDir, finbertModelDir)
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		slog.Info("[FinBERT] Model not found, downloading...",
			slog.String("model", finbertModelID))
		downloaded, err := hugot.DownloadModel(finbertModelID, modelDir, hugot.NewDownloadOptions())
		if err != nil {
			return nil, fmt.Errorf("downloading finbert model: %w", err)
		}
		modelPath = downloaded
		slog.Info("[FinBERT] Model downloaded successfully", slog.String("path", modelPath))
	} else {
		slog.Info("[FinBERT] Using existing model", slog.String("path", modelPath))
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("initializing hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "finbertSentimentPipeline",
		Options: []pipelineBackends.PipelineOption[*pipelines.TextClassificationPipeline]{
			pipelines.WithMultiLabel(),
			pipelines.WithSoftmax(),
		},
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("initializing finbert pipeline: %w", err)
	}

	return &FinBERT{
		session:  session,
		pipeline: pipeline,
		labels:   []string{sentiment.LabelPositive, sentiment.LabelNegative, sentiment.LabelNeutral},
	}, nil
}

func (f *FinBERT) Labels() []string { return f.labels }

func (f *FinBERT) Infer(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	output, err := f.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, err
	}
	if len(output.ClassificationOutputs) == 0 || len(output.ClassificationOutputs[0]) == 0 {
		return nil, errors.New("empty pipeline output")
	}

	// The pipeline reports one scored entry per class; line them up with the
	// declared label order by name.
	probs := make([]float64, len(f.labels))
	for i, label := range f.labels {
		found := false
		for _, pred := range output.ClassificationOutputs[0] {
			if strings.EqualFold(pred.Label, label) {
				probs[i] = float64(pred.Score)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("pipeline output missing class %q", label)
		}
	}

	return probs, nil
}

func (f *FinBERT) Close() {
	f.session.Destroy()
}
