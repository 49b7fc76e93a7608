package sentiment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	labels []string
	infer  func(ctx context.Context, text string) ([]float64, error)
}

func (s *stubClassifier) Labels() []string { return s.labels }

func (s *stubClassifier) Infer(ctx context.Context, text string) ([]float64, error) {
	return s.infer(ctx, text)
}

func canonicalLabels() []string {
	return []string{LabelPositive, LabelNegative, LabelNeutral}
}

func fixedClassifier(probs []float64) *stubClassifier {
	return &stubClassifier{
		labels: canonicalLabels(),
		infer: func(context.Context, string) ([]float64, error) {
			return probs, nil
		},
	}
}

func TestNewModelSpec_RejectsUnknownLabels(t *testing.T) {
	classifier := &stubClassifier{labels: []string{"bullish", "bearish", "neutral"}}

	_, err := NewModelSpec("bad-labels", classifier, time.Second)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bullish")
}

func TestNewModelSpec_RejectsDuplicateLabels(t *testing.T) {
	classifier := &stubClassifier{labels: []string{"positive", "positive", "neutral"}}

	_, err := NewModelSpec("dupe-labels", classifier, time.Second)

	require.Error(t, err)
}

func TestNewModelSpec_RejectsWrongLabelCount(t *testing.T) {
	classifier := &stubClassifier{labels: []string{"positive", "negative"}}

	_, err := NewModelSpec("two-labels", classifier, time.Second)

	require.Error(t, err)
}

func TestScore_RemapsDeclaredLabelOrder(t *testing.T) {
	classifier := &stubClassifier{
		labels: []string{LabelNegative, LabelNeutral, LabelPositive},
		infer: func(context.Context, string) ([]float64, error) {
			return []float64{0.2, 0.3, 0.5}, nil
		},
	}
	spec, err := NewModelSpec("scrambled", classifier, time.Second)
	require.NoError(t, err)

	score, err := spec.Score(context.Background(), "shares rallied")

	require.NoError(t, err)
	assert.InDelta(t, 0.5, score.Positive, 1e-9)
	assert.InDelta(t, 0.2, score.Negative, 1e-9)
	assert.InDelta(t, 0.3, score.Neutral, 1e-9)
}

func TestScore_TruncatesInputToCap(t *testing.T) {
	var received string
	classifier := &stubClassifier{
		labels: canonicalLabels(),
		infer: func(_ context.Context, text string) ([]float64, error) {
			received = text
			return []float64{0.1, 0.1, 0.8}, nil
		},
	}
	spec, err := NewModelSpec("capped", classifier, time.Second)
	require.NoError(t, err)

	long := strings.Repeat("a", MaxInputChars+100)
	_, err = spec.Score(context.Background(), long)

	require.NoError(t, err)
	assert.Len(t, received, MaxInputChars)
	assert.Equal(t, long[:MaxInputChars], received)
}

func TestScore_TruncatesMultibyteInputOnRuneBoundary(t *testing.T) {
	var received string
	classifier := &stubClassifier{
		labels: canonicalLabels(),
		infer: func(_ context.Context, text string) ([]float64, error) {
			received = text
			return []float64{0.1, 0.1, 0.8}, nil
		},
	}
	spec, err := NewModelSpec("capped", classifier, time.Second)
	require.NoError(t, err)

	long := strings.Repeat("€", MaxInputChars+10)
	_, err = spec.Score(context.Background(), long)

	require.NoError(t, err)
	assert.True(t, utf8.ValidString(received))
	assert.Equal(t, MaxInputChars, utf8.RuneCountInString(received))
	assert.Equal(t, strings.Repeat("€", MaxInputChars), received)
}

func TestScore_WrapsInferenceFailure(t *testing.T) {
	classifier := &stubClassifier{
		labels: canonicalLabels(),
		infer: func(context.Context, string) ([]float64, error) {
			return nil, errors.New("onnx session gone")
		},
	}
	spec, err := NewModelSpec("broken", classifier, time.Second)
	require.NoError(t, err)

	_, err = spec.Score(context.Background(), "some text")

	var cerr *ClassifierError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "broken", cerr.Model)
}

func TestScore_RejectsShortVector(t *testing.T) {
	spec, err := NewModelSpec("short", fixedClassifier([]float64{0.5, 0.5}), time.Second)
	require.NoError(t, err)

	_, err = spec.Score(context.Background(), "some text")

	var cerr *ClassifierError
	require.ErrorAs(t, err, &cerr)
}

func TestScore_AppliesTimeoutToContext(t *testing.T) {
	classifier := &stubClassifier{
		labels: canonicalLabels(),
		infer: func(ctx context.Context, _ string) ([]float64, error) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 40*time.Millisecond)
			return []float64{0.1, 0.1, 0.8}, nil
		},
	}
	spec, err := NewModelSpec("timed", classifier, 50*time.Millisecond)
	require.NoError(t, err)

	_, err = spec.Score(context.Background(), "some text")
	require.NoError(t, err)
}
