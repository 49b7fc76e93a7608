package sentiment

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoModelDecomposer(t *testing.T) *Decomposer {
	t.Helper()
	agg := NewAggregator(
		mustSpec(t, "model-a", fixedClassifier([]float64{0.8, 0.1, 0.1})),
		mustSpec(t, "model-b", fixedClassifier([]float64{0.6, 0.2, 0.2})),
	)
	return NewDecomposer(agg, DefaultTaxonomy())
}

func TestDecompose_EndToEnd(t *testing.T) {
	dec := twoModelDecomposer(t)
	text := "Revenue grew 20% this quarter. The CEO resigned amid controversy."

	report := dec.Decompose(context.Background(), text)

	assert.InDelta(t, 0.70, report.Overall.Positive, 1e-6)
	assert.InDelta(t, 0.15, report.Overall.Negative, 1e-6)
	assert.InDelta(t, 0.15, report.Overall.Neutral, 1e-6)
	assert.InDelta(t, 0.8, report.Overall.Confidence, 1e-6)

	require.Len(t, report.Aspects, 2)
	assert.Equal(t, 2, report.AspectsFound)

	earnings, ok := report.Aspects["earnings"]
	require.True(t, ok)
	assert.Equal(t, 1, earnings.Mentions)
	assert.Equal(t, "Revenue grew 20% this quarter", earnings.Sample)
	assert.InDelta(t, 0.70, earnings.Sentiment.Positive, 1e-6)

	leadership, ok := report.Aspects["leadership"]
	require.True(t, ok)
	assert.Equal(t, 1, leadership.Mentions)
	assert.Equal(t, "The CEO resigned amid controversy", leadership.Sample)
}

func TestDecompose_CaseInsensitiveMatching(t *testing.T) {
	dec := twoModelDecomposer(t)

	report := dec.Decompose(context.Background(), "The CEO stepped down. A new ceo was appointed.")

	leadership, ok := report.Aspects["leadership"]
	require.True(t, ok)
	assert.Equal(t, 2, leadership.Mentions)
}

func TestDecompose_OmitsUnmatchedAspects(t *testing.T) {
	dec := twoModelDecomposer(t)

	report := dec.Decompose(context.Background(), "The weather was pleasant. Birds sang all morning.")

	assert.Empty(t, report.Aspects)
	assert.Equal(t, 0, report.AspectsFound)
}

func TestDecompose_SampleTruncation(t *testing.T) {
	dec := twoModelDecomposer(t)

	long := "revenue " + strings.Repeat("a", 142) // 150 chars, no period
	report := dec.Decompose(context.Background(), long)

	earnings, ok := report.Aspects["earnings"]
	require.True(t, ok)
	assert.Equal(t, long[:100]+"...", earnings.Sample)
	assert.Len(t, earnings.Sample, 103)

	short := "revenue " + strings.Repeat("b", 42) // 50 chars
	report = dec.Decompose(context.Background(), short)

	earnings, ok = report.Aspects["earnings"]
	require.True(t, ok)
	assert.Equal(t, short, earnings.Sample)
}

func TestDecompose_MultibyteSampleKeepsValidUTF8(t *testing.T) {
	dec := twoModelDecomposer(t)

	long := "revenue " + strings.Repeat("é", 142) // 150 runes, no period
	report := dec.Decompose(context.Background(), long)

	earnings, ok := report.Aspects["earnings"]
	require.True(t, ok)
	assert.True(t, utf8.ValidString(earnings.Sample))
	assert.Equal(t, string([]rune(long)[:100])+"...", earnings.Sample)
	assert.Equal(t, 103, utf8.RuneCountInString(earnings.Sample))
}

func TestDecompose_ClassifierInputCappedAt512(t *testing.T) {
	var received []string
	classifier := &stubClassifier{
		labels: canonicalLabels(),
		infer: func(_ context.Context, text string) ([]float64, error) {
			received = append(received, text)
			return []float64{0.1, 0.1, 0.8}, nil
		},
	}
	agg := NewAggregator(mustSpec(t, "recorder", classifier))
	dec := NewDecomposer(agg, DefaultTaxonomy())

	long := strings.Repeat("z", 600) // matches no aspect, only the overall pass runs
	dec.Decompose(context.Background(), long)

	require.Len(t, received, 1)
	assert.Equal(t, long[:512], received[0])
}

func TestDecompose_JoinsAspectSentences(t *testing.T) {
	var received []string
	classifier := &stubClassifier{
		labels: canonicalLabels(),
		infer: func(_ context.Context, text string) ([]float64, error) {
			received = append(received, text)
			return []float64{0.5, 0.2, 0.3}, nil
		},
	}
	agg := NewAggregator(mustSpec(t, "recorder", classifier))
	dec := NewDecomposer(agg, DefaultTaxonomy())

	report := dec.Decompose(context.Background(), "Revenue rose. Costs fell. Profit doubled.")

	earnings := report.Aspects["earnings"]
	assert.Equal(t, 2, earnings.Mentions)
	assert.Contains(t, received, "Revenue rose. Profit doubled")
}

func TestSplitSentences_ToleratesAbbreviations(t *testing.T) {
	sentences := splitSentences("Dr. Smith resigned as CEO. Shares fell.")

	// Period-only splitting fragments "Dr." on purpose.
	assert.Equal(t, []string{"Dr", "Smith resigned as CEO", "Shares fell"}, sentences)
}

func TestSplitSentences_DropsEmptyFragments(t *testing.T) {
	sentences := splitSentences("One... Two. ")

	assert.Equal(t, []string{"One", "Two"}, sentences)
}
