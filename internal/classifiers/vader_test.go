package classifiers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsent-io/finsent/internal/sentiment"
)

func TestRemoveLinks(t *testing.T) {
	input := "See [the filing](https://example.com/10k) and https://example.com/raw for details"

	output := RemoveLinks(input)

	assert.Contains(t, output, "the filing")
	assert.NotContains(t, output, "https://")
	assert.NotContains(t, output, "example.com")
}

func TestMarkdownToText_CollapsesWhitespace(t *testing.T) {
	input := "Revenue **doubled**\n\nand margins   held"

	output := MarkdownToText(input)

	assert.Contains(t, output, "doubled")
	assert.NotContains(t, output, "\n")
}

func TestVADER_LabelsAreCanonical(t *testing.T) {
	v := NewVADER()

	assert.Equal(t, []string{
		sentiment.LabelPositive,
		sentiment.LabelNegative,
		sentiment.LabelNeutral,
	}, v.Labels())
}

func TestVADER_DistributionSumsToOne(t *testing.T) {
	v := NewVADER()

	probs, err := v.Infer(context.Background(), "Revenue grew and profits soared past expectations")

	require.NoError(t, err)
	require.Len(t, probs, 3)
	assert.InDelta(t, 1.0, probs[0]+probs[1]+probs[2], 1e-6)
}

func TestVADER_PositiveTextLeansPositive(t *testing.T) {
	v := NewVADER()

	probs, err := v.Infer(context.Background(), "Fantastic quarter with record profits and great growth")

	require.NoError(t, err)
	assert.Greater(t, probs[0], probs[1])
}

func TestVADER_RespectsCancelledContext(t *testing.T) {
	v := NewVADER()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Infer(ctx, "anything")

	assert.ErrorIs(t, err, context.Canceled)
}
