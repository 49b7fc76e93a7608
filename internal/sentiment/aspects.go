package sentiment

import (
	"context"
	"strings"

	"github.com/finsent-io/finsent/internal/models"
)

const sampleMaxChars = 100

// Decomposer partitions a document into aspect-specific sub-analyses and
// scores each partition, plus the document as a whole, with the ensemble.
type Decomposer struct {
	agg      *Aggregator
	taxonomy Taxonomy
}

func NewDecomposer(agg *Aggregator, taxonomy Taxonomy) *Decomposer {
	return &Decomposer{agg: agg, taxonomy: taxonomy}
}

// Decompose matches each sentence against the taxonomy, scores the matching
// sentences of every mentioned aspect, and scores the full text
// independently. Aspects with no matching sentences are omitted entirely.
func (d *Decomposer) Decompose(ctx context.Context, text string) models.AnalysisReport {
	sentences := splitSentences(text)

	aspects := make(map[string]models.AspectResult)
	for _, aspect := range d.taxonomy {
		matched := matchSentences(sentences, aspect.Keywords)
		if len(matched) == 0 {
			continue
		}

		joined := truncate(strings.Join(matched, ". "), MaxInputChars)
		aspects[aspect.Name] = models.AspectResult{
			Sentiment: d.agg.Aggregate(ctx, joined),
			Mentions:  len(matched),
			Sample:    sampleSentence(matched[0]),
		}
	}

	return models.AnalysisReport{
		Overall:      d.agg.Aggregate(ctx, truncate(text, MaxInputChars)),
		Aspects:      aspects,
		AspectsFound: len(aspects),
	}
}

// splitSentences breaks text on periods. Approximate segmentation is the
// contract here: fragments from abbreviations like "Dr. Smith" are tolerated,
// not corrected.
func splitSentences(text string) []string {
	parts := strings.Split(text, ".")
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		if sentence := strings.TrimSpace(part); sentence != "" {
			sentences = append(sentences, sentence)
		}
	}
	return sentences
}

func matchSentences(sentences, keywords []string) []string {
	var matched []string
	for _, sentence := range sentences {
		lowered := strings.ToLower(sentence)
		for _, keyword := range keywords {
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				matched = append(matched, sentence)
				break
			}
		}
	}
	return matched
}

func sampleSentence(sentence string) string {
	if len(sentence) <= sampleMaxChars {
		return sentence
	}
	runes := []rune(sentence)
	if len(runes) <= sampleMaxChars {
		return sentence
	}
	return string(runes[:sampleMaxChars]) + "..."
}
