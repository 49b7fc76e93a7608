package classifiers

import (
	"context"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/finsent-io/finsent/internal/sentiment"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	rawURLPattern       = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// VADER scores text with the govader lexicon analyzer. Its positive, negative
// and neutral proportions already sum to 1, so they serve directly as the
// probability vector.
type VADER struct {
	analyzer *govader.SentimentIntensityAnalyzer
	labels   []string
}

func NewVADER() *VADER {
	return &VADER{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
		labels:   []string{sentiment.LabelPositive, sentiment.LabelNegative, sentiment.LabelNeutral},
	}
}

func (v *VADER) Labels() []string { return v.labels }

func (v *VADER) Infer(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores := v.analyzer.PolarityScores(MarkdownToText(text))
	return []float64{scores.Positive, scores.Negative, scores.Neutral}, nil
}

// RemoveLinks strips markdown links down to their text and drops bare URLs.
// Lexicon scoring chokes on URL tokens.
func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1")
	return rawURLPattern.ReplaceAllString(input, "")
}

// MarkdownToText renders markdown and collapses the result to a single line
// of plain text.
func MarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := strings.Join(strings.Fields(string(output)), " ")

	return RemoveLinks(plainText)
}
