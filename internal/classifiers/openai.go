package classifiers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/finsent-io/finsent/internal/sentiment"
)

const openAIRequestTimeout = 60 * time.Second

const sentimentPrompt = `You are a financial sentiment classifier. ` +
	`Given a piece of financial text, respond with a JSON object of the form ` +
	`{"positive": <p>, "negative": <n>, "neutral": <u>} where the three values ` +
	`are probabilities that sum to 1. Respond with the JSON object only.`

// OpenAI classifies text with a JSON-mode chat completion. It is the slowest
// and most expensive ensemble member and is off unless configured.
type OpenAI struct {
	client *openai.Client
	model  string
	labels []string
}

func NewOpenAI(apiKey, model string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("missing OpenAI API key")
	}

	config := openai.DefaultConfig(apiKey)
	config.HTTPClient = &http.Client{Timeout: openAIRequestTimeout}

	return &OpenAI{
		client: openai.NewClientWithConfig(config),
		model:  model,
		labels: []string{sentiment.LabelPositive, sentiment.LabelNegative, sentiment.LabelNeutral},
	}, nil
}

func (o *OpenAI) Labels() []string { return o.labels }

func (o *OpenAI) Infer(ctx context.Context, text string) ([]float64, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sentimentPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no completion choices returned")
	}

	var parsed struct {
		Positive float64 `json:"positive"`
		Negative float64 `json:"negative"`
		Neutral  float64 `json:"neutral"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshaling completion content: %w", err)
	}

	return []float64{parsed.Positive, parsed.Negative, parsed.Neutral}, nil
}
