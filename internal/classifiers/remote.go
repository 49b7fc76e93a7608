package classifiers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/finsent-io/finsent/internal/sentiment"
)

const (
	remoteMaxRetries     = 3
	remoteInitialBackoff = 1 * time.Second
	remoteUserAgent      = "finsent-client/1.0 (+https://github.com/finsent-io/finsent)"
)

// RemoteAnalyzer calls an external sentiment service speaking the analyze
// contract: POST {"text": ...} answered with one probability per label.
// The label order of the remote model is configuration; it defaults to
// positive, negative, neutral but must be set explicitly for services whose
// models order their output differently.
type RemoteAnalyzer struct {
	client   *http.Client
	endpoint string
	labels   []string
}

func NewRemoteAnalyzer(endpoint string, labels []string) *RemoteAnalyzer {
	if len(labels) == 0 {
		labels = []string{sentiment.LabelPositive, sentiment.LabelNegative, sentiment.LabelNeutral}
	}
	return &RemoteAnalyzer{
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: endpoint,
		labels:   labels,
	}
}

func (r *RemoteAnalyzer) Labels() []string { return r.labels }

func (r *RemoteAnalyzer) Infer(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", remoteUserAgent)

	resp, err := r.doWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analyzer returned status %d", resp.StatusCode)
	}

	var payload map[string]float64
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	probs := make([]float64, len(r.labels))
	for i, label := range r.labels {
		value, ok := payload[label]
		if !ok {
			return nil, fmt.Errorf("response missing class %q", label)
		}
		probs[i] = value
	}

	return probs, nil
}

func (r *RemoteAnalyzer) doWithRetry(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := remoteInitialBackoff

	for attempt := 0; attempt < remoteMaxRetries; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			if req.Body, err = req.GetBody(); err != nil {
				return nil, err
			}
		}

		resp, err = r.client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if resp != nil {
			resp.Body.Close()
		}

		slog.Warn("[RemoteAnalyzer] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", retryErrMsg(err, resp)))

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	if err == nil {
		err = fmt.Errorf("status code %d", resp.StatusCode)
	}
	return nil, err
}

func retryErrMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
