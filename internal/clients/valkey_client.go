package clients

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/finsent-io/finsent/config"
	"github.com/finsent-io/finsent/internal/models"
)

const scoreKeyPrefix = "finsent:score:"

// ScoreCache keeps recent ensemble scores in Valkey, keyed by a hash of the
// input text. Entries expire; this is a hot-text cache, not result storage.
type ScoreCache struct {
	client valkey.Client
	ttl    time.Duration
}

func NewScoreCache(cfg config.Settings) (*ScoreCache, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.ValkeyAddress},
		Password:         cfg.ValkeyPassword,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if cfg.ValkeyTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ScoreCache] failed to create Valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if resp := client.Do(ctx, client.B().Ping().Build()); resp.Error() != nil {
		client.Close()
		return nil, fmt.Errorf("[ScoreCache] failed to ping Valkey: %w", resp.Error())
	}

	slog.Info("[ScoreCache] Successfully connected to valkey",
		slog.Duration("ttl", cfg.CacheTTL))

	return &ScoreCache{client: client, ttl: cfg.CacheTTL}, nil
}

func (c *ScoreCache) Get(ctx context.Context, text string) (models.SentimentScore, bool) {
	var score models.SentimentScore

	raw, err := c.client.Do(ctx, c.client.B().Get().Key(scoreKey(text)).Build()).ToString()
	if err != nil {
		if !valkey.IsValkeyNil(err) {
			slog.Warn("[ScoreCache] Lookup failed",
				slog.String("error", err.Error()))
		}
		return score, false
	}

	if err := json.Unmarshal([]byte(raw), &score); err != nil {
		slog.Warn("[ScoreCache] Failed to unmarshal cached score",
			slog.String("error", err.Error()))
		return score, false
	}

	return score, true
}

func (c *ScoreCache) Set(ctx context.Context, text string, score models.SentimentScore) {
	data, err := json.Marshal(score)
	if err != nil {
		slog.Warn("[ScoreCache] Failed to marshal score",
			slog.String("error", err.Error()))
		return
	}

	cmd := c.client.B().Set().Key(scoreKey(text)).Value(string(data)).Ex(c.ttl).Build()
	if resp := c.client.Do(ctx, cmd); resp.Error() != nil {
		slog.Warn("[ScoreCache] Failed to store score",
			slog.String("error", resp.Error().Error()))
	}
}

func (c *ScoreCache) Close() {
	c.client.Close()
}

func scoreKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return scoreKeyPrefix + hex.EncodeToString(sum[:])
}
