package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/finsent-io/finsent/internal/sentiment"
)

const HEALTHCHECK_INTERVAL = 60 * time.Second

// canary text for the probe: boring on purpose so lexicon models stay cheap.
const probeText = "markets closed broadly unchanged today"

// MonitorEnsembleHealth periodically runs the ensemble against a canary text.
// An all-zero distribution means every configured model is failing, which is
// the ensemble's degenerate "no usable signal" state.
func MonitorEnsembleHealth(ctx context.Context, agg *sentiment.Aggregator, healthy *atomic.Bool) {
	probe := func() {
		score := agg.Aggregate(ctx, probeText)
		ok := score.Positive+score.Negative+score.Neutral > 0
		healthy.Store(ok)
		if !ok {
			slog.Warn("[HealthCheck] All ensemble models are failing")
		}
	}

	probe()

	ticker := time.NewTicker(HEALTHCHECK_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}
