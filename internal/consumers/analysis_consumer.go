package consumers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/finsent-io/finsent/internal/clients/kafka_client"
	kafkautils "github.com/finsent-io/finsent/internal/clients/kafka_client/utils"
	"github.com/finsent-io/finsent/internal/models"
	"github.com/finsent-io/finsent/internal/sentiment"
	"github.com/finsent-io/finsent/internal/utils"
)

type messageIterator interface {
	Next() (*kafka.Message, error)
}

type offsetCommitter interface {
	Commit(msg *kafka.Message) error
}

// AnalysisConsumer pulls analysis requests off Kafka, runs the aspect
// decomposer on each, and publishes batched reports to the results topic.
type AnalysisConsumer struct {
	decomposer    *sentiment.Decomposer
	buffer        *utils.BatchBuffer[models.AnalysisResult]
	publish       func(topic, key string, payload any) error
	flushInterval time.Duration
}

func NewAnalysisConsumer(decomposer *sentiment.Decomposer) *AnalysisConsumer {
	return &AnalysisConsumer{
		decomposer:    decomposer,
		buffer:        utils.NewBatchBuffer[models.AnalysisResult](),
		publish:       kafka_client.PublishToKafka,
		flushInterval: kafka_client.BATCH_TIMEOUT,
	}
}

func (c *AnalysisConsumer) Start(ctx context.Context, consumer *kafka.Consumer) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
	committer := kafka_client.NewCommitHandler(ctx, consumer)
	c.run(ctx, iterator, committer)
}

func (c *AnalysisConsumer) run(ctx context.Context, iterator messageIterator, committer offsetCommitter) {
	slog.Info("[AnalysisConsumer] Listening for analysis requests")

	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[AnalysisConsumer] Consumer shutting down...")
			c.publishResults(committer)
			return
		case <-ticker.C:
			c.publishResults(committer)
		default:
			msg, err := iterator.Next()
			if err != nil {
				// Idle poll; loop around so the flush ticker stays live.
				if errors.Is(err, kafka_client.ErrNoMessage) {
					continue
				}
				kafkautils.HandleConsumerError(err)
				continue
			}

			var request models.AnalysisRequest
			if err := kafkautils.DeserializeFromJSON(msg.Value, &request); err != nil {
				kafkautils.HandleConsumerError(err)
				continue
			}

			if err := sentiment.ValidateText(request.Text); err != nil {
				slog.Warn("[AnalysisConsumer] Skipping request with empty text",
					slog.String("request_id", request.RequestID))
				if err := committer.Commit(msg); err != nil {
					slog.Warn("[AnalysisConsumer] Failed to commit skipped request",
						slog.String("error", err.Error()))
				}
				continue
			}

			request.EnsureID()
			kafkautils.TrackMessage(request.RequestID, msg)

			report := c.decomposer.Decompose(ctx, request.Text)
			c.buffer.Add(models.AnalysisResult{
				AnalysisRequest: request,
				Report:          report,
			})

			slog.Info("[AnalysisConsumer] Request analyzed",
				slog.String("request_id", request.RequestID),
				slog.Int("aspects_found", report.AspectsFound))

			if c.buffer.Size() >= kafka_client.BATCH_SIZE {
				c.publishResults(committer)
			}
		}
	}
}

func (c *AnalysisConsumer) publishResults(committer offsetCommitter) {
	batch := c.buffer.GetAndClear()
	if len(batch) == 0 {
		return
	}

	var err error
	for i := 0; i < 3; i++ {
		err = c.publish(kafka_client.KAFKA_TOPIC_ANALYSIS_RESULTS, batch[0].RequestID, batch)
		if err == nil {
			slog.Info("[AnalysisConsumer] Results published to Kafka",
				slog.Int("batch_size", len(batch)))
			break
		}
		slog.Warn("[AnalysisConsumer] Batch publishing failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		// Offsets stay uncommitted so the batch will be redelivered.
		return
	}

	for _, result := range batch {
		trackedMsg, found := kafkautils.GetMessageForRequest(result.RequestID)
		if !found {
			continue
		}
		if err := committer.Commit(trackedMsg); err != nil {
			slog.Warn("[AnalysisConsumer] Failed to commit offset",
				slog.String("request_id", result.RequestID),
				slog.String("error", err.Error()))
		}
	}
}
