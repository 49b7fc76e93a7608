package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finsent-io/finsent/config"
	"github.com/finsent-io/finsent/internal/classifiers"
	"github.com/finsent-io/finsent/internal/clients/kafka_client"
	"github.com/finsent-io/finsent/internal/consumers"
	"github.com/finsent-io/finsent/internal/logging"
	"github.com/finsent-io/finsent/internal/sentiment"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	cfg := config.LoadSettings()

	agg, err := classifiers.BuildEnsemble(cfg)
	if err != nil {
		slog.Error("[Main] Failed to build ensemble",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	decomposer := sentiment.NewDecomposer(agg, sentiment.DefaultTaxonomy())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kafkaCfg := kafka_client.GetKafkaConfig()
	for {
		err := kafka_client.InitProducer(kafkaCfg)
		if err == nil {
			break
		}

		slog.Warn("Kafka init failed, retrying...", slog.String("error", err.Error()))
		time.Sleep(5 * time.Second)
	}
	defer kafka_client.CloseProducer()

	kafka_client.RegisterConsumer(kafka_client.KAFKA_TOPIC_ANALYSIS_REQUEST,
		consumers.NewAnalysisConsumer(decomposer).Start)

	if err := kafka_client.StartConsumer(ctx, kafkaCfg); err != nil {
		slog.Error("[Main] Failed to start consumer",
			slog.String("error", err.Error()))
	}
}
