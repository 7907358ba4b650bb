// Worker consumes notification events from Kafka and pushes them to Loki.
// Set KAFKA_BROKERS, NOTIFICATION_KAFKA_TOPIC, KAFKA_GROUP_ID, and LOKI_URL.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"taskflow/backend/internal/config"
	"taskflow/backend/internal/logger"
	"taskflow/backend/internal/notification/loki"
)

const pushTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.OTelServiceName+"-worker", cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		zl.Fatal("worker: KAFKA_BROKERS is required")
	}
	if cfg.LokiURL == "" {
		zl.Fatal("worker: LOKI_URL is required")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          cfg.NotificationKafkaTopic,
		GroupID:        cfg.KafkaGroupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        time.Second,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := loki.NewClient(cfg.LokiURL, nil)
	zl.Info("worker: consuming",
		zap.String("topic", cfg.NotificationKafkaTopic),
		zap.String("group_id", cfg.KafkaGroupID),
		zap.String("loki_url", cfg.LokiURL))

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				zl.Info("worker: stopped")
				return
			}
			zl.Warn("worker: kafka read failed", zap.Error(err))
			continue
		}

		pushCtx, cancel := context.WithTimeout(ctx, pushTimeout)
		if err := client.PushEventJSON(pushCtx, msg.Value); err != nil {
			zl.Warn("worker: loki push failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
		cancel()
	}
}
