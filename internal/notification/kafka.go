package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaNotifier writes events as JSON to a Kafka topic, keyed by recipient so a user's events stay ordered.
type KafkaNotifier struct {
	writer *kafka.Writer
}

// NewKafkaNotifier returns a notifier for topic, or nil when brokers or topic are empty.
// Call Close when shutting down.
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	return &KafkaNotifier{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	}}
}

// Notify serializes the event and writes it to the topic.
func (k *KafkaNotifier) Notify(ctx context.Context, event Event) error {
	if k == nil || k.writer == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.RecipientID.Normalized()),
		Value: payload,
		Time:  event.CreatedAt,
	})
}

// Close closes the Kafka writer. Safe to call on a nil notifier.
func (k *KafkaNotifier) Close() error {
	if k == nil || k.writer == nil {
		return nil
	}
	return k.writer.Close()
}
