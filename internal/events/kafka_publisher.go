package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Shopify/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// KafkaPublisher publishes events to a Kafka topic through watermill.
type KafkaPublisher struct {
	publisher message.Publisher
	topic     string
	logger    *slog.Logger
}

// NewKafkaPublisher connects to the given brokers. The topic carries every
// event type, consumers filter on the envelope Type field.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true

	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:               brokers,
			Marshaler:             kafka.DefaultMarshaler{},
			OverwriteSaramaConfig: saramaConfig,
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return &KafkaPublisher{
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", event.Type)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	p.logger.Debug("event published",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", p.topic)

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.publisher.Close()
}
