package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"spirit-hunts/internal/logger"
)

// Publisher sends JSON payloads to a topic.
type Publisher interface {
	PublishJSON(ctx context.Context, topic, key string, payload interface{}) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes to any topic; the topic is chosen per message.
type Producer struct {
	writer messageWriter
	logger *logger.Logger
}

func NewProducer(brokers []string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
	return newProducer(writer, log)
}

func newProducer(writer messageWriter, log *logger.Logger) *Producer {
	if log == nil {
		log = logger.Discard()
	}
	return &Producer{writer: writer, logger: log}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, value []byte) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		p.logger.Error("KAFKA", fmt.Sprintf("Failed to publish to %s: %v", topic, err))
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	p.logger.LogKafka("PUBLISH", topic, key)
	return nil
}

func (p *Producer) PublishJSON(ctx context.Context, topic, key string, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", topic, err)
	}
	return p.Publish(ctx, topic, key, value)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishJSON(ctx context.Context, topic, key string, payload interface{}) error {
	return nil
}
