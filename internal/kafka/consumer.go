package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"spirit-hunts/internal/logger"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	reader messageReader
	topic  string
	logger *logger.Logger
}

// NewConsumer creates a consumer-group reader for one topic.
func NewConsumer(brokers []string, topic, groupID string, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	return newConsumer(reader, topic, log)
}

func newConsumer(reader messageReader, topic string, log *logger.Logger) *Consumer {
	if log == nil {
		log = logger.Discard()
	}
	return &Consumer{reader: reader, topic: topic, logger: log}
}

// Start reads messages until ctx is cancelled. A handler error is logged
// and the message is skipped.
func (c *Consumer) Start(ctx context.Context, handler func(ctx context.Context, msg kafka.Message) error) error {
	c.logger.Info("KAFKA", fmt.Sprintf("🔄 Consumer started on %s", c.topic))

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.logger.Info("KAFKA", fmt.Sprintf("Consumer on %s stopped", c.topic))
				return nil
			}
			c.logger.Error("KAFKA", fmt.Sprintf("Error reading message from %s: %v", c.topic, err))
			return fmt.Errorf("read from %s: %w", c.topic, err)
		}

		c.logger.LogKafka("CONSUME", msg.Topic, string(msg.Key))
		if err := handler(ctx, msg); err != nil {
			c.logger.Warn("KAFKA", fmt.Sprintf("Skipping message %s on %s: %v", string(msg.Key), c.topic, err))
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
