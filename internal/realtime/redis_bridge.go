package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"spirit-hunts/internal/logger"
)

const ChannelPrefix = "spirithunts:changes:"

// RedisBridge publishes changes on Redis so every service instance sees
// mutations made by the others. Incoming messages are handed to the local
// broker, which owns the subscriptions.
type RedisBridge struct {
	client *redis.Client
	broker *Broker
	logger *logger.Logger
	ready  chan struct{}
}

func NewRedisBridge(client *redis.Client, broker *Broker, log *logger.Logger) *RedisBridge {
	if log == nil {
		log = logger.Discard()
	}
	return &RedisBridge{
		client: client,
		broker: broker,
		logger: log,
		ready:  make(chan struct{}),
	}
}

func (b *RedisBridge) Notify(ctx context.Context, change Change) error {
	if change.At.IsZero() {
		change.At = time.Now().UTC()
	}
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}
	if err := b.client.Publish(ctx, ChannelPrefix+change.Table, payload).Err(); err != nil {
		return fmt.Errorf("publish change on %s: %w", change.Table, err)
	}
	return nil
}

func (b *RedisBridge) Subscribe(table string, onChange func(Change)) func() {
	return b.broker.Subscribe(table, onChange)
}

// Ready is closed once Run holds its Redis subscription.
func (b *RedisBridge) Ready() <-chan struct{} {
	return b.ready
}

// Run forwards Redis change messages to the broker until ctx is done.
func (b *RedisBridge) Run(ctx context.Context) error {
	pubsub := b.client.PSubscribe(ctx, ChannelPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s*: %w", ChannelPrefix, err)
	}
	close(b.ready)
	b.logger.Info("REDIS", fmt.Sprintf("Listening for table changes on %s*", ChannelPrefix))

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var change Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				b.logger.Warn("REDIS", fmt.Sprintf("Ignoring malformed change on %s: %v", msg.Channel, err))
				continue
			}
			if change.Table == "" {
				change.Table = strings.TrimPrefix(msg.Channel, ChannelPrefix)
			}
			b.broker.Publish(change)
		case <-ctx.Done():
			return nil
		}
	}
}
