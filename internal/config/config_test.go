package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("SESSION_TTL_MINUTES", "")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 120*time.Minute, cfg.Auth.SessionTTL)
	assert.Equal(t, "+447123456789", cfg.Contact.WhatsAppNumber)
	assert.Len(t, cfg.Kafka.AllTopics(), 3)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("KAFKA_ENABLED", "false")
	t.Setenv("SESSION_TTL_MINUTES", "15")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("SEED_DATA", "yes")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Auth.SessionTTL)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.False(t, cfg.Database.SeedData)
}
