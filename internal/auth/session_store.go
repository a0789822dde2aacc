package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "spirithunts:session:"

// SessionStore tracks live admin sessions by token ID.
type SessionStore interface {
	Save(ctx context.Context, id, email string, ttl time.Duration) error
	Active(ctx context.Context, id string) (bool, error)
	Revoke(ctx context.Context, id string) error
}

// RedisSessionStore keeps one key per session that expires with the token.
type RedisSessionStore struct {
	Client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Client: client}
}

func (s *RedisSessionStore) Save(ctx context.Context, id, email string, ttl time.Duration) error {
	if err := s.Client.Set(ctx, sessionKeyPrefix+id, email, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in Redis: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Active(ctx context.Context, id string) (bool, error) {
	n, err := s.Client.Exists(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("failed to read session from Redis: %w", err)
	}
	return n == 1, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, id string) error {
	if err := s.Client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to revoke session in Redis: %w", err)
	}
	return nil
}
