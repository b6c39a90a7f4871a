package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// RedisBackend keeps sessions in redis; expiry is enforced by key TTL.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client, prefix: "session:"}
}

func (b *RedisBackend) key(token string) string {
	return b.prefix + token
}

func (b *RedisBackend) Save(ctx context.Context, rec *Record) error {
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return b.Delete(ctx, rec.Token)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return b.client.Set(ctx, b.key(rec.Token), data, ttl).Err()
}

func (b *RedisBackend) Load(ctx context.Context, token string) (*Record, error) {
	data, err := b.client.Get(ctx, b.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &rec, nil
}

func (b *RedisBackend) Delete(ctx context.Context, token string) error {
	return b.client.Del(ctx, b.key(token)).Err()
}
