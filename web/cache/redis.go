// Package cache provides the redis client shared by the session backend and
// the rate limiter, and the in-memory answer cache.
package cache

import (
	"context"
	"fmt"

	"github.com/ortosupport/course-assistant/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// Redis owns a redis client. When no address is configured it runs an
// embedded miniredis server and points the client at it.
type Redis struct {
	client   *redis.Client
	embedded *miniredis.Miniredis
}

// NewRedis connects to the redis server at addr, or starts an embedded one
// if addr is empty.
func NewRedis(ctx context.Context, addr, password string) (*Redis, error) {
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("failed to start embedded redis: %w", err)
		}
		logger.Info("Embedded redis started on", mr.Addr())
		return &Redis{
			client:   redis.NewClient(&redis.Options{Addr: mr.Addr()}),
			embedded: mr,
		}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	logger.Info("Connected to redis at", addr)
	return &Redis{client: client}, nil
}

func (r *Redis) Client() *redis.Client {
	return r.client
}

// IsEmbedded reports whether the client talks to the embedded server.
func (r *Redis) IsEmbedded() bool {
	return r.embedded != nil
}

// Close closes the client and stops the embedded server if one is running.
func (r *Redis) Close() error {
	err := r.client.Close()
	if r.embedded != nil {
		r.embedded.Close()
	}
	return err
}
