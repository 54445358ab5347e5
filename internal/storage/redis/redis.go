package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/storage"
)

// Adapter implements storage.Adapter on top of Redis strings. Records are
// durable collections, so values are written without expiry.
type Adapter struct {
	client *redis.Client
}

// New creates a Redis-backed adapter.
func New(client *redis.Client) *Adapter {
	return &Adapter{client: client}
}

// Get retrieves the raw value stored under key.
func (a *Adapter) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := a.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Set writes value under key with no TTL.
func (a *Adapter) Set(ctx context.Context, key string, value []byte) error {
	if err := a.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Ping checks connectivity to the Redis server.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}
