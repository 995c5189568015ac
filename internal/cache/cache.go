package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Cache stores JSON values under prefixed keys
type Cache struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
}

func NewCache(client *redis.Client, logger *zap.Logger, prefix string) *Cache {
	return &Cache{
		client: client,
		logger: logger,
		prefix: prefix,
	}
}

func (c *Cache) formatKey(key string) string {
	return fmt.Sprintf("%s:%s", c.prefix, key)
}

// Set stores value as JSON with the given expiration
func (c *Cache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	if err := c.client.Set(ctx, c.formatKey(key), data, expiration).Err(); err != nil {
		c.logger.Error("Failed to set cache value", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to set cache value: %w", err)
	}
	return nil
}

// GetObject decodes the value stored under key into dest. found is false on a miss.
func (c *Cache) GetObject(ctx context.Context, key string, dest interface{}) (bool, error) {
	value, err := c.client.Get(ctx, c.formatKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		c.logger.Error("Failed to get cache value", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(value, dest); err != nil {
		c.logger.Error("Failed to unmarshal cache value", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

// Delete removes the given keys
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	formatted := make([]string, len(keys))
	for i, key := range keys {
		formatted[i] = c.formatKey(key)
	}

	if err := c.client.Del(ctx, formatted...).Err(); err != nil {
		c.logger.Error("Failed to delete cache value", zap.Strings("keys", keys), zap.Error(err))
		return fmt.Errorf("failed to delete cache value: %w", err)
	}
	return nil
}
