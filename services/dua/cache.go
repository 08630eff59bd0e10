package dua

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"barakah/models"
	"barakah/utils"

	"github.com/go-redis/redis/v8"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// CacheKey fingerprints a request by situation and language.
func CacheKey(situation, language string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(situation)) + "|" + strings.ToLower(language)))
	return utils.DuaCachePrefix + hex.EncodeToString(sum[:])
}

// Get returns nil without error on a miss.
func (c *RedisCache) Get(ctx context.Context, key string) (*models.DuaContent, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var content models.DuaContent
	if err := json.Unmarshal([]byte(data), &content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, content *models.DuaContent) error {
	b, err := json.Marshal(content)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, c.ttl).Err()
}
