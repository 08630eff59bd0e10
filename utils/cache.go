package utils

import (
	"context"
	"time"

	"barakah/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the generic cache client.
var CacheClient *redis.Client

// ConnectCache creates the cache client and pings it. The client is kept
// even when the ping fails so the health monitor can report recovery.
func ConnectCache() error {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return CacheClient.Ping(ctx).Err()
}
