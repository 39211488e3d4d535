package config

import (
	"context"
	"time"

	"github.com/emrgen/happix/internal/cache"
	"github.com/emrgen/happix/internal/queue"
	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// GetRedis returns nil when no redis address is configured.
func GetRedis(cfg *Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		DB:       0,
		Protocol: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.Warnf("redis at %s is unreachable, running without stats cache: %v", cfg.RedisAddr, err)
		_ = client.Close()
		return nil
	}

	return client
}

// GetStatsCache falls back to a cache that never holds values.
func GetStatsCache(cfg *Config, client *redis.Client) cache.StatsCache {
	if client == nil {
		return cache.NewNop()
	}

	return cache.NewRedisStatsCache(client, cfg.StatsTTL)
}

// GetMergeQueue falls back to a queue that drops every event.
func GetMergeQueue(client *redis.Client) queue.MergeQueue {
	if client == nil {
		return queue.Nop{}
	}

	return queue.NewRedisMergeQueue(client)
}
