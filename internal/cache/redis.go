package cache

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

func statsKey(resourceID string) string {
	return "stats:resource:" + resourceID
}

// generationKey lives outside the stats hash so that invalidation can delete the hash
// without resetting the counter.
func generationKey(resourceID string) string {
	return "stats:generation:" + resourceID
}

// setIfGeneration writes one hash field when the generation key still holds ARGV[1].
// KEYS: generation, stats hash. ARGV: generation, field, value, ttl in milliseconds.
var setIfGeneration = redis.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('HSET', KEYS[2], ARGV[2], ARGV[3])
if tonumber(ARGV[4]) > 0 then
	redis.call('PEXPIRE', KEYS[2], ARGV[4])
end
return 1
`)

var _ StatsCache = (*RedisStatsCache)(nil)

// RedisStatsCache keeps all metrics of a resource in one hash, so invalidation is a single DEL.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatsCache(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

func (r *RedisStatsCache) GetInt(ctx context.Context, key Key) (int, bool, error) {
	value, err := r.client.HGet(ctx, statsKey(key.ResourceID), key.field()).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return value, true, nil
}

func (r *RedisStatsCache) SetInt(ctx context.Context, key Key, value int) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if err := p.HSet(ctx, statsKey(key.ResourceID), key.field(), value).Err(); err != nil {
			return err
		}

		if r.ttl > 0 {
			return p.Expire(ctx, statsKey(key.ResourceID), r.ttl).Err()
		}

		return nil
	})

	return err
}

func (r *RedisStatsCache) Generation(ctx context.Context, resourceID string) (int64, error) {
	generation, err := r.client.Get(ctx, generationKey(resourceID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	return generation, err
}

func (r *RedisStatsCache) SetIntAt(ctx context.Context, key Key, value int, generation int64) (bool, error) {
	keys := []string{generationKey(key.ResourceID), statsKey(key.ResourceID)}
	written, err := setIfGeneration.Run(ctx, r.client, keys, generation, key.field(), value, r.ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}

	return written == 1, nil
}

func (r *RedisStatsCache) InvalidateResource(ctx context.Context, resourceID string) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if err := p.Incr(ctx, generationKey(resourceID)).Err(); err != nil {
			return err
		}

		return p.Del(ctx, statsKey(resourceID)).Err()
	})

	return err
}
