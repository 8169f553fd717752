package cache

import (
	"context"
	"errors"
	"fmt"
	"store-route-service/internal/platform/obs"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisKeyPrefix = "dur:"

// RedisDurationCache keeps short-lived durations in Redis, one key per ordered
// cell pair, expiring after TTL.
type RedisDurationCache struct {
	Client *redis.Client
	TTL    time.Duration
	Log    zerolog.Logger
}

func NewRedisDurationCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *RedisDurationCache {
	return &RedisDurationCache{Client: client, TTL: ttl, Log: log}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

func redisKey(origin, dest string) string {
	return redisKeyPrefix + origin + ":" + dest
}

func (c *RedisDurationCache) GetMany(ctx context.Context, origin string, destinations []string) (_ map[string]int64, err error) {
	defer obs.Time(ctx, c.Log, "duration.cache.redis.GetMany")(&err)

	if c.Client == nil {
		return nil, errors.New("duration cache: redis client is nil")
	}
	if origin == "" {
		return nil, errors.New("get duration cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations, origin)
	if len(uniq) == 0 {
		return map[string]int64{}, nil
	}

	keys := make([]string, len(uniq))
	for i, d := range uniq {
		keys[i] = redisKey(origin, d)
	}

	vals, err := c.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get duration cache: mget: %w", err)
	}

	out := make(map[string]int64, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue // nil for a missing key
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			c.Log.Warn().Str("key", keys[i]).Msg("ignoring corrupt duration cache entry")
			continue
		}
		out[uniq[i]] = n
	}
	return out, nil
}

func (c *RedisDurationCache) PutMany(ctx context.Context, origin string, durations map[string]int64) (err error) {
	defer obs.Time(ctx, c.Log, "duration.cache.redis.PutMany")(&err)

	if c.Client == nil {
		return errors.New("duration cache: redis client is nil")
	}
	if origin == "" {
		return errors.New("insert duration cache: origin must not be empty")
	}
	if len(durations) == 0 {
		return nil
	}

	_, err = c.Client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for dest, seconds := range durations {
			p.Set(ctx, redisKey(origin, dest), seconds, c.TTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert duration cache: pipeline: %w", err)
	}
	return nil
}
