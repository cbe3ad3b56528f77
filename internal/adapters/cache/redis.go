package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ncastellan/enhancer/internal/domain"
)

const (
	// keyPrefix namespaces plan entries so Flush only touches ours.
	keyPrefix = "enhancer:plan:"

	// scanBatch is the SCAN page size used by Flush.
	scanBatch = 200

	defaultTTL = 15 * time.Minute
)

// Redis is a ports.PlanCache backed by Redis, for sharing plans between
// processes. Breakdowns are stored as JSON under a common prefix with a
// TTL, so stale plans age out even without an explicit flush.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the given Redis instance and verifies it with a
// ping. A non-positive ttl falls back to the default.
func NewRedis(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache.NewRedis: ping %s: %w", addr, err)
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis{client: client, ttl: ttl}, nil
}

// Get returns the cached breakdown for the key, if present.
func (r *Redis) Get(ctx context.Context, itemID string, targetLevel int) (domain.Breakdown, bool, error) {
	raw, err := r.client.Get(ctx, planRedisKey(itemID, targetLevel)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Breakdown{}, false, nil
	}
	if err != nil {
		return domain.Breakdown{}, false, fmt.Errorf("cache.Redis.Get: %w", err)
	}

	var b domain.Breakdown
	if err := json.Unmarshal(raw, &b); err != nil {
		return domain.Breakdown{}, false, fmt.Errorf("cache.Redis.Get: decode: %w", err)
	}
	return b, true, nil
}

// Set stores a breakdown as JSON with the configured TTL.
func (r *Redis) Set(ctx context.Context, itemID string, targetLevel int, b domain.Breakdown) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("cache.Redis.Set: encode: %w", err)
	}
	if err := r.client.Set(ctx, planRedisKey(itemID, targetLevel), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache.Redis.Set: %w", err)
	}
	return nil
}

// Flush deletes every plan entry under the prefix, in batches.
func (r *Redis) Flush(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", scanBatch).Iterator()
	keys := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= scanBatch {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache.Redis.Flush: del: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache.Redis.Flush: scan: %w", err)
	}
	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("cache.Redis.Flush: del: %w", err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

func planRedisKey(itemID string, targetLevel int) string {
	return keyPrefix + itemID + ":" + strconv.Itoa(targetLevel)
}
