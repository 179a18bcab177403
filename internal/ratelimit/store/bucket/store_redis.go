package bucket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"chargeback-gateway/internal/ratelimit/models"
)

// RedisStore implements BucketStore using a Redis sorted set per key, so
// counters are shared across gateway instances. Each request is a ZSET member
// scored by its unix-nano timestamp; members older than the window are
// trimmed before counting.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed bucket store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Allow checks if a request is allowed and increments the counter.
func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	now := time.Now()
	cutoff := now.Add(-window)
	redisKey := "ratelimit:" + key

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", cutoff.UnixNano()))
	countCmd := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("trim rate limit window: %w", err)
	}

	count := int(countCmd.Val())
	if count >= limit {
		oldest, err := s.oldestEntry(ctx, redisKey)
		if err != nil {
			return nil, err
		}
		resetAt := oldest.Add(window)
		return &models.RateLimitResult{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfterSeconds(now, resetAt),
		}, nil
	}

	// Member values must be unique so concurrent requests in the same
	// nanosecond are counted separately.
	member := fmt.Sprintf("%d:%s", now.UnixNano(), uuid.NewString())
	pipe = s.client.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	pipe.Expire(ctx, redisKey, window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("record rate limit entry: %w", err)
	}

	return &models.RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - count - 1,
		ResetAt:   now.Add(window),
	}, nil
}

// Reset clears the rate limit counter for a key.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, "ratelimit:"+key).Err()
}

// GetCurrentCount returns the current request count for a key.
func (s *RedisStore) GetCurrentCount(ctx context.Context, key string) (int, error) {
	count, err := s.client.ZCard(ctx, "ratelimit:"+key).Result()
	if err != nil {
		return 0, fmt.Errorf("count rate limit entries: %w", err)
	}
	return int(count), nil
}

func (s *RedisStore) oldestEntry(ctx context.Context, redisKey string) (time.Time, error) {
	entries, err := s.client.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
	if err != nil {
		return time.Time{}, fmt.Errorf("read oldest rate limit entry: %w", err)
	}
	if len(entries) == 0 {
		return time.Now(), nil
	}
	return time.Unix(0, int64(entries[0].Score)), nil
}
