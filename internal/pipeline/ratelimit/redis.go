package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps per-session timestamps in a sorted set scored by unix
// nanoseconds, so a deployment with several pipeline replicas shares one
// quota per session. Keys expire one window after the last request.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func rateLimitKey(sessionID string) string {
	return fmt.Sprintf("ratelimit:%s", sessionID)
}

func (s *RedisStore) Admit(ctx context.Context, sessionID string, now time.Time, window time.Duration, max int) (bool, int, time.Time, error) {
	key := rateLimitKey(sessionID)
	cutoff := strconv.FormatInt(now.Add(-window).UnixNano(), 10)

	var admitted bool
	var count int
	var oldest time.Time

	// Watch makes the check-and-record atomic per session key; a concurrent
	// admit for the same session aborts the transaction and we retry.
	txn := func(tx *redis.Tx) error {
		if err := tx.ZRemRangeByScore(ctx, key, "-inf", cutoff).Err(); err != nil {
			return err
		}

		live, err := tx.ZCard(ctx, key).Result()
		if err != nil {
			return err
		}

		first, err := tx.ZRangeWithScores(ctx, key, 0, 0).Result()
		if err != nil {
			return err
		}
		if len(first) > 0 {
			oldest = time.Unix(0, int64(first[0].Score))
		}

		if int(live) >= max {
			admitted = false
			count = int(live)
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.ZAdd(ctx, key, redis.Z{
				Score:  float64(now.UnixNano()),
				Member: strconv.FormatInt(now.UnixNano(), 10),
			})
			pipe.Expire(ctx, key, window)
			return nil
		})
		if err != nil {
			return err
		}

		admitted = true
		count = int(live) + 1
		if oldest.IsZero() {
			oldest = now
		}
		return nil
	}

	for attempt := 0; attempt < 5; attempt++ {
		err := s.client.Watch(ctx, txn, key)
		if err == nil {
			return admitted, count, oldest, nil
		}
		if err == redis.TxFailedErr {
			continue
		}
		return false, 0, time.Time{}, fmt.Errorf("rate limit admit: %w", err)
	}
	return false, 0, time.Time{}, fmt.Errorf("rate limit admit: transaction contention on session %s", sessionID)
}

func (s *RedisStore) Peek(ctx context.Context, sessionID string, now time.Time, window time.Duration) (int, time.Time, error) {
	key := rateLimitKey(sessionID)
	cutoffNano := now.Add(-window).UnixNano()

	entries, err := s.client.ZRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{
		Min: "(" + strconv.FormatInt(cutoffNano, 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit peek: %w", err)
	}

	if len(entries) == 0 {
		return 0, time.Time{}, nil
	}
	return len(entries), time.Unix(0, int64(entries[0].Score)), nil
}
