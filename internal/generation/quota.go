package generation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const quotaKeyPrefix = "gen:quota:" // gen:quota:{user_id}

// Quota enforces a rolling per-user call budget: at most limit calls in
// the trailing window. Each accepted call is recorded as a timestamped
// member of a sorted set; expired members are trimmed on every check.
// The check-and-record runs in one pipeline, which is good enough for
// advisory quota enforcement.
type Quota struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewQuota(client *redis.Client, limit int, window time.Duration) *Quota {
	return NewQuotaWithClock(client, limit, window, time.Now)
}

// NewQuotaWithClock injects the clock; tests use it to move the window.
func NewQuotaWithClock(client *redis.Client, limit int, window time.Duration, now func() time.Time) *Quota {
	return &Quota{
		client: client,
		limit:  limit,
		window: window,
		now:    now,
	}
}

// Allow checks the caller's rolling window and, when under the limit,
// records this call. Over the limit it returns ErrQuotaExceeded without
// side effects beyond trimming expired entries.
func (q *Quota) Allow(ctx context.Context, userID string) error {
	key := quotaKeyPrefix + userID
	now := q.now()
	cutoff := now.Add(-q.window)

	pipe := q.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(cutoff.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("quota check: %w", err)
	}

	if int(countCmd.Val()) >= q.limit {
		return ErrQuotaExceeded
	}

	member := strconv.FormatInt(now.UnixNano(), 10)
	pipe = q.client.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: member})
	pipe.Expire(ctx, key, q.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("quota record: %w", err)
	}
	return nil
}

// Remaining reports how many calls the user has left in the window.
func (q *Quota) Remaining(ctx context.Context, userID string) (int, error) {
	key := quotaKeyPrefix + userID
	cutoff := q.now().Add(-q.window)

	pipe := q.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(cutoff.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("quota remaining: %w", err)
	}

	left := q.limit - int(countCmd.Val())
	if left < 0 {
		left = 0
	}
	return left, nil
}
