package redis

import (
	"context"
	"time"
)

// RateLimiter is a fixed-window counter: the first hit of a window starts
// its TTL and every hit beyond limit inside the window is refused.
type RateLimiter struct {
	client RedisClient
}

func NewRateLimiter(client RedisClient) *RateLimiter {
	return &RateLimiter{client: client}
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, window); err != nil {
			return false, err
		}
	} else if ttl, err := r.client.TTL(ctx, key); err == nil && ttl < 0 {
		// the expiry of a previous first hit was lost; re-arm the window
		if err := r.client.Expire(ctx, key, window); err != nil {
			return false, err
		}
	}

	return count <= int64(limit), nil
}

// RedeemKey is the counter key for redemption attempts of one subject.
func RedeemKey(subjectID string) string {
	return "redeem:" + subjectID
}
