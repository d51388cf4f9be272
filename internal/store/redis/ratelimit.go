package redis

import (
	"context"
	"fmt"
	"time"
)

// Allow counts one hit for subject in the current fixed window. When the
// count goes over limit it reports false and how long until the window ends.
func (s *Store) Allow(ctx context.Context, subject string, limit int, window time.Duration) (bool, time.Duration, error) {
	if window <= 0 {
		return false, 0, fmt.Errorf("rate window must be > 0, got %v", window)
	}

	now := s.now()
	idx := now.UnixNano() / int64(window)
	key := RateKey(subject, idx)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.PExpire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to count rate for %s: %w", subject, err)
	}

	if incr.Val() <= int64(limit) {
		return true, 0, nil
	}

	end := time.Unix(0, (idx+1)*int64(window))
	return false, end.Sub(now), nil
}
