package redis

import (
	"context"
	"fmt"
	"time"
)

// Claim marks eventID as being processed. It reports false when the event
// was already claimed, i.e. it is a redelivery.
func (s *Store) Claim(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, EventKey(eventID), s.now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim event %s: %w", eventID, err)
	}
	return ok, nil
}

// Release drops the claim so a redelivery is processed again
func (s *Store) Release(ctx context.Context, eventID string) error {
	if err := s.client.Del(ctx, EventKey(eventID)).Err(); err != nil {
		return fmt.Errorf("failed to release event %s: %w", eventID, err)
	}
	return nil
}
