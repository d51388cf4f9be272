package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
)

// Save prepends rec to its user's list, trimming to the retention cap, and
// bumps the user's lifetime counter
func (s *Store) Save(ctx context.Context, rec *domain.HistoryRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal history record: %w", err)
	}

	key := HistoryKey(rec.UserID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.Incr(ctx, SavedKey(rec.UserID))
	if s.retention > 0 {
		pipe.LTrim(ctx, key, 0, int64(s.retention-1))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save history record: %w", err)
	}
	return nil
}

// List returns up to limit records for userID, newest first
func (s *Store) List(ctx context.Context, userID string, limit int) ([]domain.HistoryRecord, error) {
	if limit <= 0 {
		return []domain.HistoryRecord{}, nil
	}

	raw, err := s.client.LRange(ctx, HistoryKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	out := make([]domain.HistoryRecord, 0, len(raw))
	for _, item := range raw {
		var rec domain.HistoryRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Count returns how many records userID has ever saved, including those
// already trimmed from the list
func (s *Store) Count(ctx context.Context, userID string) (int, error) {
	n, err := s.client.Get(ctx, SavedKey(userID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}
