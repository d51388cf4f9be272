// Package redis implements the Redis-backed pieces of the service: an
// optional copy-history backend, webhook event claims and rate counters.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store wraps the shared Redis client
type Store struct {
	client    *redis.Client
	retention int
	now       func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithRetention caps each user's history list at n records (0 keeps all)
func WithRetention(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.retention = n
		}
	}
}

// WithClock overrides the time source used for rate windows
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks that Redis answers
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
