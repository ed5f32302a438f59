package domain

import (
	"context"
	"time"
)

// RateLimiter admits at most limit calls per key within a sliding window.
// Bid submissions are keyed per user.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// LockManager hands out cluster-wide, TTL-bounded job locks. Acquire returns
// ErrLockHeld when another process owns key.
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

// StreamMessage is one entry read back from an event stream.
type StreamMessage struct {
	ID      string
	Payload []byte
}

// SignalBus carries committed auction events to downstream consumers: a
// live channel per auction plus the durable auction_events stream.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	StreamAppend(ctx context.Context, stream string, payload []byte) error
	StreamRead(ctx context.Context, stream string, lastID string, count int) ([]StreamMessage, error)
}
