package cache

import (
	"context"
	"time"
)

// Entry is a cached value and the epoch-millis time it was written.
type Entry[T any] struct {
	Data      T     `json:"data"`
	Timestamp int64 `json:"timestamp"`
}

// Age is how long ago the entry was written, relative to now.
func (e Entry[T]) Age(now time.Time) time.Duration {
	return time.Duration(now.UnixMilli()-e.Timestamp) * time.Millisecond
}

// Store holds entries by key. Freshness is the caller's decision; Sweep only drops
// entries written before cutoff.
type Store[T any] interface {
	Get(ctx context.Context, key string) (Entry[T], bool, error)
	Set(ctx context.Context, key string, entry Entry[T]) error
	Delete(ctx context.Context, key string) error
	Sweep(ctx context.Context, cutoff time.Time) error
}
