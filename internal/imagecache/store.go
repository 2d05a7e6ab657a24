package imagecache

import (
	"context"
	"time"
)

// Entry is the value stored under a cache key.
type Entry struct {
	ImageURL    string    `json:"imageUrl"`
	ItemName    string    `json:"itemName"`
	Description string    `json:"description"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Fresh reports whether the entry is still within its TTL at the given time.
func (e Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.GeneratedAt) <= ttl
}

// Store is one cache tier. Implementations must be safe for concurrent use
// by independent sessions and by a single session's batch fan-out.
type Store interface {
	// Lookup returns the entry for key, reporting whether one was found.
	Lookup(ctx context.Context, key string) (Entry, bool, error)

	// Store writes the entry under key with the given TTL.
	Store(ctx context.Context, key string, entry Entry, ttl time.Duration) error

	// Delete evicts the entry for key, if present.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the tier.
	Close(ctx context.Context) error
}
