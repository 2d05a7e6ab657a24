package imagecache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProber marks specific references dead; everything else is alive.
type stubProber struct {
	dead map[string]bool
}

func (p stubProber) Alive(_ context.Context, ref string) bool {
	return !p.dead[ref]
}

// brokenStore fails every operation, standing in for an unreachable
// durable tier.
type brokenStore struct{}

func (brokenStore) Lookup(context.Context, string) (Entry, bool, error) {
	return Entry{}, false, errors.New("connection refused")
}
func (brokenStore) Store(context.Context, string, Entry, time.Duration) error {
	return errors.New("connection refused")
}
func (brokenStore) Delete(context.Context, string) error { return errors.New("connection refused") }
func (brokenStore) Close(context.Context) error          { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCache(durable Store, dead map[string]bool) *Cache {
	return New(durable, NewMemory(), stubProber{dead: dead}, DefaultFallbacks(),
		7*24*time.Hour, testLogger(), nil)
}

func TestCachePutGet(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(NewMemory(), nil)

	cache.Put(ctx, "Pad Thai", "Stir-fried rice noodles", "https://cdn.example.com/pad-thai.jpg")

	entry, ok := cache.Get(ctx, "Pad Thai")
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/pad-thai.jpg", entry.ImageURL)
	assert.Equal(t, "Pad Thai", entry.ItemName)
}

func TestCacheGetNormalizesNames(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(NewMemory(), nil)

	cache.Put(ctx, "Pad Thai", "noodles", "https://cdn.example.com/pad-thai.jpg")

	entry, ok := cache.Get(ctx, "  PAD THAI! ")
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/pad-thai.jpg", entry.ImageURL)
}

func TestCacheMiss(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(NewMemory(), nil)

	_, ok := cache.Get(ctx, "Unknown Dish")
	assert.False(t, ok)
}

func TestCacheDurableHitMirrorsLocally(t *testing.T) {
	ctx := context.Background()
	durable := NewMemory()
	local := NewMemory()
	cache := New(durable, local, stubProber{}, nil, 7*24*time.Hour, testLogger(), nil)

	entry := Entry{
		ImageURL:    "https://cdn.example.com/ramen.jpg",
		ItemName:    "Ramen",
		GeneratedAt: time.Now().UTC(),
	}
	require.NoError(t, durable.Store(ctx, Key("Ramen"), entry, time.Hour))

	_, ok := cache.Get(ctx, "Ramen")
	require.True(t, ok)

	mirrored, ok, err := local.Lookup(ctx, Key("Ramen"))
	require.NoError(t, err)
	require.True(t, ok, "durable hit must be mirrored into the local tier")
	assert.Equal(t, entry.ImageURL, mirrored.ImageURL)
}

func TestCacheNeverReturnsExpiredEntry(t *testing.T) {
	ctx := context.Background()
	durable := NewMemory()
	cache := New(durable, NewMemory(), stubProber{}, nil, 7*24*time.Hour, testLogger(), nil)

	stale := Entry{
		ImageURL:    "https://cdn.example.com/old.jpg",
		ItemName:    "Old Dish",
		GeneratedAt: time.Now().UTC().Add(-8 * 24 * time.Hour),
	}
	// The store-level TTL is still open; the entry age check must reject it.
	require.NoError(t, durable.Store(ctx, Key("Old Dish"), stale, time.Hour))

	_, ok := cache.Get(ctx, "Old Dish")
	assert.False(t, ok, "entries past the 7 day TTL must never be hits")
}

func TestCacheEvictsDeadReference(t *testing.T) {
	ctx := context.Background()
	durable := NewMemory()
	deadURL := "https://cdn.example.com/deleted.jpg"
	cache := New(durable, NewMemory(), stubProber{dead: map[string]bool{deadURL: true}},
		nil, 7*24*time.Hour, testLogger(), nil)

	entry := Entry{ImageURL: deadURL, ItemName: "Gone Dish", GeneratedAt: time.Now().UTC()}
	require.NoError(t, durable.Store(ctx, Key("Gone Dish"), entry, time.Hour))

	_, ok := cache.Get(ctx, "Gone Dish")
	assert.False(t, ok)

	_, stillThere, err := durable.Lookup(ctx, Key("Gone Dish"))
	require.NoError(t, err)
	assert.False(t, stillThere, "dead entry must be evicted from the durable tier")
}

func TestCacheDegradesToLocalWhenDurableUnavailable(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(brokenStore{}, nil)

	// Put logs the durable failure and still mirrors locally.
	cache.Put(ctx, "Pad Thai", "noodles", "https://cdn.example.com/pad-thai.jpg")

	entry, ok := cache.Get(ctx, "Pad Thai")
	require.True(t, ok, "local tier must answer when the durable tier is down")
	assert.Equal(t, "https://cdn.example.com/pad-thai.jpg", entry.ImageURL)
}

func TestCacheNilDurableTier(t *testing.T) {
	ctx := context.Background()
	cache := New(nil, NewMemory(), stubProber{}, nil, 7*24*time.Hour, testLogger(), nil)

	cache.Put(ctx, "Sushi", "fresh", "https://cdn.example.com/sushi.jpg")

	entry, ok := cache.Get(ctx, "Sushi")
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/sushi.jpg", entry.ImageURL)
}

func TestCacheFallbackFor(t *testing.T) {
	cache := newTestCache(NewMemory(), nil)

	url, ok := cache.FallbackFor("Spicy Chicken Tikka Masala")
	require.True(t, ok)

	generic, ok2 := cache.FallbackFor("Roast Chicken")
	require.True(t, ok2)
	assert.NotEqual(t, generic, url, "specific keyword must beat the generic one")
}

func TestCacheConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(NewMemory(), nil)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				cache.Put(ctx, "Pad Thai", "noodles", "https://cdn.example.com/pad-thai.jpg")
				cache.Get(ctx, "Pad Thai")
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	_, ok := cache.Get(ctx, "Pad Thai")
	assert.True(t, ok)
}
