package imagecache

import (
	"context"
	"log/slog"
	"time"

	"github.com/menulens/menulens-api/internal/metrics"
)

const (
	tierDurable = "durable"
	tierLocal   = "local"
)

// Cache is the two-tier image cache. The durable tier is shared across
// processes and may be absent or unavailable; the process-local tier is a
// best-effort mirror rebuilt lazily on read-through. All methods are safe
// for concurrent use.
type Cache struct {
	durable   Store // nil when the durable tier is not configured
	local     Store
	prober    URLProber
	fallbacks *FallbackTable
	ttl       time.Duration
	logger    *slog.Logger
	recorder  *metrics.Recorder
}

// New constructs the cache. durable may be nil; fallbacks may be nil, in
// which case FallbackFor never matches. recorder may be nil.
func New(
	durable Store,
	local Store,
	prober URLProber,
	fallbacks *FallbackTable,
	ttl time.Duration,
	logger *slog.Logger,
	recorder *metrics.Recorder,
) *Cache {
	if fallbacks == nil {
		fallbacks = NewFallbackTable(nil)
	}
	return &Cache{
		durable:   durable,
		local:     local,
		prober:    prober,
		fallbacks: fallbacks,
		ttl:       ttl,
		logger:    logger.With("component", "image_cache"),
		recorder:  recorder,
	}
}

// Get looks up a live, unexpired entry for the item name. The durable tier
// is consulted first; on a verified hit the entry is mirrored into the
// local tier. When the durable tier misses or is unavailable the local
// tier answers, under the same TTL and liveness rules. A stale or dead
// entry is evicted from both tiers and reported as a miss.
func (c *Cache) Get(ctx context.Context, itemName string) (Entry, bool) {
	key := Key(itemName)

	if c.durable != nil {
		entry, ok, err := c.durable.Lookup(ctx, key)
		switch {
		case err != nil:
			c.logger.WarnContext(ctx, "durable tier lookup failed, falling back to local tier",
				"key", key, "error", err)
		case ok:
			if c.usable(ctx, entry) {
				c.recorder.ObserveCacheLookup(tierDurable, metrics.CacheLookupHit)
				c.mirror(ctx, key, entry)
				return entry, true
			}
			c.recorder.ObserveCacheLookup(tierDurable, metrics.CacheLookupStale)
			c.evict(ctx, key)
			return Entry{}, false
		default:
			c.recorder.ObserveCacheLookup(tierDurable, metrics.CacheLookupMiss)
		}
	}

	entry, ok, err := c.local.Lookup(ctx, key)
	if err != nil || !ok {
		c.recorder.ObserveCacheLookup(tierLocal, metrics.CacheLookupMiss)
		return Entry{}, false
	}
	if !c.usable(ctx, entry) {
		c.recorder.ObserveCacheLookup(tierLocal, metrics.CacheLookupStale)
		_ = c.local.Delete(ctx, key)
		return Entry{}, false
	}
	c.recorder.ObserveCacheLookup(tierLocal, metrics.CacheLookupHit)
	return entry, true
}

// Put writes an entry through to the durable tier and mirrors it locally.
// A durable-tier write failure is logged and does not fail the call; the
// local mirror still succeeds.
func (c *Cache) Put(ctx context.Context, itemName, description, imageURL string) {
	key := Key(itemName)
	entry := Entry{
		ImageURL:    imageURL,
		ItemName:    itemName,
		Description: description,
		GeneratedAt: time.Now().UTC(),
	}

	if c.durable != nil {
		if err := c.durable.Store(ctx, key, entry, c.ttl); err != nil {
			c.recorder.ObserveCacheStore(tierDurable, false)
			c.logger.WarnContext(ctx, "durable tier store failed, keeping local mirror only",
				"key", key, "error", err)
		} else {
			c.recorder.ObserveCacheStore(tierDurable, true)
		}
	}

	if err := c.local.Store(ctx, key, entry, c.ttl); err != nil {
		c.recorder.ObserveCacheStore(tierLocal, false)
		c.logger.WarnContext(ctx, "local tier store failed", "key", key, "error", err)
		return
	}
	c.recorder.ObserveCacheStore(tierLocal, true)
}

// FallbackFor resolves the item name against the static keyword table,
// reporting whether a stock reference matched.
func (c *Cache) FallbackFor(itemName string) (string, bool) {
	return c.fallbacks.Resolve(itemName)
}

// usable applies the TTL and liveness rules to a stored entry.
func (c *Cache) usable(ctx context.Context, entry Entry) bool {
	if !entry.Fresh(time.Now(), c.ttl) {
		return false
	}
	if entry.ImageURL == "" {
		return false
	}
	return c.prober.Alive(ctx, entry.ImageURL)
}

// mirror copies a durable hit into the local tier with its remaining TTL.
func (c *Cache) mirror(ctx context.Context, key string, entry Entry) {
	remaining := c.ttl - time.Since(entry.GeneratedAt)
	if remaining <= 0 {
		return
	}
	if err := c.local.Store(ctx, key, entry, remaining); err != nil {
		c.logger.DebugContext(ctx, "local mirror failed", "key", key, "error", err)
	}
}

// evict removes a dead or expired entry from both tiers.
func (c *Cache) evict(ctx context.Context, key string) {
	if c.durable != nil {
		if err := c.durable.Delete(ctx, key); err != nil {
			c.logger.DebugContext(ctx, "durable evict failed", "key", key, "error", err)
		}
	}
	_ = c.local.Delete(ctx, key)
}

// Close releases both tiers.
func (c *Cache) Close(ctx context.Context) error {
	if c.durable != nil {
		if err := c.durable.Close(ctx); err != nil {
			return err
		}
	}
	return c.local.Close(ctx)
}
