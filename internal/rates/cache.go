package rates

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched table is considered fresh.
const DefaultTTL = 1800 * time.Second

// Cache serves the current rate table, refreshing from the source when the
// cached copy is older than the TTL. Concurrent refreshes collapse into a
// single outbound fetch.
type Cache struct {
	source     Source
	ttl        time.Duration
	serveStale bool
	logger     *slog.Logger

	group singleflight.Group

	mu       sync.RWMutex
	table    Table
	hasTable bool
}

// CacheOption customizes cache behaviour.
type CacheOption func(*Cache)

// WithServeStale makes the cache return the last good table when a refresh
// fails instead of reporting ErrUnavailable. The default is to fail closed.
func WithServeStale() CacheOption {
	return func(c *Cache) { c.serveStale = true }
}

// NewCache builds a rate cache over the given source. A non-positive ttl
// falls back to DefaultTTL.
func NewCache(source Source, ttl time.Duration, logger *slog.Logger, opts ...CacheOption) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{source: source, ttl: ttl, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rates returns the cached table when fresh, otherwise refreshes it. All
// callers that arrive during a refresh share the same fetch and receive the
// same table.
func (c *Cache) Rates(ctx context.Context) (Table, error) {
	if table, ok := c.fresh(); ok {
		return table, nil
	}

	v, err, _ := c.group.Do("rates", func() (any, error) {
		// Another caller may have completed the refresh while this one was
		// queued on the flight group.
		if table, ok := c.fresh(); ok {
			return table, nil
		}

		// The fetch is shared by every coalesced caller, so it must not die
		// with whichever request happened to initiate it. The source's own
		// timeout still bounds it.
		table, err := c.source.Fetch(context.WithoutCancel(ctx))
		if err != nil {
			// A failed refresh never advances the cached timestamp.
			c.mu.RLock()
			stale, hasStale := c.table, c.hasTable
			c.mu.RUnlock()

			if c.serveStale && hasStale {
				c.logger.Warn("rate refresh failed, serving stale table",
					slog.Time("fetched_at", stale.FetchedAt),
					slog.Any("error", err))
				return stale, nil
			}
			return Table{}, err
		}

		c.mu.Lock()
		c.table = table
		c.hasTable = true
		c.mu.Unlock()

		c.logger.Info("rate table refreshed", slog.Int("currencies", len(table.Rates)))
		return table, nil
	})
	if err != nil {
		return Table{}, err
	}
	return v.(Table), nil
}

func (c *Cache) fresh() (Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.hasTable && time.Since(c.table.FetchedAt) < c.ttl {
		return c.table, true
	}
	return Table{}, false
}
