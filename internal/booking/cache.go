package booking

import (
	"context"
	"sync"
	"time"

	"github.com/example/hotel-booking-workflow/internal/obs"
)

type locationEntry struct {
	val     []Location
	expiry  time.Time
	ready   bool
	waiters []chan locationsOrErr
}

type locationsOrErr struct {
	locs []Location
	err  error
}

// locationCache memoizes city lookups per fragment with a TTL and
// collapses concurrent lookups for the same fragment into one supplier
// call.
type locationCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	items   map[string]*locationEntry
	metrics *obs.Metrics
}

func newLocationCache(ttl time.Duration, m *obs.Metrics) *locationCache {
	return &locationCache{ttl: ttl, items: make(map[string]*locationEntry), metrics: m}
}

func (c *locationCache) getOrFetch(ctx context.Context, key string, fn func(ctx context.Context) ([]Location, error)) ([]Location, error) {
	c.mu.Lock()
	entry, found := c.items[key]
	now := time.Now()

	if found && entry.ready && now.Before(entry.expiry) {
		val := entry.val
		c.mu.Unlock()
		if c.metrics != nil {
			c.metrics.IncLocationCacheHits()
		}
		return val, nil
	}

	// Lookup in flight for this fragment: join its waiters.
	if found && !entry.ready {
		ch := make(chan locationsOrErr, 1)
		entry.waiters = append(entry.waiters, ch)
		c.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case r := <-ch:
			return r.locs, r.err
		}
	}

	entry = &locationEntry{}
	c.items[key] = entry
	c.mu.Unlock()

	locs, err := fn(ctx)

	c.mu.Lock()
	if err != nil {
		// Failed lookups are not cached.
		delete(c.items, key)
	} else {
		entry.val = locs
		entry.expiry = now.Add(c.ttl)
		entry.ready = true
	}
	waiters := entry.waiters
	entry.waiters = nil
	c.mu.Unlock()

	for _, w := range waiters {
		w <- locationsOrErr{locs: locs, err: err}
		close(w)
	}

	return locs, err
}
