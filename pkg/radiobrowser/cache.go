package radiobrowser

import (
	"sync"
	"time"

	"github.com/zachfi/stationgo/pkg/station"
)

type cacheEntry struct {
	stations []station.Base
	at       time.Time
}

// cache holds successful directory responses keyed by request URL.
type cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func newCache(ttl time.Duration) *cache {
	return &cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *cache) get(key string) ([]station.Base, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.at) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return cloneAll(e.stations), true
}

func (c *cache) set(key string, stations []station.Base) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.at) >= c.ttl {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{stations: cloneAll(stations), at: now}
}

func (c *cache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func cloneAll(in []station.Base) []station.Base {
	out := make([]station.Base, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
