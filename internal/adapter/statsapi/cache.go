package statsapi

import (
	"context"
	"fmt"
	"sync"

	"github.com/redhatsam09/planmyfest1/internal/domain"
	"github.com/redhatsam09/planmyfest1/internal/observability"
)

// CachedClient wraps an OddsClient with an in-memory LRU cache. Historical
// day-of-year odds for a location are stable within a session, so repeat
// queries (tab switches, re-exports) skip the backend.
type CachedClient struct {
	inner   domain.OddsClient
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedClient creates a cache decorator around an odds client.
func NewCachedClient(inner domain.OddsClient, maxEntries int, metrics *observability.Metrics) *CachedClient {
	return &CachedClient{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedClient) DayOfYearOdds(ctx context.Context, q domain.OddsQuery) (domain.OddsResult, error) {
	key := cacheKey(q)
	if result, ok := c.cache.get(key); ok {
		c.metrics.OddsCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.OddsCache.WithLabelValues("miss").Inc()
	result, err := c.inner.DayOfYearOdds(ctx, q)
	if err != nil {
		return result, err
	}
	// Only cache answers backed by samples so transient empty responses can
	// be retried.
	if result.NSamples > 0 {
		c.cache.put(key, result)
	}
	return result, nil
}

// cacheKey folds every query field that affects the backend's answer.
func cacheKey(q domain.OddsQuery) string {
	return fmt.Sprintf("%.4f,%.4f|%d-%d|%02d-%02d|%g/%g/%g",
		q.Latitude, q.Longitude,
		q.StartYear, q.EndYear,
		int(q.Month), q.Day,
		q.Thresholds.HotTempC, q.Thresholds.WindySpeedMS, q.Thresholds.HeavyRainMm,
	)
}

// lruCache is a small thread-safe LRU for odds results.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.OddsResult
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.OddsResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.OddsResult{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.OddsResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
