package spotify

import (
	"container/list"
	"sync"
	"time"
)

// CacheStats holds cache statistics.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	MaxSize   int
	HitRate   float64
}

// cacheEntry represents a single cache entry.
type cacheEntry struct {
	key       string
	value     interface{}
	expiresAt time.Time
}

// ResponseCache is a thread-safe TTL cache with LRU eviction for API
// responses. Batch runs are short-lived, so expired entries are swept on
// insertion rather than by a background goroutine.
type ResponseCache struct {
	mu        sync.Mutex
	entries   map[string]*list.Element
	order     *list.List // front = most recently used
	maxSize   int
	ttl       time.Duration
	hits      int64
	misses    int64
	evictions int64
}

// NewResponseCache creates a new response cache.
func NewResponseCache(maxSize, ttlSeconds int) *ResponseCache {
	return &ResponseCache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		maxSize: maxSize,
		ttl:     time.Duration(ttlSeconds) * time.Second,
	}
}

// Get retrieves a value from the cache.
// Returns nil if not found or expired.
func (c *ResponseCache) Get(key string) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil
	}

	entry := elem.Value.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.order.Remove(elem)
		delete(c.entries, key)
		c.misses++
		return nil
	}

	c.order.MoveToFront(elem)
	c.hits++
	return entry.value
}

// Set stores a value in the cache, evicting the least recently used entries
// when full.
func (c *ResponseCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.value = value
		entry.expiresAt = now.Add(c.ttl)
		c.order.MoveToFront(elem)
		return
	}

	c.sweepExpired(now)
	for len(c.entries) >= c.maxSize && c.maxSize > 0 {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
		c.evictions++
	}

	entry := &cacheEntry{key: key, value: value, expiresAt: now.Add(c.ttl)}
	c.entries[key] = c.order.PushFront(entry)
}

// sweepExpired removes expired entries. Caller must hold the lock.
func (c *ResponseCache) sweepExpired(now time.Time) {
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		entry := elem.Value.(*cacheEntry)
		if now.After(entry.expiresAt) {
			c.order.Remove(elem)
			delete(c.entries, entry.key)
		}
		elem = prev
	}
}

// Clear removes all entries from the cache.
func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order = list.New()
}

// Size returns the current number of entries.
func (c *ResponseCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *ResponseCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return CacheStats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      len(c.entries),
		MaxSize:   c.maxSize,
		HitRate:   hitRate,
	}
}
