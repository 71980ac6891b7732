package gora

import (
	"sync"
	"time"
)

// DefaultDetailTTL is how long a fetched detail record is reused.
const DefaultDetailTTL = 24 * time.Hour

// DetailCache keeps detail records keyed by course id with a TTL. Safe for concurrent use.
type DetailCache struct {
	mu       sync.Mutex
	details  map[string]*CourseDetail
	cachedAt map[string]time.Time
	ttl      time.Duration
	now      func() time.Time
}

// NewDetailCache creates a cache; a non-positive ttl selects DefaultDetailTTL.
func NewDetailCache(ttl time.Duration) *DetailCache {
	if ttl <= 0 {
		ttl = DefaultDetailTTL
	}
	return &DetailCache{
		details:  make(map[string]*CourseDetail),
		cachedAt: make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the cached detail for id, or nil when missing or expired.
func (c *DetailCache) Get(id string) *CourseDetail {
	c.mu.Lock()
	defer c.mu.Unlock()

	id = NormalizeCourseID(id)
	detail, ok := c.details[id]
	if !ok {
		return nil
	}

	if c.now().Sub(c.cachedAt[id]) > c.ttl {
		delete(c.details, id)
		delete(c.cachedAt, id)
		return nil
	}
	return detail
}

// Set stores detail under id. Nil details are not cached.
func (c *DetailCache) Set(id string, detail *CourseDetail) {
	if detail == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	id = NormalizeCourseID(id)
	c.details[id] = detail
	c.cachedAt[id] = c.now()
}

// CleanExpired removes expired entries and returns how many were removed.
func (c *DetailCache) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for id, at := range c.cachedAt {
		if now.Sub(at) > c.ttl {
			delete(c.details, id)
			delete(c.cachedAt, id)
			removed++
		}
	}
	return removed
}

// Size returns the number of cached entries.
func (c *DetailCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.details)
}
