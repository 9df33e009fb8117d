// Package cache holds recent search responses so repeated queries skip the
// engines entirely. Entries are keyed by the full query shape and expire
// after a fixed TTL.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nostalgiatan/see/models"
)

const (
	defaultMaxEntries = 1000
	defaultTTL        = 10 * time.Minute
	cleanupInterval   = 5 * time.Minute
)

// entry holds a cached response with its creation timestamp.
type entry struct {
	response  *models.SearchResponse
	createdAt time.Time
}

// Cache is an in-memory TTL cache for search responses. It is safe for
// concurrent use and counts hits and misses for the stats endpoint.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	ttl        time.Duration

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates a Cache bounded to maxEntries with the given TTL.
// Non-positive arguments fall back to the defaults. A background goroutine
// evicts expired entries for the lifetime of the process.
func New(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}

	go c.cleanupLoop()
	return c
}

// Key generates a cache key from everything that shapes a response: the
// engine, the query text, the page and the result cap.
func Key(engine, query string, page, maxResults int) string {
	h := sha256.New()
	h.Write([]byte(engine))
	h.Write([]byte("|"))
	h.Write([]byte(query))
	h.Write([]byte("|"))
	h.Write([]byte(strconv.Itoa(page)))
	h.Write([]byte("|"))
	h.Write([]byte(strconv.Itoa(maxResults)))
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached response if it exists and has not expired.
// Every call lands on the hit or miss counter.
func (c *Cache) Get(key string) (*models.SearchResponse, bool) {
	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok || time.Since(e.createdAt) > c.ttl {
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return e.response, true
}

// Set stores a response. If the cache is at capacity, a random entry is
// evicted to make room (map iteration order is random in Go). Nil responses
// are not stored.
func (c *Cache) Set(key string, resp *models.SearchResponse) {
	if resp == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry{
		response:  resp,
		createdAt: time.Now(),
	}
}

// Clear drops every entry and returns how many were removed. The hit and
// miss counters are left running.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.store)
	c.store = make(map[string]*entry)
	return n
}

// Len reports the current number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Stats reports lifetime hit and miss counts alongside the entry count.
func (c *Cache) Stats() (hits, misses uint64, entries int) {
	return c.hits.Load(), c.misses.Load(), c.Len()
}

// cleanupLoop evicts expired entries on a fixed interval so abandoned keys
// do not pin memory until capacity eviction reaches them.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-c.ttl)
		c.mu.Lock()
		for k, e := range c.store {
			if e.createdAt.Before(cutoff) {
				delete(c.store, k)
			}
		}
		c.mu.Unlock()
	}
}
