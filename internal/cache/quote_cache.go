package cache

import (
	"sync"
	"time"

	"github.com/tmarchand/folio/internal/oracle"
)

// QuoteCache is a small in-memory TTL cache in front of the oracle, so a
// manual fetch right after a capture cycle does not re-hit the API.
type QuoteCache struct {
	mu      sync.RWMutex
	entries map[string]quoteEntry
	ttl     time.Duration
}

type quoteEntry struct {
	quote     oracle.Quote
	fetchedAt time.Time
}

// NewQuoteCache creates a new QuoteCache with the given freshness window
func NewQuoteCache(ttl time.Duration) *QuoteCache {
	return &QuoteCache{
		entries: make(map[string]quoteEntry),
		ttl:     ttl,
	}
}

// Get retrieves a cached quote if still fresh
func (c *QuoteCache) Get(symbol string) (oracle.Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[symbol]
	if !exists || time.Since(entry.fetchedAt) > c.ttl {
		return oracle.Quote{}, false
	}
	return entry.quote, true
}

// Set caches a quote
func (c *QuoteCache) Set(symbol string, q oracle.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[symbol] = quoteEntry{quote: q, fetchedAt: time.Now()}
}

// Clear removes all cached quotes
func (c *QuoteCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]quoteEntry)
}
