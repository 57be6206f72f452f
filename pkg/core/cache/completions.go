package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// CompletionCache caches completion candidates per sender and input line.
// Candidates depend on the sender's permissions, so the sender is part of
// the key.
type CompletionCache struct {
	cache *Cache
}

// NewCompletionCache creates a completion cache
func NewCompletionCache(maxItems int, ttl time.Duration) *CompletionCache {
	return &CompletionCache{
		cache: New(Config{MaxItems: maxItems, TTL: ttl, CleanupInterval: ttl}),
	}
}

// Get returns cached candidates for sender and line
func (c *CompletionCache) Get(sender, line string) ([]string, bool) {
	val, ok := c.cache.Get(completionKey(sender, line))
	if !ok {
		return nil, false
	}
	candidates, ok := val.([]string)
	return candidates, ok
}

// Set stores candidates for sender and line
func (c *CompletionCache) Set(sender, line string, candidates []string) {
	c.cache.Set(completionKey(sender, line), append([]string(nil), candidates...))
}

// Complete returns cached candidates or computes and stores them
func (c *CompletionCache) Complete(sender, line string, compute func() []string) []string {
	if cached, ok := c.Get(sender, line); ok {
		return cached
	}
	candidates := compute()
	c.Set(sender, line, candidates)
	return candidates
}

// Invalidate drops every cached entry, e.g. after commands changed
func (c *CompletionCache) Invalidate() {
	c.cache.Clear()
}

// Stats returns hit and miss counters
func (c *CompletionCache) Stats() (hits, misses int64, hitRate float64) {
	return c.cache.Stats()
}

// Close stops background cleanup
func (c *CompletionCache) Close() {
	c.cache.Close()
}

// completionKey hashes sender and line so arbitrary input keeps keys short
func completionKey(sender, line string) string {
	h := sha256.New()
	h.Write([]byte(sender))
	h.Write([]byte{0})
	h.Write([]byte(line))
	return hex.EncodeToString(h.Sum(nil))
}
