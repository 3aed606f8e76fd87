// Package service orchestrates rating runs, probability lookups and market
// analysis on top of the calculation packages.
package service

import (
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/courtside/internal/metrics"
)

// RatingsKey identifies one rating run configuration
type RatingsKey struct {
	Season          string
	Policy          string
	HomeCourt       bool
	HomeCourtBonus  float64
	MarginOfVictory bool
	PlayoffK        float64
	InitialRating   float64
	WindowStart     time.Time
	WindowEnd       time.Time
}

// String returns string representation of cache key
func (k RatingsKey) String() string {
	return fmt.Sprintf("%s:%s:hc=%t/%g:mov=%t:pk=%g:init=%g:%d-%d",
		k.Season, k.Policy, k.HomeCourt, k.HomeCourtBonus, k.MarginOfVictory,
		k.PlayoffK, k.InitialRating, k.WindowStart.Unix(), k.WindowEnd.Unix())
}

// RatingsCache keeps recent rating reports in memory. Reports are shared
// between callers and must not be modified once stored.
type RatingsCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewRatingsCache creates a cache whose entries live for ttl. A zero ttl
// disables caching.
func NewRatingsCache(ttl time.Duration) *RatingsCache {
	return &RatingsCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Enabled reports whether entries are retained at all
func (rc *RatingsCache) Enabled() bool {
	return rc != nil && rc.ttl > 0
}

// Get retrieves a cached report
func (rc *RatingsCache) Get(key RatingsKey) (*RatingsReport, bool) {
	if !rc.Enabled() {
		return nil, false
	}

	result, found := rc.cache.Get(key.String())
	report, ok := result.(*RatingsReport)
	hit := found && ok

	rc.mu.Lock()
	if hit {
		rc.hitCount++
	} else {
		rc.missCount++
	}
	rc.mu.Unlock()

	metrics.RecordCacheLookup(hit)
	return report, hit
}

// Set stores a report
func (rc *RatingsCache) Set(key RatingsKey, report *RatingsReport) {
	if !rc.Enabled() {
		return
	}
	rc.cache.Set(key.String(), report, rc.ttl)
}

// Purge drops expired entries and returns how many remain
func (rc *RatingsCache) Purge() int {
	if !rc.Enabled() {
		return 0
	}
	rc.cache.DeleteExpired()
	return rc.cache.ItemCount()
}

// Clear flushes the entire cache and returns how many entries were removed
func (rc *RatingsCache) Clear() int {
	if rc == nil {
		return 0
	}
	removed := rc.cache.ItemCount()
	rc.cache.Flush()

	rc.mu.Lock()
	rc.hitCount = 0
	rc.missCount = 0
	rc.mu.Unlock()
	return removed
}

// Stats returns cache statistics
func (rc *RatingsCache) Stats() (hits, misses uint64, ratio float64) {
	if rc == nil {
		return 0, 0, 0
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	hits = rc.hitCount
	misses = rc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (rc *RatingsCache) ItemCount() int {
	if rc == nil {
		return 0
	}
	return rc.cache.ItemCount()
}
