package service

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/podium-picks/internal/metrics"
)

// Cache entry kinds
const (
	kindRoundScores    = "round_scores"
	kindSeason         = "season_standings"
	kindUserSeason     = "user_season"
	kindSeasonPicks    = "season_picks"
	kindRaceProjection = "race_projection"
	kindChampionship   = "championship"
)

// CacheKey identifies a cached result by (season, round, user).
// Round 0 marks season-wide results; an empty user marks results for every user.
// AsOf is the last round whose results fed the computation, 0 when it does not apply.
type CacheKey struct {
	Kind   string
	Season int
	Round  int
	AsOf   int
	User   string
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%d:%d:%d:%s", k.Kind, k.Season, k.Round, k.AsOf, k.User)
}

// seasonOf parses the season back out of a key string
func seasonOf(key string) (int, bool) {
	parts := strings.SplitN(key, ":", 4)
	if len(parts) < 4 {
		return 0, false
	}
	season, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return season, true
}

// ResultCache provides in-memory caching for computed standings and projections
type ResultCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewResultCache creates a new result cache
func NewResultCache(ttl, cleanupInterval time.Duration) *ResultCache {
	return &ResultCache{
		cache: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Get retrieves a cached result
func (rc *ResultCache) Get(key CacheKey) (any, bool) {
	value, found := rc.cache.Get(key.String())

	rc.mu.Lock()
	if found {
		rc.hitCount++
	} else {
		rc.missCount++
	}
	rc.mu.Unlock()

	rc.updateMetrics()
	return value, found
}

// Set stores a result in cache
func (rc *ResultCache) Set(key CacheKey, value any) {
	rc.cache.Set(key.String(), value, rc.ttl)
}

// InvalidateSeason removes every entry computed for a season
func (rc *ResultCache) InvalidateSeason(season int) int {
	removed := 0
	for k := range rc.cache.Items() {
		if s, ok := seasonOf(k); ok && s == season {
			rc.cache.Delete(k)
			removed++
		}
	}
	return removed
}

// Clear flushes the entire cache
func (rc *ResultCache) Clear() {
	rc.cache.Flush()

	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.hitCount = 0
	rc.missCount = 0
}

// Stats returns cache statistics
func (rc *ResultCache) Stats() (hits, misses uint64, ratio float64) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	hits = rc.hitCount
	misses = rc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (rc *ResultCache) ItemCount() int {
	return rc.cache.ItemCount()
}

func (rc *ResultCache) updateMetrics() {
	_, _, ratio := rc.Stats()
	metrics.UpdateCacheHitRatio(ratio)
}

// cached returns the cached value for key or computes and stores it.
// A nil cache always computes.
func cached[T any](rc *ResultCache, key CacheKey, compute func() (T, error)) (T, error) {
	if rc != nil {
		if v, ok := rc.Get(key); ok {
			if typed, ok := v.(T); ok {
				return typed, nil
			}
		}
	}

	value, err := compute()
	if err != nil {
		return value, err
	}
	if rc != nil {
		rc.Set(key, value)
	}
	return value, nil
}
