package matcher

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// cache memoizes Best by log line text, bounded at a fixed capacity
// (constants.MatchCacheSize) and deduplicated across concurrent
// lookups of the same key via singleflight, the Go analogue of
// original_source/src/log_search.rs's moka SEARCH_CACHE and its
// cache.get_with. A stored nil *LogMatch is a legitimate memoized
// "no match in corpus" result, distinct from a cache miss.
type cache struct {
	entries *lru.Cache[string, *LogMatch]
	group   singleflight.Group
}

func newCache(size int) *cache {
	entries, err := lru.New[string, *LogMatch](size)
	if err != nil {
		// Only returned by golang-lru for size <= 0, which never
		// happens with constants.MatchCacheSize.
		panic(err)
	}
	return &cache{entries: entries}
}

func (c *cache) getOrCompute(key string, compute func() (*LogMatch, error)) (*LogMatch, error) {
	if v, ok := c.entries.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if v, ok := c.entries.Get(key); ok {
			return v, nil
		}
		match, computeErr := compute()
		if computeErr != nil {
			return nil, computeErr
		}
		c.entries.Add(key, match)
		return match, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*LogMatch), nil
}
