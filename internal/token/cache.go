package token

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedEstimator memoizes the counts of another Estimator.
// The segmenter estimates the same accumulated candidates many times, and
// exact BPE encoding of multi-thousand-character strings is not free.
// Safe for concurrent use.
type CachedEstimator struct {
	inner Estimator
	cache *lru.Cache[string, int]
}

// NewCachedEstimator wraps inner with an LRU cache holding up to size entries.
func NewCachedEstimator(inner Estimator, size int) (*CachedEstimator, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, int](size)
	if err != nil {
		return nil, fmt.Errorf("create token cache: %w", err)
	}
	return &CachedEstimator{inner: inner, cache: cache}, nil
}

// Count returns the cached count for text, computing it on a miss.
func (c *CachedEstimator) Count(text string) int {
	if text == "" {
		return 0
	}
	if n, ok := c.cache.Get(text); ok {
		return n
	}
	n := c.inner.Count(text)
	c.cache.Add(text, n)
	return n
}

// Name returns the wrapped estimator's name.
func (c *CachedEstimator) Name() string {
	return c.inner.Name()
}

// Len reports how many counts are cached.
func (c *CachedEstimator) Len() int {
	return c.cache.Len()
}
