package leash

import (
	"context"

	"github.com/pawhub/leash/cache"
)

// DecisionCache provides caching for authorization decisions. Keys are
// canonical structural strings combining subject, permission, and lookup
// key, so equal checks hit equal entries.
type DecisionCache interface {
	// Get returns a cached decision, if available.
	Get(ctx context.Context, key string) (Decision, bool)

	// Set stores a decision in the cache.
	Set(ctx context.Context, key string, d Decision)

	// InvalidateUser removes all cached decisions for a user.
	InvalidateUser(ctx context.Context, userID string)
}

// memoryDecisionCache adapts the TTL memory cache to DecisionCache.
type memoryDecisionCache struct {
	inner *cache.Memory
}

// NewMemoryDecisionCache creates an in-memory decision cache.
func NewMemoryDecisionCache(opts ...cache.Option) DecisionCache {
	return &memoryDecisionCache{inner: cache.NewMemory(opts...)}
}

func (c *memoryDecisionCache) Get(_ context.Context, key string) (Decision, bool) {
	v, ok := c.inner.Get(key)
	if !ok {
		return Decision{}, false
	}
	d, ok := v.(Decision)
	return d, ok
}

func (c *memoryDecisionCache) Set(_ context.Context, key string, d Decision) {
	c.inner.Set(key, d)
}

func (c *memoryDecisionCache) InvalidateUser(_ context.Context, userID string) {
	c.inner.InvalidatePrefix(decisionKeyPrefix(userID))
}
