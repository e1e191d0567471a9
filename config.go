package leash

import (
	"time"

	"github.com/pawhub/leash/query"
)

// Config holds configuration for the Leash engine.
type Config struct {
	// DefaultPageSize is applied when a lookup requests no page size.
	// Defaults to 20.
	DefaultPageSize int `json:"default_page_size,omitempty"`

	// MaxPageSize caps requested page sizes. Defaults to 100.
	MaxPageSize int `json:"max_page_size,omitempty"`

	// RelationFetchLimit caps the number of related documents loaded per
	// relation per projection pass. Defaults to 500.
	RelationFetchLimit int `json:"relation_fetch_limit,omitempty"`

	// MaxProjectionDepth bounds relation recursion during projection.
	// Defaults to 8.
	MaxProjectionDepth int `json:"max_projection_depth,omitempty"`

	// ScopeCacheTTL is the time-to-live for resolved scope filters.
	// Defaults to 5 minutes.
	ScopeCacheTTL time.Duration `json:"scope_cache_ttl,omitempty"`

	// DecisionCacheTTL is the time-to-live for cached decisions.
	// Zero disables decision caching.
	DecisionCacheTTL time.Duration `json:"decision_cache_ttl,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultPageSize:    20,
		MaxPageSize:        100,
		RelationFetchLimit: 500,
		MaxProjectionDepth: 8,
		ScopeCacheTTL:      5 * time.Minute,
		DecisionCacheTTL:   30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = d.DefaultPageSize
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = d.MaxPageSize
	}
	if c.RelationFetchLimit <= 0 {
		c.RelationFetchLimit = d.RelationFetchLimit
	}
	if c.MaxProjectionDepth <= 0 {
		c.MaxProjectionDepth = d.MaxProjectionDepth
	}
	if c.ScopeCacheTTL <= 0 {
		c.ScopeCacheTTL = d.ScopeCacheTTL
	}
	return c
}

// Limits returns the query paging bounds derived from the config.
func (c Config) Limits() query.Limits {
	return query.Limits{DefaultPageSize: c.DefaultPageSize, MaxPageSize: c.MaxPageSize}
}
