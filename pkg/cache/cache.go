// Package cache stores rendered network artifacts between runs.
//
// Rendering through Graphviz and rsvg-convert dominates the cost of a run,
// while the DOT text fully determines the output. Artifacts are therefore
// keyed by a hash of the DOT source plus the output format.
//
//	c, err := cache.NewFileCache(dir)
//	key := cache.NewKeyer("v1").ArtifactKey(dot, cache.ArtifactOpts{Format: "png", Scale: 2})
//	if data, ok, _ := c.Get(ctx, key); ok { ... }
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
