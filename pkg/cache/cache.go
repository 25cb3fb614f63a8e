// Package cache provides TTL-based caching of computed layouts.
//
// Layout computation is pure: the same graph, algorithm, and options
// always produce the same positions (force runs included, since the
// scatter seed is part of the options). That makes results safe to
// memoize keyed by a hash of the inputs. Entries expire and can be
// dropped at any time - the cache is never the authority for anything.
//
// Three backends are provided: [FileCache] for CLI usage, [RedisCache]
// for multi-instance serving, and [NullCache] to disable caching.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/graphflow/pkg/layout/force"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found
	// and unexpired; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A zero ttl means no
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the pipeline's cacheable artifacts.
type Keyer interface {
	// LayoutKey generates a key for a computed layout, derived from the
	// graph hash and every option that affects positions.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts captures the options that make a layout distinct.
// Any field that changes output positions must appear here. For the
// force algorithm that includes the full tuning config, seed included;
// scheduling-only fields (frame interval, tick interval) change timing
// but never positions, and are zeroed by the caller before keying.
type LayoutKeyOpts struct {
	Algo   string
	Width  float64
	Height float64
	Force  force.Config
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, e.g.
// separating cache entries per deployment or per user.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}
