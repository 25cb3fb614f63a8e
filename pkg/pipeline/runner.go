package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphflow/pkg/cache"
	"github.com/matzehuels/graphflow/pkg/graph"
	"github.com/matzehuels/graphflow/pkg/observability"
)

// Runner encapsulates layout computation with caching.
// Both the CLI and the HTTP server use this to avoid duplicating cache
// logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely share one Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Close releases the cache backend.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// ComputeLayout validates options, computes the layout, and records
// stats. Results are cached; see ComputeLayoutWithCacheInfo for the hit
// flag.
func (r *Runner) ComputeLayout(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// ComputeLayoutWithCacheInfo computes the layout and reports whether it
// was served from cache.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Layout{}, false, fmt.Errorf("invalid options: %w", err)
	}
	if err := g.Validate(); err != nil {
		return graph.Layout{}, false, fmt.Errorf("invalid graph: %w", err)
	}

	key, cacheable := r.layoutKey(g, opts)
	if cacheable {
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			if l, err := graph.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				r.Logger.Debug("layout cache hit", "algo", opts.Algo, "nodes", g.NodeCount())
				return l, true, nil
			}
			// Corrupt entry: drop it and recompute.
			_ = r.Cache.Delete(ctx, key)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, opts.Algo, g.NodeCount())
	l := GenerateLayout(g, opts)
	elapsed := time.Since(start)
	observability.Layout().OnLayoutComplete(ctx, opts.Algo, elapsed, nil)

	r.Logger.Info("computed layout",
		"algo", opts.Algo,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", elapsed)

	if cacheable {
		if data, err := graph.MarshalLayout(l); err == nil {
			if err := r.Cache.Set(ctx, key, data, DefaultCacheTTL); err == nil {
				observability.Cache().OnCacheSet(ctx, "layout", len(data))
			} else {
				r.Logger.Debug("layout cache write failed", "err", err)
			}
		}
	}

	return l, false, nil
}

// layoutKey derives the cache key for this graph+options pair. Returns
// cacheable=false when caching is disabled for the invocation.
func (r *Runner) layoutKey(g graph.Graph, opts Options) (string, bool) {
	if opts.NoCache {
		return "", false
	}
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return "", false
	}
	keyOpts := cache.LayoutKeyOpts{
		Algo:   opts.Algo,
		Width:  opts.Width,
		Height: opts.Height,
	}
	if opts.Algo == graph.AlgoForce {
		keyOpts.Force = opts.Force
		keyOpts.Force.FrameInterval = 0
		keyOpts.Force.TickInterval = 0
	}
	return r.Keyer.LayoutKey(cache.Hash(data), keyOpts), true
}
