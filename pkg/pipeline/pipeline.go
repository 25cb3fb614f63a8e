// Package pipeline provides the core layout pipeline for graphflow.
//
// This package implements the load → layout → export flow shared by the
// CLI and the HTTP surface. By centralizing this logic, both entry points
// behave identically: same defaults, same validation, same caching.
//
// # Architecture
//
// The pipeline has one computational stage - layout - wrapped with input
// validation and result caching. Static layouts (layered, radial) run
// synchronously; the force algorithm runs to convergence via the engine's
// blocking entry point, with its seed recorded so the result is
// reproducible and cacheable.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Algo: graph.AlgoRadial}
//	l, err := runner.ComputeLayout(ctx, g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	graph.WriteLayoutFile(l, "out.layout.json")
package pipeline

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphflow/pkg/errors"
	"github.com/matzehuels/graphflow/pkg/graph"
	"github.com/matzehuels/graphflow/pkg/layout/force"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and HTTP
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 600.0

	// DefaultCacheTTL is how long computed layouts stay cached.
	DefaultCacheTTL = 24 * time.Hour
)

// DefaultAlgo is the default layout algorithm.
const DefaultAlgo = graph.AlgoLayered

// Options configures one pipeline invocation.
type Options struct {
	// Algo selects the layout algorithm: layered, radial, or force.
	Algo string

	// Width and Height are the frame dimensions.
	Width  float64
	Height float64

	// Force tunes the force engine; zero fields use engine defaults.
	// Ignored by the static algorithms.
	Force force.Config

	// NoCache disables cache lookup and storage for this invocation.
	NoCache bool

	// Logger receives progress output. Defaults to log.Default().
	Logger *log.Logger
}

// ValidateAndSetDefaults validates options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Algo == "" {
		o.Algo = DefaultAlgo
	}
	if !graph.ValidAlgos[o.Algo] {
		return errors.New(errors.ErrCodeInvalidAlgo, "unknown layout algorithm: %s", o.Algo)
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Width < 0 || o.Height < 0 ||
		math.IsNaN(o.Width) || math.IsNaN(o.Height) ||
		math.IsInf(o.Width, 0) || math.IsInf(o.Height, 0) {
		return errors.New(errors.ErrCodeInvalidDimensions, "frame dimensions must be finite and positive: %gx%g", o.Width, o.Height)
	}

	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return nil
}

// Stats captures timing and size information for one pipeline run.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	CacheHit   bool
}
