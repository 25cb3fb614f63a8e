package pipeline

import (
	"github.com/matzehuels/graphflow/pkg/graph"
	"github.com/matzehuels/graphflow/pkg/layout"
	"github.com/matzehuels/graphflow/pkg/layout/force"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout computes positions for the graph with the selected
// algorithm and wraps them in the serialization format. Options must
// already be validated; callers normally go through Runner, which also
// handles caching.
func GenerateLayout(g graph.Graph, opts Options) graph.Layout {
	l := graph.Layout{
		Algo:      opts.Algo,
		Width:     opts.Width,
		Height:    opts.Height,
		Positions: make(map[string]graph.Position, len(g.Nodes)),
	}

	switch opts.Algo {
	case graph.AlgoRadial:
		l.Positions = layout.Radial(g.Nodes, g.Edges, opts.Width, opts.Height)
	case graph.AlgoForce:
		cfg := opts.Force
		if cfg.Seed == 0 {
			cfg.Seed = force.DefaultSeed
		}
		if cfg.Iterations == 0 {
			cfg.Iterations = force.DefaultIterations
		}
		positions := force.Converge(g.Nodes, g.Edges, opts.Width, opts.Height, cfg)
		for i, n := range g.Nodes {
			l.Positions[n.ID] = positions[i]
		}
		l.Steps = cfg.Iterations
		l.Seed = cfg.Seed
	default:
		l.Positions = layout.Layered(g.Nodes, g.Edges, opts.Width, opts.Height)
	}

	return l
}
