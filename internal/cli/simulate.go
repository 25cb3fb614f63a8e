package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphflow/pkg/graph"
	"github.com/matzehuels/graphflow/pkg/layout/force"
	"github.com/matzehuels/graphflow/pkg/observability"
	"github.com/matzehuels/graphflow/pkg/pipeline"
)

// simulateCommand creates the simulate command for running the force
// engine live, with throttled snapshot delivery.
func (c *CLI) simulateCommand() *cobra.Command {
	var (
		output string
		watch  bool
		width  float64
		height float64
	)
	var tuning force.Config

	cmd := &cobra.Command{
		Use:   "simulate [graph.json]",
		Short: "Run the force-directed simulation on a graph",
		Long: `Run the force-directed simulation on a graph.

Unlike 'layout -a force', which blocks until convergence, simulate drives the
engine the way an interactive consumer would: one integration step per frame,
with intermediate snapshots delivered as the system cools. Snapshot progress
is logged, or rendered live with --watch. The settled positions are written
to a layout.json file.

Ctrl-C cancels the run; a cancelled run writes no output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSimulate(cmd.Context(), args[0], output, watch, width, height, tuning)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "render live convergence stats")
	cmd.Flags().Float64Var(&width, "width", pipeline.DefaultWidth, "frame width")
	cmd.Flags().Float64Var(&height, "height", pipeline.DefaultHeight, "frame height")
	cmd.Flags().Uint64Var(&tuning.Seed, "seed", 0, "scatter seed (0 = default)")
	cmd.Flags().IntVar(&tuning.Iterations, "iterations", 0, "iteration count (0 = default)")

	return cmd
}

// runSimulate loads the graph, runs the simulation to completion or
// cancellation, and writes the settled layout.
func (c *CLI) runSimulate(ctx context.Context, input, output string, watch bool, width, height float64, flagTuning force.Config) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	fileTuning, err := loadTuning(c.ConfigPath)
	if err != nil {
		return err
	}
	cfg := mergeTuning(fileTuning, flagTuning)

	if watch {
		return c.watchSimulation(ctx, g, width, height, cfg, outputPath(input, output))
	}

	prog := newProgress(c.Logger)

	type result struct {
		final []graph.Position
	}
	endCh := make(chan result, 1)

	ticks := 0
	start := time.Now()
	sim := force.Run(g.Nodes, g.Edges, width, height, force.Callbacks{
		OnTick: func(snap []graph.Position) {
			ticks++
			c.Logger.Debug("snapshot", "tick", ticks, "nodes", len(snap))
		},
		OnEnd: func(snap []graph.Position) {
			endCh <- result{final: snap}
		},
	}, cfg)

	observability.Simulation().OnSimulationStart(ctx, sim.RunID, g.NodeCount(), g.EdgeCount())
	c.Logger.Info("simulation started", "run", sim.RunID, "nodes", g.NodeCount(), "edges", g.EdgeCount())

	var final []graph.Position
	select {
	case <-ctx.Done():
		sim.Cancel()
		observability.Simulation().OnSimulationCancel(ctx, sim.RunID)
		printInfo("Simulation cancelled")
		return ctx.Err()
	case r := <-endCh:
		final = r.final
	}

	steps := cfg.Iterations
	if steps == 0 {
		steps = force.DefaultIterations
	}
	observability.Simulation().OnSimulationEnd(ctx, sim.RunID, steps, time.Since(start))

	prog.done(fmt.Sprintf("Settled %d nodes over %d snapshots", g.NodeCount(), ticks))

	out := outputPath(input, output)
	if err := writeSimulatedLayout(g, final, width, height, cfg, out); err != nil {
		return err
	}

	printSuccess("Simulation complete")
	printFile(out)
	printStats(g.NodeCount(), g.EdgeCount(), false)
	return nil
}

// outputPath derives the layout output path from the input file unless
// explicitly overridden.
func outputPath(input, output string) string {
	if output != "" {
		return output
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ".layout.json"
}

// writeSimulatedLayout wraps settled positions in the layout format and
// writes them to disk.
func writeSimulatedLayout(g graph.Graph, final []graph.Position, width, height float64, cfg force.Config, path string) error {
	positions := make(map[string]graph.Position, len(g.Nodes))
	for i, n := range g.Nodes {
		positions[n.ID] = final[i]
	}

	iterations := cfg.Iterations
	if iterations == 0 {
		iterations = force.DefaultIterations
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = force.DefaultSeed
	}

	l := graph.Layout{
		Algo:      graph.AlgoForce,
		Width:     width,
		Height:    height,
		Positions: positions,
		Steps:     iterations,
		Seed:      seed,
	}
	if err := graph.WriteLayoutFile(l, path); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
