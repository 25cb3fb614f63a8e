package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/graphflow/pkg/graph"
	"github.com/matzehuels/graphflow/pkg/layout/force"
	"github.com/matzehuels/graphflow/pkg/observability"
)

// =============================================================================
// Watch - Live Convergence View
// =============================================================================

// snapshotMsg carries one throttled snapshot from the simulation into
// the bubbletea event loop.
type snapshotMsg struct {
	positions []graph.Position
	final     bool
}

// runStartedMsg delivers the run ID once the simulation goroutine is up.
type runStartedMsg struct {
	runID string
}

// watchModel is the bubbletea model showing a force run settling in
// real time: snapshot count, mean node displacement since the previous
// snapshot, and a progress bar over the expected snapshot total.
type watchModel struct {
	runID     string
	nodeCount int
	edgeCount int

	ticks         int
	expectedTicks int
	displacement  float64 // mean per-node movement between snapshots
	prev          []graph.Position

	done      bool
	cancelled bool
	final     []graph.Position
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
	case runStartedMsg:
		m.runID = msg.runID
	case snapshotMsg:
		m.displacement = meanDisplacement(m.prev, msg.positions)
		m.prev = msg.positions
		if msg.final {
			// The settled state was already counted by the last regular
			// snapshot; counting it again would overshoot the bar.
			m.done = true
			m.final = msg.positions
			return m, tea.Quit
		}
		m.ticks++
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Force Simulation"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("run %s  ·  %d nodes  ·  %d edges  ·  q to cancel", m.runID, m.nodeCount, m.edgeCount)))
	b.WriteString("\n\n")

	b.WriteString(progressBar(m.ticks, m.expectedTicks, 40))
	b.WriteString("\n\n")

	b.WriteString(StyleDim.Render("snapshots  "))
	b.WriteString(StyleNumber.Render(fmt.Sprintf("%d", m.ticks)))
	b.WriteString(StyleDim.Render("   mean drift  "))
	b.WriteString(StyleNumber.Render(fmt.Sprintf("%.3f", m.displacement)))
	b.WriteString("\n")

	switch {
	case m.done:
		b.WriteString("\n")
		b.WriteString(StyleSuccess.Render("settled"))
		b.WriteString("\n")
	case m.cancelled:
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render("cancelling"))
		b.WriteString("\n")
	}

	return b.String()
}

// progressBar renders a fixed-width bar over the expected snapshot
// count, saturating rather than overflowing.
func progressBar(current, total, width int) string {
	if total <= 0 {
		total = 1
	}
	filled := current * width / total
	if filled > width {
		filled = width
	}
	return StyleNumber.Render(strings.Repeat("█", filled)) + StyleDim.Render(strings.Repeat("░", width-filled))
}

// meanDisplacement returns the average distance nodes moved between two
// index-aligned snapshots.
func meanDisplacement(prev, curr []graph.Position) float64 {
	if len(prev) != len(curr) || len(curr) == 0 {
		return 0
	}
	sum := 0.0
	for i := range curr {
		sum += math.Hypot(curr[i].X-prev[i].X, curr[i].Y-prev[i].Y)
	}
	return sum / float64(len(curr))
}

// watchSimulation runs the simulation under a live TUI. Cancelling the
// view (q / ctrl-c) cancels the run and writes no output.
func (c *CLI) watchSimulation(ctx context.Context, g graph.Graph, width, height float64, cfg force.Config, out string) error {
	effective := cfg
	if effective.Iterations == 0 {
		effective.Iterations = force.DefaultIterations
	}
	if effective.TickInterval == 0 {
		effective.TickInterval = force.DefaultTickInterval
	}

	model := watchModel{
		nodeCount:     g.NodeCount(),
		edgeCount:     g.EdgeCount(),
		expectedTicks: effective.Iterations/effective.TickInterval + 1,
	}

	p := tea.NewProgram(model, tea.WithContext(ctx))

	start := time.Now()
	sim := force.Run(g.Nodes, g.Edges, width, height, force.Callbacks{
		OnTick: func(snap []graph.Position) {
			p.Send(snapshotMsg{positions: snap})
		},
		OnEnd: func(snap []graph.Position) {
			p.Send(snapshotMsg{positions: snap, final: true})
		},
	}, cfg)
	go p.Send(runStartedMsg{runID: sim.RunID})

	observability.Simulation().OnSimulationStart(ctx, sim.RunID, g.NodeCount(), g.EdgeCount())

	finalModel, err := p.Run()
	if err != nil {
		sim.Cancel()
		return fmt.Errorf("watch ui: %w", err)
	}

	m := finalModel.(watchModel)
	if !m.done {
		sim.Cancel()
		observability.Simulation().OnSimulationCancel(ctx, sim.RunID)
		printInfo("Simulation cancelled")
		return nil
	}

	observability.Simulation().OnSimulationEnd(ctx, sim.RunID, effective.Iterations, time.Since(start))

	if err := writeSimulatedLayout(g, m.final, width, height, cfg, out); err != nil {
		return err
	}

	printSuccess("Simulation complete")
	printFile(out)
	return nil
}
