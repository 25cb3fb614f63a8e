package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/graphflow/pkg/graph"
)

func TestWatchModelCountsSnapshots(t *testing.T) {
	m := watchModel{expectedTicks: 3}

	var model tea.Model = m
	for i := 0; i < 3; i++ {
		model, _ = model.Update(snapshotMsg{positions: []graph.Position{{X: float64(i)}}})
	}

	got := model.(watchModel)
	if got.ticks != 3 {
		t.Errorf("ticks = %d, want 3", got.ticks)
	}
	if got.done {
		t.Error("model should not be done before the final snapshot")
	}
}

func TestWatchModelFinalSnapshotNotCounted(t *testing.T) {
	m := watchModel{expectedTicks: 2}

	var model tea.Model = m
	model, _ = model.Update(snapshotMsg{positions: []graph.Position{{X: 1}}})
	model, _ = model.Update(snapshotMsg{positions: []graph.Position{{X: 2}}})

	// The settled state repeats the last regular snapshot and must not
	// push the count past the expected total.
	final := []graph.Position{{X: 2}}
	model, cmd := model.Update(snapshotMsg{positions: final, final: true})

	got := model.(watchModel)
	if got.ticks != 2 {
		t.Errorf("ticks = %d, want 2 after final snapshot", got.ticks)
	}
	if !got.done {
		t.Error("final snapshot should mark the model done")
	}
	if len(got.final) != 1 || got.final[0].X != 2 {
		t.Errorf("final positions = %+v, want the settled snapshot", got.final)
	}
	if cmd == nil {
		t.Error("final snapshot should quit the program")
	}
}

func TestWatchModelRunStarted(t *testing.T) {
	var model tea.Model = watchModel{}
	model, _ = model.Update(runStartedMsg{runID: "run-1"})
	if got := model.(watchModel); got.runID != "run-1" {
		t.Errorf("runID = %q, want run-1", got.runID)
	}
}

func TestWatchModelQuitKeyCancels(t *testing.T) {
	var model tea.Model = watchModel{}
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	got := model.(watchModel)
	if !got.cancelled {
		t.Error("q should mark the model cancelled")
	}
	if cmd == nil {
		t.Error("q should quit the program")
	}
	if !strings.Contains(got.View(), "cancelling") {
		t.Error("cancelled view should say cancelling")
	}
}

func TestProgressBarSaturates(t *testing.T) {
	over := progressBar(12, 10, 8)
	full := progressBar(10, 10, 8)
	if over != full {
		t.Errorf("overflowing bar should render full: %q vs %q", over, full)
	}
}

func TestMeanDisplacement(t *testing.T) {
	prev := []graph.Position{{X: 0, Y: 0}, {X: 10, Y: 0}}
	curr := []graph.Position{{X: 3, Y: 4}, {X: 10, Y: 0}}
	if got := meanDisplacement(prev, curr); got != 2.5 {
		t.Errorf("meanDisplacement = %v, want 2.5", got)
	}
	if got := meanDisplacement(nil, curr); got != 0 {
		t.Errorf("mismatched snapshots should yield 0, got %v", got)
	}
}
