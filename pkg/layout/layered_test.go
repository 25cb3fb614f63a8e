package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/graphflow/pkg/graph"
)

func nodes(ids ...string) []graph.Node {
	out := make([]graph.Node, len(ids))
	for i, id := range ids {
		out[i] = graph.Node{ID: id}
	}
	return out
}

func edge(from, to string) graph.Edge { return graph.Edge{From: from, To: to} }

func TestLayeredEmpty(t *testing.T) {
	got := Layered(nil, nil, 800, 600)
	if len(got) != 0 {
		t.Errorf("empty input should produce empty map, got %d entries", len(got))
	}
}

func TestLayeredSingleNode(t *testing.T) {
	got := Layered(nodes("a"), nil, 800, 600)
	p := got["a"]
	if p.X != 400 || p.Y != 300 {
		t.Errorf("single node should sit at frame center, got %+v", p)
	}
}

func TestLayeredCompleteness(t *testing.T) {
	ns := nodes("a", "b", "c", "d")
	got := Layered(ns, []graph.Edge{edge("a", "b"), edge("b", "c")}, 800, 600)
	if len(got) != len(ns) {
		t.Fatalf("got %d positions, want %d", len(got), len(ns))
	}
	for _, n := range ns {
		if _, ok := got[n.ID]; !ok {
			t.Errorf("missing position for %q", n.ID)
		}
	}
}

func TestLayeredDepthOrdering(t *testing.T) {
	// a -> b -> d forms a chain; deeper nodes land further right.
	got := Layered(nodes("a", "b", "d"), []graph.Edge{edge("a", "b"), edge("b", "d")}, 800, 600)
	if !(got["d"].X > got["b"].X && got["b"].X > got["a"].X) {
		t.Errorf("x should increase with depth: a=%v b=%v d=%v", got["a"].X, got["b"].X, got["d"].X)
	}
}

func TestLayeredRootAtLeftMargin(t *testing.T) {
	got := Layered(nodes("root", "child"), []graph.Edge{edge("root", "child")}, 800, 600)
	if got["root"].X != layerPad {
		t.Errorf("root x = %v, want %v", got["root"].X, layerPad)
	}
	if got["child"].X != 800-layerPad {
		t.Errorf("deepest x = %v, want %v", got["child"].X, 800-layerPad)
	}
}

func TestLayeredCycleSafety(t *testing.T) {
	// Pure cycle: no in-degree-zero node, so the first node becomes root.
	got := Layered(nodes("a", "b", "c"), []graph.Edge{edge("a", "b"), edge("b", "c"), edge("c", "a")}, 800, 600)
	if len(got) != 3 {
		t.Fatalf("cycle should still place all nodes, got %d", len(got))
	}
	if !(got["a"].X < got["b"].X && got["b"].X < got["c"].X) {
		t.Errorf("cycle depths should follow BFS from first node: a=%v b=%v c=%v",
			got["a"].X, got["b"].X, got["c"].X)
	}
}

func TestLayeredDisconnectedTrailingLayer(t *testing.T) {
	// "island" is unreachable from the root component and must land in a
	// layer past the deepest reachable one.
	got := Layered(nodes("a", "b", "island"), []graph.Edge{edge("a", "b")}, 800, 600)
	if got["island"].X <= got["b"].X {
		t.Errorf("disconnected node x = %v, want > %v", got["island"].X, got["b"].X)
	}
}

func TestLayeredDanglingEdgeIgnored(t *testing.T) {
	got := Layered(nodes("a", "b"), []graph.Edge{edge("a", "ghost"), edge("a", "b")}, 800, 600)
	if len(got) != 2 {
		t.Fatalf("got %d positions, want 2", len(got))
	}
	if got["b"].X <= got["a"].X {
		t.Errorf("known edge should still drive depth: a=%v b=%v", got["a"].X, got["b"].X)
	}
}

func TestLayeredVerticalSpread(t *testing.T) {
	// Three siblings at depth 1 spread evenly between the vertical margins.
	ns := nodes("root", "s1", "s2", "s3")
	es := []graph.Edge{edge("root", "s1"), edge("root", "s2"), edge("root", "s3")}
	got := Layered(ns, es, 800, 600)

	if got["s1"].Y != layerPad {
		t.Errorf("first sibling y = %v, want %v", got["s1"].Y, layerPad)
	}
	if got["s2"].Y != 300 {
		t.Errorf("middle sibling y = %v, want 300", got["s2"].Y)
	}
	if got["s3"].Y != 600-layerPad {
		t.Errorf("last sibling y = %v, want %v", got["s3"].Y, 600-layerPad)
	}
}

func TestLayeredNonFiniteFrame(t *testing.T) {
	ns := nodes("a", "b")
	es := []graph.Edge{edge("a", "b")}

	tests := []struct {
		name          string
		width, height float64
	}{
		{"NaN width", math.NaN(), 600},
		{"Inf height", 800, math.Inf(1)},
		{"negative width", -100, 600},
		{"zero frame", 0, 0},
	}

	want := Layered(ns, es, 800, 600) // fallback frame
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Layered(ns, es, tt.width, tt.height)
			for id, p := range got {
				if !p.IsFinite() {
					t.Fatalf("position for %q not finite: %+v", id, p)
				}
				if got[id] != want[id] {
					t.Errorf("position for %q = %v, want fallback-frame %v", id, got[id], want[id])
				}
			}
		})
	}
}

func TestLayeredDeterministic(t *testing.T) {
	ns := nodes("a", "b", "c", "d", "e")
	es := []graph.Edge{edge("a", "b"), edge("a", "c"), edge("c", "d")}
	first := Layered(ns, es, 800, 600)
	second := Layered(ns, es, 800, 600)
	for id, p := range first {
		if second[id] != p {
			t.Errorf("position for %q changed between runs: %v vs %v", id, p, second[id])
		}
	}
}
