package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Layout algorithm identifiers.
const (
	AlgoLayered = "layered"
	AlgoRadial  = "radial"
	AlgoForce   = "force"
)

// ValidAlgos is the set of supported layout algorithms.
var ValidAlgos = map[string]bool{
	AlgoLayered: true,
	AlgoRadial:  true,
	AlgoForce:   true,
}

var (
	// ErrInvalidNodeID is returned by [Graph.Validate] when a node has an
	// empty ID. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.Validate] when two nodes
	// share the same ID. Node IDs are the sole node identity and must be
	// unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")
)

// Metadata stores arbitrary key-value pairs attached to nodes.
// Consumers typically carry display hints here (labels, groups, weights);
// the layout engines never read it.
type Metadata map[string]any

// Node is a vertex in the input graph.
//
// ID is the sole identity and must be unique and non-empty. X and Y are
// optional initial-position hints: the force engine uses them as seed
// coordinates, the static layouts ignore them and place nodes from
// topology alone. Fixed pins a node for the force engine, which holds it
// at its initial coordinates every integration step.
type Node struct {
	ID    string   `json:"id"`
	Label string   `json:"label,omitempty"` // Display label (defaults to ID)
	X     *float64 `json:"x,omitempty"`     // Initial-position hint
	Y     *float64 `json:"y,omitempty"`     // Initial-position hint
	Fixed bool     `json:"fixed,omitempty"` // Pin for the force engine
	Meta  Metadata `json:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// HasHint reports whether the node carries an initial-position hint.
func (n *Node) HasHint() bool { return n.X != nil && n.Y != nil }

// Edge is a directed connection between two node IDs. Direction matters
// for depth assignment in the layered and radial layouts; the force
// engine treats edges as symmetric springs.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Position is a computed 2D coordinate. Every layout produces exactly one
// finite Position per input node.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Position) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Graph is the canonical input format for all layout engines.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// Validate checks structural invariants: non-empty, unique node IDs.
// Edges referencing unknown nodes are deliberately not an error - the
// engines tolerate dangling references by omission.
func (g *Graph) Validate() error {
	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return ErrInvalidNodeID
		}
		if seen[n.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
		}
		seen[n.ID] = true
	}
	return nil
}

// MarshalGraph serializes a Graph to pretty-printed JSON bytes.
func MarshalGraph(g Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// UnmarshalGraph deserializes JSON bytes into a Graph and validates it.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, fmt.Errorf("unmarshal graph: %w", err)
	}
	if err := g.Validate(); err != nil {
		return Graph{}, err
	}
	return g, nil
}
