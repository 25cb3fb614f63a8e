package layout

import (
	"math"

	"github.com/matzehuels/graphflow/pkg/graph"
)

// NodeBounds describes a node's rectangular extent for connector
// geometry: the full width and height of its axis-aligned bounding box,
// centered on the node position.
type NodeBounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BorderExitPoint returns the point where the ray from source toward
// target exits source's bounding box. Renderers use it to start edge
// connectors at the node border instead of its center.
//
// Computed by parametric intersection: with unit direction (ux, uy) from
// source to target, the ray leaves the box at t = min(halfW/|ux|,
// halfH/|uy|), where a zero component contributes +Inf and so never
// limits. When source and target coincide the direction is undefined;
// the distance is treated as 1 and the ray points along +x so the result
// stays finite.
func BorderExitPoint(source, target graph.Position, bounds NodeBounds) graph.Position {
	dx := target.X - source.X
	dy := target.Y - source.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		dist = 1
		dx = 1
	}

	ux := dx / dist
	uy := dy / dist

	tx := math.Inf(1)
	if ux != 0 {
		tx = (bounds.Width / 2) / math.Abs(ux)
	}
	ty := math.Inf(1)
	if uy != 0 {
		ty = (bounds.Height / 2) / math.Abs(uy)
	}

	t := math.Min(tx, ty)
	return graph.Position{X: source.X + t*ux, Y: source.Y + t*uy}
}

// edgeKeySep separates the endpoints in a directed edge key. Node IDs
// containing the separator are escaped, so keys stay injective over
// (from, to) pairs.
const edgeKeySep = "->"

// DirectedEdgeKey returns a canonical, order-sensitive string identifier
// for an edge, e.g. "a->b". Keys are asymmetric: DirectedEdgeKey(a, b)
// never equals DirectedEdgeKey(b, a) for distinct a and b, and two
// different (from, to) pairs never collide.
func DirectedEdgeKey(from, to string) string {
	return escapeEdgeID(from) + edgeKeySep + escapeEdgeID(to)
}

// escapeEdgeID makes an ID safe for embedding in an edge key by escaping
// backslashes and the separator's leading character.
func escapeEdgeID(id string) string {
	out := make([]byte, 0, len(id))
	for i := 0; i < len(id); i++ {
		switch id[i] {
		case '\\', '-':
			out = append(out, '\\')
		}
		out = append(out, id[i])
	}
	return string(out)
}
