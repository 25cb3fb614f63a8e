package layout

import (
	"math"

	"github.com/matzehuels/graphflow/pkg/graph"
)

// radialPad is subtracted from the outermost ring radius so labels on the
// last ring stay inside the frame.
const radialPad = 80.0

// Radial computes a concentric-ring layout: the root sits at the frame
// center and every BFS depth occupies one ring, with ring members evenly
// distributed around the full circle. The first node of each ring points
// straight up.
//
// Shares depth assignment (root selection, cycle fallback, orphan layer)
// with [Layered]. Pure and deterministic; empty input produces an empty
// map.
func Radial(nodes []graph.Node, edges []graph.Edge, width, height float64) map[string]graph.Position {
	positions := make(map[string]graph.Position, len(nodes))
	if len(nodes) == 0 {
		return positions
	}
	width, height = SanitizeFrame(width, height)

	info := assignDepths(nodes, edges)

	cx, cy := width/2, height/2
	maxRadius := math.Min(width, height)/2 - radialPad

	for d, layer := range info.layers {
		radius := 0.0
		if info.maxDepth > 0 {
			radius = float64(d) / float64(info.maxDepth) * maxRadius
		}
		for i, id := range layer {
			angle := 2*math.Pi*float64(i)/float64(len(layer)) - math.Pi/2
			positions[id] = graph.Position{
				X: cx + radius*math.Cos(angle),
				Y: cy + radius*math.Sin(angle),
			}
		}
	}

	return positions
}
