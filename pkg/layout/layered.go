package layout

import "github.com/matzehuels/graphflow/pkg/graph"

// layerPad is the margin between the frame border and the outermost
// layers, in frame units.
const layerPad = 60.0

// Layered computes a left-to-right layered layout: each node lands in a
// vertical band determined by its BFS depth, and nodes within a band are
// spread evenly from top to bottom.
//
// The function is pure and deterministic. Initial-position hints on the
// nodes are ignored; placement is derived from topology alone. Empty
// input produces an empty map.
func Layered(nodes []graph.Node, edges []graph.Edge, width, height float64) map[string]graph.Position {
	positions := make(map[string]graph.Position, len(nodes))
	if len(nodes) == 0 {
		return positions
	}
	width, height = SanitizeFrame(width, height)

	info := assignDepths(nodes, edges)

	for d, layer := range info.layers {
		x := width / 2
		if info.maxDepth > 0 {
			x = layerPad + (width-2*layerPad)*float64(d)/float64(info.maxDepth)
		}
		for i, id := range layer {
			y := height / 2
			if n := len(layer); n > 1 {
				y = layerPad + (height-2*layerPad)*float64(i)/float64(n-1)
			}
			positions[id] = graph.Position{X: x, Y: y}
		}
	}

	return positions
}
