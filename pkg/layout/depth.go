package layout

import "github.com/matzehuels/graphflow/pkg/graph"

// depthInfo is the result of BFS depth assignment, shared by the layered
// and radial layouts so cycle handling lives in exactly one place.
type depthInfo struct {
	depth    map[string]int // node ID → depth
	maxDepth int
	layers   [][]string // depth → node IDs in input order
}

// assignDepths computes an integer depth for every node via breadth-first
// traversal.
//
// Root selection: the first node in input order with in-degree zero. If
// no such node exists (cyclic graph) the first node in input order is
// used - a deliberate fallback, not an error. A node is never re-visited
// once its depth is set, so cycles cannot loop or reassign depths.
//
// Nodes unreachable from the root (disconnected components) all collapse
// into a single trailing layer at maxReachedDepth+1.
//
// Edges referencing unknown node IDs are skipped.
func assignDepths(nodes []graph.Node, edges []graph.Edge) depthInfo {
	info := depthInfo{depth: make(map[string]int, len(nodes))}
	if len(nodes) == 0 {
		return info
	}

	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}

	adjacency := make(map[string][]string, len(nodes))
	inDegree := make(map[string]int, len(nodes))
	for _, e := range edges {
		if !known[e.From] || !known[e.To] {
			continue
		}
		adjacency[e.From] = append(adjacency[e.From], e.To)
		inDegree[e.To]++
	}

	root := nodes[0].ID
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			root = n.ID
			break
		}
	}

	visited := map[string]bool{root: true}
	queue := []string{root}
	info.depth[root] = 0

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, child := range adjacency[curr] {
			if visited[child] {
				continue
			}
			visited[child] = true
			d := info.depth[curr] + 1
			info.depth[child] = d
			if d > info.maxDepth {
				info.maxDepth = d
			}
			queue = append(queue, child)
		}
	}

	// Orphans share one trailing layer.
	orphanDepth := info.maxDepth + 1
	orphaned := false
	for _, n := range nodes {
		if !visited[n.ID] {
			info.depth[n.ID] = orphanDepth
			orphaned = true
		}
	}
	if orphaned {
		info.maxDepth = orphanDepth
	}

	info.layers = make([][]string, info.maxDepth+1)
	for _, n := range nodes {
		d := info.depth[n.ID]
		info.layers[d] = append(info.layers[d], n.ID)
	}

	return info
}
