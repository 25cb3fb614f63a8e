package force

import "math"

// quadCell is one node of the Barnes-Hut region quadtree: either a leaf
// holding a single body index, or an internal cell aggregating its
// descendants as a center of mass. The tree is ephemeral - rebuilt from
// scratch every simulation step and owned by that step's repulsion pass.
type quadCell struct {
	x0, y0, x1, y1 float64 // bounding box

	cx, cy float64 // aggregate center of mass
	mass   float64 // aggregate body count

	body     int // leaf body index, -1 when empty or internal
	internal bool

	// Child quadrants, allocated lazily on first conflict.
	// Index: 0=NW 1=NE 2=SW 3=SE.
	children [4]*quadCell
}

// buildQuadtree constructs the tree over the current body positions.
// The root box is the tight bounding box of all bodies padded by one
// unit, so a degenerate zero-size box can never occur.
func buildQuadtree(bodies []body) *quadCell {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, b := range bodies {
		minX = math.Min(minX, b.x)
		minY = math.Min(minY, b.y)
		maxX = math.Max(maxX, b.x)
		maxY = math.Max(maxY, b.y)
	}

	root := &quadCell{x0: minX - 1, y0: minY - 1, x1: maxX + 1, y1: maxY + 1, body: -1}
	for i, b := range bodies {
		root.insert(i, b.x, b.y)
	}
	return root
}

// insert adds body i at (x, y), updating the running center of mass of
// every cell on the descent so no second aggregation pass is needed.
func (c *quadCell) insert(i int, x, y float64) {
	// Empty leaf: take the body directly.
	if !c.internal && c.body == -1 {
		c.body = i
		c.cx, c.cy = x, y
		c.mass = 1
		return
	}

	// Occupied leaf: subdivide on first conflict, pushing the resident
	// body down before the new one. A body coinciding exactly with the
	// resident is nudged apart, otherwise the subdivision would never
	// separate the two.
	if !c.internal {
		resident, rx, ry := c.body, c.cx, c.cy
		if x == rx && y == ry {
			x += zeroDistEpsilon
			y += zeroDistEpsilon
		}
		c.internal = true
		c.body = -1
		c.child(rx, ry).insert(resident, rx, ry)
	}

	c.cx = (c.cx*c.mass + x) / (c.mass + 1)
	c.cy = (c.cy*c.mass + y) / (c.mass + 1)
	c.mass++

	c.child(x, y).insert(i, x, y)
}

// child returns the quadrant containing (x, y), allocating it on demand.
func (c *quadCell) child(x, y float64) *quadCell {
	midX := (c.x0 + c.x1) / 2
	midY := (c.y0 + c.y1) / 2

	q := 0
	if x >= midX {
		q = 1
	}
	if y >= midY {
		q += 2
	}

	if c.children[q] == nil {
		cell := &quadCell{body: -1}
		switch q {
		case 0:
			cell.x0, cell.y0, cell.x1, cell.y1 = c.x0, c.y0, midX, midY
		case 1:
			cell.x0, cell.y0, cell.x1, cell.y1 = midX, c.y0, c.x1, midY
		case 2:
			cell.x0, cell.y0, cell.x1, cell.y1 = c.x0, midY, midX, c.y1
		case 3:
			cell.x0, cell.y0, cell.x1, cell.y1 = midX, midY, c.x1, c.y1
		}
		c.children[q] = cell
	}
	return c.children[q]
}

// force computes the repulsive velocity delta on body i at (x, y).
//
// Leaves holding another body repel directly by the inverse-square law;
// the leaf holding i itself is skipped. An internal cell whose extent is
// small relative to its distance (cellWidth²/dist² < theta²) acts as a
// single pseudo-body at its center of mass; otherwise its children are
// visited.
func (c *quadCell) force(i int, x, y, theta, repulsion float64) (fx, fy float64) {
	if c.mass == 0 || (!c.internal && c.body == i) {
		return 0, 0
	}

	dx := x - c.cx
	dy := y - c.cy
	if dx == 0 && dy == 0 {
		dx, dy = zeroDistEpsilon, zeroDistEpsilon
	}
	distSq := dx*dx + dy*dy

	cellW := c.x1 - c.x0
	if !c.internal || cellW*cellW/distSq < theta*theta {
		dist := math.Sqrt(distSq)
		f := repulsion * c.mass / distSq
		return f * dx / dist, f * dy / dist
	}

	for _, child := range c.children {
		if child == nil {
			continue
		}
		cfx, cfy := child.force(i, x, y, theta, repulsion)
		fx += cfx
		fy += cfy
	}
	return fx, fy
}
