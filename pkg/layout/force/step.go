package force

import (
	"math"
	"math/rand"

	"github.com/matzehuels/graphflow/pkg/graph"
	"github.com/matzehuels/graphflow/pkg/layout"
)

// zeroDistEpsilon nudges coincident nodes apart so the inverse-square
// law never divides by zero.
const zeroDistEpsilon = 0.01

// body is the per-node simulation state. Owned exclusively by the
// running stepper; velocity never escapes to callers.
type body struct {
	x, y   float64
	vx, vy float64

	fixed      bool
	pinX, pinY float64
}

// stepper is the synchronous physics core: one call to advance performs
// one discrete integration step. Scheduling (frames, snapshots,
// cancellation) is layered on top by Simulation.
type stepper struct {
	cfg           Config
	bodies        []body
	springs       [][2]int // resolved edge endpoint indices
	width, height float64

	k         float64 // ideal spring length
	repulsion float64 // absolute repulsion constant (k² · cfg.Repulsion)
	step      int
}

// newStepper seeds per-node state from the input nodes. Position hints
// are honored; all other nodes scatter within the central 50% of the
// frame around its center, driven by the configured seed. Edges with
// unknown endpoints are dropped here, so the hot loop never re-checks.
func newStepper(nodes []graph.Node, edges []graph.Edge, width, height float64, cfg Config) *stepper {
	cfg = cfg.withDefaults()
	width, height = layout.SanitizeFrame(width, height)
	rng := rand.New(rand.NewSource(int64(cfg.Seed)))

	k := math.Sqrt(width * height / math.Max(float64(len(nodes)), 1))

	st := &stepper{
		cfg:       cfg,
		bodies:    make([]body, len(nodes)),
		width:     width,
		height:    height,
		k:         k,
		repulsion: k * k * cfg.Repulsion,
	}

	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		x := width/2 + (rng.Float64()-0.5)*width*0.5
		y := height/2 + (rng.Float64()-0.5)*height*0.5
		if n.HasHint() {
			x, y = *n.X, *n.Y
		}
		st.bodies[i] = body{x: x, y: y, fixed: n.Fixed, pinX: x, pinY: y}
		index[n.ID] = i
	}

	for _, e := range edges {
		from, ok := index[e.From]
		if !ok {
			continue
		}
		to, ok := index[e.To]
		if !ok {
			continue
		}
		st.springs = append(st.springs, [2]int{from, to})
	}

	return st
}

// alpha is the cooling multiplier for the upcoming step: linearly
// decaying from 1 to 0 over the configured iteration count.
func (st *stepper) alpha() float64 {
	return math.Max(0, 1-float64(st.step)/float64(st.cfg.Iterations))
}

// advance performs one integration step. Returns false once the cooling
// schedule has reached zero, which is the terminal state.
func (st *stepper) advance() bool {
	alpha := st.alpha()
	if alpha <= 0 {
		return false
	}

	if len(st.bodies) > st.cfg.BarnesHutThreshold {
		st.repelBarnesHut(alpha)
	} else {
		st.repelBruteForce(alpha)
	}
	st.attract(alpha)
	st.integrate(alpha)

	st.step++
	return true
}

// repelBruteForce applies inverse-square repulsion to every unordered
// pair of bodies.
func (st *stepper) repelBruteForce(alpha float64) {
	for i := range st.bodies {
		for j := i + 1; j < len(st.bodies); j++ {
			dx := st.bodies[i].x - st.bodies[j].x
			dy := st.bodies[i].y - st.bodies[j].y
			if dx == 0 && dy == 0 {
				dx, dy = zeroDistEpsilon, zeroDistEpsilon
			}
			distSq := dx*dx + dy*dy
			dist := math.Sqrt(distSq)

			f := st.repulsion / distSq * alpha
			fx := f * dx / dist
			fy := f * dy / dist

			st.bodies[i].vx += fx
			st.bodies[i].vy += fy
			st.bodies[j].vx -= fx
			st.bodies[j].vy -= fy
		}
	}
}

// repelBarnesHut replaces the pairwise pass with the quadtree
// approximation; net effect is equivalent within the theta bound.
func (st *stepper) repelBarnesHut(alpha float64) {
	tree := buildQuadtree(st.bodies)
	for i := range st.bodies {
		fx, fy := tree.force(i, st.bodies[i].x, st.bodies[i].y, st.cfg.BarnesHutTheta, st.repulsion)
		st.bodies[i].vx += fx * alpha
		st.bodies[i].vy += fy * alpha
	}
}

// attract applies Hooke's-law springs along every edge, pulling the
// endpoints toward separation k (pushing apart when closer than k).
// Self-edges have zero length and contribute nothing.
func (st *stepper) attract(alpha float64) {
	for _, s := range st.springs {
		from, to := &st.bodies[s[0]], &st.bodies[s[1]]
		dx := to.x - from.x
		dy := to.y - from.y
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			continue
		}

		f := (dist - st.k) * st.cfg.Attraction * alpha
		fx := f * dx / dist
		fy := f * dy / dist

		from.vx += fx
		from.vy += fy
		to.vx -= fx
		to.vy -= fy
	}
}

// integrate applies, per node and in this fixed order: pin handling,
// gravity toward the frame center, the Euler position step, and velocity
// damping.
func (st *stepper) integrate(alpha float64) {
	cx, cy := st.width/2, st.height/2
	for i := range st.bodies {
		b := &st.bodies[i]
		if b.fixed {
			b.x, b.y = b.pinX, b.pinY
			b.vx, b.vy = 0, 0
			continue
		}

		b.vx += (cx - b.x) * st.cfg.Gravity * alpha
		b.vy += (cy - b.y) * st.cfg.Gravity * alpha

		b.x += b.vx * st.cfg.Integration
		b.y += b.vy * st.cfg.Integration

		b.vx *= st.cfg.Damping
		b.vy *= st.cfg.Damping
	}
}

// snapshot copies the current positions, index-aligned with the input
// node sequence. Internal buffers never escape by reference.
func (st *stepper) snapshot() []graph.Position {
	out := make([]graph.Position, len(st.bodies))
	for i, b := range st.bodies {
		out[i] = graph.Position{X: b.x, Y: b.y}
	}
	return out
}
