package force

import (
	"math"
	"math/rand"
	"testing"
)

func randomBodies(n int, seed int64) []body {
	rng := rand.New(rand.NewSource(seed))
	out := make([]body, n)
	for i := range out {
		out[i] = body{x: rng.Float64() * 800, y: rng.Float64() * 600}
	}
	return out
}

// bruteForceOn sums the exact pairwise repulsion on body i.
func bruteForceOn(bodies []body, i int, repulsion float64) (fx, fy float64) {
	for j := range bodies {
		if j == i {
			continue
		}
		dx := bodies[i].x - bodies[j].x
		dy := bodies[i].y - bodies[j].y
		if dx == 0 && dy == 0 {
			dx, dy = zeroDistEpsilon, zeroDistEpsilon
		}
		distSq := dx*dx + dy*dy
		dist := math.Sqrt(distSq)
		f := repulsion / distSq
		fx += f * dx / dist
		fy += f * dy / dist
	}
	return fx, fy
}

func TestQuadtreeExactWhenThetaZero(t *testing.T) {
	// A vanishing theta makes every internal cell inadmissible, so the
	// traversal degenerates to the exact pairwise sum.
	bodies := randomBodies(50, 1)
	tree := buildQuadtree(bodies)

	const repulsion = 1000.0
	for i := range bodies {
		wantX, wantY := bruteForceOn(bodies, i, repulsion)
		gotX, gotY := tree.force(i, bodies[i].x, bodies[i].y, 1e-12, repulsion)
		if math.Abs(gotX-wantX) > 1e-6 || math.Abs(gotY-wantY) > 1e-6 {
			t.Fatalf("body %d: tree force (%v, %v), brute force (%v, %v)", i, gotX, gotY, wantX, wantY)
		}
	}
}

func TestQuadtreeApproximatesBruteForce(t *testing.T) {
	// At the default theta the approximation should stay within a few
	// percent of the exact force, averaged over all bodies.
	bodies := randomBodies(200, 2)
	tree := buildQuadtree(bodies)

	const repulsion = 1000.0
	var totalErr, totalMag float64
	for i := range bodies {
		wantX, wantY := bruteForceOn(bodies, i, repulsion)
		gotX, gotY := tree.force(i, bodies[i].x, bodies[i].y, DefaultBarnesHutTheta, repulsion)
		totalErr += math.Hypot(gotX-wantX, gotY-wantY)
		totalMag += math.Hypot(wantX, wantY)
	}

	if rel := totalErr / totalMag; rel > 0.1 {
		t.Errorf("mean relative force error = %v, want <= 0.1", rel)
	}
}

func TestQuadtreeMassAggregation(t *testing.T) {
	bodies := randomBodies(37, 3)
	tree := buildQuadtree(bodies)
	if tree.mass != float64(len(bodies)) {
		t.Errorf("root mass = %v, want %v", tree.mass, float64(len(bodies)))
	}

	// Root center of mass equals the arithmetic mean of all positions.
	var sx, sy float64
	for _, b := range bodies {
		sx += b.x
		sy += b.y
	}
	n := float64(len(bodies))
	if math.Abs(tree.cx-sx/n) > 1e-6 || math.Abs(tree.cy-sy/n) > 1e-6 {
		t.Errorf("root COM = (%v, %v), want (%v, %v)", tree.cx, tree.cy, sx/n, sy/n)
	}
}

func TestQuadtreeCoincidentBodies(t *testing.T) {
	// Two bodies at the same point must not recurse forever and must
	// still repel each other.
	bodies := []body{{x: 100, y: 100}, {x: 100, y: 100}}
	tree := buildQuadtree(bodies)

	fx, fy := tree.force(0, bodies[0].x, bodies[0].y, DefaultBarnesHutTheta, 1000)
	if math.IsNaN(fx) || math.IsNaN(fy) || math.IsInf(fx, 0) || math.IsInf(fy, 0) {
		t.Errorf("coincident force not finite: (%v, %v)", fx, fy)
	}
	if fx == 0 && fy == 0 {
		t.Error("coincident bodies should still repel")
	}
}

func TestQuadtreeSingleBody(t *testing.T) {
	bodies := []body{{x: 5, y: 5}}
	tree := buildQuadtree(bodies)
	fx, fy := tree.force(0, 5, 5, DefaultBarnesHutTheta, 1000)
	if fx != 0 || fy != 0 {
		t.Errorf("lone body should feel no force, got (%v, %v)", fx, fy)
	}
}
