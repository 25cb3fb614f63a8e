package pipeline

import (
	"context"
	"math"
	"testing"

	"github.com/matzehuels/graphflow/pkg/cache"
	gferrors "github.com/matzehuels/graphflow/pkg/errors"
	"github.com/matzehuels/graphflow/pkg/graph"
	"github.com/matzehuels/graphflow/pkg/layout/force"
)

func testGraph() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []graph.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}},
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Algo != DefaultAlgo {
		t.Errorf("Algo = %q, want %q", opts.Algo, DefaultAlgo)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("dimensions = %gx%g, want %gx%g", opts.Width, opts.Height, float64(DefaultWidth), float64(DefaultHeight))
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a usable logger")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantCode gferrors.Code
	}{
		{
			name:     "unknown algorithm",
			opts:     Options{Algo: "spiral"},
			wantCode: gferrors.ErrCodeInvalidAlgo,
		},
		{
			name:     "negative width",
			opts:     Options{Width: -1},
			wantCode: gferrors.ErrCodeInvalidDimensions,
		},
		{
			name:     "NaN height",
			opts:     Options{Height: math.NaN()},
			wantCode: gferrors.ErrCodeInvalidDimensions,
		},
		{
			name:     "infinite width",
			opts:     Options{Width: math.Inf(1)},
			wantCode: gferrors.ErrCodeInvalidDimensions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !gferrors.Is(err, tt.wantCode) {
				t.Errorf("error code = %q, want %q", gferrors.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestGenerateLayoutAlgorithms(t *testing.T) {
	g := testGraph()

	for _, algo := range []string{graph.AlgoLayered, graph.AlgoRadial, graph.AlgoForce} {
		t.Run(algo, func(t *testing.T) {
			opts := Options{Algo: algo, Width: 800, Height: 600}
			if algo == graph.AlgoForce {
				opts.Force = force.Config{Iterations: 20}
			}

			l := GenerateLayout(g, opts)
			if l.Algo != algo {
				t.Errorf("Algo = %q, want %q", l.Algo, algo)
			}
			if len(l.Positions) != g.NodeCount() {
				t.Fatalf("got %d positions, want %d", len(l.Positions), g.NodeCount())
			}
			for id, p := range l.Positions {
				if !p.IsFinite() {
					t.Errorf("position for %q not finite: %+v", id, p)
				}
			}
		})
	}
}

func TestGenerateLayoutForceRecordsSeedAndSteps(t *testing.T) {
	l := GenerateLayout(testGraph(), Options{Algo: graph.AlgoForce, Width: 800, Height: 600})
	if l.Seed != force.DefaultSeed {
		t.Errorf("Seed = %d, want default %d", l.Seed, force.DefaultSeed)
	}
	if l.Steps != force.DefaultIterations {
		t.Errorf("Steps = %d, want default %d", l.Steps, force.DefaultIterations)
	}
}

func TestRunnerComputeLayout(t *testing.T) {
	r := NewRunner(nil, nil, nil) // NullCache
	defer r.Close()

	l, err := r.ComputeLayout(context.Background(), testGraph(), Options{Algo: graph.AlgoLayered})
	if err != nil {
		t.Fatalf("ComputeLayout: %v", err)
	}
	if len(l.Positions) != 3 {
		t.Errorf("got %d positions, want 3", len(l.Positions))
	}
}

func TestRunnerRejectsInvalidGraph(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	bad := graph.Graph{Nodes: []graph.Node{{ID: "a"}, {ID: "a"}}}
	if _, err := r.ComputeLayout(context.Background(), bad, Options{}); err == nil {
		t.Error("duplicate node IDs should be rejected")
	}
}

func TestRunnerCacheHitOnSecondCall(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	ctx := context.Background()
	g := testGraph()
	opts := Options{Algo: graph.AlgoLayered, Width: 800, Height: 600}

	first, hit, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		t.Fatalf("first ComputeLayout: %v", err)
	}
	if hit {
		t.Error("first call should miss the cache")
	}

	second, hit, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		t.Fatalf("second ComputeLayout: %v", err)
	}
	if !hit {
		t.Error("second call should hit the cache")
	}
	for id, p := range first.Positions {
		if second.Positions[id] != p {
			t.Errorf("cached position for %q differs: %v vs %v", id, p, second.Positions[id])
		}
	}
}

func TestRunnerNoCacheBypassesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	ctx := context.Background()
	opts := Options{Algo: graph.AlgoLayered, NoCache: true}

	if _, hit, err := r.ComputeLayoutWithCacheInfo(ctx, testGraph(), opts); err != nil || hit {
		t.Errorf("hit=%v err=%v, want miss and nil", hit, err)
	}
	// Second call still misses: nothing was stored.
	if _, hit, err := r.ComputeLayoutWithCacheInfo(ctx, testGraph(), opts); err != nil || hit {
		t.Errorf("hit=%v err=%v, want miss and nil", hit, err)
	}
}

func TestRunnerForceCacheKeyedOnTuning(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	ctx := context.Background()
	g := testGraph()

	optsA := Options{Algo: graph.AlgoForce, Force: force.Config{Seed: 1, Iterations: 20}}
	if _, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, optsA); err != nil {
		t.Fatalf("seed 1: %v", err)
	}

	// Different seed must not hit the seed-1 entry.
	optsB := Options{Algo: graph.AlgoForce, Force: force.Config{Seed: 2, Iterations: 20}}
	if _, hit, err := r.ComputeLayoutWithCacheInfo(ctx, g, optsB); err != nil || hit {
		t.Errorf("different seed: hit=%v err=%v, want miss", hit, err)
	}

	// Same tuning hits.
	if _, hit, err := r.ComputeLayoutWithCacheInfo(ctx, g, optsA); err != nil || !hit {
		t.Errorf("same tuning: hit=%v err=%v, want hit", hit, err)
	}
}

func TestRunnerCorruptCacheEntryRecomputes(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	ctx := context.Background()
	g := testGraph()
	opts := Options{Algo: graph.AlgoLayered, Width: 800, Height: 600}

	// Prime the cache, then corrupt the stored entry under the same key.
	if _, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts); err != nil {
		t.Fatalf("prime: %v", err)
	}
	normalized := opts
	if err := normalized.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	key, cacheable := r.layoutKey(g, normalized)
	if !cacheable {
		t.Fatal("expected a cacheable key")
	}
	if err := fc.Set(ctx, key, []byte("not a layout"), 0); err != nil {
		t.Fatalf("corrupt entry: %v", err)
	}

	l, hit, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if hit {
		t.Error("corrupt entry must not count as a hit")
	}
	if len(l.Positions) != 3 {
		t.Errorf("recompute produced %d positions, want 3", len(l.Positions))
	}
}
