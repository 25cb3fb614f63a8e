package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/graphflow/pkg/layout/force"
)

func writeTuning(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTuningEmptyPath(t *testing.T) {
	cfg, err := loadTuning("")
	if err != nil {
		t.Fatalf("loadTuning: %v", err)
	}
	if cfg != (force.Config{}) {
		t.Errorf("empty path should return zero config, got %+v", cfg)
	}
}

func TestLoadTuning(t *testing.T) {
	path := writeTuning(t, `
iterations = 500
damping = 0.85
barnes_hut_theta = 0.5
frame_interval_ms = 32
seed = 7
`)

	cfg, err := loadTuning(path)
	if err != nil {
		t.Fatalf("loadTuning: %v", err)
	}
	if cfg.Iterations != 500 {
		t.Errorf("Iterations = %d, want 500", cfg.Iterations)
	}
	if cfg.Damping != 0.85 {
		t.Errorf("Damping = %v, want 0.85", cfg.Damping)
	}
	if cfg.BarnesHutTheta != 0.5 {
		t.Errorf("BarnesHutTheta = %v, want 0.5", cfg.BarnesHutTheta)
	}
	if cfg.FrameInterval != 32*time.Millisecond {
		t.Errorf("FrameInterval = %v, want 32ms", cfg.FrameInterval)
	}
	if cfg.Seed != 7 {
		t.Errorf("Seed = %d, want 7", cfg.Seed)
	}
	// Unset keys stay zero so engine defaults apply.
	if cfg.Repulsion != 0 {
		t.Errorf("Repulsion = %v, want 0", cfg.Repulsion)
	}
}

func TestLoadTuningUnknownKey(t *testing.T) {
	path := writeTuning(t, "iterationz = 500\n")
	if _, err := loadTuning(path); err == nil {
		t.Error("unknown key should be rejected")
	}
}

func TestLoadTuningMissingFile(t *testing.T) {
	if _, err := loadTuning(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("missing file should be an error")
	}
}

func TestMergeTuning(t *testing.T) {
	base := force.Config{Iterations: 100, Damping: 0.8, Seed: 1}
	override := force.Config{Iterations: 200, Gravity: 0.1}

	got := mergeTuning(base, override)
	if got.Iterations != 200 {
		t.Errorf("Iterations = %d, want override 200", got.Iterations)
	}
	if got.Damping != 0.8 {
		t.Errorf("Damping = %v, want base 0.8", got.Damping)
	}
	if got.Gravity != 0.1 {
		t.Errorf("Gravity = %v, want override 0.1", got.Gravity)
	}
	if got.Seed != 1 {
		t.Errorf("Seed = %d, want base 1", got.Seed)
	}
}

func TestCacheDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-test")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	want := filepath.Join("/tmp/xdg-test", appName)
	if dir != want {
		t.Errorf("cacheDir = %q, want %q", dir, want)
	}
}

func TestOutputPath(t *testing.T) {
	if got := outputPath("graph.json", ""); got != "graph.layout.json" {
		t.Errorf("outputPath default = %q, want graph.layout.json", got)
	}
	if got := outputPath("graph.json", "custom.json"); got != "custom.json" {
		t.Errorf("outputPath explicit = %q", got)
	}
}
