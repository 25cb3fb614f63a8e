package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphflow/pkg/layout/force"
)

// tuningFile is the TOML schema for a force tuning file. Absent keys
// keep their zero value, which the engine treats as "use the default",
// so a file only needs the knobs it wants to change:
//
//	iterations = 500
//	damping = 0.85
//	barnes_hut_theta = 0.5
type tuningFile struct {
	Iterations         int     `toml:"iterations"`
	Repulsion          float64 `toml:"repulsion"`
	Attraction         float64 `toml:"attraction"`
	Gravity            float64 `toml:"gravity"`
	Damping            float64 `toml:"damping"`
	Integration        float64 `toml:"integration"`
	TickInterval       int     `toml:"tick_interval"`
	BarnesHutThreshold int     `toml:"barnes_hut_threshold"`
	BarnesHutTheta     float64 `toml:"barnes_hut_theta"`
	FrameIntervalMS    int     `toml:"frame_interval_ms"`
	Seed               uint64  `toml:"seed"`
}

// loadTuning reads force tuning from a TOML file. An empty path returns
// the zero Config, meaning engine defaults throughout. Unknown keys are
// an error so typos surface instead of silently using defaults.
func loadTuning(path string) (force.Config, error) {
	if path == "" {
		return force.Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return force.Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var tf tuningFile
	meta, err := toml.Decode(string(data), &tf)
	if err != nil {
		return force.Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return force.Config{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}

	cfg := force.Config{
		Iterations:         tf.Iterations,
		Repulsion:          tf.Repulsion,
		Attraction:         tf.Attraction,
		Gravity:            tf.Gravity,
		Damping:            tf.Damping,
		Integration:        tf.Integration,
		TickInterval:       tf.TickInterval,
		BarnesHutThreshold: tf.BarnesHutThreshold,
		BarnesHutTheta:     tf.BarnesHutTheta,
		FrameInterval:      time.Duration(tf.FrameIntervalMS) * time.Millisecond,
		Seed:               tf.Seed,
	}
	return cfg, nil
}

// mergeTuning layers explicit flag values over file-derived tuning.
// Non-zero fields of override win; the engine fills whatever remains
// zero with its defaults.
func mergeTuning(base, override force.Config) force.Config {
	if override.Iterations != 0 {
		base.Iterations = override.Iterations
	}
	if override.Repulsion != 0 {
		base.Repulsion = override.Repulsion
	}
	if override.Attraction != 0 {
		base.Attraction = override.Attraction
	}
	if override.Gravity != 0 {
		base.Gravity = override.Gravity
	}
	if override.Damping != 0 {
		base.Damping = override.Damping
	}
	if override.Integration != 0 {
		base.Integration = override.Integration
	}
	if override.TickInterval != 0 {
		base.TickInterval = override.TickInterval
	}
	if override.BarnesHutThreshold != 0 {
		base.BarnesHutThreshold = override.BarnesHutThreshold
	}
	if override.BarnesHutTheta != 0 {
		base.BarnesHutTheta = override.BarnesHutTheta
	}
	if override.FrameInterval != 0 {
		base.FrameInterval = override.FrameInterval
	}
	if override.Seed != 0 {
		base.Seed = override.Seed
	}
	return base
}
