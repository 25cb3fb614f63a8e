package force

import "time"

// Default tuning values. Exposed as constants so callers and tests can
// reference them without constructing a Config.
const (
	// DefaultIterations is the total number of discrete steps before
	// convergence is forced.
	DefaultIterations = 300

	// DefaultRepulsion multiplies the squared ideal spring length k² to
	// form the pairwise repulsion constant.
	DefaultRepulsion = 0.5

	// DefaultAttraction is the spring constant pulling edge endpoints
	// toward the ideal separation k.
	DefaultAttraction = 0.08

	// DefaultGravity pulls every free node toward the frame center.
	DefaultGravity = 0.08

	// DefaultDamping is the per-step velocity multiplier (energy loss).
	DefaultDamping = 0.7

	// DefaultIntegration is the per-step position displacement multiplier
	// applied to velocity (semi-implicit Euler step size).
	DefaultIntegration = 0.85

	// DefaultTickInterval is the number of internal steps between
	// snapshot deliveries.
	DefaultTickInterval = 8

	// DefaultBarnesHutThreshold is the node count above which Barnes-Hut
	// repulsion replaces brute force.
	DefaultBarnesHutThreshold = 100

	// DefaultBarnesHutTheta is the Barnes-Hut accuracy bound; smaller is
	// more accurate and more expensive.
	DefaultBarnesHutTheta = 0.7

	// DefaultFrameInterval is the scheduling period for one integration
	// step in [Run], approximating a 60Hz display refresh.
	DefaultFrameInterval = 16 * time.Millisecond

	// DefaultSeed seeds the initial scatter of nodes without position
	// hints, for reproducible runs.
	DefaultSeed = uint64(42)
)

// Config tunes one simulation run. The zero value of any field means
// "use the default", so callers override only the subset they care
// about. Each invocation receives its own Config; there is no shared
// module-level tuning state.
type Config struct {
	Iterations         int
	Repulsion          float64
	Attraction         float64
	Gravity            float64
	Damping            float64
	Integration        float64
	TickInterval       int
	BarnesHutThreshold int
	BarnesHutTheta     float64
	FrameInterval      time.Duration
	Seed               uint64
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	return Config{
		Iterations:         DefaultIterations,
		Repulsion:          DefaultRepulsion,
		Attraction:         DefaultAttraction,
		Gravity:            DefaultGravity,
		Damping:            DefaultDamping,
		Integration:        DefaultIntegration,
		TickInterval:       DefaultTickInterval,
		BarnesHutThreshold: DefaultBarnesHutThreshold,
		BarnesHutTheta:     DefaultBarnesHutTheta,
		FrameInterval:      DefaultFrameInterval,
		Seed:               DefaultSeed,
	}
}

// withDefaults fills zero-valued fields with defaults.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Iterations == 0 {
		c.Iterations = d.Iterations
	}
	if c.Repulsion == 0 {
		c.Repulsion = d.Repulsion
	}
	if c.Attraction == 0 {
		c.Attraction = d.Attraction
	}
	if c.Gravity == 0 {
		c.Gravity = d.Gravity
	}
	if c.Damping == 0 {
		c.Damping = d.Damping
	}
	if c.Integration == 0 {
		c.Integration = d.Integration
	}
	if c.TickInterval == 0 {
		c.TickInterval = d.TickInterval
	}
	if c.BarnesHutThreshold == 0 {
		c.BarnesHutThreshold = d.BarnesHutThreshold
	}
	if c.BarnesHutTheta == 0 {
		c.BarnesHutTheta = d.BarnesHutTheta
	}
	if c.FrameInterval == 0 {
		c.FrameInterval = d.FrameInterval
	}
	if c.Seed == 0 {
		c.Seed = d.Seed
	}
	return c
}
