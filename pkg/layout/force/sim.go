package force

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/graphflow/pkg/graph"
)

// Callbacks receive position snapshots from a running simulation.
//
// OnTick is invoked every TickInterval steps with an intermediate
// snapshot - a deliberate throttle, since consumers are typically
// rendering surfaces that should not be pushed every physics step.
// OnEnd is invoked exactly once with the settled snapshot when the
// cooling schedule reaches zero; it never fires after Cancel.
//
// Snapshots are index-aligned with the input node sequence and are
// copies: callbacks may retain them freely. Either callback may be nil.
// Callbacks run on the simulation goroutine.
type Callbacks struct {
	OnTick func([]graph.Position)
	OnEnd  func([]graph.Position)
}

// Simulation is a handle to a running force-directed layout process.
// Obtain one from [Run]; the zero value is not usable.
type Simulation struct {
	// RunID uniquely identifies this run in logs and APIs.
	RunID string

	st *stepper
	cb Callbacks

	mu        sync.Mutex
	cancelled bool
	stop      chan struct{}
	done      chan struct{}
}

// Run starts an asynchronous simulation over the given nodes and edges
// and returns immediately with a cancellable handle.
//
// Execution is cooperatively scheduled: one discrete integration step
// per frame interval, never blocking the caller. The run terminates
// either when the cooling schedule reaches zero - delivering one final
// OnTick followed by OnEnd - or when [Simulation.Cancel] is called.
//
// Edges referencing unknown node IDs are skipped. With zero nodes,
// OnEnd(nil) is invoked synchronously and no steps are scheduled.
//
// Nodes already driven by a live simulation must not be handed to a
// second Run; cancel the prior run first.
func Run(nodes []graph.Node, edges []graph.Edge, width, height float64, cb Callbacks, cfg Config) *Simulation {
	s := &Simulation{
		RunID: uuid.NewString(),
		cb:    cb,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}

	if len(nodes) == 0 {
		close(s.done)
		s.cancelled = true // nothing left to cancel
		if cb.OnEnd != nil {
			cb.OnEnd(nil)
		}
		return s
	}

	s.st = newStepper(nodes, edges, width, height, cfg)
	go s.loop()
	return s
}

// loop advances the stepper one step per frame until terminal or
// cancelled. Steps and callback deliveries run under the mutex, which is
// what makes Cancel synchronous.
func (s *Simulation) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.st.cfg.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		if s.cancelled {
			s.mu.Unlock()
			return
		}

		alive := s.st.advance()
		if !alive {
			// Terminal: final tick, then end.
			snap := s.st.snapshot()
			if s.cb.OnTick != nil {
				s.cb.OnTick(snap)
			}
			if s.cb.OnEnd != nil {
				s.cb.OnEnd(snap)
			}
			s.mu.Unlock()
			return
		}

		if s.cb.OnTick != nil && s.st.step%s.st.cfg.TickInterval == 0 {
			s.cb.OnTick(s.st.snapshot())
		}
		s.mu.Unlock()
	}
}

// Cancel stops the simulation. Once Cancel returns, no further callbacks
// fire and OnEnd is guaranteed never to be invoked. Cancel blocks until
// any in-flight step completes, so it must not be called from inside a
// callback. Calling Cancel after completion or a second time is a no-op.
func (s *Simulation) Cancel() {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	close(s.stop)
	s.mu.Unlock()
}

// Done returns a channel closed when the simulation has fully stopped,
// whether by convergence or cancellation.
func (s *Simulation) Done() <-chan struct{} { return s.done }

// Converge runs a complete simulation synchronously and returns the
// settled positions, index-aligned with the input nodes. It is the
// blocking counterpart to [Run] for batch use (CLI, pipelines) where
// intermediate snapshots are not needed.
func Converge(nodes []graph.Node, edges []graph.Edge, width, height float64, cfg Config) []graph.Position {
	if len(nodes) == 0 {
		return nil
	}
	st := newStepper(nodes, edges, width, height, cfg)
	for st.advance() {
	}
	return st.snapshot()
}
