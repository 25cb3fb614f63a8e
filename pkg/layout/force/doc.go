// Package force implements a physics-based layout engine for node-link
// graphs: pairwise repulsion, spring attraction along edges, center
// gravity, and damped semi-implicit Euler integration, all scaled by a
// linearly decaying cooling factor so the system settles instead of
// oscillating forever.
//
// Above a configurable node count the O(n²) repulsion pass is replaced by
// a Barnes-Hut quadtree approximation, trading a bounded accuracy loss
// (governed by theta) for O(n log n) cost.
//
// # Execution model
//
// [Run] starts a frame-driven goroutine that advances one integration
// step per frame interval and delivers throttled position snapshots via
// callbacks. Physics state is privately owned by the running simulation;
// every snapshot is a copy, never a reference into the internal buffers.
// [Converge] is the synchronous variant: it runs all steps inline and
// returns only the settled positions.
package force
