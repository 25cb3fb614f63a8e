// Package layout provides deterministic 2D layout algorithms for
// node-link graphs, plus the geometry helpers a renderer needs to draw
// clean node-to-node connectors.
//
// Two static engines are included:
//
//   - [Layered] assigns nodes to discrete horizontal bands by BFS depth
//     and spreads each band evenly down the frame.
//   - [Radial] places the root at the frame center and each depth on a
//     concentric ring.
//
// Both are pure functions: no randomness, no side effects, and identical
// input always produces identical output. The physics-based engine lives
// in the force subpackage.
//
// # Error philosophy
//
// The engines favor graceful degradation over errors: cycles fall back to
// a documented root choice, disconnected components collapse into one
// trailing layer, and dangling edge references are skipped. A returned
// position is always finite.
package layout
