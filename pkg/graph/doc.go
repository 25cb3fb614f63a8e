// Package graph defines the serialization types shared by all graphflow
// layout engines: nodes, edges, positions, and computed layouts.
//
// A [Graph] is the input contract: a flat node list plus a directed edge
// list, both keyed by stable string IDs. A [Layout] is the output contract:
// one finite position per input node, tagged with the algorithm and frame
// dimensions that produced it.
//
// The package is deliberately free of layout logic. It exists so that the
// CLI, the HTTP surface, and the engines in pkg/layout all agree on one
// wire format with round-trip fidelity: read → layout → write → re-read
// produces identical structures.
package graph
