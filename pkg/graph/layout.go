package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// Layout is the serialization format for a computed layout.
//
// Positions holds exactly one entry per input node, keyed by node ID.
// Algo records which engine produced it ("layered", "radial", "force").
// For force layouts, Steps is the number of integration steps run and
// Seed the random seed used for initial scatter, so a run can be
// reproduced from its output file alone.
type Layout struct {
	Algo   string  `json:"algo"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Positions map[string]Position `json:"positions"`

	// Force-specific
	Steps int    `json:"steps,omitempty"`
	Seed  uint64 `json:"seed,omitempty"`
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that the algorithm is known and every position is finite.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if !ValidAlgos[l.Algo] {
		return Layout{}, fmt.Errorf("unknown layout algorithm %q", l.Algo)
	}
	for id, p := range l.Positions {
		if !p.IsFinite() {
			return Layout{}, fmt.Errorf("non-finite position for node %s", id)
		}
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

// WriteGraphFile writes a Graph to a JSON file.
func WriteGraphFile(g Graph, path string) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadGraphFile reads and validates a Graph from a JSON file.
func ReadGraphFile(path string) (Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Graph{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalGraph(data)
}
