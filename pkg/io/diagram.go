package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/rauzy/pkg/induction"
	"github.com/matzehuels/rauzy/pkg/perm"
	"github.com/matzehuels/rauzy/pkg/rauzy"
)

type diagram struct {
	Seeds      []string    `json:"seeds"`
	Nodes      []node      `json:"nodes"`
	Edges      []edge      `json:"edges"`
	Components [][]string  `json:"components,omitempty"`
	Stats      rauzy.Stats `json:"stats"`
}

type node struct {
	Key   string `json:"key"`
	Depth int    `json:"depth"`
}

type edge struct {
	From  string              `json:"from"`
	To    string              `json:"to"`
	Label induction.StepLabel `json:"label"`
}

// MarshalDiagram encodes d as indented JSON.
func MarshalDiagram(d *rauzy.Diagram) ([]byte, error) {
	nodes := d.Nodes()
	edges := d.Edges()
	out := diagram{
		Seeds:      d.Seeds(),
		Nodes:      make([]node, len(nodes)),
		Edges:      make([]edge, len(edges)),
		Components: d.Components(),
		Stats:      d.Stats(),
	}
	for i, n := range nodes {
		out.Nodes[i] = node{Key: n.Key, Depth: n.Depth}
	}
	for i, e := range edges {
		out.Edges[i] = edge{From: e.From, To: e.To, Label: e.Label}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// UnmarshalDiagram decodes and validates a diagram snapshot.
func UnmarshalDiagram(data []byte) (*rauzy.Diagram, error) {
	var in diagram
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	nodes := make([]rauzy.Node, len(in.Nodes))
	for i, n := range in.Nodes {
		p, err := perm.Parse(n.Key)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		nodes[i] = rauzy.Node{Key: n.Key, Perm: p, Depth: n.Depth}
	}
	edges := make([]rauzy.Edge, len(in.Edges))
	for i, e := range in.Edges {
		edges[i] = rauzy.Edge{From: e.From, To: e.To, Label: e.Label}
	}
	return rauzy.Restore(nodes, edges, in.Seeds, in.Stats)
}

// WriteJSON encodes a diagram as JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(d *rauzy.Diagram, w io.Writer) error {
	data, err := MarshalDiagram(d)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ReadJSON decodes a diagram from r. It does not close r.
func ReadJSON(r io.Reader) (*rauzy.Diagram, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return UnmarshalDiagram(data)
}

// ExportJSON writes a diagram to a JSON file at path.
func ExportJSON(d *rauzy.Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(d, f)
}

// ImportJSON reads a diagram from the JSON file at path.
func ImportJSON(path string) (*rauzy.Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
