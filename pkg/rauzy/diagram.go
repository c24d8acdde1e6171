package rauzy

import (
	"slices"
	"time"

	"github.com/matzehuels/rauzy/pkg/induction"
	"github.com/matzehuels/rauzy/pkg/perm"
)

// Node is a vertex of a Rauzy diagram: one combinatorial type, stored in
// canonical form.
type Node struct {
	Key   string           // canonical key, see perm.Permutation.Key
	Perm  perm.Permutation // canonical representative
	Index int              // discovery order, 0 for the first seed
	Depth int              // BFS level at which the node was discovered
}

// Edge is one Rauzy move. Label is expressed in the canonical labels of
// the source node: WinnerLabel is the top position of the shrunk interval.
type Edge struct {
	From  string
	To    string
	Label induction.StepLabel
}

// Stats summarises an exploration.
type Stats struct {
	Nodes            int           `json:"nodes"`
	Edges            int           `json:"edges"`
	Levels           int           `json:"levels"`
	Loops            int           `json:"loops"`             // edges from a node to itself
	ReducibleSkipped int           `json:"reducible_skipped"` // moves that produced reducible permutations
	Truncated        bool          `json:"truncated"`         // stopped by WithMaxDepth
	Duration         time.Duration `json:"duration"`
}

// Diagram is an explored Rauzy diagram: a flat table from canonical key to
// node plus the edges between them. Nodes never refer back to the diagram.
//
// A Diagram is immutable once returned by [Explore] and is safe for
// concurrent reads.
type Diagram struct {
	nodes map[string]*Node
	order []string
	edges []Edge
	out   map[string][]int // key -> indices into edges
	in    map[string][]int
	seeds []string
	stats Stats
}

func newDiagram() *Diagram {
	return &Diagram{
		nodes: make(map[string]*Node),
		out:   make(map[string][]int),
		in:    make(map[string][]int),
	}
}

// add inserts the canonical permutation c under key if the key is new and
// reports whether it did. The first insert wins.
func (d *Diagram) add(key string, c perm.Permutation, depth int) (*Node, bool) {
	if n, ok := d.nodes[key]; ok {
		return n, false
	}
	n := &Node{Key: key, Perm: c, Index: len(d.order), Depth: depth}
	d.nodes[key] = n
	d.order = append(d.order, key)
	return n, true
}

func (d *Diagram) link(e Edge) {
	i := len(d.edges)
	d.edges = append(d.edges, e)
	d.out[e.From] = append(d.out[e.From], i)
	d.in[e.To] = append(d.in[e.To], i)
	if e.From == e.To {
		d.stats.Loops++
	}
}

// Nodes returns the nodes in discovery order.
func (d *Diagram) Nodes() []Node {
	out := make([]Node, len(d.order))
	for i, k := range d.order {
		out[i] = *d.nodes[k]
	}
	return out
}

// Keys returns the node keys in discovery order.
func (d *Diagram) Keys() []string { return slices.Clone(d.order) }

// Edges returns every edge, grouped by source in discovery order with the
// top move before the bottom move.
func (d *Diagram) Edges() []Edge { return slices.Clone(d.edges) }

// OrbitSize returns the number of nodes.
func (d *Diagram) OrbitSize() int { return len(d.order) }

// Orbit returns the canonical permutations of all nodes in discovery order.
func (d *Diagram) Orbit() []perm.Permutation {
	out := make([]perm.Permutation, len(d.order))
	for i, k := range d.order {
		out[i] = d.nodes[k].Perm
	}
	return out
}

// Node looks up a node by canonical key.
func (d *Diagram) Node(key string) (Node, bool) {
	n, ok := d.nodes[key]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Contains reports whether the combinatorial type of p is a node.
func (d *Diagram) Contains(p perm.Permutation) bool {
	_, ok := d.nodes[p.Key()]
	return ok
}

// Successors returns the edges leaving key.
func (d *Diagram) Successors(key string) []Edge {
	return d.collect(d.out[key])
}

// Predecessors returns the edges entering key.
func (d *Diagram) Predecessors(key string) []Edge {
	return d.collect(d.in[key])
}

func (d *Diagram) collect(idx []int) []Edge {
	out := make([]Edge, len(idx))
	for i, j := range idx {
		out[i] = d.edges[j]
	}
	return out
}

// Seeds returns the keys of the seeds, without duplicates, in the order
// they were given.
func (d *Diagram) Seeds() []string { return slices.Clone(d.seeds) }

// Stats returns exploration statistics.
func (d *Diagram) Stats() Stats { return d.stats }

// IsOrientable reports whether the nodes are orientable permutations.
// Rauzy moves preserve the kind, so all nodes share the kind of the seeds.
func (d *Diagram) IsOrientable() bool {
	for _, k := range d.order {
		if !d.nodes[k].Perm.IsOrientable() {
			return false
		}
	}
	return true
}
