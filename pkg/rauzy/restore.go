package rauzy

import (
	"github.com/matzehuels/rauzy/pkg/errors"
	"github.com/matzehuels/rauzy/pkg/induction"
)

// Restore rebuilds a diagram from exported nodes and edges, for example
// from a JSON snapshot. Everything is re-validated: each node must be an
// irreducible permutation in canonical form stored under its own key, and
// each edge must be exactly the Rauzy move its label names. Node indices
// are reassigned from the order of nodes.
func Restore(nodes []Node, edges []Edge, seeds []string, stats Stats) (*Diagram, error) {
	d := newDiagram()
	for _, n := range nodes {
		if err := CheckSeed(n.Perm); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "node %q", n.Key)
		}
		if n.Perm.String() != n.Key || n.Perm.Key() != n.Key {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %q is not stored in canonical form", n.Key)
		}
		if _, added := d.add(n.Key, n.Perm, n.Depth); !added {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate node %q", n.Key)
		}
	}

	for _, e := range edges {
		from, ok := d.nodes[e.From]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge from unknown node %q", e.From)
		}
		if _, ok := d.nodes[e.To]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge to unknown node %q", e.To)
		}
		next, label, err := induction.Move(from.Perm, e.Label.Winner)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "edge %s -> %s", e.From, e.To)
		}
		if label != e.Label || next.Key() != e.To {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge %s -%s-> %s is not a Rauzy move", e.From, e.Label, e.To)
		}
		d.link(e)
	}

	for _, s := range seeds {
		if _, ok := d.nodes[s]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown seed %q", s)
		}
		d.seeds = append(d.seeds, s)
	}
	if len(d.seeds) == 0 && len(d.order) > 0 {
		d.seeds = []string{d.order[0]}
	}

	stats.Nodes = len(d.order)
	stats.Edges = len(d.edges)
	stats.Loops = d.stats.Loops
	d.stats = stats
	return d, nil
}
