package rauzy

import (
	"github.com/matzehuels/rauzy/pkg/cover"
	"github.com/matzehuels/rauzy/pkg/errors"
	"github.com/matzehuels/rauzy/pkg/perm"
)

// Component is a strongly connected piece of a diagram.
type Component struct {
	Keys           []string         // node keys in discovery order
	Representative perm.Permutation // first discovered node
	Cover          cover.Signature  // topology of the representative's (orientation cover) surface
	Recurrent      bool             // more than one node, or a node with a loop
}

func (d *Diagram) component(idx []int) (Component, error) {
	c := Component{Keys: make([]string, len(idx))}
	for i, v := range idx {
		c.Keys[i] = d.order[v]
	}
	c.Representative = d.nodes[c.Keys[0]].Perm
	c.Recurrent = len(idx) > 1
	for _, e := range d.Successors(c.Keys[0]) {
		if e.To == c.Keys[0] {
			c.Recurrent = true
		}
	}
	sig, err := cover.Of(c.Representative)
	if err != nil {
		return Component{}, err
	}
	c.Cover = sig
	return c, nil
}

// MinimalComponent selects one component of the diagram.
//
// For orientable diagrams it is the component of the first seed, with the
// signature of the seed's own suspension. For flipped diagrams several
// components may coexist; each recurrent component is represented by its
// first discovered node, whose orientation double cover is computed, and
// the component whose cover has the smallest (genus, number of
// singularities, profile) wins, ties broken by key. When no component is
// recurrent, all components compete.
func (d *Diagram) MinimalComponent() (Component, error) {
	if len(d.order) == 0 {
		return Component{}, errors.New(errors.ErrCodeNotFound, "empty diagram")
	}
	sccs := d.components()

	if d.IsOrientable() {
		first := d.nodes[d.seeds[0]].Index
		for _, c := range sccs {
			for _, v := range c {
				if v == first {
					return d.component(c)
				}
			}
		}
		return Component{}, errors.New(errors.ErrCodeInternal, "seed %s has no component", d.seeds[0])
	}

	var all, recurrent []Component
	for _, idx := range sccs {
		c, err := d.component(idx)
		if err != nil {
			return Component{}, err
		}
		all = append(all, c)
		if c.Recurrent {
			recurrent = append(recurrent, c)
		}
	}
	candidates := recurrent
	if len(candidates) == 0 {
		candidates = all
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		switch cmp := cover.Compare(c.Cover, best.Cover); {
		case cmp < 0:
			best = c
		case cmp == 0 && c.Keys[0] < best.Keys[0]:
			best = c
		}
	}
	return best, nil
}
