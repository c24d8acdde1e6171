package rauzy

import "slices"

// tarjan computes strongly connected components over node indices.
type tarjan struct {
	adj     [][]int
	stack   []int
	indices []int // discovery index, -1 when unvisited
	lowlink []int
	onStack []bool
	index   int
	sccs    [][]int
}

func (t *tarjan) run() [][]int {
	t.indices = make([]int, len(t.adj))
	t.lowlink = make([]int, len(t.adj))
	t.onStack = make([]bool, len(t.adj))
	for i := range t.indices {
		t.indices[i] = -1
	}
	for v := range t.adj {
		if t.indices[v] == -1 {
			t.strongConnect(v)
		}
	}
	return t.sccs
}

func (t *tarjan) strongConnect(v int) {
	t.indices[v] = t.index
	t.lowlink[v] = t.index
	t.index++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.adj[v] {
		if t.indices[w] == -1 {
			t.strongConnect(w)
			t.lowlink[v] = min(t.lowlink[v], t.lowlink[w])
		} else if t.onStack[w] {
			t.lowlink[v] = min(t.lowlink[v], t.indices[w])
		}
	}

	// v is the root of a component.
	if t.lowlink[v] == t.indices[v] {
		var scc []int
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}

// components returns the strongly connected components as sorted node
// indices, ordered by their first discovered node.
func (d *Diagram) components() [][]int {
	t := &tarjan{adj: make([][]int, len(d.order))}
	for _, e := range d.edges {
		from, to := d.nodes[e.From].Index, d.nodes[e.To].Index
		t.adj[from] = append(t.adj[from], to)
	}
	sccs := t.run()
	for _, c := range sccs {
		slices.Sort(c)
	}
	slices.SortFunc(sccs, func(a, b []int) int { return a[0] - b[0] })
	return sccs
}

// Components returns the strongly connected components of the diagram as
// node keys. Keys within a component and the components themselves follow
// discovery order.
func (d *Diagram) Components() [][]string {
	sccs := d.components()
	out := make([][]string, len(sccs))
	for i, c := range sccs {
		out[i] = make([]string, len(c))
		for j, v := range c {
			out[i][j] = d.order[v]
		}
	}
	return out
}

// IsStronglyConnected reports whether every node reaches every other node.
// A Rauzy class is expected to be strongly connected; this checks it.
func (d *Diagram) IsStronglyConnected() bool {
	return len(d.order) > 0 && len(d.components()) == 1
}
