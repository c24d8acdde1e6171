// Package rauzy explores Rauzy diagrams.
//
// # Overview
//
// The Rauzy diagram of an irreducible permutation is the directed graph of
// combinatorial types reachable from it by Rauzy moves (see package
// induction). Every node has at most two outgoing edges, one per winning
// row. The set of nodes reachable from a seed is its Rauzy class.
//
// # Exploration
//
// [Explore] and [ExploreFamily] run a breadth-first search. Nodes are keyed
// by canonical form, so permutations that differ only by a relabeling are
// one node. The state space is finite for a fixed alphabet size, which
// guarantees termination; [WithMaxNodes] and [WithMaxDepth] bound it
// further for interactive use.
//
//	d, err := rauzy.Explore(ctx, perm.MustParse("a b c d / d c b a"),
//	    rauzy.WithWorkers(4),
//	    rauzy.WithLogger(logger),
//	)
//	d.OrbitSize() // 7
//
// Successors of a BFS level are computed by a bounded pool of goroutines
// (errgroup) and merged into the node table by a single writer in frontier
// order. The diagram is therefore identical for every worker count.
//
// # Components
//
// Strong connectivity is checked, never assumed: [Diagram.Components]
// computes strongly connected components with Tarjan's algorithm and
// [Diagram.IsStronglyConnected] reports whether the diagram is one class.
// Diagrams of flipped permutations often split into several components;
// [Diagram.MinimalComponent] picks the one whose orientation double cover
// has the smallest topology.
package rauzy
