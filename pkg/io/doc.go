// Package io provides JSON import and export for Rauzy diagrams and
// cylinder decompositions.
//
// # Diagram format
//
//	{
//	  "seeds": ["0 1 2 / 2 1 0"],
//	  "nodes": [
//	    {"key": "0 1 2 / 2 1 0", "depth": 0},
//	    {"key": "0 1 2 / 2 0 1", "depth": 1}
//	  ],
//	  "edges": [
//	    {"from": "0 1 2 / 2 1 0", "to": "0 1 2 / 2 0 1",
//	     "label": {"winner": "top", "winner_label": "2", "loser_label": "0"}}
//	  ],
//	  "components": [["0 1 2 / 2 1 0", "0 1 2 / 2 0 1", "0 1 2 / 1 2 0"]],
//	  "stats": {"nodes": 3, "edges": 6, ...}
//	}
//
// Node keys are canonical permutations in text form (see perm.Parse) and
// double as the node permutation. Components are written for readers of
// the file and ignored on import.
//
// # Import
//
// [ReadJSON] and [ImportJSON] rebuild a diagram through rauzy.Restore, so
// every node is checked to be an irreducible canonical permutation and
// every edge to be the Rauzy move its label names. A snapshot edited by
// hand cannot smuggle in a wrong edge.
//
// # Decompositions
//
// [WriteDecomposition] and [ReadDecomposition] handle cylinder
// decompositions together with the input that produced them. Integers are
// written as JSON numbers of arbitrary size.
package io
