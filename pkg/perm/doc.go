// Package perm provides labeled permutations, the combinatorial datatype of an
// interval exchange transformation (IET).
//
// # Overview
//
// An interval exchange cuts an interval into labeled subintervals and
// reassembles them in a different order. The combinatorics are recorded by
// two rows of labels: the top row lists the subintervals before the exchange,
// the bottom row after it. Every label appears exactly once in each row.
//
//	p, err := perm.New([]string{"a", "b", "c"}, []string{"c", "b", "a"})
//	fmt.Println(p) // a b c / c b a
//
// # Orientable and flipped permutations
//
// A [Permutation] is a tagged value of one of two [Kind]s. Orientable
// permutations describe translation surfaces. Flipped permutations attach a
// flip (a sign of -1) to some labels: the corresponding subinterval is
// reversed by the exchange, and the suspension is a non-orientable surface.
// Both shapes share one type so that every algorithm can branch on
// [Permutation.Kind] instead of on a type hierarchy:
//
//	q, _ := perm.Parse("a -b c / c -b a")
//	q.Kind()          // perm.Flipped
//	q.IsFlipped("b")  // true
//
// # Irreducibility
//
// A permutation is reducible when a proper prefix of the top row and the
// prefix of the same length of the bottom row hold the same labels. The
// exchange then splits into two independent exchanges. [Permutation.Components]
// performs that split. The Rauzy diagram only ever admits irreducible
// permutations.
//
// # Canonical form
//
// [Permutation.Canonical] relabels a permutation by top-row order, so two
// permutations with the same row structure (and flip pattern) produce the
// same [Permutation.Key]. Keys identify nodes of a Rauzy diagram.
//
// # Singularities
//
// For irreducible orientable permutations, [Permutation.Singularities]
// walks the endpoint permutation of the suspension surface and reports the
// order of every cone point, from which [Permutation.Genus] and
// [Permutation.Stratum] follow.
//
// Permutations are immutable: accessors return copies and every operation
// that changes the rows builds a new value.
package perm
