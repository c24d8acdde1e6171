// Package induction implements the Rauzy induction step on interval
// exchange transformations.
//
// An interval exchange is a [perm.Permutation] paired with a length vector
// ([Lengths]). One induction step compares the last interval of the top row
// with the last interval of the bottom row. The longer one wins and is
// shortened by the length of the other; the losing label moves next to the
// winner in the losing row. The induced exchange is the first-return map of
// the original exchange to the shorter interval.
//
//	p := perm.MustParse("a b c / c b a")
//	l := induction.Ints(map[string]int64{"a": 2, "b": 3, "c": 5})
//	next, lengths, label, err := induction.Apply(p, l)
//	// next = a b c / c a b, lengths c = 3, label = t(c>a)
//
// Lengths are generic over the arbitrary-precision types of math/big, so the
// same code serves integer (square-tiled), rational and floating point
// exchanges. Every operation returns fresh values and never modifies its
// inputs.
//
// Equal last lengths signal a saddle connection: the step is undefined and
// [Apply] fails with DEGENERATE_INDUCTION. Exploration code treats this as a
// failure; cylinder decomposition treats it as the closing of a cylinder.
//
// [Move] is the purely combinatorial half of a step. It generates the edges
// of the Rauzy diagram without reference to lengths.
package induction
