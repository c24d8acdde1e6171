// Package lyapunov estimates the speed of Rauzy–Zorich induction.
//
// Speed draws random positive lengths for an irreducible orientable
// permutation and runs Zorich-accelerated induction: a Zorich step is a
// maximal run of Rauzy steps won by the same row. After every Zorich step
// the lengths are renormalised to total length one and the logarithm of
// the contraction factor is accumulated. The average per Zorich step,
// taken over several independent experiments, is the estimate.
//
// For the torus permutation "a b / b a" a Zorich step is one step of the
// Gauss continued fraction map, and the speed converges to Lévy's constant
// π²/(12 ln 2) ≈ 1.1866.
//
// Lengths are *big.Float values of configurable precision; logarithms are
// computed with github.com/ALTree/bigfloat at that precision.
package lyapunov
