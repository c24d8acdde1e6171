// Package cover builds covers of interval exchange suspensions.
//
// [Lift] constructs the orientation double cover of a flipped permutation.
// The suspension of a flipped permutation is a non-orientable surface; its
// orientation double cover is a translation surface described by an
// orientable permutation on the doubled alphabet {a+, a-}. Algorithms that
// only make sense on translation surfaces (singularities, strata) run on
// the lift.
//
// [Cover] describes a finite cover of degree d of a suspension. Each label carries a permutation of the d sheets, written in
// cycle notation, and the singularities of the covering surface follow from
// the monodromy around the singularities of the base:
//
//	c, _ := cover.New(perm.MustParse("a b / b a"), []string{"(1,2)", "(1,3)"})
//	c.Stratum() // H_2(2)
//
// A cover of a flipped permutation is handled through its pullback to the
// lift.
//
// [Signature] summarises the topology of a surface: genus, singularity
// profile and stratum.
package cover
