package cover

import (
	"slices"

	"github.com/matzehuels/rauzy/pkg/errors"
	"github.com/matzehuels/rauzy/pkg/perm"
)

// Sheet suffixes of the doubled alphabet.
const (
	PlusSuffix  = "+"
	MinusSuffix = "-"
)

// Plus returns the label of the copy of label on the positive sheet.
func Plus(label string) string { return label + PlusSuffix }

// Minus returns the label of the copy of label on the negative sheet.
func Minus(label string) string { return label + MinusSuffix }

// Lift builds the orientation double cover of a flipped permutation: an
// orientable permutation on the doubled alphabet {a+, a-}.
//
// The top row is the top row on the positive sheet followed by the reversed
// top row on the negative sheet. The bottom row lists, for each bottom
// label, its positive copy (negative when the label is flipped), followed by
// the reversed bottom row with the opposite choice:
//
//	a -b / b a  ->  a+ b+ b- a- / b- a+ a- b+
//
// Lift fails with NOT_FLIPPED for orientable input and with INVALID_INPUT
// for a reducible base.
func Lift(p perm.Permutation) (perm.Permutation, error) {
	if p.IsOrientable() {
		return perm.Permutation{}, errors.New(errors.ErrCodeNotFlipped, "orientation cover requires a flipped permutation: %s", p)
	}
	if p.IsReducible() {
		return perm.Permutation{}, errors.New(errors.ErrCodeInvalidInput, "orientation cover requires an irreducible permutation: %s", p)
	}

	n := p.Len()
	top := make([]string, 0, 2*n)
	for _, l := range p.Top() {
		top = append(top, Plus(l))
	}
	for _, l := range slices.Backward(p.Top()) {
		top = append(top, Minus(l))
	}

	bottom := make([]string, 0, 2*n)
	for _, l := range p.Bottom() {
		if p.IsFlipped(l) {
			bottom = append(bottom, Minus(l))
		} else {
			bottom = append(bottom, Plus(l))
		}
	}
	for _, l := range slices.Backward(p.Bottom()) {
		if p.IsFlipped(l) {
			bottom = append(bottom, Plus(l))
		} else {
			bottom = append(bottom, Minus(l))
		}
	}

	lifted, err := perm.New(top, bottom)
	if err != nil {
		return perm.Permutation{}, errors.Wrap(errors.ErrCodeInternal, err, "lift %s", p)
	}
	if lifted.IsReducible() {
		return perm.Permutation{}, errors.New(errors.ErrCodeInternal, "lift of %s is reducible: %s", p, lifted)
	}
	return lifted, nil
}
