package perm

import (
	"maps"
	"slices"

	"github.com/matzehuels/rauzy/pkg/errors"
)

// Side selects one of the two rows of a permutation.
type Side int

const (
	// Top is the row of subintervals before the exchange.
	Top Side = iota
	// Bottom is the row of subintervals after the exchange.
	Bottom
)

// Other returns the opposite row.
func (s Side) Other() Side { return 1 - s }

// String returns "top" or "bottom".
func (s Side) String() string {
	if s == Top {
		return "top"
	}
	return "bottom"
}

// Short returns the one-letter form used in edge labels ("t" or "b").
func (s Side) Short() string {
	if s == Top {
		return "t"
	}
	return "b"
}

// ParseSide parses "t", "top", "b" or "bottom".
func ParseSide(s string) (Side, error) {
	switch s {
	case "t", "top":
		return Top, nil
	case "b", "bottom":
		return Bottom, nil
	}
	return Top, errors.New(errors.ErrCodeInvalidInput, "unknown side %q (must be 'top' or 'bottom')", s)
}

// MarshalText encodes the side as "top" or "bottom".
func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText accepts any form understood by [ParseSide].
func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Kind distinguishes the two shapes a permutation can take.
type Kind int

const (
	// Orientable permutations encode translation surfaces.
	Orientable Kind = iota
	// Flipped permutations carry at least one reversed label.
	Flipped
)

// String returns "orientable" or "flipped".
func (k Kind) String() string {
	if k == Flipped {
		return "flipped"
	}
	return "orientable"
}

// Permutation is an immutable labeled permutation.
//
// The zero value is the empty permutation and is not accepted by any
// algorithm; use [New], [NewFlipped], [FromRows] or [Parse].
type Permutation struct {
	rows  [2][]string
	pos   [2]map[string]int
	flips map[string]bool // nil for orientable permutations
}

// New builds an orientable permutation from its two rows.
//
// It fails with MALFORMED_PERMUTATION when a row is empty, the rows have
// different lengths, a label is invalid, a label repeats within a row, or
// the rows do not hold the same labels.
func New(top, bottom []string) (Permutation, error) {
	return build(top, bottom, nil)
}

// NewFlipped builds a non-orientable permutation. flips lists the reversed
// labels and must name at least one label of the alphabet.
func NewFlipped(top, bottom, flips []string) (Permutation, error) {
	if len(flips) == 0 {
		return Permutation{}, errors.New(errors.ErrCodeMalformedPermutation, "flipped permutation needs at least one flipped label")
	}
	return build(top, bottom, flips)
}

// FromRows builds an orientable permutation when flips is empty and a
// flipped one otherwise.
func FromRows(top, bottom, flips []string) (Permutation, error) {
	if len(flips) == 0 {
		return New(top, bottom)
	}
	return NewFlipped(top, bottom, flips)
}

func build(top, bottom, flips []string) (Permutation, error) {
	if len(top) == 0 || len(bottom) == 0 {
		return Permutation{}, errors.New(errors.ErrCodeMalformedPermutation, "rows cannot be empty")
	}
	if len(top) != len(bottom) {
		return Permutation{}, errors.New(errors.ErrCodeMalformedPermutation,
			"rows have different lengths (%d top, %d bottom)", len(top), len(bottom))
	}

	var p Permutation
	for side, row := range [2][]string{top, bottom} {
		p.rows[side] = slices.Clone(row)
		p.pos[side] = make(map[string]int, len(row))
		for i, label := range row {
			if err := errors.ValidateLabel(label); err != nil {
				return Permutation{}, err
			}
			if _, dup := p.pos[side][label]; dup {
				return Permutation{}, errors.New(errors.ErrCodeMalformedPermutation,
					"label %q appears more than once in the %s row", label, Side(side))
			}
			p.pos[side][label] = i
		}
	}
	for _, label := range top {
		if _, ok := p.pos[Bottom][label]; !ok {
			return Permutation{}, errors.New(errors.ErrCodeMalformedPermutation,
				"label %q appears in the top row but not in the bottom row", label)
		}
	}

	if len(flips) > 0 {
		p.flips = make(map[string]bool, len(flips))
		for _, label := range flips {
			if _, ok := p.pos[Top][label]; !ok {
				return Permutation{}, errors.New(errors.ErrCodeMalformedPermutation, "flipped label %q is not in the alphabet", label)
			}
			p.flips[label] = true
		}
	}
	return p, nil
}

// Kind reports whether the permutation is orientable or flipped.
func (p Permutation) Kind() Kind {
	if len(p.flips) > 0 {
		return Flipped
	}
	return Orientable
}

// IsOrientable reports whether no label is flipped.
func (p Permutation) IsOrientable() bool { return p.Kind() == Orientable }

// Len returns the number of labels.
func (p Permutation) Len() int { return len(p.rows[Top]) }

// Top returns a copy of the top row.
func (p Permutation) Top() []string { return slices.Clone(p.rows[Top]) }

// Bottom returns a copy of the bottom row.
func (p Permutation) Bottom() []string { return slices.Clone(p.rows[Bottom]) }

// Row returns a copy of the given row.
func (p Permutation) Row(s Side) []string { return slices.Clone(p.rows[s]) }

// At returns the label at position i of the given row.
func (p Permutation) At(s Side, i int) string { return p.rows[s][i] }

// Last returns the last label of the given row.
func (p Permutation) Last(s Side) string { return p.rows[s][len(p.rows[s])-1] }

// Position returns the index of label in the given row, or -1.
func (p Permutation) Position(s Side, label string) int {
	if i, ok := p.pos[s][label]; ok {
		return i
	}
	return -1
}

// Has reports whether label belongs to the alphabet.
func (p Permutation) Has(label string) bool {
	_, ok := p.pos[Top][label]
	return ok
}

// Alphabet returns the labels sorted lexicographically.
func (p Permutation) Alphabet() []string {
	return slices.Sorted(maps.Keys(p.pos[Top]))
}

// IsFlipped reports whether label is reversed by the exchange.
func (p Permutation) IsFlipped(label string) bool { return p.flips[label] }

// Flips returns the flipped labels sorted lexicographically.
func (p Permutation) Flips() []string {
	return slices.Sorted(maps.Keys(p.flips))
}

// Equal reports whether both permutations have identical rows and flips.
func (p Permutation) Equal(q Permutation) bool {
	return slices.Equal(p.rows[Top], q.rows[Top]) &&
		slices.Equal(p.rows[Bottom], q.rows[Bottom]) &&
		maps.Equal(p.flips, q.flips)
}

// Relabel returns the permutation with every label replaced through m.
// Labels missing from m are kept.
func (p Permutation) Relabel(m map[string]string) (Permutation, error) {
	rename := func(l string) string {
		if r, ok := m[l]; ok {
			return r
		}
		return l
	}
	var rows [2][]string
	for side := range rows {
		rows[side] = make([]string, len(p.rows[side]))
		for i, l := range p.rows[side] {
			rows[side][i] = rename(l)
		}
	}
	var flips []string
	for _, l := range p.Flips() {
		flips = append(flips, rename(l))
	}
	return FromRows(rows[Top], rows[Bottom], flips)
}
