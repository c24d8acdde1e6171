package perm

import (
	"strings"

	"github.com/matzehuels/rauzy/pkg/errors"
)

// flipMarker prefixes flipped labels in the textual form.
const flipMarker = "-"

// Parse reads the textual form "top labels / bottom labels". Labels are
// separated by whitespace; a leading '-' marks a flipped label and may
// appear in either row:
//
//	perm.Parse("a b c / c b a")
//	perm.Parse("a -b c / c b a")
func Parse(s string) (Permutation, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return Permutation{}, errors.New(errors.ErrCodeMalformedPermutation,
			"expected two rows separated by '/', got %q", s)
	}

	seen := map[string]bool{}
	var flips []string
	var rows [2][]string
	for side, part := range parts {
		for _, field := range strings.Fields(part) {
			label, flipped := strings.CutPrefix(field, flipMarker)
			if flipped && !seen[label] {
				seen[label] = true
				flips = append(flips, label)
			}
			rows[side] = append(rows[side], label)
		}
	}
	return FromRows(rows[Top], rows[Bottom], flips)
}

// MustParse is like Parse but panics on error. It is intended for tests and
// package-level fixtures.
func MustParse(s string) Permutation {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the textual form accepted by Parse.
func (p Permutation) String() string {
	var b strings.Builder
	writeRow := func(row []string) {
		for i, l := range row {
			if i > 0 {
				b.WriteByte(' ')
			}
			if p.flips[l] {
				b.WriteString(flipMarker)
			}
			b.WriteString(l)
		}
	}
	writeRow(p.rows[Top])
	b.WriteString(" / ")
	writeRow(p.rows[Bottom])
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (p Permutation) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Permutation) UnmarshalText(b []byte) error {
	q, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = q
	return nil
}
