package cover

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/rauzy/pkg/errors"
	"github.com/matzehuels/rauzy/pkg/perm"
)

// MaxDegree bounds the number of sheets of a Cover.
const MaxDegree = 1 << 12

// Cover is a finite cover of the suspension of a permutation. Crossing the
// interval of a label moves a point from sheet i to sheet
// CoveringData(label)[i].
//
// The base may be flipped. The covering surface is then orientable only
// when its sheets can be signed so that exactly the flipped labels change
// sign; see [Cover.IsOrientable].
type Cover struct {
	base   perm.Permutation
	degree int
	sheets map[string][]int
}

// New builds a cover of base from covering data in cycle notation, one
// entry per label in top-row order:
//
//	cover.New(perm.MustParse("a b / b a"), []string{"(1,2)", "(1,3)"})
//
// Sheets are numbered from 1 in the notation. The degree is the largest
// sheet mentioned; "()" is the identity.
func New(base perm.Permutation, data []string) (*Cover, error) {
	if len(data) != base.Len() {
		return nil, errors.New(errors.ErrCodeInvalidCover,
			"expected covering data for %d labels, got %d", base.Len(), len(data))
	}
	m := make(map[string]string, len(data))
	for i, label := range base.Top() {
		m[label] = data[i]
	}
	return FromCycles(base, 0, m)
}

// FromCycles builds a cover from covering data in cycle notation keyed by
// label. A zero degree means the largest sheet mentioned.
func FromCycles(base perm.Permutation, degree int, data map[string]string) (*Cover, error) {
	cycles := make(map[string][][]int, len(data))
	for label, s := range data {
		cs, err := ParseCycles(s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCover, err, "covering data of %q", label)
		}
		cycles[label] = cs
		for _, c := range cs {
			degree = max(degree, slices.Max(c))
		}
	}
	if degree == 0 {
		degree = 1
	}
	if degree > MaxDegree {
		return nil, errors.New(errors.ErrCodeInvalidCover, "degree must be in [1, %d], got %d", MaxDegree, degree)
	}

	sheets := make(map[string][]int, len(cycles))
	for label, cs := range cycles {
		img := make([]int, degree)
		for i := range img {
			img[i] = i
		}
		for _, c := range cs {
			for i, s := range c {
				if s > degree {
					return nil, errors.New(errors.ErrCodeInvalidCover, "sheet %d of %q exceeds degree %d", s, label, degree)
				}
				img[s-1] = c[(i+1)%len(c)] - 1
			}
		}
		sheets[label] = img
	}
	return FromSheets(base, degree, sheets)
}

// FromSheets builds a cover from 0-based sheet permutations.
func FromSheets(base perm.Permutation, degree int, sheets map[string][]int) (*Cover, error) {
	if base.IsReducible() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "the base must be irreducible: %s", base)
	}
	if degree < 1 || degree > MaxDegree {
		return nil, errors.New(errors.ErrCodeInvalidCover, "degree must be in [1, %d], got %d", MaxDegree, degree)
	}
	if len(sheets) != base.Len() {
		return nil, errors.New(errors.ErrCodeInvalidCover,
			"expected covering data for %d labels, got %d", base.Len(), len(sheets))
	}

	c := &Cover{base: base, degree: degree, sheets: make(map[string][]int, len(sheets))}
	for _, label := range base.Alphabet() {
		img, ok := sheets[label]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidCover, "missing covering data for %q", label)
		}
		if len(img) != degree {
			return nil, errors.New(errors.ErrCodeInvalidCover, "covering data of %q has %d sheets, want %d", label, len(img), degree)
		}
		seen := make([]bool, degree)
		for _, j := range img {
			if j < 0 || j >= degree || seen[j] {
				return nil, errors.New(errors.ErrCodeInvalidCover, "covering data of %q is not a permutation", label)
			}
			seen[j] = true
		}
		c.sheets[label] = slices.Clone(img)
	}
	return c, nil
}

// Base returns the covered permutation.
func (c *Cover) Base() perm.Permutation { return c.base }

// Degree returns the number of sheets.
func (c *Cover) Degree() int { return c.degree }

// CoveringData returns the 0-based sheet permutation attached to label.
func (c *Cover) CoveringData(label string) []int { return slices.Clone(c.sheets[label]) }

// String describes the cover and its base.
func (c *Cover) String() string {
	return fmt.Sprintf("cover of degree %d of %s", c.degree, c.base)
}

// monodromy returns the sheet permutation obtained by walking once around
// a singularity of the base.
func (c *Cover) monodromy(s perm.Singularity) []int {
	inv := make(map[string][]int)
	inverse := func(label string) []int {
		if p, ok := inv[label]; ok {
			return p
		}
		p := make([]int, c.degree)
		for i, j := range c.sheets[label] {
			p[j] = i
		}
		inv[label] = p
		return p
	}

	out := make([]int, c.degree)
	for i := range out {
		j := i
		for _, t := range s.Turns {
			if t.Down != "" {
				j = c.sheets[t.Down][j]
			}
			if t.Up != "" {
				j = inverse(t.Up)[j]
			}
		}
		out[i] = j
	}
	return out
}

// IsOrientable reports whether the vertical foliation of the covering
// surface is orientable. Covers of an orientable base always are. Over a
// flipped base, sheets are signed so that crossing a flipped label changes
// the sign and crossing any other label keeps it; the cover is orientable
// when such signs exist.
func (c *Cover) IsOrientable() bool {
	if c.base.IsOrientable() {
		return true
	}
	sign := make([]int, c.degree)
	for start := range sign {
		if sign[start] != 0 {
			continue
		}
		sign[start] = 1
		todo := []int{start}
		for len(todo) > 0 {
			i := todo[len(todo)-1]
			todo = todo[:len(todo)-1]
			for _, label := range c.base.Alphabet() {
				want := sign[i]
				if c.base.IsFlipped(label) {
					want = -want
				}
				j := c.sheets[label][i]
				switch sign[j] {
				case 0:
					sign[j] = want
					todo = append(todo, j)
				case want:
				default:
					return false
				}
			}
		}
	}
	return true
}

// orientationCover returns the pullback of c to the orientation double
// cover of a flipped base. Both copies a+ and a- of a label carry the sheet
// permutation of a.
func (c *Cover) orientationCover() (*Cover, error) {
	lifted, err := Lift(c.base)
	if err != nil {
		return nil, err
	}
	sheets := make(map[string][]int, 2*len(c.sheets))
	for label, img := range c.sheets {
		sheets[Plus(label)] = img
		sheets[Minus(label)] = img
	}
	return &Cover{base: lifted, degree: c.degree, sheets: sheets}, nil
}

// Profile returns the singularity orders of the covering surface, sorted in
// decreasing order. A cycle of length l in the monodromy around a base
// singularity of order k lifts to one singularity of order (k+1)l - 1.
//
// Over a flipped base the profile is read on the pullback to the
// orientation double cover. That pullback is two copies of an orientable
// cover, whose profile is then every other order, and the orientation
// double cover of a non-orientable one.
func (c *Cover) Profile() ([]int, error) {
	if !c.base.IsOrientable() {
		oc, err := c.orientationCover()
		if err != nil {
			return nil, err
		}
		out, err := oc.Profile()
		if err != nil || !c.IsOrientable() {
			return out, err
		}
		half := make([]int, 0, len(out)/2)
		for i := 0; i < len(out); i += 2 {
			half = append(half, out[i])
		}
		return half, nil
	}
	sings, err := c.base.Singularities()
	if err != nil {
		return nil, err
	}
	var out []int
	for _, s := range sings {
		for _, l := range cycleLengths(c.monodromy(s)) {
			out = append(out, (s.Order+1)*l-1)
		}
	}
	slices.Sort(out)
	slices.Reverse(out)
	return out, nil
}

// IsConnected reports whether the sheet permutations act transitively, so
// that the covering surface is connected.
func (c *Cover) IsConnected() bool {
	seen := make([]bool, c.degree)
	seen[0] = true
	todo := []int{0}
	count := 1
	for len(todo) > 0 {
		i := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		for _, label := range c.base.Alphabet() {
			if j := c.sheets[label][i]; !seen[j] {
				seen[j] = true
				count++
				todo = append(todo, j)
			}
		}
	}
	return count == c.degree
}

// Signature returns the genus, profile and stratum of the covering surface,
// or of its orientation double cover when the surface is not orientable.
// It fails with INVALID_COVER when the cover is disconnected.
func (c *Cover) Signature() (Signature, error) {
	if !c.IsConnected() {
		return Signature{}, errors.New(errors.ErrCodeInvalidCover, "%s is disconnected", c)
	}
	profile, err := c.Profile()
	if err != nil {
		return Signature{}, err
	}
	return FromProfile(profile), nil
}

// Genus returns the genus of the (connected) covering surface.
func (c *Cover) Genus() (int, error) {
	s, err := c.Signature()
	return s.Genus, err
}

// Stratum returns the stratum of the (connected) covering surface.
func (c *Cover) Stratum() (string, error) {
	s, err := c.Signature()
	return s.Stratum, err
}

func cycleLengths(p []int) []int {
	seen := make([]bool, len(p))
	var out []int
	for i := range p {
		if seen[i] {
			continue
		}
		n := 0
		for j := i; !seen[j]; j = p[j] {
			seen[j] = true
			n++
		}
		out = append(out, n)
	}
	return out
}

// ParseCycles reads a permutation in cycle notation such as "(1,2)(3,4,5)".
// Elements are positive integers separated by commas or spaces. The empty
// string and "()" denote the identity.
func ParseCycles(s string) ([][]int, error) {
	s = strings.TrimSpace(s)
	var out [][]int
	seen := map[int]bool{}
	for s != "" {
		if s[0] != '(' {
			return nil, errors.New(errors.ErrCodeInvalidCover, "expected '(' in %q", s)
		}
		end := strings.IndexByte(s, ')')
		if end < 0 {
			return nil, errors.New(errors.ErrCodeInvalidCover, "unterminated cycle in %q", s)
		}
		body := strings.FieldsFunc(s[1:end], func(r rune) bool { return r == ',' || r == ' ' })
		var cycle []int
		for _, f := range body {
			v, err := strconv.Atoi(f)
			if err != nil || v < 1 {
				return nil, errors.New(errors.ErrCodeInvalidCover, "invalid sheet %q", f)
			}
			if seen[v] {
				return nil, errors.New(errors.ErrCodeInvalidCover, "sheet %d appears twice", v)
			}
			seen[v] = true
			cycle = append(cycle, v)
		}
		if len(cycle) > 0 {
			out = append(out, cycle)
		}
		s = strings.TrimSpace(s[end+1:])
	}
	return out, nil
}

// FormatCycles writes a 0-based permutation in 1-based cycle notation,
// omitting fixed points. The identity is "()".
func FormatCycles(p []int) string {
	var b strings.Builder
	seen := make([]bool, len(p))
	for i := range p {
		if seen[i] || p[i] == i {
			continue
		}
		b.WriteByte('(')
		for j := i; !seen[j]; j = p[j] {
			if j != i {
				b.WriteByte(',')
			}
			seen[j] = true
			b.WriteString(strconv.Itoa(j + 1))
		}
		b.WriteByte(')')
	}
	if b.Len() == 0 {
		return "()"
	}
	return b.String()
}
