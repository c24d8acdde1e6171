package perm

import "strconv"

// CanonicalLabel returns the label used for position i of the top row in
// canonical form.
func CanonicalLabel(i int) string { return strconv.Itoa(i) }

// Canonical returns the representative of p under consistent relabeling:
// the label at top position i is renamed to CanonicalLabel(i). Two
// permutations have equal canonical forms iff their rows have the same
// structure and their flips sit at the same places.
func (p Permutation) Canonical() Permutation {
	m := make(map[string]string, p.Len())
	for i, l := range p.rows[Top] {
		m[l] = CanonicalLabel(i)
	}
	// Canonical labels are digits, always valid and distinct.
	c, _ := p.Relabel(m)
	return c
}

// Key returns the textual canonical form, used as a Rauzy diagram node key.
func (p Permutation) Key() string {
	return p.Canonical().String()
}

// CanonicalMap returns the relabeling applied by Canonical, from original
// labels to canonical labels.
func (p Permutation) CanonicalMap() map[string]string {
	m := make(map[string]string, p.Len())
	for i, l := range p.rows[Top] {
		m[l] = CanonicalLabel(i)
	}
	return m
}
