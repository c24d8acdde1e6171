package perm

// splits returns every k in [1, n) such that the first k labels of the top
// row and the first k labels of the bottom row form the same set.
func (p Permutation) splits() []int {
	n := p.Len()
	seen := make(map[string]int, n) // label -> number of rows it was seen in
	common := 0
	var out []int
	for k := 0; k < n-1; k++ {
		for _, label := range [2]string{p.rows[Top][k], p.rows[Bottom][k]} {
			seen[label]++
			if seen[label] == 2 {
				common++
			}
		}
		if common == k+1 {
			out = append(out, k+1)
		}
	}
	return out
}

// IsReducible reports whether some proper prefix of the top row and the
// prefix of the same length of the bottom row contain the same labels.
// A reducible exchange is the direct sum of two independent exchanges.
func (p Permutation) IsReducible() bool {
	return len(p.splits()) > 0
}

// Components splits the permutation at every reducibility point and returns
// the irreducible pieces from left to right. An irreducible permutation
// yields itself. Flips travel with their labels; a piece without flipped
// labels is orientable.
func (p Permutation) Components() []Permutation {
	cuts := append(p.splits(), p.Len())
	out := make([]Permutation, 0, len(cuts))
	prev := 0
	for _, k := range cuts {
		top := p.rows[Top][prev:k]
		bottom := p.rows[Bottom][prev:k]
		var flips []string
		for _, l := range top {
			if p.flips[l] {
				flips = append(flips, l)
			}
		}
		// Pieces of a valid permutation are valid by construction.
		piece, _ := FromRows(top, bottom, flips)
		out = append(out, piece)
		prev = k
	}
	return out
}
