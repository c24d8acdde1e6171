package perm

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/rauzy/pkg/errors"
)

// Turn is one step of the walk around a singularity of the suspension
// surface. Leaving top endpoint From, the walk crosses label Down from the
// top row into the bottom row, turns around the bottom endpoint and crosses
// label Up from the bottom row back into the top row, arriving at top
// endpoint To. Down is empty when From is the left end (the walk follows the
// left side instead); Up is empty when the walk reaches the right end.
type Turn struct {
	From, To int
	Down, Up string
}

// Singularity is a cone point of the suspension surface. Its cone angle is
// 2π(Order+1); an Order of 0 is a marked regular point.
type Singularity struct {
	Order int
	Turns []Turn
}

// Endpoints returns the top endpoints visited by the walk, in order.
func (s Singularity) Endpoints() []int {
	out := make([]int, len(s.Turns))
	for i, t := range s.Turns {
		out[i] = t.From
	}
	return out
}

func (p Permutation) requireIrreducibleOrientable(op string) error {
	if !p.IsOrientable() {
		return errors.New(errors.ErrCodeNotOrientable, "%s requires an orientable permutation", op)
	}
	if p.Len() < 2 {
		return errors.New(errors.ErrCodeInvalidInput, "%s requires at least two labels", op)
	}
	if p.IsReducible() {
		return errors.New(errors.ErrCodeInvalidInput, "%s requires an irreducible permutation: %s", op, p)
	}
	return nil
}

// Singularities returns the cone points of the suspension of an irreducible
// orientable permutation, following the endpoint permutation
//
//	σ(0) = π⁻¹(1) − 1
//	σ(j) = n                    if π(j) = n
//	σ(j) = π⁻¹(π(j) + 1) − 1    otherwise
//
// on top endpoints 0..n, where π sends a top position to the bottom
// position of the same label (1-based). A cycle c of σ is a singularity of
// order |c| − 1 minus one for each of the ends 0 and n it contains.
// Singularities are returned in order of their smallest endpoint.
func (p Permutation) Singularities() ([]Singularity, error) {
	if err := p.requireIrreducibleOrientable("singularities"); err != nil {
		return nil, err
	}

	n := p.Len()
	step := func(j int) Turn {
		if j == 0 {
			up := p.rows[Bottom][0]
			return Turn{From: 0, To: p.pos[Top][up], Up: up}
		}
		down := p.rows[Top][j-1]
		b := p.pos[Bottom][down] + 1 // π(j)
		if b == n {
			return Turn{From: j, To: n, Down: down}
		}
		up := p.rows[Bottom][b]
		return Turn{From: j, To: p.pos[Top][up], Down: down, Up: up}
	}

	visited := make([]bool, n+1)
	var out []Singularity
	for start := 0; start <= n; start++ {
		if visited[start] {
			continue
		}
		var s Singularity
		order := -1
		for j := start; !visited[j]; {
			visited[j] = true
			t := step(j)
			s.Turns = append(s.Turns, t)
			order++
			if j == 0 || j == n {
				order--
			}
			j = t.To
		}
		s.Order = order
		out = append(out, s)
	}
	return out, nil
}

// Profile returns the singularity orders sorted in decreasing order.
func (p Permutation) Profile() ([]int, error) {
	sings, err := p.Singularities()
	if err != nil {
		return nil, err
	}
	out := make([]int, len(sings))
	for i, s := range sings {
		out[i] = s.Order
	}
	slices.Sort(out)
	slices.Reverse(out)
	return out, nil
}

// Genus returns the genus of the suspension surface: the orders of a
// translation surface of genus g sum to 2g − 2.
func (p Permutation) Genus() (int, error) {
	profile, err := p.Profile()
	if err != nil {
		return 0, err
	}
	return GenusOf(profile), nil
}

// Stratum returns the stratum of the suspension surface, e.g. "H_2(1^2)".
func (p Permutation) Stratum() (string, error) {
	profile, err := p.Profile()
	if err != nil {
		return "", err
	}
	return Stratum(profile), nil
}

// GenusOf returns the genus of a translation surface with the given
// singularity orders.
func GenusOf(profile []int) int {
	sum := 0
	for _, k := range profile {
		sum += k
	}
	return sum/2 + 1
}

// Stratum formats a profile as an Abelian stratum name. Repeated orders are
// written with exponents: [1 1] becomes "H_2(1^2)".
func Stratum(profile []int) string {
	sorted := slices.Clone(profile)
	slices.Sort(sorted)
	slices.Reverse(sorted)

	var parts []string
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i == 1 {
			parts = append(parts, fmt.Sprint(sorted[i]))
		} else {
			parts = append(parts, fmt.Sprintf("%d^%d", sorted[i], j-i))
		}
		i = j
	}
	return fmt.Sprintf("H_%d(%s)", GenusOf(sorted), strings.Join(parts, ", "))
}
