package cover

import (
	"slices"

	"github.com/matzehuels/rauzy/pkg/perm"
)

// Signature is the topological type of a translation surface.
type Signature struct {
	Genus   int    `json:"genus"`
	Profile []int  `json:"profile"` // singularity orders, decreasing
	Stratum string `json:"stratum"`
}

// Of returns the signature of the surface carried by p: the suspension
// itself when p is orientable, its orientation double cover otherwise.
func Of(p perm.Permutation) (Signature, error) {
	if !p.IsOrientable() {
		lifted, err := Lift(p)
		if err != nil {
			return Signature{}, err
		}
		p = lifted
	}
	profile, err := p.Profile()
	if err != nil {
		return Signature{}, err
	}
	return FromProfile(profile), nil
}

// FromProfile builds a signature from singularity orders.
func FromProfile(profile []int) Signature {
	sorted := slices.Clone(profile)
	slices.Sort(sorted)
	slices.Reverse(sorted)
	return Signature{
		Genus:   perm.GenusOf(sorted),
		Profile: sorted,
		Stratum: perm.Stratum(sorted),
	}
}

// Compare orders signatures by genus, then number of singularities, then
// profile. Smaller surfaces come first.
func Compare(a, b Signature) int {
	if a.Genus != b.Genus {
		return a.Genus - b.Genus
	}
	if len(a.Profile) != len(b.Profile) {
		return len(a.Profile) - len(b.Profile)
	}
	return slices.Compare(a.Profile, b.Profile)
}
