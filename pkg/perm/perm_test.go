package perm

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/rauzy/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		top     []string
		bottom  []string
		wantErr bool
	}{
		{"rotation", []string{"a", "b"}, []string{"b", "a"}, false},
		{"identity", []string{"a", "b", "c"}, []string{"a", "b", "c"}, false},
		{"empty", nil, nil, true},
		{"length mismatch", []string{"a", "b"}, []string{"a"}, true},
		{"duplicate top", []string{"a", "a"}, []string{"a", "b"}, true},
		{"duplicate bottom", []string{"a", "b"}, []string{"b", "b"}, true},
		{"different labels", []string{"a", "b"}, []string{"a", "c"}, true},
		{"empty label", []string{"a", ""}, []string{"", "a"}, true},
		{"separator in label", []string{"a/b"}, []string{"a/b"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.top, tt.bottom)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeMalformedPermutation) {
					t.Fatalf("New() error = %v, want MALFORMED_PERMUTATION", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}
			if !p.IsOrientable() {
				t.Error("New() should build an orientable permutation")
			}
			if diff := cmp.Diff(tt.top, p.Top()); diff != "" {
				t.Errorf("Top() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewFlipped(t *testing.T) {
	if _, err := NewFlipped([]string{"a", "b"}, []string{"b", "a"}, nil); !errors.Is(err, errors.ErrCodeMalformedPermutation) {
		t.Errorf("NewFlipped() without flips error = %v", err)
	}
	if _, err := NewFlipped([]string{"a", "b"}, []string{"b", "a"}, []string{"z"}); !errors.Is(err, errors.ErrCodeMalformedPermutation) {
		t.Errorf("NewFlipped() with unknown flip error = %v", err)
	}

	p, err := NewFlipped([]string{"a", "b"}, []string{"b", "a"}, []string{"b"})
	if err != nil {
		t.Fatalf("NewFlipped() error: %v", err)
	}
	if p.Kind() != Flipped {
		t.Errorf("Kind() = %v, want flipped", p.Kind())
	}
	if !p.IsFlipped("b") || p.IsFlipped("a") {
		t.Errorf("flips = %v, want [b]", p.Flips())
	}
}

// Random row pairs: every accepted permutation has each label exactly once
// per row, and every rejected pair is a MALFORMED_PERMUTATION.
func TestConstructionInvariant(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	alphabet := []string{"a", "b", "c", "d", "e"}
	draw := func(n int) []string {
		row := make([]string, n)
		for i := range row {
			row[i] = alphabet[rng.IntN(len(alphabet))]
		}
		return row
	}

	accepted := 0
	for range 2000 {
		n := 1 + rng.IntN(len(alphabet))
		top, bottom := draw(n), draw(n)
		if rng.IntN(3) == 0 {
			top = slices.Clone(alphabet[:n])
			bottom = slices.Clone(top)
			rng.Shuffle(n, func(i, j int) { bottom[i], bottom[j] = bottom[j], bottom[i] })
		}

		p, err := New(top, bottom)
		if err != nil {
			if !errors.Is(err, errors.ErrCodeMalformedPermutation) {
				t.Fatalf("New(%v, %v) error code = %s", top, bottom, errors.GetCode(err))
			}
			continue
		}
		accepted++
		for _, side := range []Side{Top, Bottom} {
			seen := map[string]int{}
			for _, l := range p.Row(side) {
				seen[l]++
			}
			for _, l := range p.Alphabet() {
				if seen[l] != 1 {
					t.Fatalf("%v: label %q occurs %d times in %s row", p, l, seen[l], side)
				}
			}
			if len(seen) != p.Len() {
				t.Fatalf("%v: %s row has foreign labels", p, side)
			}
		}
	}
	if accepted == 0 {
		t.Fatal("no permutation accepted")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		flips  []string
		errNil bool
	}{
		{"a b c / c b a", "a b c / c b a", nil, true},
		{"  a   b /b a ", "a b / b a", nil, true},
		{"a -b c / c b a", "a -b c / c -b a", []string{"b"}, true},
		{"-a b / b -a", "-a b / b -a", []string{"a"}, true},
		{"a b", "", nil, false},
		{"a b / b a / c", "", nil, false},
		{" / ", "", nil, false},
		{"a - / - a", "", nil, false},
		{"a --b / --b a", "", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := Parse(tt.in)
			if !tt.errNil {
				if !errors.Is(err, errors.ErrCodeMalformedPermutation) {
					t.Fatalf("Parse(%q) error = %v, want MALFORMED_PERMUTATION", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if got := p.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if diff := cmp.Diff(tt.flips, p.Flips()); len(tt.flips) > 0 && diff != "" {
				t.Errorf("Flips() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTextRoundTrip(t *testing.T) {
	p := MustParse("x -y z / z x -y")
	b, err := p.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var q Permutation
	if err := q.UnmarshalText(b); err != nil {
		t.Fatal(err)
	}
	if !p.Equal(q) {
		t.Errorf("round trip: got %v, want %v", q, p)
	}
}

func TestAccessors(t *testing.T) {
	p := MustParse("a b c d / d c b a")
	if p.Len() != 4 {
		t.Errorf("Len() = %d", p.Len())
	}
	if p.Last(Top) != "d" || p.Last(Bottom) != "a" {
		t.Errorf("Last() = %s/%s", p.Last(Top), p.Last(Bottom))
	}
	if p.Position(Bottom, "c") != 1 || p.Position(Top, "z") != -1 {
		t.Error("Position() mismatch")
	}
	if p.At(Bottom, 0) != "d" {
		t.Errorf("At(Bottom, 0) = %s", p.At(Bottom, 0))
	}

	top := p.Top()
	top[0] = "mutated"
	if p.At(Top, 0) != "a" {
		t.Error("Top() must return a copy")
	}
}

func TestSide(t *testing.T) {
	for _, s := range []Side{Top, Bottom} {
		got, err := ParseSide(s.Short())
		if err != nil || got != s {
			t.Errorf("ParseSide(%q) = %v, %v", s.Short(), got, err)
		}
		got, err = ParseSide(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSide(%q) = %v, %v", s.String(), got, err)
		}
		if s.Other().Other() != s || s.Other() == s {
			t.Errorf("Other() broken for %v", s)
		}
	}
	if _, err := ParseSide("left"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ParseSide(left) error = %v", err)
	}
}

func TestReducible(t *testing.T) {
	tests := []struct {
		in         string
		reducible  bool
		components []string
	}{
		{"a b / b a", false, []string{"a b / b a"}},
		{"a b c / c b a", false, []string{"a b c / c b a"}},
		{"a b / a b", true, []string{"a / a", "b / b"}},
		{"a b c d / b a d c", true, []string{"a b / b a", "c d / d c"}},
		{"a b c / b a c", true, []string{"a b / b a", "c / c"}},
		{"a -b c d / b a d c", true, []string{"a -b / -b a", "c d / d c"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p := MustParse(tt.in)
			if got := p.IsReducible(); got != tt.reducible {
				t.Errorf("IsReducible() = %v, want %v", got, tt.reducible)
			}
			var got []string
			for _, c := range p.Components() {
				got = append(got, c.String())
			}
			if diff := cmp.Diff(tt.components, got); diff != "" {
				t.Errorf("Components() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComponentsKind(t *testing.T) {
	parts := MustParse("a -b c d / b a d c").Components()
	if parts[0].Kind() != Flipped || parts[1].Kind() != Orientable {
		t.Errorf("kinds = %v, %v", parts[0].Kind(), parts[1].Kind())
	}
}

func TestCanonical(t *testing.T) {
	p := MustParse("x y z / z y x")
	q := MustParse("u v w / w v u")
	if p.Key() != q.Key() {
		t.Errorf("Key() %q != %q", p.Key(), q.Key())
	}
	if p.Key() != "0 1 2 / 2 1 0" {
		t.Errorf("Key() = %q", p.Key())
	}

	r := MustParse("x y z / z x y")
	if p.Key() == r.Key() {
		t.Error("different structures share a key")
	}

	f := MustParse("x -y z / z y x")
	if f.Key() == p.Key() {
		t.Error("flip pattern must be part of the key")
	}
	if f.Key() != "0 -1 2 / 2 -1 0" {
		t.Errorf("flipped Key() = %q", f.Key())
	}

	m := p.CanonicalMap()
	if m["x"] != "0" || m["z"] != "2" {
		t.Errorf("CanonicalMap() = %v", m)
	}
}

func TestRelabel(t *testing.T) {
	p := MustParse("a -b / b a")
	q, err := p.Relabel(map[string]string{"b": "c"})
	if err != nil {
		t.Fatal(err)
	}
	if q.String() != "a -c / -c a" {
		t.Errorf("Relabel() = %q", q)
	}
	if _, err := p.Relabel(map[string]string{"b": "a"}); !errors.Is(err, errors.ErrCodeMalformedPermutation) {
		t.Errorf("colliding relabel error = %v", err)
	}
}

func TestGenerate(t *testing.T) {
	for n := 0; n <= 6; n++ {
		perms := Generate(n, 0)
		want := Factorial(n)
		if len(perms) != want {
			t.Fatalf("Generate(%d) returned %d, want %d", n, len(perms), want)
		}
		seen := map[string]bool{}
		for _, p := range perms {
			key := fmt.Sprint(p)
			if seen[key] {
				t.Fatalf("Generate(%d) repeated %v", n, p)
			}
			seen[key] = true
		}
	}
	if got := len(Generate(5, 7)); got != 7 {
		t.Errorf("Generate(5, 7) returned %d", got)
	}
}

func TestIrreducible(t *testing.T) {
	// Indecomposable permutations: 1, 1, 3, 13, 71, 461.
	want := []int{1, 1, 3, 13, 71, 461}
	for i, w := range want {
		n := i + 1
		perms, err := Irreducible(n)
		if err != nil {
			t.Fatalf("Irreducible(%d) error: %v", n, err)
		}
		if len(perms) != w {
			t.Errorf("Irreducible(%d) = %d permutations, want %d", n, len(perms), w)
		}
		for j, p := range perms {
			if p.IsReducible() {
				t.Errorf("Irreducible(%d) returned reducible %v", n, p)
			}
			if j > 0 && perms[j-1].Key() >= p.Key() {
				t.Errorf("Irreducible(%d) not sorted at %d", n, j)
			}
		}
	}

	if _, err := Irreducible(0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Irreducible(0) error = %v", err)
	}
	if _, err := Irreducible(MaxEnumerate + 1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Irreducible(too large) error = %v", err)
	}
}

func TestIrreducibleCount(t *testing.T) {
	for n := 1; n <= 7; n++ {
		count, err := IrreducibleCount(n)
		if err != nil {
			t.Fatal(err)
		}
		perms, err := Irreducible(n)
		if err != nil {
			t.Fatal(err)
		}
		if count != len(perms) {
			t.Errorf("IrreducibleCount(%d) = %d, enumeration found %d", n, count, len(perms))
		}
	}
	if got, _ := IrreducibleCount(MaxEnumerate); got != 273343 {
		t.Errorf("IrreducibleCount(%d) = %d", MaxEnumerate, got)
	}
	for _, n := range []int{0, MaxEnumerate + 1} {
		if _, err := IrreducibleCount(n); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("IrreducibleCount(%d) error = %v", n, err)
		}
	}
}

func TestIrreducibleStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := IrreducibleContext(ctx, 8); !stderrors.Is(err, context.Canceled) {
		t.Errorf("IrreducibleContext(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestIndecomposableMatchesIsReducible(t *testing.T) {
	for _, bottom := range Generate(5, 0) {
		p, err := FromIndices(bottom)
		if err != nil {
			t.Fatal(err)
		}
		if indecomposable(bottom) == p.IsReducible() {
			t.Errorf("indecomposable(%v) = %v, IsReducible() = %v", bottom, indecomposable(bottom), p.IsReducible())
		}
	}
}

func TestFromIndices(t *testing.T) {
	p, err := FromIndices([]int{2, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if p.String() != "0 1 2 / 2 0 1" {
		t.Errorf("FromIndices() = %q", p)
	}
	if _, err := FromIndices([]int{0, 3}); !errors.Is(err, errors.ErrCodeMalformedPermutation) {
		t.Errorf("out of range error = %v", err)
	}
}
