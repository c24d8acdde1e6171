package perm

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/rauzy/pkg/errors"
)

// MaxEnumerate bounds the size accepted by Irreducible. Size 9 already
// has 273,343 irreducible permutations.
const MaxEnumerate = 9

// irreducibleCounts[n] is the number of irreducible permutations of size
// n (indecomposable permutations, OEIS A003319).
var irreducibleCounts = [MaxEnumerate + 1]int{0, 1, 1, 3, 13, 71, 461, 3447, 29093, 273343}

// ctxCheckEvery is how many candidates enumeration visits between context
// checks.
const ctxCheckEvery = 1 << 12

// Seq returns a slice containing the sequence [0, 1, 2, ..., n-1].
// For n <= 0, Seq returns an empty slice.
func Seq(n int) []int {
	result := make([]int, max(n, 0))
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n! (n factorial), the product 1 × 2 × ... × n.
// For n <= 1, Factorial returns 1.
//
// Note that factorials grow extremely fast: 13! = 6,227,020,800 exceeds 32-bit int.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// Generate returns permutations of [0, 1, ..., n-1] using Heap's algorithm.
//
// If limit > 0, Generate returns at most limit permutations.
// If limit <= 0, Generate returns all n! permutations.
//
// Each returned slice is a separate allocation, safe to modify without affecting others.
// n = 0 yields one empty permutation.
func Generate(n, limit int) [][]int {
	capacity := limit
	if capacity <= 0 || n <= 12 {
		capacity = Factorial(min(n, 12))
	}
	result := make([][]int, 0, capacity)
	heapPermute(n, func(cur []int) bool {
		result = append(result, slices.Clone(cur))
		return limit <= 0 || len(result) < limit
	})
	return result
}

// heapPermute calls yield with every permutation of [0, n) in Heap's
// order until yield returns false. The slice is reused between calls.
func heapPermute(n int, yield func([]int) bool) {
	cur := Seq(n)
	if !yield(cur) || n <= 1 {
		return
	}
	state := make([]int, n)
	for i := 0; i < n; {
		if state[i] < i {
			if i&1 == 0 {
				cur[0], cur[i] = cur[i], cur[0]
			} else {
				cur[state[i]], cur[i] = cur[i], cur[state[i]]
			}
			if !yield(cur) {
				return
			}
			state[i]++
			i = 0
		} else {
			state[i] = 0
			i++
		}
	}
}

// FromIndices builds the canonical orientable permutation whose top row is
// 0..n-1 and whose bottom row lists top positions in order.
func FromIndices(bottom []int) (Permutation, error) {
	top := make([]string, len(bottom))
	row := make([]string, len(bottom))
	for i, b := range bottom {
		top[i] = CanonicalLabel(i)
		if b < 0 || b >= len(bottom) {
			return Permutation{}, errors.New(errors.ErrCodeMalformedPermutation, "index %d out of range [0,%d)", b, len(bottom))
		}
		row[i] = CanonicalLabel(b)
	}
	return New(top, row)
}

// IrreducibleCount returns how many irreducible orientable permutations
// of size n exist, without enumerating them. Sizes outside
// [1, MaxEnumerate] fail with INVALID_INPUT.
func IrreducibleCount(n int) (int, error) {
	if n < 1 || n > MaxEnumerate {
		return 0, errors.New(errors.ErrCodeInvalidInput, "size must be in [1, %d], got %d", MaxEnumerate, n)
	}
	return irreducibleCounts[n], nil
}

// Irreducible returns every irreducible orientable permutation on n labels
// in canonical form, sorted by key. These are the seeds of all Rauzy classes
// of size n.
func Irreducible(n int) ([]Permutation, error) {
	return IrreducibleContext(context.Background(), n)
}

// IrreducibleContext is like Irreducible but stops with ctx.
func IrreducibleContext(ctx context.Context, n int) ([]Permutation, error) {
	count, err := IrreducibleCount(n)
	if err != nil {
		return nil, err
	}
	type keyed struct {
		key string
		p   Permutation
	}
	found := make([]keyed, 0, count)
	visited := 0
	heapPermute(n, func(bottom []int) bool {
		if visited++; visited%ctxCheckEvery == 0 {
			if err = ctx.Err(); err != nil {
				return false
			}
		}
		if !indecomposable(bottom) {
			return true
		}
		var p Permutation
		if p, err = FromIndices(bottom); err != nil {
			return false
		}
		// FromIndices is already canonical, so its text is its key.
		found = append(found, keyed{p.String(), p})
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate size %d: %w", n, err)
	}

	slices.SortFunc(found, func(a, b keyed) int { return strings.Compare(a.key, b.key) })
	out := make([]Permutation, len(found))
	for i, k := range found {
		out[i] = k.p
	}
	return out, nil
}

// indecomposable reports whether no proper prefix of bottom is a
// permutation of its own positions, i.e. the permutation with top row
// 0..n-1 is irreducible.
func indecomposable(bottom []int) bool {
	hi := -1
	for k := range len(bottom) - 1 {
		hi = max(hi, bottom[k])
		if hi == k {
			return false
		}
	}
	return true
}
