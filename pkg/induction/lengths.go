package induction

import (
	"maps"
	"math/big"
	"slices"

	"github.com/matzehuels/rauzy/pkg/errors"
	"github.com/matzehuels/rauzy/pkg/perm"
)

// Scalar is the arithmetic needed by induction. It is satisfied by the
// arbitrary-precision types of math/big: *big.Int, *big.Rat and *big.Float.
type Scalar[T any] interface {
	*T
	Cmp(*T) int
	Sign() int
	Add(x, y *T) *T
	Sub(x, y *T) *T
	Set(*T) *T
}

// Lengths maps each label to the length of its subinterval.
type Lengths[T any] map[string]*T

// Ints builds integer lengths from machine integers.
func Ints(m map[string]int64) Lengths[big.Int] {
	out := make(Lengths[big.Int], len(m))
	for k, v := range m {
		out[k] = big.NewInt(v)
	}
	return out
}

// Rats builds rational lengths from numerator/denominator pairs.
func Rats(m map[string][2]int64) Lengths[big.Rat] {
	out := make(Lengths[big.Rat], len(m))
	for k, v := range m {
		out[k] = big.NewRat(v[0], v[1])
	}
	return out
}

// Clone returns a deep copy of l.
func Clone[T any, S Scalar[T]](l Lengths[T]) Lengths[T] {
	out := make(Lengths[T], len(l))
	for k, v := range l {
		out[k] = S(new(T)).Set(v)
	}
	return out
}

// Total returns the sum of all lengths.
func Total[T any, S Scalar[T]](l Lengths[T]) *T {
	sum := S(new(T))
	for _, k := range slices.Sorted(maps.Keys(l)) {
		sum.Add(sum, l[k])
	}
	return sum
}

// Validate checks that l assigns a strictly positive length to every label
// of p and to nothing else.
func Validate[T any, S Scalar[T]](p perm.Permutation, l Lengths[T]) error {
	if len(l) != p.Len() {
		return errors.New(errors.ErrCodeInvalidLengths,
			"expected %d lengths, got %d", p.Len(), len(l))
	}
	for _, label := range p.Alphabet() {
		v, ok := l[label]
		if !ok || v == nil {
			return errors.New(errors.ErrCodeInvalidLengths, "missing length for label %q", label)
		}
		if S(v).Sign() <= 0 {
			return errors.New(errors.ErrCodeInvalidLengths, "length of %q must be positive", label)
		}
	}
	return nil
}
