package induction

import (
	"fmt"
	"slices"

	"github.com/matzehuels/rauzy/pkg/errors"
	"github.com/matzehuels/rauzy/pkg/perm"
)

// StepLabel records which edge of the Rauzy diagram a step followed.
type StepLabel struct {
	Winner      perm.Side `json:"winner"`       // row whose last interval was longer
	WinnerLabel string    `json:"winner_label"` // last label of the winning row, shrunk by the step
	LoserLabel  string    `json:"loser_label"`  // last label of the losing row, moved by the step
}

// String returns a compact form such as "t(c>a)".
func (s StepLabel) String() string {
	return fmt.Sprintf("%s(%s>%s)", s.Winner.Short(), s.WinnerLabel, s.LoserLabel)
}

// Move performs the combinatorial part of a Rauzy step with the given
// winning row. The last label of the losing row is removed and reinserted
// immediately after the winner's position in the losing row. When the
// winner is flipped the loser goes immediately before that position
// instead and its own flip is toggled.
//
// Move fails with INVALID_INPUT when both rows end with the same label:
// such a permutation is reducible and has no Rauzy successor.
func Move(p perm.Permutation, winner perm.Side) (perm.Permutation, StepLabel, error) {
	loser := winner.Other()
	w, l := p.Last(winner), p.Last(loser)
	label := StepLabel{Winner: winner, WinnerLabel: w, LoserLabel: l}
	if w == l {
		return perm.Permutation{}, label, errors.New(errors.ErrCodeInvalidInput,
			"both rows of %s end with %q", p, w)
	}

	row := p.Row(loser)
	row = row[:len(row)-1]
	at := slices.Index(row, w)
	flips := p.Flips()
	if p.IsFlipped(w) {
		if i := slices.Index(flips, l); i >= 0 {
			flips = slices.Delete(flips, i, i+1)
		} else {
			flips = append(flips, l)
		}
	} else {
		at++
	}
	row = slices.Insert(row, at, l)

	var rows [2][]string
	rows[winner] = p.Row(winner)
	rows[loser] = row
	next, err := perm.FromRows(rows[perm.Top], rows[perm.Bottom], flips)
	if err != nil {
		return perm.Permutation{}, label, errors.Wrap(errors.ErrCodeInternal, err, "rauzy move on %s", p)
	}
	return next, label, nil
}

// Apply performs one Rauzy induction step. The row whose last interval is
// longer wins; its length drops by the loser's length, so the total length
// decreases by exactly the loser's length. Neither input is modified.
//
// Equal last lengths make the first-return map undefined and Apply fails
// with DEGENERATE_INDUCTION; the returned StepLabel still names both last
// labels so that callers treating the tie as a signal can act on it.
func Apply[T any, S Scalar[T]](p perm.Permutation, l Lengths[T]) (perm.Permutation, Lengths[T], StepLabel, error) {
	if err := Validate[T, S](p, l); err != nil {
		return perm.Permutation{}, nil, StepLabel{}, err
	}
	top, bottom := p.Last(perm.Top), p.Last(perm.Bottom)
	switch c := S(l[top]).Cmp(l[bottom]); {
	case c == 0:
		label := StepLabel{Winner: perm.Top, WinnerLabel: top, LoserLabel: bottom}
		return perm.Permutation{}, nil, label, errors.New(errors.ErrCodeDegenerateInduction,
			"last intervals %q and %q have equal length", top, bottom)
	case c > 0:
		return step[T, S](p, l, perm.Top)
	default:
		return step[T, S](p, l, perm.Bottom)
	}
}

func step[T any, S Scalar[T]](p perm.Permutation, l Lengths[T], winner perm.Side) (perm.Permutation, Lengths[T], StepLabel, error) {
	next, label, err := Move(p, winner)
	if err != nil {
		return perm.Permutation{}, nil, label, err
	}
	out := Clone[T, S](l)
	S(out[label.WinnerLabel]).Sub(out[label.WinnerLabel], out[label.LoserLabel])
	return next, out, label, nil
}

// Step is one entry of an induction path: the label of the edge taken and
// the state reached.
type Step[T any] struct {
	Label   StepLabel
	Perm    perm.Permutation
	Lengths Lengths[T]
}

// Run applies up to n induction steps and returns the path taken. It stops
// early at the first failure and returns the steps completed so far
// together with the error, so a DEGENERATE_INDUCTION after k steps yields a
// path of length k.
func Run[T any, S Scalar[T]](p perm.Permutation, l Lengths[T], n int) ([]Step[T], error) {
	if err := errors.ValidateLimit("steps", n); err != nil {
		return nil, err
	}
	path := make([]Step[T], 0, min(n, 1024))
	for range n {
		next, lengths, label, err := Apply[T, S](p, l)
		if err != nil {
			return path, err
		}
		path = append(path, Step[T]{Label: label, Perm: next, Lengths: lengths})
		p, l = next, lengths
	}
	return path, nil
}
