package cylinder

import (
	"context"
	"fmt"
	"math/big"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/rauzy/pkg/errors"
	"github.com/matzehuels/rauzy/pkg/induction"
	"github.com/matzehuels/rauzy/pkg/observability"
	"github.com/matzehuels/rauzy/pkg/perm"
)

// Cylinder is one horizontal cylinder of the decomposition.
type Cylinder struct {
	Circumference *big.Int `json:"circumference"`
	Height        *big.Int `json:"height"`
	Labels        []string `json:"labels"` // original labels whose intervals sweep the cylinder, sorted
}

// Area returns circumference times height.
func (c Cylinder) Area() *big.Int {
	return new(big.Int).Mul(c.Circumference, c.Height)
}

func (c Cylinder) String() string {
	return fmt.Sprintf("%s x %s {%s}", c.Circumference, c.Height, strings.Join(c.Labels, " "))
}

// EventKind distinguishes the three kinds of trace events.
type EventKind string

const (
	// EventStep is one Rauzy induction step between distinct lengths.
	EventStep EventKind = "step"
	// EventMerge is a tie between two distinct labels, fused into one.
	EventMerge EventKind = "merge"
	// EventClose is a tie of a label with itself, closing a cylinder.
	EventClose EventKind = "close"
)

// Event is one entry of a decomposition trace.
type Event struct {
	Kind EventKind `json:"kind"`
	// Before is the permutation the event acted on.
	Before string `json:"before"`
	// Step is set for step events.
	Step induction.StepLabel `json:"step,omitzero"`
	// From and Into name the merged labels for merge events; Into alone
	// names the closing label for close events.
	From string `json:"from,omitempty"`
	Into string `json:"into,omitempty"`
}

func (e Event) String() string {
	switch e.Kind {
	case EventStep:
		return "step " + e.Step.String()
	case EventMerge:
		return fmt.Sprintf("merge %s into %s", e.From, e.Into)
	default:
		return "close " + e.Into
	}
}

// Decomposition is the result of [Compute].
type Decomposition struct {
	Cylinders []Cylinder `json:"cylinders"`
	Steps     int        `json:"steps"` // induction steps, merges and closes excluded
	Trace     []Event    `json:"trace,omitempty"`
}

// Area returns the summed area of all cylinders.
func (d *Decomposition) Area() *big.Int {
	sum := new(big.Int)
	for _, c := range d.Cylinders {
		sum.Add(sum, c.Area())
	}
	return sum
}

// Option configures [Compute].
type Option func(*options)

type options struct {
	ctx      context.Context
	heights  induction.Lengths[big.Int]
	maxSteps int
	trace    bool
	err      error
}

// WithHeights sets the initial height of every label. The default height
// is 1.
func WithHeights(h induction.Lengths[big.Int]) Option {
	return func(o *options) { o.heights = h }
}

// WithMaxSteps fails with LIMIT_EXCEEDED after n induction steps. Zero
// means no limit; the number of steps is bounded by the total length in
// any case.
func WithMaxSteps(n int) Option {
	return func(o *options) {
		if err := errors.ValidateLimit("max steps", n); err != nil {
			o.err = err
			return
		}
		o.maxSteps = n
	}
}

// WithTrace records every event in Decomposition.Trace.
func WithTrace() Option {
	return func(o *options) { o.trace = true }
}

// WithContext makes the computation cancelable and passes ctx to the
// observability hooks.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// checkEvery is the number of steps between context checks.
const checkEvery = 1024

// Compute decomposes the suspension of (p, lengths) into cylinders.
//
// p must be orientable (NOT_ORIENTABLE otherwise) and lengths must be
// positive integers for exactly the labels of p (INVALID_LENGTHS). The
// permutation need not be irreducible. Neither argument is modified.
func Compute(p perm.Permutation, lengths induction.Lengths[big.Int], opts ...Option) (*Decomposition, error) {
	o := options{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if p.Len() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty permutation")
	}
	if !p.IsOrientable() {
		return nil, errors.New(errors.ErrCodeNotOrientable, "cylinder decomposition needs an orientable permutation, got %s", p)
	}
	if err := induction.Validate[big.Int](p, lengths); err != nil {
		return nil, err
	}

	s := newState(p, lengths)
	if o.heights != nil {
		if err := induction.Validate[big.Int](p, o.heights); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLengths, err, "heights")
		}
		s.heights = induction.Clone[big.Int](o.heights)
	}

	hooks := observability.Engine()
	hooks.OnDecomposeStart(o.ctx, p.Len())
	start := time.Now()
	d, err := s.run(&o)
	if err != nil {
		hooks.OnDecomposeComplete(o.ctx, 0, s.steps, time.Since(start), err)
		return nil, err
	}
	hooks.OnDecomposeComplete(o.ctx, len(d.Cylinders), d.Steps, time.Since(start), nil)
	return d, nil
}

type state struct {
	p       perm.Permutation
	lengths induction.Lengths[big.Int]
	heights induction.Lengths[big.Int]
	own     map[string][]string
	steps   int
}

func newState(p perm.Permutation, lengths induction.Lengths[big.Int]) *state {
	s := &state{
		p:       p,
		lengths: induction.Clone[big.Int](lengths),
		heights: make(induction.Lengths[big.Int], p.Len()),
		own:     make(map[string][]string, p.Len()),
	}
	for _, l := range p.Alphabet() {
		s.heights[l] = big.NewInt(1)
		s.own[l] = []string{l}
	}
	return s
}

func (s *state) run(o *options) (*Decomposition, error) {
	d := &Decomposition{}
	for s.p.Len() > 0 {
		if s.steps%checkEvery == 0 {
			if err := o.ctx.Err(); err != nil {
				return nil, fmt.Errorf("cylinder decomposition after %d steps: %w", s.steps, err)
			}
		}
		before := s.p.String()
		next, lengths, label, err := induction.Apply[big.Int](s.p, s.lengths)
		switch {
		case err == nil:
			if o.maxSteps > 0 && s.steps >= o.maxSteps {
				return nil, errors.New(errors.ErrCodeLimitExceeded, "decomposition exceeds %d steps", o.maxSteps)
			}
			h := s.heights[label.LoserLabel]
			h.Add(h, s.heights[label.WinnerLabel])
			s.p, s.lengths = next, lengths
			s.steps++
			if o.trace {
				d.Trace = append(d.Trace, Event{Kind: EventStep, Before: before, Step: label})
			}
		case errors.Is(err, errors.ErrCodeDegenerateInduction):
			alpha, beta := label.WinnerLabel, label.LoserLabel
			if alpha == beta {
				d.Cylinders = append(d.Cylinders, s.close(alpha))
				if o.trace {
					d.Trace = append(d.Trace, Event{Kind: EventClose, Before: before, Into: alpha})
				}
			} else {
				if err := s.merge(alpha, beta); err != nil {
					return nil, err
				}
				if o.trace {
					d.Trace = append(d.Trace, Event{Kind: EventMerge, Before: before, From: alpha, Into: beta})
				}
			}
		default:
			return nil, err
		}
	}
	d.Steps = s.steps
	return d, nil
}

// close removes label, which ends both rows, and returns its cylinder.
func (s *state) close(label string) Cylinder {
	c := Cylinder{
		Circumference: s.lengths[label],
		Height:        s.heights[label],
		Labels:        slices.Sorted(slices.Values(s.own[label])),
	}
	top, bottom := s.p.Top(), s.p.Bottom()
	s.p = s.rebuild(top[:len(top)-1], bottom[:len(bottom)-1])
	s.forget(label)
	return c
}

// merge folds alpha, the last top label, into beta, the last bottom label.
// Both have the same length.
func (s *state) merge(alpha, beta string) error {
	top, bottom := s.p.Top(), s.p.Bottom()
	top, bottom = top[:len(top)-1], bottom[:len(bottom)-1]
	i := slices.Index(bottom, alpha)
	if i < 0 {
		return errors.New(errors.ErrCodeInternal, "label %q missing from bottom row of %s", alpha, s.p)
	}
	bottom[i] = beta
	s.p = s.rebuild(top, bottom)

	h := s.heights[beta]
	h.Add(h, s.heights[alpha])
	s.own[beta] = append(s.own[beta], s.own[alpha]...)
	s.forget(alpha)
	return nil
}

func (s *state) forget(label string) {
	delete(s.lengths, label)
	delete(s.heights, label)
	delete(s.own, label)
}

// rebuild returns the permutation with the given rows, or the empty
// permutation once no label is left.
func (s *state) rebuild(top, bottom []string) perm.Permutation {
	if len(top) == 0 {
		return perm.Permutation{}
	}
	p, err := perm.New(top, bottom)
	if err != nil {
		// Removing or renaming a label keeps both rows a permutation of
		// one alphabet.
		panic(fmt.Sprintf("cylinder: invalid intermediate rows %v / %v: %v", top, bottom, err))
	}
	return p
}
