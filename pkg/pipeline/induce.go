package pipeline

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/matzehuels/rauzy/pkg/errors"
	"github.com/matzehuels/rauzy/pkg/induction"
	"github.com/matzehuels/rauzy/pkg/perm"
)

// DefaultInduceSteps is the path length used when InduceOptions.Steps is 0.
const DefaultInduceSteps = 1

// InduceOptions describes a run of Rauzy induction on rational lengths.
// Lengths map labels to integers, fractions ("3/7") or decimals ("0.25").
type InduceOptions struct {
	Perm    string            `json:"perm"`
	Lengths map[string]string `json:"lengths"`
	Steps   int               `json:"steps,omitempty"`

	perm    perm.Permutation
	lengths induction.Lengths[big.Rat]
}

// ValidateAndSetDefaults parses the permutation and the lengths.
func (o *InduceOptions) ValidateAndSetDefaults() error {
	p, err := perm.Parse(o.Perm)
	if err != nil {
		return err
	}
	lengths, err := ParseRats(o.Lengths)
	if err != nil {
		return err
	}
	if err := induction.Validate[big.Rat](p, lengths); err != nil {
		return err
	}
	if err := errors.ValidateLimit("steps", o.Steps); err != nil {
		return err
	}
	if o.Steps == 0 {
		o.Steps = DefaultInduceSteps
	}
	o.perm, o.lengths = p, lengths
	return nil
}

// ParseRats parses a label to rational map.
func ParseRats(m map[string]string) (induction.Lengths[big.Rat], error) {
	out := make(induction.Lengths[big.Rat], len(m))
	for k, v := range m {
		r, ok := new(big.Rat).SetString(strings.TrimSpace(v))
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidLengths, "%s=%q is not a rational number", k, v)
		}
		out[k] = r
	}
	return out, nil
}

// InduceStep is one entry of an induction path in text form.
type InduceStep struct {
	Step    string            `json:"step"` // e.g. "t(c>a)"
	Perm    string            `json:"perm"`
	Lengths map[string]string `json:"lengths"`
}

// InduceResult is the result of [Runner.Induce].
type InduceResult struct {
	Meta
	Path []InduceStep `json:"path"`
	// Stopped holds the error code that ended the path early, typically
	// DEGENERATE_INDUCTION when the two last intervals tie.
	Stopped errors.Code `json:"stopped,omitempty"`
	Reason  string      `json:"reason,omitempty"`
}

// Induce applies opts.Steps induction steps. A tie, or a failure after the
// first step, ends the path early without failing the call: the steps
// taken so far are returned with Stopped set.
func (r *Runner) Induce(ctx context.Context, opts InduceOptions) (*InduceResult, error) {
	start := time.Now()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	res := &InduceResult{Meta: newMeta()}
	logger := r.Logger.With("run", res.RunID)

	path, err := induction.Run[big.Rat](opts.perm, opts.lengths, opts.Steps)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrCodeDegenerateInduction) || len(path) > 0:
		res.Stopped, res.Reason = errors.GetCode(err), errors.UserMessage(err)
	default:
		return nil, fmt.Errorf("induce: %w", err)
	}
	res.Path = make([]InduceStep, len(path))
	for i, s := range path {
		res.Path[i] = InduceStep{Step: s.Label.String(), Perm: s.Perm.String(), Lengths: FormatRats(s.Lengths)}
	}
	res.Duration = time.Since(start)
	logger.Debug("induced", "steps", len(path), "stopped", res.Stopped)
	return res, ctx.Err()
}

// FormatRats renders lengths in lowest terms, integers without a
// denominator.
func FormatRats(l induction.Lengths[big.Rat]) map[string]string {
	out := make(map[string]string, len(l))
	for k, v := range l {
		out[k] = v.RatString()
	}
	return out
}
