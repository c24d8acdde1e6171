package lyapunov

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"math/rand/v2"
	"runtime"

	"github.com/ALTree/bigfloat"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/rauzy/pkg/errors"
	"github.com/matzehuels/rauzy/pkg/induction"
	"github.com/matzehuels/rauzy/pkg/perm"
)

// Defaults for [Speed].
const (
	DefaultExperiments = 10
	DefaultIterations  = 1000
	DefaultPrecision   = 256
	MaxPrecision       = 1 << 14
	MaxExperiments     = 1 << 12
	MaxIterations      = 1 << 20
)

// maxRun caps the Rauzy steps in one Zorich step. A longer run means the
// lengths have hit a rational point up to rounding.
const maxRun = 1 << 24

// Estimate is the result of [Speed].
type Estimate struct {
	Mean       float64   `json:"mean"`
	StdDev     float64   `json:"std_dev"`
	Samples    []float64 `json:"samples"` // per-experiment speeds
	Iterations int       `json:"iterations"`
	RauzySteps int       `json:"rauzy_steps"` // over all experiments
	Precision  uint      `json:"precision"`
}

func (e Estimate) String() string {
	return fmt.Sprintf("%.6f ± %.6f (%d experiments × %d Zorich steps)", e.Mean, e.StdDev, len(e.Samples), e.Iterations)
}

// Option configures [Speed].
type Option func(*options)

type options struct {
	experiments int
	iterations  int
	precision   uint
	seed        uint64
	workers     int
	err         error
}

// bounded records INVALID_INPUT unless 0 < n <= limit.
func bounded(name string, n, limit int, o *options) bool {
	if n <= 0 || n > limit {
		o.err = errors.New(errors.ErrCodeInvalidInput, "%s must be in [1, %d], got %d", name, limit, n)
		return false
	}
	return true
}

// WithExperiments sets the number of independent experiments, at most
// MaxExperiments.
func WithExperiments(n int) Option {
	return func(o *options) {
		if bounded("experiments", n, MaxExperiments, o) {
			o.experiments = n
		}
	}
}

// WithIterations sets the number of Zorich steps per experiment, at most
// MaxIterations.
func WithIterations(n int) Option {
	return func(o *options) {
		if bounded("iterations", n, MaxIterations, o) {
			o.iterations = n
		}
	}
}

// WithPrecision sets the mantissa precision of lengths in bits.
func WithPrecision(bits uint) Option {
	return func(o *options) {
		if bits < 64 || bits > MaxPrecision {
			o.err = errors.New(errors.ErrCodeInvalidInput, "precision must be in [64, %d] bits, got %d", MaxPrecision, bits)
			return
		}
		o.precision = bits
	}
}

// WithSeed makes the random lengths reproducible. Experiment i draws from
// a PCG generator seeded with (seed, i).
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithWorkers bounds the number of experiments run concurrently. Zero
// selects GOMAXPROCS. The estimate does not depend on n.
func WithWorkers(n int) Option {
	return func(o *options) {
		if err := errors.ValidateLimit("workers", n); err != nil {
			o.err = err
			return
		}
		if n > 0 {
			o.workers = n
		}
	}
}

// Speed estimates the Rauzy–Zorich speed of p.
//
// p must be orientable (NOT_ORIENTABLE) and irreducible with at least two
// labels (REDUCIBLE_SEED, INVALID_INPUT). A tie during induction, which
// only happens when rounding lands on a rational point, fails the
// experiment with DEGENERATE_INDUCTION.
func Speed(ctx context.Context, p perm.Permutation, opts ...Option) (Estimate, error) {
	o := options{
		experiments: DefaultExperiments,
		iterations:  DefaultIterations,
		precision:   DefaultPrecision,
		workers:     runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return Estimate{}, o.err
	}
	if p.Len() < 2 {
		return Estimate{}, errors.New(errors.ErrCodeInvalidInput, "speed needs at least two labels: %s", p)
	}
	if !p.IsOrientable() {
		return Estimate{}, errors.New(errors.ErrCodeNotOrientable, "speed needs an orientable permutation, got %s", p)
	}
	if p.IsReducible() {
		return Estimate{}, errors.New(errors.ErrCodeReducibleSeed, "%s is reducible", p)
	}

	samples := make([]float64, o.experiments)
	steps := make([]int, o.experiments)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := range o.experiments {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(o.seed, uint64(i)))
			v, n, err := experiment(gctx, p, randomLengths(p, rng, o.precision), o.iterations)
			if err != nil {
				return fmt.Errorf("experiment %d: %w", i, err)
			}
			samples[i], steps[i] = v, n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Estimate{}, err
	}

	e := Estimate{Samples: samples, Iterations: o.iterations, Precision: o.precision}
	for _, n := range steps {
		e.RauzySteps += n
	}
	e.Mean, e.StdDev = meanAndStdDev(samples)
	return e, nil
}

// randomLengths draws each length uniformly from (0, 1) with every
// mantissa bit random. Lengths with short mantissas would be rational with
// small denominators and induction would reach a tie quickly.
func randomLengths(p perm.Permutation, rng *rand.Rand, prec uint) induction.Lengths[big.Float] {
	words := int(prec+63) / 64
	out := make(induction.Lengths[big.Float], p.Len())
	for _, label := range p.Alphabet() {
		m := new(big.Int)
		for m.Sign() == 0 {
			for range words {
				m.Lsh(m, 64)
				m.Or(m, new(big.Int).SetUint64(rng.Uint64()))
			}
		}
		f := new(big.Float).SetPrec(prec).SetInt(m)
		out[label] = f.SetMantExp(f, -64*words)
	}
	return out
}

// experiment runs n Zorich steps and returns the average log contraction
// per step together with the number of Rauzy steps taken.
func experiment(ctx context.Context, p perm.Permutation, l induction.Lengths[big.Float], n int) (float64, int, error) {
	prec := l[p.Last(perm.Top)].Prec()
	sum := new(big.Float).SetPrec(prec)
	total := induction.Total[big.Float](l)
	rauzy := 0
	for i := range n {
		if err := ctx.Err(); err != nil {
			return 0, rauzy, err
		}
		var (
			k   int
			err error
		)
		p, l, k, err = zorichStep(p, l)
		rauzy += k
		if err != nil {
			return 0, rauzy, fmt.Errorf("zorich step %d: %w", i, err)
		}
		next := induction.Total[big.Float](l)
		ratio := new(big.Float).SetPrec(prec).Quo(total, next)
		sum.Add(sum, bigfloat.Log(ratio))
		for _, v := range l {
			v.Quo(v, next)
		}
		total = induction.Total[big.Float](l)
	}
	avg, _ := new(big.Float).Quo(sum, new(big.Float).SetInt64(int64(n))).Float64()
	return avg, rauzy, nil
}

// zorichStep applies Rauzy steps while the same row keeps winning and
// returns the state after the run.
func zorichStep(p perm.Permutation, l induction.Lengths[big.Float]) (perm.Permutation, induction.Lengths[big.Float], int, error) {
	winner := winnerOf(p, l)
	for k := 0; ; k++ {
		if k > 0 && winnerOf(p, l) != winner {
			return p, l, k, nil
		}
		if k == maxRun {
			return p, l, k, errors.New(errors.ErrCodeLimitExceeded, "Zorich run exceeds %d Rauzy steps", maxRun)
		}
		next, lengths, _, err := induction.Apply[big.Float](p, l)
		if err != nil {
			return p, l, k, err
		}
		p, l = next, lengths
	}
}

func winnerOf(p perm.Permutation, l induction.Lengths[big.Float]) perm.Side {
	if l[p.Last(perm.Top)].Cmp(l[p.Last(perm.Bottom)]) > 0 {
		return perm.Top
	}
	return perm.Bottom
}

// meanAndStdDev returns the sample mean and the sample standard deviation
// (zero for a single sample).
func meanAndStdDev(xs []float64) (float64, float64) {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	if len(xs) < 2 {
		return mean, 0
	}
	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(sq / float64(len(xs)-1))
}
