// Package pipeline runs the engine operations behind the CLI and the HTTP
// server with caching.
//
// Both entry points describe work with the option structs of this package
// and hand them to a [Runner]. The runner validates the options, looks the
// result up in its cache, computes it on a miss and stores it. Every call
// gets a fresh run ID (a UUID) that appears in logs, results and catalog
// entries.
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Explore(ctx, pipeline.ExploreOptions{Seeds: []string{"a b c / c b a"}})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Diagram.OrbitSize())
package pipeline

import (
	"context"
	"fmt"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/rauzy/pkg/cache"
	"github.com/matzehuels/rauzy/pkg/errors"
	"github.com/matzehuels/rauzy/pkg/induction"
	"github.com/matzehuels/rauzy/pkg/lyapunov"
	"github.com/matzehuels/rauzy/pkg/perm"
	"github.com/matzehuels/rauzy/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxNodes bounds explorations that set no limit. The largest
	// irreducible family accepted by default is size 8 (29,093 seeds).
	DefaultMaxNodes = 200_000

	// DefaultMaxSteps bounds cylinder decompositions that set no limit.
	DefaultMaxSteps = 10_000_000
)

// =============================================================================
// Exploration
// =============================================================================

// ExploreOptions describes a diagram exploration. Exactly one of Seeds and
// Family must be set.
type ExploreOptions struct {
	Seeds    []string `json:"seeds,omitempty"`  // permutations in text form
	Family   int      `json:"family,omitempty"` // explore all irreducible permutations of this size
	MaxDepth int      `json:"max_depth,omitempty"`
	MaxNodes int      `json:"max_nodes,omitempty"`
	Workers  int      `json:"workers,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"` // skip the cache lookup

	seeds     []perm.Permutation
	validated bool
}

// ValidateAndSetDefaults parses the seeds and applies defaults. A family
// is only checked here: its size must be enumerable and its irreducible
// count must fit MaxNodes. The seeds are enumerated by [ExploreOptions.resolveSeeds].
// It is idempotent.
func (o *ExploreOptions) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	for _, v := range []struct {
		name string
		n    int
	}{{"max depth", o.MaxDepth}, {"max nodes", o.MaxNodes}, {"workers", o.Workers}} {
		if err := errors.ValidateLimit(v.name, v.n); err != nil {
			return err
		}
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}

	var seeds []perm.Permutation
	switch {
	case len(o.Seeds) > 0 && o.Family > 0:
		return errors.New(errors.ErrCodeInvalidInput, "seeds and family are mutually exclusive")
	case len(o.Seeds) > 0:
		for i, s := range o.Seeds {
			p, err := perm.Parse(s)
			if err != nil {
				return errors.Wrap(errors.ErrCodeMalformedPermutation, err, "seed %d", i)
			}
			seeds = append(seeds, p)
		}
	case o.Family > 0:
		count, err := perm.IrreducibleCount(o.Family)
		if err != nil {
			return err
		}
		if count > o.MaxNodes {
			return errors.New(errors.ErrCodeLimitExceeded,
				"family %d has %d irreducible seeds, more than max nodes %d", o.Family, count, o.MaxNodes)
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "a seed or a family size is required")
	}
	o.seeds, o.validated = seeds, true
	return nil
}

// resolveSeeds enumerates the family seeds if needed.
func (o *ExploreOptions) resolveSeeds(ctx context.Context) error {
	if o.Family == 0 || o.seeds != nil {
		return nil
	}
	seeds, err := perm.IrreducibleContext(ctx, o.Family)
	if err != nil {
		return err
	}
	o.seeds = seeds
	return nil
}

// CacheKey returns the diagram cache key. Seeds are keyed by canonical
// form, so relabelled seeds share an entry; a family is keyed by its size.
func (o *ExploreOptions) CacheKey(k cache.Keyer) string {
	seedKey := fmt.Sprintf("family:%d", o.Family)
	if o.Family == 0 {
		keys := make([]string, len(o.seeds))
		for i, s := range o.seeds {
			keys[i] = s.Key()
		}
		seedKey = strings.Join(keys, "|")
	}
	return k.DiagramKey(seedKey, cache.DiagramKeyOpts{
		MaxDepth: o.MaxDepth,
		MaxNodes: o.MaxNodes,
		Family:   o.Family > 0,
	})
}

// =============================================================================
// Cylinder decomposition
// =============================================================================

// DecomposeOptions describes a cylinder decomposition. Lengths and Heights
// map labels to decimal integers.
type DecomposeOptions struct {
	Perm     string            `json:"perm"`
	Lengths  map[string]string `json:"lengths"`
	Heights  map[string]string `json:"heights,omitempty"`
	MaxSteps int               `json:"max_steps,omitempty"`
	Trace    bool              `json:"trace,omitempty"`
	Refresh  bool              `json:"refresh,omitempty"`

	perm    perm.Permutation
	lengths induction.Lengths[big.Int]
	heights induction.Lengths[big.Int]
}

// ValidateAndSetDefaults parses the permutation and the integers.
func (o *DecomposeOptions) ValidateAndSetDefaults() error {
	p, err := perm.Parse(o.Perm)
	if err != nil {
		return err
	}
	lengths, err := ParseInts(o.Lengths)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLengths, err, "lengths")
	}
	var heights induction.Lengths[big.Int]
	if len(o.Heights) > 0 {
		if heights, err = ParseInts(o.Heights); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLengths, err, "heights")
		}
	}
	if err := errors.ValidateLimit("max steps", o.MaxSteps); err != nil {
		return err
	}
	if o.MaxSteps == 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	o.perm, o.lengths, o.heights = p, lengths, heights
	return nil
}

// CacheKey returns the decomposition cache key.
func (o *DecomposeOptions) CacheKey(k cache.Keyer) string {
	return k.DecompositionKey(o.perm.String()+traceSuffix(o.Trace), o.Lengths, o.Heights)
}

func traceSuffix(trace bool) string {
	if trace {
		return "#trace"
	}
	return ""
}

// ParseInts parses a label to decimal integer map.
func ParseInts(m map[string]string) (induction.Lengths[big.Int], error) {
	out := make(induction.Lengths[big.Int], len(m))
	for k, v := range m {
		n, ok := new(big.Int).SetString(strings.TrimSpace(v), 10)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidLengths, "%s=%q is not an integer", k, v)
		}
		out[k] = n
	}
	return out, nil
}

// ParseAssignments parses "a=2, b=3" or "a=2 b=3" into a map.
func ParseAssignments(s string) (map[string]string, error) {
	out := make(map[string]string)
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		k, v, ok := strings.Cut(f, "=")
		if !ok || k == "" || v == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "expected label=value, got %q", f)
		}
		if _, dup := out[k]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "label %q assigned twice", k)
		}
		out[k] = v
	}
	return out, nil
}

// =============================================================================
// Covers
// =============================================================================

// CoverOptions describes a cover computation. Without Cycles the
// permutation's own signature is computed: directly when orientable, via
// the orientation double cover when flipped. With Cycles, a cover of the
// orientable permutation is built from the per-label sheet permutations in
// cycle notation; a zero Degree is inferred from the largest sheet named.
type CoverOptions struct {
	Perm    string            `json:"perm"`
	Degree  int               `json:"degree,omitempty"`
	Cycles  map[string]string `json:"cycles,omitempty"`
	Refresh bool              `json:"refresh,omitempty"`

	perm perm.Permutation
}

// ValidateAndSetDefaults parses the permutation.
func (o *CoverOptions) ValidateAndSetDefaults() error {
	p, err := perm.Parse(o.Perm)
	if err != nil {
		return err
	}
	if err := errors.ValidateLimit("degree", o.Degree); err != nil {
		return err
	}
	o.perm = p
	return nil
}

// CacheKey returns the cover cache key.
func (o *CoverOptions) CacheKey(k cache.Keyer) string {
	cycles := make(map[string]string, len(o.Cycles)+1)
	for l, c := range o.Cycles {
		cycles[l] = c
	}
	if len(o.Cycles) > 0 {
		cycles["#degree"] = strconv.Itoa(o.Degree)
	}
	return k.CoverKey(o.perm.String(), cycles)
}

// =============================================================================
// Speed
// =============================================================================

// SpeedOptions describes a Rauzy–Zorich speed estimate.
type SpeedOptions struct {
	Perm        string `json:"perm"`
	Experiments int    `json:"experiments,omitempty"`
	Iterations  int    `json:"iterations,omitempty"`
	Precision   uint   `json:"precision,omitempty"`
	Seed        uint64 `json:"seed,omitempty"`
	Workers     int    `json:"workers,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"`

	perm perm.Permutation
}

// ValidateAndSetDefaults parses the permutation and applies the lyapunov
// defaults.
func (o *SpeedOptions) ValidateAndSetDefaults() error {
	p, err := perm.Parse(o.Perm)
	if err != nil {
		return err
	}
	if o.Experiments == 0 {
		o.Experiments = lyapunov.DefaultExperiments
	}
	if o.Iterations == 0 {
		o.Iterations = lyapunov.DefaultIterations
	}
	if o.Precision == 0 {
		o.Precision = lyapunov.DefaultPrecision
	}
	for _, v := range []struct {
		name     string
		n, limit int
	}{{"experiments", o.Experiments, lyapunov.MaxExperiments}, {"iterations", o.Iterations, lyapunov.MaxIterations}} {
		if v.n < 0 || v.n > v.limit {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be in [1, %d], got %d", v.name, v.limit, v.n)
		}
	}
	o.perm = p
	return nil
}

// CacheKey returns the speed cache key. The estimate depends on the
// labelling of p only through its canonical form.
func (o *SpeedOptions) CacheKey(k cache.Keyer) string {
	return k.SpeedKey(o.perm.Key(), cache.SpeedKeyOpts{
		Experiments: o.Experiments,
		Iterations:  o.Iterations,
		Precision:   o.Precision,
		Seed:        o.Seed,
	})
}

func (o *SpeedOptions) lyapunovOptions() []lyapunov.Option {
	return []lyapunov.Option{
		lyapunov.WithExperiments(o.Experiments),
		lyapunov.WithIterations(o.Iterations),
		lyapunov.WithPrecision(o.Precision),
		lyapunov.WithSeed(o.Seed),
		lyapunov.WithWorkers(o.Workers),
	}
}

// =============================================================================
// Rendering
// =============================================================================

// RenderOptions selects output formats for a diagram.
type RenderOptions struct {
	Formats    []string `json:"formats,omitempty"` // dot, svg, png; svg when empty
	Detailed   bool     `json:"detailed,omitempty"`
	Monochrome bool     `json:"monochrome,omitempty"`
	Title      string   `json:"title,omitempty"`
}

// ValidateAndSetDefaults checks the formats.
func (o *RenderOptions) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{string(render.FormatSVG)}
	}
	return ValidateFormats(o.Formats)
}

// ValidateFormats checks that every format is supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := render.ParseFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SupportedFormats lists the format names accepted by RenderOptions.
func SupportedFormats() []string {
	out := make([]string, len(render.Formats))
	for i, f := range render.Formats {
		out[i] = string(f)
	}
	return slices.Clip(out)
}
