package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/rauzy/pkg/cache"
	"github.com/matzehuels/rauzy/pkg/cover"
	"github.com/matzehuels/rauzy/pkg/cylinder"
	rio "github.com/matzehuels/rauzy/pkg/io"
	"github.com/matzehuels/rauzy/pkg/lyapunov"
	"github.com/matzehuels/rauzy/pkg/observability"
	"github.com/matzehuels/rauzy/pkg/rauzy"
	"github.com/matzehuels/rauzy/pkg/render"
	"github.com/matzehuels/rauzy/pkg/store"
)

// Runner executes engine operations with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless apart from its cache, catalog and logger, so
// multiple goroutines can share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// Store, when set, receives a catalog entry for every freshly explored
	// diagram. Catalog failures are logged, not returned.
	Store store.Store
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Meta is attached to every result.
type Meta struct {
	RunID    string        `json:"run_id"`
	CacheHit bool          `json:"cache_hit"`
	Duration time.Duration `json:"duration"`
}

func newMeta() Meta { return Meta{RunID: uuid.NewString()} }

// DiagramResult is the result of [Runner.Explore].
type DiagramResult struct {
	Meta
	Diagram *rauzy.Diagram
	Minimal rauzy.Component
}

// Explore builds the Rauzy diagram of the seeds or the family in opts.
func (r *Runner) Explore(ctx context.Context, opts ExploreOptions) (*DiagramResult, error) {
	start := time.Now()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	res := &DiagramResult{Meta: newMeta()}
	logger := r.Logger.With("run", res.RunID)
	key := opts.CacheKey(r.Keyer)

	if !opts.Refresh {
		if data, hit := r.lookup(ctx, "diagram", key, logger); hit {
			if d, err := rio.UnmarshalDiagram(data); err == nil {
				res.Diagram, res.CacheHit = d, true
			} else {
				logger.Warn("discarding invalid cached diagram", "error", err)
			}
		}
	}

	if res.Diagram == nil {
		if err := opts.resolveSeeds(ctx); err != nil {
			return nil, fmt.Errorf("enumerate family: %w", err)
		}
		d, err := rauzy.ExploreFamily(ctx, opts.seeds,
			rauzy.WithMaxDepth(opts.MaxDepth),
			rauzy.WithMaxNodes(opts.MaxNodes),
			rauzy.WithWorkers(opts.Workers),
			rauzy.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("explore: %w", err)
		}
		res.Diagram = d
		if data, err := rio.MarshalDiagram(d); err == nil {
			r.store(ctx, "diagram", key, data, cache.TTLDiagram, logger)
		}
	}

	minimal, err := res.Diagram.MinimalComponent()
	if err != nil {
		return nil, fmt.Errorf("minimal component: %w", err)
	}
	res.Minimal = minimal
	if !res.CacheHit {
		r.catalog(ctx, res, logger)
	}

	res.Duration = time.Since(start)
	st := res.Diagram.Stats()
	logger.Info("explored diagram",
		"nodes", st.Nodes,
		"edges", st.Edges,
		"stratum", minimal.Cover.Stratum,
		"cached", res.CacheHit,
		"duration", res.Duration)
	return res, nil
}

func (r *Runner) catalog(ctx context.Context, res *DiagramResult, logger *log.Logger) {
	if r.Store == nil {
		return
	}
	c, err := store.ClassFromDiagram(res.Diagram, res.RunID)
	if err == nil {
		err = r.Store.SaveClass(ctx, c)
	}
	if err != nil {
		logger.Warn("catalog update failed", "error", err)
		return
	}
	logger.Debug("catalogued class", "key", c.Key)
}

// DecompositionResult is the result of [Runner.Decompose].
type DecompositionResult struct {
	Meta
	rio.DecompositionDoc
}

// Decompose computes the cylinder decomposition described by opts.
func (r *Runner) Decompose(ctx context.Context, opts DecomposeOptions) (*DecompositionResult, error) {
	start := time.Now()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	res := &DecompositionResult{Meta: newMeta()}
	logger := r.Logger.With("run", res.RunID)
	key := opts.CacheKey(r.Keyer)

	if !opts.Refresh {
		if data, hit := r.lookup(ctx, "decomposition", key, logger); hit {
			if doc, err := rio.UnmarshalDecomposition(data); err == nil {
				res.DecompositionDoc, res.CacheHit = doc, true
			}
		}
	}

	if !res.CacheHit {
		copts := []cylinder.Option{cylinder.WithContext(ctx), cylinder.WithMaxSteps(opts.MaxSteps)}
		if opts.heights != nil {
			copts = append(copts, cylinder.WithHeights(opts.heights))
		}
		if opts.Trace {
			copts = append(copts, cylinder.WithTrace())
		}
		d, err := cylinder.Compute(opts.perm, opts.lengths, copts...)
		if err != nil {
			return nil, fmt.Errorf("decompose: %w", err)
		}
		res.DecompositionDoc = rio.DecompositionDoc{Perm: opts.perm, Lengths: opts.lengths, Heights: opts.heights, Decomposition: d}
		if data, err := rio.MarshalDecomposition(res.DecompositionDoc); err == nil {
			r.store(ctx, "decomposition", key, data, cache.TTLDecomposition, logger)
		}
	}

	res.Duration = time.Since(start)
	logger.Info("decomposed surface",
		"cylinders", len(res.Cylinders),
		"steps", res.Steps,
		"cached", res.CacheHit,
		"duration", res.Duration)
	return res, nil
}

// CoverResult is the result of [Runner.Cover].
type CoverResult struct {
	Meta
	Perm       string          `json:"perm"`
	Lift       string          `json:"lift,omitempty"`       // orientation double cover of a flipped permutation
	Degree     int             `json:"degree,omitempty"`     // set for covers built from cycles
	Orientable *bool           `json:"orientable,omitempty"` // set for covers built from cycles
	Signature  cover.Signature `json:"signature"`
}

// Cover computes the signature described by opts.
func (r *Runner) Cover(ctx context.Context, opts CoverOptions) (*CoverResult, error) {
	start := time.Now()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	meta := newMeta()
	logger := r.Logger.With("run", meta.RunID)
	key := opts.CacheKey(r.Keyer)

	var res CoverResult
	hit := false
	if !opts.Refresh {
		if data, ok := r.lookup(ctx, "cover", key, logger); ok && json.Unmarshal(data, &res) == nil {
			hit = true
		}
	}
	if !hit {
		computed, err := computeCover(opts)
		if err != nil {
			return nil, fmt.Errorf("cover: %w", err)
		}
		res = *computed
		if data, err := json.Marshal(res); err == nil {
			r.store(ctx, "cover", key, data, cache.TTLCover, logger)
		}
	}
	res.Meta = meta
	res.CacheHit = hit
	res.Duration = time.Since(start)
	logger.Info("computed cover", "stratum", res.Signature.Stratum, "cached", hit)
	return &res, nil
}

func computeCover(opts CoverOptions) (*CoverResult, error) {
	res := &CoverResult{Perm: opts.perm.String()}
	if len(opts.Cycles) > 0 {
		c, err := cover.FromCycles(opts.perm, opts.Degree, opts.Cycles)
		if err != nil {
			return nil, err
		}
		sig, err := c.Signature()
		if err != nil {
			return nil, err
		}
		orientable := c.IsOrientable()
		res.Degree, res.Orientable, res.Signature = c.Degree(), &orientable, sig
		return res, nil
	}
	if !opts.perm.IsOrientable() {
		lift, err := cover.Lift(opts.perm)
		if err != nil {
			return nil, err
		}
		res.Lift = lift.String()
	}
	sig, err := cover.Of(opts.perm)
	if err != nil {
		return nil, err
	}
	res.Signature = sig
	return res, nil
}

// SpeedResult is the result of [Runner.Speed].
type SpeedResult struct {
	Meta
	lyapunov.Estimate
}

// Speed estimates the Rauzy–Zorich speed described by opts.
func (r *Runner) Speed(ctx context.Context, opts SpeedOptions) (*SpeedResult, error) {
	start := time.Now()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	res := &SpeedResult{Meta: newMeta()}
	logger := r.Logger.With("run", res.RunID)
	key := opts.CacheKey(r.Keyer)

	if !opts.Refresh {
		if data, hit := r.lookup(ctx, "speed", key, logger); hit && json.Unmarshal(data, &res.Estimate) == nil {
			res.CacheHit = true
		}
	}
	if !res.CacheHit {
		e, err := lyapunov.Speed(ctx, opts.perm, opts.lyapunovOptions()...)
		if err != nil {
			return nil, fmt.Errorf("speed: %w", err)
		}
		res.Estimate = e
		if data, err := json.Marshal(e); err == nil {
			r.store(ctx, "speed", key, data, cache.TTLSpeed, logger)
		}
	}
	res.Duration = time.Since(start)
	logger.Info("estimated speed", "mean", res.Mean, "std_dev", res.StdDev, "cached", res.CacheHit)
	return res, nil
}

// Render draws d in every format of opts. Artifacts are keyed by format
// name.
func (r *Runner) Render(ctx context.Context, d *rauzy.Diagram, opts RenderOptions) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	dot := render.ToDOT(d, render.Options{Detailed: opts.Detailed, Monochrome: opts.Monochrome, Title: opts.Title})
	out := make(map[string][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		data, err := render.Render(ctx, dot, render.Format(f))
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		out[f] = data
	}
	return out, nil
}

// lookup reads key from the cache. Cache failures count as misses.
func (r *Runner) lookup(ctx context.Context, kind, key string, logger *log.Logger) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "kind", kind, "error", err)
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, kind)
	} else {
		observability.Cache().OnCacheMiss(ctx, kind)
	}
	return data, hit
}

func (r *Runner) store(ctx context.Context, kind, key string, data []byte, ttl time.Duration, logger *log.Logger) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "kind", kind, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	if r.Store != nil {
		_ = r.Store.Close(context.Background())
	}
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
