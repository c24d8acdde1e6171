package rauzy

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/rauzy/pkg/errors"
	"github.com/matzehuels/rauzy/pkg/induction"
	"github.com/matzehuels/rauzy/pkg/observability"
	"github.com/matzehuels/rauzy/pkg/perm"
)

// Option configures exploration via functional arguments. An invalid
// Option (e.g. a negative bound) is recorded and surfaced as INVALID_INPUT
// when exploration starts.
type Option func(*options)

type options struct {
	workers  int
	maxNodes int
	maxDepth int
	logger   *log.Logger
	err      error
}

func defaultOptions() options {
	return options{workers: runtime.GOMAXPROCS(0)}
}

// WithWorkers bounds the number of goroutines computing successors of a
// BFS level. Zero selects GOMAXPROCS. The result does not depend on n.
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

// WithMaxNodes fails the exploration with LIMIT_EXCEEDED once more than n
// nodes are discovered. Zero means no limit.
func WithMaxNodes(n int) Option {
	return func(o *options) {
		if err := errors.ValidateLimit("max nodes", n); err != nil {
			o.err = err
			return
		}
		o.maxNodes = n
	}
}

// WithMaxDepth stops after d BFS levels, leaving the nodes of the last level
// unexpanded. The diagram is then a subgraph of the full diagram and
// Stats().Truncated is set. Zero means no limit.
func WithMaxDepth(d int) Option {
	return func(o *options) {
		if err := errors.ValidateLimit("max depth", d); err != nil {
			o.err = err
			return
		}
		o.maxDepth = d
	}
}

// WithLogger enables debug logging of exploration progress.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

func (o *options) debug(msg string, kv ...any) {
	if o.logger != nil {
		o.logger.Debug(msg, kv...)
	}
}

// Explore builds the Rauzy diagram reachable from seed.
//
// The seed must be irreducible (REDUCIBLE_SEED otherwise) and have at least
// two labels. Exploration is breadth first: both moves are tried at every
// node, and successors are keyed by canonical form. Moves that produce a
// reducible permutation (possible for flipped permutations only) never
// enter the diagram and are counted in Stats().ReducibleSkipped.
//
// Successors of a level are computed concurrently but merged in frontier
// order, so node discovery order, edges and keys are identical for every
// worker count.
func Explore(ctx context.Context, seed perm.Permutation, opts ...Option) (*Diagram, error) {
	return ExploreFamily(ctx, []perm.Permutation{seed}, opts...)
}

// ExploreFamily explores from several seeds at once. Seeds sharing a
// combinatorial type are merged. The union of their orbits is returned;
// use [Diagram.Components] to tell the classes apart.
func ExploreFamily(ctx context.Context, seeds []perm.Permutation, opts ...Option) (*Diagram, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if len(seeds) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no seed given")
	}

	hooks := observability.Engine()
	hooks.OnExploreStart(ctx, len(seeds))
	start := time.Now()

	d, err := explore(ctx, seeds, &o)
	elapsed := time.Since(start)
	if err != nil {
		hooks.OnExploreComplete(ctx, 0, 0, elapsed, err)
		return nil, err
	}
	d.stats.Nodes = len(d.order)
	d.stats.Edges = len(d.edges)
	d.stats.Duration = elapsed
	hooks.OnExploreComplete(ctx, d.stats.Nodes, d.stats.Edges, elapsed, nil)
	o.debug("exploration done", "nodes", d.stats.Nodes, "edges", d.stats.Edges, "levels", d.stats.Levels, "elapsed", elapsed)
	return d, nil
}

// CheckSeed reports why p cannot seed a Rauzy diagram, or nil.
func CheckSeed(p perm.Permutation) error {
	if p.Len() < 2 {
		return errors.New(errors.ErrCodeInvalidInput, "a seed needs at least two labels: %s", p)
	}
	if p.IsReducible() {
		return errors.New(errors.ErrCodeReducibleSeed, "seed %s is reducible", p)
	}
	return nil
}

// successor is the outcome of one move, computed off the merge path.
type successor struct {
	key       string
	perm      perm.Permutation // canonical
	label     induction.StepLabel
	reducible bool
}

var sides = [2]perm.Side{perm.Top, perm.Bottom}

func explore(ctx context.Context, seeds []perm.Permutation, o *options) (*Diagram, error) {
	d := newDiagram()
	var frontier []*Node
	for _, s := range seeds {
		if err := CheckSeed(s); err != nil {
			return nil, err
		}
		if n, added := d.add(s.Key(), s.Canonical(), 0); added {
			frontier = append(frontier, n)
			d.seeds = append(d.seeds, n.Key)
		}
	}
	if err := d.checkLimit(o); err != nil {
		return nil, err
	}

	for depth := 0; len(frontier) > 0; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("explore level %d: %w", depth, err)
		}
		if o.maxDepth > 0 && depth >= o.maxDepth {
			d.stats.Truncated = true
			break
		}
		observability.Engine().OnExploreLevel(ctx, depth, len(frontier))
		o.debug("exploring level", "depth", depth, "frontier", len(frontier), "nodes", len(d.order))

		succ, err := expand(ctx, frontier, o.workers)
		if err != nil {
			return nil, err
		}

		var next []*Node
		for i, n := range frontier {
			for _, s := range succ[i] {
				if s.reducible {
					d.stats.ReducibleSkipped++
					continue
				}
				m, added := d.add(s.key, s.perm, depth+1)
				if added {
					if err := d.checkLimit(o); err != nil {
						return nil, err
					}
					next = append(next, m)
				}
				d.link(Edge{From: n.Key, To: m.Key, Label: s.label})
			}
		}
		frontier = next
		d.stats.Levels = depth + 1
	}
	return d, nil
}

// expand computes both successors of every frontier node using at most
// workers goroutines.
func expand(ctx context.Context, frontier []*Node, workers int) ([][2]successor, error) {
	out := make([][2]successor, len(frontier))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, n := range frontier {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for j, side := range sides {
				next, label, err := induction.Move(n.Perm, side)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "expand %s", n.Key)
				}
				s := successor{label: label, reducible: next.IsReducible()}
				if !s.reducible {
					s.perm = next.Canonical()
					s.key = s.perm.String()
				}
				out[i][j] = s
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Diagram) checkLimit(o *options) error {
	if o.maxNodes > 0 && len(d.order) > o.maxNodes {
		return errors.New(errors.ErrCodeLimitExceeded, "diagram exceeds %d nodes", o.maxNodes)
	}
	return nil
}
