package observability_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/rauzy/pkg/cylinder"
	"github.com/matzehuels/rauzy/pkg/induction"
	"github.com/matzehuels/rauzy/pkg/observability"
	"github.com/matzehuels/rauzy/pkg/perm"
	"github.com/matzehuels/rauzy/pkg/rauzy"
)

// recorder keeps every engine event it receives.
type recorder struct {
	observability.NoopEngineHooks
	mu     sync.Mutex
	events []string
	levels []int
	nodes  int
	edges  int
	cyls   int
	steps  int
}

func (r *recorder) add(ev string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) OnExploreStart(context.Context, int) { r.add("explore start") }

func (r *recorder) OnExploreLevel(_ context.Context, depth, _ int) {
	r.add("level")
	r.mu.Lock()
	r.levels = append(r.levels, depth)
	r.mu.Unlock()
}

func (r *recorder) OnExploreComplete(_ context.Context, nodes, edges int, _ time.Duration, _ error) {
	r.add("explore done")
	r.nodes, r.edges = nodes, edges
}

func (r *recorder) OnDecomposeStart(context.Context, int) { r.add("decompose start") }

func (r *recorder) OnDecomposeComplete(_ context.Context, cylinders, steps int, _ time.Duration, _ error) {
	r.add("decompose done")
	r.cyls, r.steps = cylinders, steps
}

func install(t *testing.T) *recorder {
	t.Helper()
	r := &recorder{}
	observability.SetEngineHooks(r)
	t.Cleanup(observability.Reset)
	return r
}

func TestExploreEmitsEngineEvents(t *testing.T) {
	r := install(t)
	if _, err := rauzy.Explore(context.Background(), perm.MustParse("a b c d / d c b a")); err != nil {
		t.Fatal(err)
	}
	if r.nodes != 7 || r.edges != 14 {
		t.Errorf("complete reported %d nodes %d edges, want 7 and 14", r.nodes, r.edges)
	}
	if len(r.events) < 3 || r.events[0] != "explore start" || r.events[len(r.events)-1] != "explore done" {
		t.Errorf("events = %v", r.events)
	}
	for i, depth := range r.levels {
		if depth != i {
			t.Errorf("level %d reported depth %d", i, depth)
		}
	}
}

func TestDecomposeEmitsEngineEvents(t *testing.T) {
	r := install(t)
	lengths := induction.Ints(map[string]int64{"a": 2, "b": 3, "c": 5})
	if _, err := cylinder.Compute(perm.MustParse("a b c / c b a"), lengths); err != nil {
		t.Fatal(err)
	}
	if r.cyls != 1 || r.steps != 3 {
		t.Errorf("complete reported %d cylinders after %d steps, want 1 after 3", r.cyls, r.steps)
	}
	want := []string{"decompose start", "decompose done"}
	if len(r.events) != 2 || r.events[0] != want[0] || r.events[1] != want[1] {
		t.Errorf("events = %v, want %v", r.events, want)
	}
}

func TestFailedExploreStillCompletes(t *testing.T) {
	r := install(t)
	if _, err := rauzy.Explore(context.Background(), perm.MustParse("a b / a b")); err == nil {
		t.Fatal("reducible seed explored")
	}
	if len(r.events) != 2 || r.events[1] != "explore done" {
		t.Errorf("events = %v", r.events)
	}
}

func TestSetHooksIgnoresNil(t *testing.T) {
	r := install(t)
	observability.SetEngineHooks(nil)
	observability.SetCacheHooks(nil)
	observability.SetHTTPHooks(nil)
	if observability.Engine() != r {
		t.Error("SetEngineHooks(nil) replaced the registered hooks")
	}
	if _, ok := observability.Cache().(observability.NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", observability.Cache())
	}

	observability.Reset()
	if _, ok := observability.Engine().(observability.NoopEngineHooks); !ok {
		t.Errorf("after Reset Engine() = %T", observability.Engine())
	}
	if _, ok := observability.HTTP().(observability.NoopHTTPHooks); !ok {
		t.Errorf("after Reset HTTP() = %T", observability.HTTP())
	}
}
