package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/rauzy/pkg/errors"
)

// run executes the root command with caching disabled and returns what it
// wrote to its output. Status lines are discarded; see captureUI.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if uiOut == os.Stdout {
		captureUI(t)
	}

	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--no-cache"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("%v: decode output: %v\n%s", args, err, out)
	}
}

func TestInduceCommand(t *testing.T) {
	var res struct {
		Path []struct {
			Step    string            `json:"step"`
			Perm    string            `json:"perm"`
			Lengths map[string]string `json:"lengths"`
		} `json:"path"`
		Stopped string `json:"stopped"`
	}
	runJSON(t, &res, "induce", "a b c / c b a", "--lengths", "a=2 b=3 c=5", "--json")

	if len(res.Path) != 1 {
		t.Fatalf("path has %d steps, want 1", len(res.Path))
	}
	if got := res.Path[0].Step; got != "t(c>a)" {
		t.Errorf("step = %q, want t(c>a)", got)
	}
	if diff := cmp.Diff(map[string]string{"a": "2", "b": "3", "c": "3"}, res.Path[0].Lengths); diff != "" {
		t.Errorf("lengths mismatch (-want +got):\n%s", diff)
	}
	if res.Stopped != string(errors.ErrCodeDegenerateInduction) {
		t.Errorf("stopped = %q, want %s", res.Stopped, errors.ErrCodeDegenerateInduction)
	}
}

func TestDiagramCommand(t *testing.T) {
	var res struct {
		Nodes []struct {
			Key string `json:"key"`
		} `json:"nodes"`
		Stats struct {
			Nodes int `json:"nodes"`
			Edges int `json:"edges"`
		} `json:"stats"`
	}
	runJSON(t, &res, "diagram", "a b c d / d c b a")

	if len(res.Nodes) != 7 || res.Stats.Nodes != 7 {
		t.Errorf("got %d nodes (stats %d), want 7", len(res.Nodes), res.Stats.Nodes)
	}
	if res.Stats.Edges != 14 {
		t.Errorf("got %d edges, want 14", res.Stats.Edges)
	}
}

func TestDiagramCommandFiles(t *testing.T) {
	base := filepath.Join(t.TempDir(), "torus")
	if _, err := run(t, "diagram", "a b / b a", "-f", "json,dot", "-o", base); err != nil {
		t.Fatalf("diagram: %v", err)
	}
	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(dot), "digraph") {
		t.Errorf("dot output starts with %q", firstLine(string(dot)))
	}
	d, err := loadDiagram(base + ".json")
	if err != nil {
		t.Fatalf("loadDiagram: %v", err)
	}
	if d.OrbitSize() != 1 {
		t.Errorf("rotation diagram has %d nodes, want 1", d.OrbitSize())
	}
}

func TestCoverCommand(t *testing.T) {
	var res struct {
		Degree    int `json:"degree"`
		Signature struct {
			Genus   int    `json:"genus"`
			Stratum string `json:"stratum"`
		} `json:"signature"`
	}
	runJSON(t, &res, "cover", "a b / b a", "--cycles", "a=(1,2,3)", "--cycles", "b=(1,4)", "--json")

	if res.Degree != 4 || res.Signature.Stratum != "H_2(2, 0)" {
		t.Errorf("cover = degree %d stratum %q, want 4 H_2(2, 0)", res.Degree, res.Signature.Stratum)
	}
}

func TestCylindersCommand(t *testing.T) {
	var res struct {
		Cylinders []struct {
			Circumference int      `json:"circumference"`
			Height        int      `json:"height"`
			Labels        []string `json:"labels"`
		} `json:"cylinders"`
		Steps int `json:"steps"`
	}
	runJSON(t, &res, "cylinders", "a b c d / d c b a", "--lengths", "a=3 b=5 c=7 d=2", "--json")

	if len(res.Cylinders) != 2 {
		t.Fatalf("got %d cylinders, want 2", len(res.Cylinders))
	}
	first := res.Cylinders[0]
	if first.Circumference != 5 || first.Height != 2 || !cmp.Equal(first.Labels, []string{"b"}) {
		t.Errorf("first cylinder = %+v, want {5 2 [b]}", first)
	}
	if res.Steps != 4 {
		t.Errorf("steps = %d, want 4", res.Steps)
	}
}

func TestCoverCommandSummary(t *testing.T) {
	ui := captureUI(t)
	if _, err := run(t, "cover", "a -b / b a"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"double cover", "genus", "stratum", "fresh"} {
		if !strings.Contains(ui.String(), want) {
			t.Errorf("summary does not contain %q:\n%s", want, ui)
		}
	}
}

func TestCoverCommandFlippedCycles(t *testing.T) {
	ui := captureUI(t)
	if _, err := run(t, "cover", "a -b / b a", "--cycles", "a=()", "--cycles", "b=(1,2)"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"degree", "orientable", "true", "H_2(2)"} {
		if !strings.Contains(ui.String(), want) {
			t.Errorf("summary does not contain %q:\n%s", want, ui)
		}
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"reducible seed", []string{"diagram", "a b / a b"}, errors.ErrCodeReducibleSeed},
		{"malformed", []string{"cover", "a b / b c"}, errors.ErrCodeMalformedPermutation},
		{"bad cycles flag", []string{"cover", "a b / b a", "--cycles", "(1,2)"}, errors.ErrCodeInvalidInput},
		{"flipped speed", []string{"speed", "a -b / b a", "--json"}, errors.ErrCodeNotOrientable},
		{"catalog without mongo", []string{"classes", "list"}, errors.ErrCodeUnsupported},
		{"browse without source", []string{"browse"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("%v: error = %v, want %s", tt.args, err, tt.code)
			}
		})
	}
}

func TestDiagramCommandBadFormat(t *testing.T) {
	if _, err := run(t, "diagram", "a b / b a", "-f", "gif"); err == nil {
		t.Error("diagram -f gif succeeded")
	}
}

func TestConfigShowCommand(t *testing.T) {
	out, err := run(t, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `backend = "none"`) {
		t.Errorf("config show with --no-cache:\n%s", out)
	}
}

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "[cache]\ndir = "+strconv.Quote(dir)+"\n")
	out, err := run(t, "--config", cfg, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
}

func TestClearFileCache(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"ab/1.json", "ab/2.json", "cd/3.json"} {
		path := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	n, err := clearFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("cleared %d entries, want 3", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d entries left after clear", len(entries))
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct{ output, want string }{
		{"", "rauzy-diagram"},
		{"out/torus", "out/torus"},
		{"torus.svg", "torus"},
		{"torus.json", "torus"},
		{"torus.v2", "torus.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, defaultDiagramBase); got != tt.want {
			t.Errorf("basePath(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestParseCycleFlags(t *testing.T) {
	got, err := parseCycleFlags([]string{"a=(1,2)(3,4)", " b = () "})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]string{"a": "(1,2)(3,4)", "b": "()"}, got); diff != "" {
		t.Errorf("parseCycleFlags mismatch (-want +got):\n%s", diff)
	}
	if _, err := parseCycleFlags([]string{"a=(1,2)", "a=(2,3)"}); err == nil {
		t.Error("duplicate label accepted")
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range completionShells() {
		t.Run(shell, func(t *testing.T) {
			out, err := run(t, "completion", shell)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, "rauzy") {
				t.Errorf("%s script does not mention rauzy", shell)
			}
		})
	}
	if _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("completion accepted an unknown shell")
	}
}
