package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestGetPrefersLinkerValues(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })
	Version = "v0.3.0"

	info := Get()
	if info.Version != "v0.3.0" || info.GoVersion == "" {
		t.Errorf("Get() = %+v", info)
	}
	if !strings.HasPrefix(Template(), "{{.Name}} version v0.3.0\n") {
		t.Errorf("Template() = %q", Template())
	}
}

func TestFill(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	got := Info{Version: "dev", Commit: "none", Date: "unknown"}.fill(bi)
	want := Info{Version: "v1.2.0", Commit: "abc123", Date: "2026-01-02T03:04:05Z"}
	if got != want {
		t.Errorf("fill() = %+v, want %+v", got, want)
	}

	set := Info{Version: "v9", Commit: "c", Date: "d"}
	if got := set.fill(bi); got != set {
		t.Errorf("fill() overrode linker values: %+v", got)
	}

	devel := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}
	if got := (Info{Version: "dev"}).fill(devel); got.Version != "dev" {
		t.Errorf("fill() took version %q from a devel build", got.Version)
	}
}
