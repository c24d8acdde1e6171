package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
workers = 4

[cache]
backend = "redis"

[redis]
addr = "redis.internal:6379"
db = 2

[mongo]
uri = "mongodb://localhost:27017"

[server]
addr = ":9090"
request_timeout = "30s"
`)
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	want := DefaultConfig()
	want.Workers = 4
	want.Cache.Backend = backendRedis
	want.Redis.Addr = "redis.internal:6379"
	want.Redis.DB = 2
	want.Mongo.URI = "mongodb://localhost:27017"
	want.Server.Addr = ":9090"
	want.Server.RequestTimeout = 30 * time.Second
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	got, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), got); diff != "" {
		t.Errorf("LoadConfig() without file mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"unknown key", "[cache]\nbackend = \"file\"\nttl = 3\n", "unknown keys cache.ttl"},
		{"bad backend", "[cache]\nbackend = \"disk\"\n", "invalid cache backend"},
		{"negative workers", "workers = -1\n", "must not be negative"},
		{"not toml", "workers = \n", "read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadConfig() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("LoadConfig() of a missing explicit path succeeded")
	}
}

func TestConfigStoreSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mongo.URI = "mongodb://db"
	m := cfg.mongo()
	if m.URI != "mongodb://db" || m.Database != appName || m.Collection == "" {
		t.Errorf("mongo() = %+v", m)
	}
	r := cfg.redis()
	if r.Addr != "localhost:6379" || r.Prefix != appName+":" {
		t.Errorf("redis() = %+v", r)
	}
}
