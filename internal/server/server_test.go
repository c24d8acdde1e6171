package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/rauzy/pkg/cache"
	"github.com/matzehuels/rauzy/pkg/errors"
	"github.com/matzehuels/rauzy/pkg/observability"
	"github.com/matzehuels/rauzy/pkg/pipeline"
	"github.com/matzehuels/rauzy/pkg/store"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	c, err := cache.NewMemoryCache(0)
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(c, nil, nil)
	runner.Store = store.NewMemoryStore()
	cfg.Runner = runner
	ts := httptest.NewServer(New(cfg).Handler())
	t.Cleanup(func() {
		ts.Close()
		runner.Close()
	})
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp, out
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return resp, out
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, body := get(t, ts, "/healthz")
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" || body["version"] == "" {
		t.Errorf("GET /healthz = %d %v", resp.StatusCode, body)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("response has no request ID")
	}
}

func TestInduce(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, body := post(t, ts, "/v1/induce",
		`{"perm": "a b c / c b a", "lengths": {"a": "2", "b": "3", "c": "5"}, "steps": 3}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	path, _ := body["path"].([]any)
	if len(path) != 1 || body["stopped"] != string(errors.ErrCodeDegenerateInduction) {
		t.Errorf("body = %v", body)
	}
	if body["run_id"] == "" {
		t.Error("missing run ID")
	}
}

func TestDiagram(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, body := post(t, ts, "/v1/diagram", `{"seeds": ["a b c d / d c b a"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	minimal := body["minimal"].(map[string]any)
	if got := minimal["cover"].(map[string]any)["stratum"]; got != "H_2(2)" {
		t.Errorf("minimal stratum = %v", got)
	}
	stats := body["diagram"].(map[string]any)["stats"].(map[string]any)
	if stats["nodes"] != float64(7) {
		t.Errorf("nodes = %v, want 7", stats["nodes"])
	}

	resp, _ = post(t, ts, "/v1/diagram", `{"seeds": ["p q r s / s r q p"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("relabelled status = %d", resp.StatusCode)
	}

	resp, body = get(t, ts, "/v1/classes?size=4")
	classes, _ := body["classes"].([]any)
	if resp.StatusCode != http.StatusOK || len(classes) != 1 {
		t.Fatalf("GET /v1/classes = %d %v", resp.StatusCode, body)
	}
	key := classes[0].(map[string]any)["key"].(string)
	resp, body = get(t, ts, "/v1/classes?key="+url.QueryEscape(key))
	if resp.StatusCode != http.StatusOK || body["stratum"] != "H_2(2)" {
		t.Errorf("GET class %q = %d %v", key, resp.StatusCode, body)
	}
}

func TestDiagramDOT(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, err := http.Post(ts.URL+"/v1/diagram", "application/json",
		strings.NewReader(`{"seeds": ["a b c / c b a"], "format": "dot"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/vnd.graphviz") {
		t.Fatalf("status = %d, content type %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(data), "digraph") || resp.Header.Get("X-Run-Id") == "" {
		t.Errorf("unexpected DOT response:\n%s", data)
	}
}

func TestCoverAndCylinders(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, body := post(t, ts, "/v1/cover", `{"perm": "a -b / b a"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cover status = %d, body %v", resp.StatusCode, body)
	}
	if got := body["signature"].(map[string]any)["stratum"]; got != "H_2(2)" || body["lift"] == "" {
		t.Errorf("cover body = %v", body)
	}

	resp, body = post(t, ts, "/v1/cylinders",
		`{"perm": "a b c d / d c b a", "lengths": {"a": "3", "b": "5", "c": "7", "d": "2"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cylinders status = %d, body %v", resp.StatusCode, body)
	}
	cyls, _ := body["cylinders"].([]any)
	if len(cyls) != 2 || body["steps"] != float64(4) {
		t.Errorf("cylinders body = %v", body)
	}
	first := cyls[0].(map[string]any)
	if diff := cmp.Diff(map[string]any{
		"circumference": float64(5),
		"height":        float64(2),
		"labels":        []any{"b"},
	}, first); diff != "" {
		t.Errorf("first cylinder mismatch (-want +got):\n%s", diff)
	}
}

func TestSpeed(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, body := post(t, ts, "/v1/speed",
		`{"perm": "a b / b a", "experiments": 2, "iterations": 50, "seed": 7}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	if samples, _ := body["samples"].([]any); len(samples) != 2 {
		t.Errorf("samples = %v", body["samples"])
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t, Config{MaxBodyBytes: 256})
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed permutation", "/v1/cover", `{"perm": "a b / a c"}`, http.StatusBadRequest, errors.ErrCodeMalformedPermutation},
		{"reducible seed", "/v1/diagram", `{"seeds": ["a b / a b"]}`, http.StatusBadRequest, errors.ErrCodeReducibleSeed},
		{"unknown field", "/v1/cover", `{"perm": "a b / b a", "colour": 1}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"not json", "/v1/induce", `perm`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad format", "/v1/diagram", `{"seeds": ["a b / b a"], "format": "gif"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"node limit", "/v1/diagram", `{"family": 4, "max_nodes": 5}`, http.StatusRequestEntityTooLarge, errors.ErrCodeLimitExceeded},
		{"flipped speed", "/v1/speed", `{"perm": "a -b / b a"}`, http.StatusBadRequest, errors.ErrCodeNotOrientable},
		{"too many experiments", "/v1/speed", `{"perm": "a b / b a", "experiments": 1125899906842624}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"family over node limit", "/v1/diagram", `{"family": 9}`, http.StatusRequestEntityTooLarge, errors.ErrCodeLimitExceeded},
		{"body too large", "/v1/cover", `{"perm": "` + strings.Repeat("a ", 200) + `"}`, http.StatusRequestEntityTooLarge, errors.ErrCodeLimitExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, ts, tt.path, tt.body)
			if resp.StatusCode != tt.status || errorCode(body) != string(tt.code) {
				t.Errorf("POST %s = %d %v, want %d %s", tt.path, resp.StatusCode, body, tt.status, tt.code)
			}
			if body["request_id"] == "" || body["request_id"] != resp.Header.Get(RequestIDHeader) {
				t.Errorf("request ID %v does not match header %q", body["request_id"], resp.Header.Get(RequestIDHeader))
			}
		})
	}
}

func TestErrorBodyShape(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, body := post(t, ts, "/v1/cover", `{"perm": "a b / a c"}`)
	want := map[string]any{
		"error": map[string]any{
			"code":    string(errors.ErrCodeMalformedPermutation),
			"message": "rows differ as label sets",
		},
		"request_id": resp.Header.Get(RequestIDHeader),
	}
	ignoreMessage := cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().String() == `["message"]`
	}, cmp.Ignore())
	if diff := cmp.Diff(want, body, ignoreMessage); diff != "" {
		t.Errorf("error body mismatch (-want +got):\n%s", diff)
	}
	detail, _ := body["error"].(map[string]any)
	if msg, _ := detail["message"].(string); msg == "" {
		t.Error("error body has no message")
	}
}

func TestRoutingErrors(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, body := get(t, ts, "/v1/nope")
	if resp.StatusCode != http.StatusNotFound || errorCode(body) != string(errors.ErrCodeNotFound) {
		t.Errorf("GET /v1/nope = %d %v", resp.StatusCode, body)
	}
	resp, body = get(t, ts, "/v1/cover")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/cover = %d %v", resp.StatusCode, body)
	}
	resp, body = get(t, ts, "/v1/classes?key=missing")
	if resp.StatusCode != http.StatusNotFound || errorCode(body) != string(errors.ErrCodeNotFound) {
		t.Errorf("GET unknown class = %d %v", resp.StatusCode, body)
	}
	resp, _ = get(t, ts, "/v1/classes?size=-1")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("GET classes size=-1 = %d", resp.StatusCode)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	ts := newTestServer(t, Config{})
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/v1/cover", strings.NewReader(`{"perm": "a b / a b"}`))
	req.Header.Set(RequestIDHeader, "req-42")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if resp.Header.Get(RequestIDHeader) != "req-42" || body["request_id"] != "req-42" {
		t.Errorf("request ID = %q / %v, want req-42", resp.Header.Get(RequestIDHeader), body["request_id"])
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeMalformedPermutation, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeReducibleSeed, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInvalidCover, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeDegenerateInduction, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeLimitExceeded, "x"), http.StatusRequestEntityTooLarge},
		{errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{fmt.Errorf("explore: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{fmt.Errorf("wrapped: %w", errors.New(errors.ErrCodeNotOrientable, "x")), http.StatusBadRequest},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

type recordingHTTPHooks struct {
	mu     sync.Mutex
	routes []string
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string) {}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, fmt.Sprintf("%s %s %d", method, route, status))
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t, Config{})
	post(t, ts, "/v1/cover", `{"perm": "a b / b a"}`)
	get(t, ts, "/healthz")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	want := []string{"POST /v1/cover 200", "GET /healthz 200"}
	if diff := cmp.Diff(want, hooks.routes); diff != "" {
		t.Errorf("hooked responses mismatch (-want +got):\n%s", diff)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	srv := New(Config{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
