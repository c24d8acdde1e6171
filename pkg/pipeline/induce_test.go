package pipeline

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/rauzy/pkg/errors"
)

func TestRunnerInduce(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Induce(context.Background(), InduceOptions{
		Perm:    "a b c / c b a",
		Lengths: map[string]string{"a": "2", "b": "3", "c": "5"},
		Steps:   5,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []InduceStep{{
		Step:    "t(c>a)",
		Perm:    "a b c / c a b",
		Lengths: map[string]string{"a": "2", "b": "3", "c": "3"},
	}}
	if diff := cmp.Diff(want, res.Path); diff != "" {
		t.Errorf("Induce() path mismatch (-want +got):\n%s", diff)
	}
	if res.Stopped != errors.ErrCodeDegenerateInduction {
		t.Errorf("Induce() stopped = %q, want %q", res.Stopped, errors.ErrCodeDegenerateInduction)
	}
}

func TestRunnerInduceRational(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Induce(context.Background(), InduceOptions{
		Perm:    "a b / b a",
		Lengths: map[string]string{"a": "1/2", "b": "0.2"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Path) != 1 || res.Stopped != "" {
		t.Fatalf("Induce() = %+v", res)
	}
	if got := res.Path[0]; got.Step != "b(a>b)" || got.Lengths["a"] != "3/10" || got.Lengths["b"] != "1/5" {
		t.Errorf("Induce() step = %+v", got)
	}
}

func TestRunnerInduceErrors(t *testing.T) {
	r := newTestRunner(t)
	tests := []struct {
		name string
		opts InduceOptions
		code errors.Code
	}{
		{"malformed", InduceOptions{Perm: "a b / a c", Lengths: map[string]string{"a": "1", "b": "1"}}, errors.ErrCodeMalformedPermutation},
		{"not a number", InduceOptions{Perm: "a b / b a", Lengths: map[string]string{"a": "x", "b": "1"}}, errors.ErrCodeInvalidLengths},
		{"missing length", InduceOptions{Perm: "a b / b a", Lengths: map[string]string{"a": "1"}}, errors.ErrCodeInvalidLengths},
		{"negative steps", InduceOptions{Perm: "a b / b a", Lengths: map[string]string{"a": "1", "b": "2"}, Steps: -1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Induce(context.Background(), tt.opts); !errors.Is(err, tt.code) {
				t.Errorf("Induce() error = %v, want %s", err, tt.code)
			}
		})
	}
}
