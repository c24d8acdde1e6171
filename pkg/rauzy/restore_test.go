package rauzy

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/rauzy/pkg/errors"
	"github.com/matzehuels/rauzy/pkg/induction"
	"github.com/matzehuels/rauzy/pkg/perm"
)

func TestRestore(t *testing.T) {
	d, err := Explore(context.Background(), perm.MustParse("a b c d / d c b a"))
	if err != nil {
		t.Fatal(err)
	}
	r, err := Restore(d.Nodes(), d.Edges(), d.Seeds(), d.Stats())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(d.Keys(), r.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(d.Edges(), r.Edges()); diff != "" {
		t.Errorf("Edges() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(d.Stats(), r.Stats()); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}
	if !r.IsStronglyConnected() {
		t.Error("restored diagram is not strongly connected")
	}
}

func TestRestoreRejects(t *testing.T) {
	d, err := Explore(context.Background(), perm.MustParse("a b c / c b a"))
	if err != nil {
		t.Fatal(err)
	}
	nodes, edges := d.Nodes(), d.Edges()

	badEdge := edges[0]
	badEdge.Label.Winner = perm.Bottom
	wrongTarget := edges[0]
	wrongTarget.To = edges[1].To
	relabeled := nodes[0]
	relabeled.Perm = perm.MustParse("a b c / c b a")
	reducible := Node{Key: "0 1 / 0 1", Perm: perm.MustParse("0 1 / 0 1")}

	tests := []struct {
		name  string
		nodes []Node
		edges []Edge
		seeds []string
	}{
		{"mislabeled edge", nodes, []Edge{badEdge}, nil},
		{"wrong target", nodes, []Edge{wrongTarget}, nil},
		{"unknown node", nodes[:1], edges, nil},
		{"not canonical", append([]Node{relabeled}, nodes[1:]...), nil, nil},
		{"duplicate node", append(nodes, nodes[0]), nil, nil},
		{"reducible node", []Node{reducible}, nil, nil},
		{"unknown seed", nodes, nil, []string{"0 1 / 1 0"}},
		{"bogus label", nodes, []Edge{{From: nodes[0].Key, To: nodes[1].Key, Label: induction.StepLabel{Winner: perm.Top, WinnerLabel: "9", LoserLabel: "0"}}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Restore(tt.nodes, tt.edges, tt.seeds, Stats{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Restore() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}
