package rauzy_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/rauzy/pkg/perm"
	"github.com/matzehuels/rauzy/pkg/rauzy"
)

func ExampleExplore() {
	d, err := rauzy.Explore(context.Background(), perm.MustParse("a b c / c b a"))
	if err != nil {
		panic(err)
	}
	fmt.Println("nodes:", d.OrbitSize())
	for _, e := range d.Edges() {
		fmt.Printf("%s -%s-> %s\n", e.From, e.Label, e.To)
	}
	// Output:
	// nodes: 3
	// 0 1 2 / 2 1 0 -t(2>0)-> 0 1 2 / 2 0 1
	// 0 1 2 / 2 1 0 -b(0>2)-> 0 1 2 / 1 2 0
	// 0 1 2 / 2 0 1 -t(2>1)-> 0 1 2 / 2 1 0
	// 0 1 2 / 2 0 1 -b(1>2)-> 0 1 2 / 2 0 1
	// 0 1 2 / 1 2 0 -t(2>0)-> 0 1 2 / 1 2 0
	// 0 1 2 / 1 2 0 -b(0>2)-> 0 1 2 / 2 1 0
}

func ExampleDiagram_MinimalComponent() {
	d, _ := rauzy.Explore(context.Background(), perm.MustParse("a b c d e / e d c b a"))
	c, _ := d.MinimalComponent()
	fmt.Println(len(c.Keys), c.Cover.Stratum, d.IsStronglyConnected())
	// Output:
	// 15 H_2(1^2) true
}
