// Package pkg provides the core libraries for Rauzy induction on interval
// exchange transformations.
//
// # Overview
//
// An interval exchange cuts an interval into labelled pieces and lays them
// down again in another order, possibly flipping some of them. Rauzy
// induction compares the two last pieces, shrinks the longer one by the
// shorter and moves the shorter one. The combinatorial moves connect
// permutations into Rauzy diagrams, whose classes correspond to strata of
// translation surfaces. The pkg directory is organized into three areas:
//
//  1. Domain logic ([perm], [induction], [rauzy], [cover], [cylinder], [lyapunov])
//  2. Output and persistence ([io], [render], [cache], [store])
//  3. Orchestration ([pipeline], [errors], [observability], [buildinfo])
//
// # Architecture
//
// The typical data flow:
//
//	"a b c d / d c b a"
//	         ↓
//	    [perm] package (parse, canonical form, irreducibility)
//	         ↓
//	    [rauzy] package (explore the diagram, strongly connected components)
//	         ↓
//	    [cover] package (genus and stratum of the minimal component)
//	         ↓
//	    [io] / [render] (JSON snapshot, DOT, SVG, PNG)
//
// # Quick Start
//
//	p := perm.MustParse("a b c d / d c b a")
//
//	// 1. Explore the Rauzy diagram
//	d, _ := rauzy.Explore(ctx, p, rauzy.WithMaxNodes(10_000))
//
//	// 2. Identify its stratum
//	mc, _ := d.MinimalComponent()
//	fmt.Println(mc.Cover.Stratum) // H_2(2)
//
//	// 3. Draw it
//	svg, _ := render.Render(ctx, render.ToDOT(d, render.Options{}), render.FormatSVG)
//
// # Main Packages
//
// [perm] - Labelled two-row permutations, orientable or flipped, with their
// text form, canonical relabelling, reducibility test and singularities.
//
// [induction] - Rauzy moves and Rauzy induction over any exact length type
// ([math/big.Int] and [math/big.Rat]).
//
// [rauzy] - Breadth-first exploration of Rauzy diagrams, optionally in
// parallel, with Tarjan's strongly connected components and the choice of
// a minimal component.
//
// [cover] - Orientation double covers of flipped permutations, finite
// covers given by sheet permutations, and their genus and stratum.
//
// [cylinder] - Cylinder decomposition of integral interval exchanges.
//
// [lyapunov] - Monte-Carlo estimate of the Rauzy-Zorich speed with
// arbitrary precision lengths.
//
// [pipeline] - Cached orchestration of the above, shared by the CLI and
// the HTTP API.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [perm]: https://pkg.go.dev/github.com/matzehuels/rauzy/pkg/perm
// [induction]: https://pkg.go.dev/github.com/matzehuels/rauzy/pkg/induction
// [rauzy]: https://pkg.go.dev/github.com/matzehuels/rauzy/pkg/rauzy
// [cover]: https://pkg.go.dev/github.com/matzehuels/rauzy/pkg/cover
// [cylinder]: https://pkg.go.dev/github.com/matzehuels/rauzy/pkg/cylinder
// [lyapunov]: https://pkg.go.dev/github.com/matzehuels/rauzy/pkg/lyapunov
// [io]: https://pkg.go.dev/github.com/matzehuels/rauzy/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/rauzy/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/rauzy/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/rauzy/pkg/store
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/rauzy/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/matzehuels/rauzy/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/rauzy/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/rauzy/pkg/buildinfo
package pkg
