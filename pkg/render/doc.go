// Package render draws Rauzy diagrams with Graphviz.
//
// [ToDOT] writes a DOT digraph: one node per combinatorial type, labelled
// with its two rows, and one edge per Rauzy move, labelled "t" or "b" for
// the winning row. Nodes of the same strongly connected component share a
// fill colour and seeds are drawn with a double outline.
//
// [Render] turns DOT into SVG or PNG in process via
// github.com/goccy/go-graphviz; no Graphviz binaries are needed.
//
//	dot := render.ToDOT(d, render.Options{})
//	svg, err := render.Render(ctx, dot, render.FormatSVG)
package render
