package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/rauzy/pkg/perm"
	"github.com/matzehuels/rauzy/pkg/rauzy"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed adds the BFS depth and discovery index to node labels.
	Detailed bool
	// Monochrome disables the per-component fill colours.
	Monochrome bool
	// Title is drawn above the diagram when set.
	Title string
}

// palette holds component fill colours; components beyond its length
// reuse colours cyclically.
var palette = []string{
	"#dbeafe", "#dcfce7", "#fef9c3", "#fde2e2", "#ede9fe",
	"#cffafe", "#ffedd5", "#f5f5f4", "#fce7f3", "#e0e7ff",
}

// ToDOT converts a diagram to Graphviz DOT.
func ToDOT(d *rauzy.Diagram, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Rauzy {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Menlo, monospace\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Menlo, monospace\", fontsize=12];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  labelloc=t;\n  label=%q;\n", opts.Title)
	}
	buf.WriteString("\n")

	color := make(map[string]string)
	if !opts.Monochrome {
		for i, c := range d.Components() {
			for _, k := range c {
				color[k] = palette[i%len(palette)]
			}
		}
	}
	seeds := make(map[string]bool)
	for _, s := range d.Seeds() {
		seeds[s] = true
	}

	for _, n := range d.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
		if c, ok := color[n.Key]; ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c))
		}
		if seeds[n.Key] {
			attrs = append(attrs, "peripheries=2", "penwidth=1.5")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Key, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges() {
		style := "solid"
		if e.Label.Winner == perm.Bottom {
			style = "dashed"
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q, tooltip=%q, style=%s];\n",
			e.From, e.To, e.Label.Winner.Short(), e.Label.String(), style)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n rauzy.Node, detailed bool) string {
	top, bottom, _ := strings.Cut(n.Key, " / ")
	label := top + "\n" + bottom
	if detailed {
		label += fmt.Sprintf("\n#%d depth %d", n.Index, n.Depth)
	}
	return label
}
