package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	rio "github.com/matzehuels/rauzy/pkg/io"
	"github.com/matzehuels/rauzy/pkg/pipeline"
	"github.com/matzehuels/rauzy/pkg/rauzy"
)

const (
	formatJSON         = "json"
	defaultDiagramBase = "rauzy-diagram"
)

// diagramOpts holds the output flags of the diagram command.
type diagramOpts struct {
	formats    []string
	output     string // file, or base path for several formats; stdout for one text format when empty
	detailed   bool
	monochrome bool
}

// diagramCommand creates the diagram command.
func (c *CLI) diagramCommand() *cobra.Command {
	var formatsStr string
	var out diagramOpts
	opts := pipeline.ExploreOptions{}

	cmd := &cobra.Command{
		Use:   "diagram [perm...]",
		Short: "Explore the Rauzy diagram of a permutation",
		Long: `Explore the Rauzy diagram reachable from one or more seed permutations, or
from every irreducible permutation of a given size with --family.

The diagram is written as JSON (nodes, labelled edges, strongly connected
components and statistics) or drawn with Graphviz as DOT, SVG or PNG. With a
single text format and no --output, it goes to stdout.

Examples:
  rauzy diagram "a b c d / d c b a"
  rauzy diagram "a b c d / d c b a" -f svg,png -o torus
  rauzy diagram --family 4 -f dot | dot -Tpdf > family4.pdf
  rauzy diagram "a -b -c / c b a" --max-nodes 10000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out.formats = parseFormats(formatsStr)
			if err := validateDiagramFormats(out.formats); err != nil {
				return err
			}
			opts.Seeds = args
			opts.Workers = c.workers(opts.Workers)
			return c.runDiagram(cmd.Context(), cmd.OutOrStdout(), opts, out)
		},
	}

	cmd.Flags().IntVar(&opts.Family, "family", 0, "explore all irreducible permutations of this size")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "stop after this many BFS levels (0: unbounded)")
	cmd.Flags().IntVar(&opts.MaxNodes, "max-nodes", 0, fmt.Sprintf("fail beyond this many nodes (default %d)", pipeline.DefaultMaxNodes))
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "parallel successor computation (default: config, then sequential)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the cache")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg, png (comma-separated)")
	cmd.Flags().StringVarP(&out.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&out.detailed, "detailed", false, "label edges with the intervals they compare")
	cmd.Flags().BoolVar(&out.monochrome, "monochrome", false, "draw without component colours")

	return cmd
}

func validateDiagramFormats(formats []string) error {
	var render []string
	for _, f := range formats {
		if f != formatJSON {
			render = append(render, f)
		}
	}
	if err := pipeline.ValidateFormats(render); err != nil {
		return fmt.Errorf("%w (or json)", err)
	}
	return nil
}

func (c *CLI) runDiagram(ctx context.Context, w io.Writer, opts pipeline.ExploreOptions, out diagramOpts) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	toStdout := out.output == "" && len(out.formats) == 1 && out.formats[0] != "png"
	var spinner *Spinner
	if !toStdout {
		spinner = newSpinnerWithContext(ctx, "Exploring Rauzy diagram...")
		spinner.Start()
	}
	prog := newProgress(c.Logger)
	res, err := runner.Explore(ctx, opts)
	if err != nil {
		spinner.finish(err, "Exploration failed")
		return err
	}
	prog.done("explored", "nodes", res.Diagram.OrbitSize(), "run", res.RunID)

	if spinner != nil {
		spinner.SetMessage("Writing " + strings.Join(out.formats, ", ") + "...")
	}
	artifacts, err := c.diagramArtifacts(ctx, runner, res, out)
	spinner.finish(err, "Rendering failed")
	if err != nil {
		return err
	}
	if toStdout {
		_, err := w.Write(artifacts[out.formats[0]])
		return err
	}

	printSuccess("Rauzy diagram of %s", StyleHighlight.Render(res.Minimal.Representative.String()))
	printDiagramStats(res.Diagram.Stats(), res.CacheHit)
	printKeyValue("components", fmt.Sprint(len(res.Diagram.Components())))
	printKeyValue("stratum", StyleHighlight.Render(res.Minimal.Cover.Stratum))
	printKeyValue("genus", StyleNumber.Render(fmt.Sprint(res.Minimal.Cover.Genus)))
	return writeArtifacts(artifacts, out.formats, out.output, defaultDiagramBase)
}

func (c *CLI) diagramArtifacts(ctx context.Context, runner *pipeline.Runner, res *pipeline.DiagramResult, out diagramOpts) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(out.formats))
	var render []string
	for _, f := range out.formats {
		if f != formatJSON {
			render = append(render, f)
			continue
		}
		var buf bytes.Buffer
		if err := rio.WriteJSON(res.Diagram, &buf); err != nil {
			return nil, err
		}
		artifacts[f] = buf.Bytes()
	}
	if len(render) == 0 {
		return artifacts, nil
	}
	drawn, err := runner.Render(ctx, res.Diagram, pipeline.RenderOptions{
		Formats:    render,
		Detailed:   out.detailed,
		Monochrome: out.monochrome,
		Title:      diagramTitle(res),
	})
	if err != nil {
		return nil, err
	}
	for f, data := range drawn {
		artifacts[f] = data
	}
	return artifacts, nil
}

func diagramTitle(res *pipeline.DiagramResult) string {
	st := res.Diagram.Stats()
	return fmt.Sprintf("%s  %s  (%d nodes)", res.Minimal.Representative, res.Minimal.Cover.Stratum, st.Nodes)
}

// writeArtifacts writes one file per format. A single format goes to
// output as given; several formats share output's base name with their
// own extensions.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, defaultBase string) error {
	if len(formats) == 1 && output != "" {
		if err := os.WriteFile(output, artifacts[formats[0]], 0o644); err != nil {
			return err
		}
		printFile(output)
		return nil
	}
	base := basePath(output, defaultBase)
	for _, f := range formats {
		path := base + "." + f
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// basePath strips a known format extension from output, or returns
// fallback when output is empty.
func basePath(output, fallback string) string {
	if output == "" {
		return fallback
	}
	ext := filepath.Ext(output)
	if slices.Contains(append(pipeline.SupportedFormats(), formatJSON), strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// loadDiagram reads a diagram snapshot written by "diagram -f json".
func loadDiagram(path string) (*rauzy.Diagram, error) {
	d, err := rio.ImportJSON(path)
	if err != nil {
		return nil, fmt.Errorf("load diagram %s: %w", path, err)
	}
	return d, nil
}
