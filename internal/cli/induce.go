package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rauzy/pkg/pipeline"
)

// induceCommand creates the induce command.
func (c *CLI) induceCommand() *cobra.Command {
	var (
		lengths string
		asJSON  bool
	)
	opts := pipeline.InduceOptions{Steps: 10}

	cmd := &cobra.Command{
		Use:   "induce <perm>",
		Short: "Run Rauzy induction on rational lengths",
		Long: `Run Rauzy induction on an interval exchange given by a permutation and
rational lengths. Each step compares the two last intervals, shrinks the
longer one by the shorter and moves the shorter one.

A tie between the last intervals ends the run early; the steps taken so far
are printed together with the reason.

Examples:
  rauzy induce "a b c / c b a" --lengths "a=2 b=3 c=5"
  rauzy induce "a b / b a" --lengths "a=1/2 b=0.2" --steps 3 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := pipeline.ParseAssignments(lengths)
			if err != nil {
				return err
			}
			opts.Perm, opts.Lengths = args[0], l
			return c.runInduce(cmd.Context(), cmd.OutOrStdout(), opts, asJSON)
		},
	}

	cmd.Flags().StringVarP(&lengths, "lengths", "l", "", `interval lengths, e.g. "a=2 b=3/2 c=0.5"`)
	cmd.Flags().IntVarP(&opts.Steps, "steps", "n", opts.Steps, "number of induction steps")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the path as JSON")
	_ = cmd.MarkFlagRequired("lengths")

	return cmd
}

func (c *CLI) runInduce(ctx context.Context, w io.Writer, opts pipeline.InduceOptions, asJSON bool) error {
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	defer runner.Close()

	res, err := runner.Induce(ctx, opts)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, res)
	}

	fmt.Fprintf(w, "%s  %s  %s\n", StyleDim.Render("   0"), StyleDim.Render("start "), opts.Perm)
	for i, s := range res.Path {
		fmt.Fprintf(w, "%s  %-6s  %s  %s\n",
			StyleNumber.Render(fmt.Sprintf("%4d", i+1)),
			StyleHighlight.Render(s.Step),
			StyleValue.Render(s.Perm),
			StyleDim.Render(formatAssignments(s.Lengths)))
	}
	if res.Stopped != "" {
		printWarning("stopped after %d steps: %s", len(res.Path), res.Reason)
	}
	return nil
}

// formatAssignments renders a label map as "a=1 b=2" in label order.
func formatAssignments(m map[string]string) string {
	parts := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		parts = append(parts, k+"="+m[k])
	}
	return strings.Join(parts, " ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
