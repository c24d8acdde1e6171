package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rauzy/pkg/pipeline"
)

// cylindersCommand creates the cylinders command.
func (c *CLI) cylindersCommand() *cobra.Command {
	var (
		lengths, heights string
		asJSON           bool
	)
	opts := pipeline.DecomposeOptions{}

	cmd := &cobra.Command{
		Use:   "cylinders <perm>",
		Short: "Decompose an integral interval exchange into cylinders",
		Long: `Decompose the suspension of an orientable interval exchange with integer
lengths (and optional integer heights, 1 by default) into periodic cylinders.

Each cylinder is reported with its circumference, height and the labels whose
intervals it sweeps. The cylinder areas add up to the sum of length times
height over all labels.

Examples:
  rauzy cylinders "a b c d / d c b a" --lengths "a=3 b=5 c=7 d=2"
  rauzy cylinders "a b / b a" --lengths "a=3 b=2" --heights "a=2 b=5" --trace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := pipeline.ParseAssignments(lengths)
			if err != nil {
				return err
			}
			var h map[string]string
			if heights != "" {
				if h, err = pipeline.ParseAssignments(heights); err != nil {
					return err
				}
			}
			opts.Perm, opts.Lengths, opts.Heights = args[0], l, h
			return c.runCylinders(cmd.Context(), cmd.OutOrStdout(), opts, asJSON)
		},
	}

	cmd.Flags().StringVarP(&lengths, "lengths", "l", "", `integer lengths, e.g. "a=3 b=5"`)
	cmd.Flags().StringVar(&heights, "heights", "", "integer heights (default 1 each)")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 0, fmt.Sprintf("induction step limit (default %d)", pipeline.DefaultMaxSteps))
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print every step, merge and close")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the cache")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the decomposition as JSON")
	_ = cmd.MarkFlagRequired("lengths")

	return cmd
}

func (c *CLI) runCylinders(ctx context.Context, w io.Writer, opts pipeline.DecomposeOptions, asJSON bool) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, err := runner.Decompose(ctx, opts)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, res)
	}

	if opts.Trace {
		for i, e := range res.Trace {
			fmt.Fprintf(w, "%s  %s\n", StyleDim.Render(fmt.Sprintf("%4d", i+1)), e)
		}
		fmt.Fprintln(w)
	}

	rows := make([][]string, len(res.Cylinders))
	for i, cyl := range res.Cylinders {
		rows[i] = []string{
			fmt.Sprint(i + 1),
			cyl.Circumference.String(),
			cyl.Height.String(),
			cyl.Area().String(),
			strings.Join(cyl.Labels, " "),
		}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Circumference", "Height", "Area", "Labels").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 4:
				return lipgloss.NewStyle().Foreground(colorCyan)
			default:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
		})
	fmt.Fprintln(w, t.Render())
	printStatusLine([]string{
		fmt.Sprintf("%d cylinders", len(res.Cylinders)),
		"area " + res.Area().String(),
		fmt.Sprintf("%d steps", res.Steps),
	}, res.CacheHit)
	return nil
}
