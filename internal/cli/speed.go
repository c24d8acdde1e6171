package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rauzy/pkg/lyapunov"
	"github.com/matzehuels/rauzy/pkg/perm"
	"github.com/matzehuels/rauzy/pkg/pipeline"
)

// levyConstant is π²/(12 ln 2), the speed of the Gauss map.
var levyConstant = math.Pi * math.Pi / (12 * math.Ln2)

// speedCommand creates the speed command.
func (c *CLI) speedCommand() *cobra.Command {
	var asJSON bool
	opts := pipeline.SpeedOptions{}

	cmd := &cobra.Command{
		Use:   "speed <perm>",
		Short: "Estimate the Rauzy-Zorich speed of a permutation",
		Long: `Estimate the top Lyapunov exponent of Rauzy-Zorich induction (its speed)
on the Rauzy class of an orientable irreducible permutation.

Each experiment draws random lengths, applies Zorich steps (maximal runs of
Rauzy steps with the same winner) and renormalises after each one; the speed
is the average log-contraction per Zorich step. For the rotation "a b / b a"
it approaches Lévy's constant π²/(12 ln 2) ≈ 1.1866.

Examples:
  rauzy speed "a b / b a"
  rauzy speed "a b c d / d c b a" --experiments 20 --iterations 5000 --seed 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Perm = args[0]
			opts.Workers = c.workers(opts.Workers)
			return c.runSpeed(cmd.Context(), cmd.OutOrStdout(), opts, asJSON)
		},
	}

	cmd.Flags().IntVarP(&opts.Experiments, "experiments", "e", lyapunov.DefaultExperiments, "independent experiments")
	cmd.Flags().IntVarP(&opts.Iterations, "iterations", "n", lyapunov.DefaultIterations, "Zorich steps per experiment")
	cmd.Flags().UintVar(&opts.Precision, "precision", lyapunov.DefaultPrecision, "mantissa bits of the lengths")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "parallel experiments (default: config, then GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the cache")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the estimate as JSON")

	return cmd
}

func (c *CLI) runSpeed(ctx context.Context, w io.Writer, opts pipeline.SpeedOptions, asJSON bool) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var spinner *Spinner
	if !asJSON {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Running %d experiments...", opts.Experiments))
		spinner.Start()
	}
	res, err := runner.Speed(ctx, opts)
	spinner.finish(err, "Estimate failed")
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, res)
	}

	printKeyValue("speed", StyleNumber.Render(fmt.Sprintf("%.6f", res.Mean)))
	printKeyValue("std dev", fmt.Sprintf("%.6f", res.StdDev))
	printKeyValue("experiments", fmt.Sprint(len(res.Samples)))
	printKeyValue("rauzy steps", fmt.Sprint(res.RauzySteps))
	if p, err := perm.Parse(opts.Perm); err == nil && p.Len() == 2 {
		printDetail("Lévy's constant for comparison: %.6f", levyConstant)
	}
	printStatusLine([]string{res.Duration.Round(time.Millisecond).String()}, res.CacheHit)
	return nil
}
