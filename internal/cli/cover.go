package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rauzy/pkg/errors"
	"github.com/matzehuels/rauzy/pkg/pipeline"
)

// coverCommand creates the cover command.
func (c *CLI) coverCommand() *cobra.Command {
	var (
		sheets []string
		asJSON bool
	)
	opts := pipeline.CoverOptions{}

	cmd := &cobra.Command{
		Use:   "cover <perm>",
		Short: "Compute the surface a permutation suspends to",
		Long: `Compute genus, singularity profile and stratum of the translation surface
of a permutation. Flipped permutations are lifted to their orientation double
cover first.

With --cycles, a finite cover of the permutation is built instead: each
label gets a permutation of the sheets 1..degree in cycle notation ("()"
for the identity). The degree defaults to the largest sheet
named. A cover of a flipped permutation that is not itself orientable is
reported through its orientation double cover.

Examples:
  rauzy cover "a b c d / d c b a"
  rauzy cover "a -b / b a"
  rauzy cover "a b / b a" --cycles "a=(1,2)" --cycles "b=(1,3)"
  rauzy cover "a -b / b a" --cycles "a=()" --cycles "b=(1,2)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cycles, err := parseCycleFlags(sheets)
			if err != nil {
				return err
			}
			opts.Perm, opts.Cycles = args[0], cycles
			return c.runCover(cmd.Context(), cmd.OutOrStdout(), opts, asJSON)
		},
	}

	cmd.Flags().StringArrayVar(&sheets, "cycles", nil, `sheet permutation of one label, e.g. "a=(1,2)(3,4)" (repeatable)`)
	cmd.Flags().IntVarP(&opts.Degree, "degree", "d", 0, "number of sheets (default: largest sheet named)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the cache")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

// parseCycleFlags turns ["a=(1,2)", "b=()"] into a label map. Cycle
// notation contains commas, so each label is given in its own flag.
func parseCycleFlags(flags []string) (map[string]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(flags))
	for _, f := range flags {
		label, cycles, ok := strings.Cut(f, "=")
		label = strings.TrimSpace(label)
		if !ok || label == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "expected label=cycles, got %q", f)
		}
		if _, dup := out[label]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "label %q given twice", label)
		}
		out[label] = strings.TrimSpace(cycles)
	}
	return out, nil
}

func (c *CLI) runCover(ctx context.Context, w io.Writer, opts pipeline.CoverOptions, asJSON bool) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, err := runner.Cover(ctx, opts)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, res)
	}

	printKeyValue("permutation", res.Perm)
	if res.Lift != "" {
		printKeyValue("double cover", res.Lift)
	}
	if res.Degree > 0 {
		printKeyValue("degree", fmt.Sprint(res.Degree))
	}
	if res.Orientable != nil {
		printKeyValue("orientable", fmt.Sprint(*res.Orientable))
	}
	printKeyValue("genus", StyleNumber.Render(fmt.Sprint(res.Signature.Genus)))
	printKeyValue("profile", fmt.Sprint(res.Signature.Profile))
	printKeyValue("stratum", StyleHighlight.Render(res.Signature.Stratum))
	printStatusLine(nil, res.CacheHit)
	return nil
}
