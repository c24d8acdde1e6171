package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rauzy/pkg/errors"
	"github.com/matzehuels/rauzy/pkg/pipeline"
	"github.com/matzehuels/rauzy/pkg/rauzy"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var file, class string
	opts := pipeline.ExploreOptions{}

	cmd := &cobra.Command{
		Use:   "browse [perm]",
		Short: "Browse a Rauzy diagram interactively",
		Long: `Browse a Rauzy diagram in the terminal. The diagram is explored from a
permutation, read from a JSON snapshot written by "rauzy diagram", or loaded
from the class catalog.

Keys: ↑/↓ move through the nodes, t and b follow the top and bottom edges of
the selected node, backspace goes back, enter prints the selected node.

Examples:
  rauzy browse "a b c d / d c b a"
  rauzy browse --file rauzy-diagram.json
  rauzy browse --class "0 1 2 3 / 1 3 0 2"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := 0
			for _, set := range []bool{len(args) == 1, file != "", class != ""} {
				if set {
					sources++
				}
			}
			if sources != 1 {
				return errors.New(errors.ErrCodeInvalidInput, "give exactly one of a permutation, --file or --class")
			}
			opts.Seeds = args
			opts.Workers = c.workers(opts.Workers)
			d, err := c.browseSource(cmd.Context(), opts, file, class)
			if err != nil {
				return err
			}
			return runBrowser(d)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON diagram snapshot")
	cmd.Flags().StringVar(&class, "class", "", "catalog class key")
	cmd.Flags().IntVar(&opts.MaxNodes, "max-nodes", 0, fmt.Sprintf("fail beyond this many nodes (default %d)", pipeline.DefaultMaxNodes))
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "parallel successor computation")

	return cmd
}

func (c *CLI) browseSource(ctx context.Context, opts pipeline.ExploreOptions, file, class string) (*rauzy.Diagram, error) {
	switch {
	case file != "":
		return loadDiagram(file)
	case class != "":
		st, err := c.newStore(ctx)
		if err != nil {
			return nil, err
		}
		defer st.Close(context.Background())
		cl, err := st.LoadClass(ctx, class)
		if err != nil {
			return nil, err
		}
		return cl.Diagram()
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	spinner := newSpinnerWithContext(ctx, "Exploring Rauzy diagram...")
	spinner.Start()
	res, err := runner.Explore(ctx, opts)
	spinner.finish(err, "Exploration failed")
	if err != nil {
		return nil, err
	}
	return res.Diagram, nil
}

func runBrowser(d *rauzy.Diagram) error {
	p := tea.NewProgram(NewDiagramModel(d))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	fm, ok := finalModel.(DiagramModel)
	if !ok || fm.Selected == "" {
		printDetail("No selection made")
		return nil
	}
	n, _ := d.Node(fm.Selected)
	printSuccess("Selected %s", StyleHighlight.Render(n.Perm.String()))
	printKeyValue("index", fmt.Sprint(n.Index))
	printKeyValue("depth", fmt.Sprint(n.Depth))
	printNextStep("Compute its surface", fmt.Sprintf("rauzy cover %q", n.Perm.String()))
	return nil
}
