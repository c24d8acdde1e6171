package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rauzy/pkg/errors"
	"github.com/matzehuels/rauzy/pkg/store"
)

// classesCommand creates the classes command. Classes are catalogued by
// "rauzy diagram" whenever a Mongo URI is configured.
func (c *CLI) classesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "Query the catalog of explored Rauzy classes",
		Long: `Query the catalog of explored Rauzy classes. Every fresh exploration is
recorded under the smallest canonical key of its minimal component when
[mongo] uri is set in the config file.`,
	}

	cmd.AddCommand(c.classesListCommand())
	cmd.AddCommand(c.classesShowCommand())

	return cmd
}

func (c *CLI) classesListCommand() *cobra.Command {
	var (
		size   int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued classes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateLimit("size", size); err != nil {
				return err
			}
			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			classes, err := st.ListClasses(cmd.Context(), size)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), classes)
			}
			if len(classes) == 0 {
				printInfo("No classes catalogued")
				return nil
			}
			printClassTable(cmd.OutOrStdout(), classes)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 0, "only classes over this many labels")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the classes as JSON")
	return cmd
}

func (c *CLI) classesShowCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <key>",
		Short: "Show one catalogued class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			cl, err := st.LoadClass(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), cl)
			}
			printKeyValue("key", StyleHighlight.Render(cl.Key))
			printKeyValue("kind", cl.Kind)
			printKeyValue("stratum", StyleHighlight.Render(cl.Stratum))
			printKeyValue("genus", fmt.Sprint(cl.Genus))
			printKeyValue("nodes", fmt.Sprint(cl.Nodes))
			printKeyValue("edges", fmt.Sprint(cl.Edges))
			printKeyValue("components", fmt.Sprint(cl.Components))
			printKeyValue("seeds", strings.Join(cl.Seeds, ", "))
			printKeyValue("run", cl.RunID)
			printNextStep("Browse it", fmt.Sprintf("rauzy browse --class %q", cl.Key))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the class as JSON")
	return cmd
}

// newStore opens the configured class catalog.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if c.Config.Mongo.URI == "" {
		return nil, errors.New(errors.ErrCodeUnsupported, "the class catalog needs [mongo] uri in %s", c.configLabel())
	}
	return store.NewMongoStore(ctx, c.Config.mongo())
}

func (c *CLI) configLabel() string {
	if c.configFile != "" {
		return c.configFile
	}
	if path, err := configPath(); err == nil {
		return path
	}
	return "the config file"
}

func printClassTable(w io.Writer, classes []store.Class) {
	rows := make([][]string, len(classes))
	for i, cl := range classes {
		rows[i] = []string{
			cl.Key,
			fmt.Sprint(cl.Size),
			cl.Kind,
			fmt.Sprint(cl.Nodes),
			cl.Stratum,
		}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Key", "Size", "Kind", "Nodes", "Stratum").
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
}
