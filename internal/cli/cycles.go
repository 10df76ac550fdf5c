package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kaelzhang/module-walker/pkg/errors"
	"github.com/kaelzhang/module-walker/pkg/graph"
	"github.com/kaelzhang/module-walker/pkg/render"
)

func (c *CLI) cyclesCommand() *cobra.Command {
	var (
		flags walkFlags
		fail  bool
	)

	cmd := &cobra.Command{
		Use:   "cycles <entry>...",
		Short: "List dependency cycles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			opts.AllowCyclic = true
			res, err := c.walk(cmd.Context(), opts, args)
			if err != nil {
				return err
			}

			cycles := graph.Cycles(res.Graph)
			if len(cycles) == 0 {
				printSuccess(c.Status, "No cycles in %d modules", res.Graph.Len())
				return nil
			}

			ropts := render.Options{Root: workingDir()}
			fmt.Fprintln(cmd.OutOrStdout(), cyclesTable(cycles, ropts))
			if fail {
				return errors.New(errors.ErrCodeCyclicDependency, "found %d %s", len(cycles), plural(len(cycles), "cycle", "cycles"))
			}
			printWarning(c.Status, "Found %d %s", len(cycles), plural(len(cycles), "cycle", "cycles"))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&fail, "fail", false, "exit with an error when a cycle exists")
	return cmd
}

func cyclesTable(cycles [][]string, opts render.Options) string {
	rows := make([][]string, len(cycles))
	for i, cycle := range cycles {
		rows[i] = []string{strconv.Itoa(i + 1), strconv.Itoa(len(cycle) - 1), trail(cycle, opts)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Length", "Cycle").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cell
		}).
		Render()
}
