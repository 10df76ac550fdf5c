package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kaelzhang/module-walker/pkg/graph"
	"github.com/kaelzhang/module-walker/pkg/render"
)

func (c *CLI) orderCommand() *cobra.Command {
	var (
		flags   walkFlags
		foreign bool
		abs     bool
	)

	cmd := &cobra.Command{
		Use:   "order <entry>...",
		Short: "Print files in load order, dependencies first",
		Long: `Order prints every file reachable through normal dependencies so that each
file comes after the files it requires. Cycles are broken where they close.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			res, err := c.walk(cmd.Context(), opts, args)
			if err != nil {
				return err
			}

			ropts := render.Options{}
			if !abs {
				ropts.Root = workingDir()
			}
			out := cmd.OutOrStdout()
			for _, id := range graph.Order(res.Graph) {
				if n, ok := res.Graph.Get(id); ok && n.Foreign && !foreign {
					continue
				}
				fmt.Fprintln(out, ropts.Label(id))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&foreign, "foreign", false, "include package dependencies")
	cmd.Flags().BoolVar(&abs, "absolute", false, "print absolute paths")
	return cmd
}
