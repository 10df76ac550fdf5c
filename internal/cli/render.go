package cli

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kaelzhang/module-walker/pkg/errors"
	"github.com/kaelzhang/module-walker/pkg/graph"
	"github.com/kaelzhang/module-walker/pkg/render"
)

// renderOpts holds the render command's own flags.
type renderOpts struct {
	output string   // output file; ".svg" renders through graphviz, anything else writes DOT
	types  []string // dependency types to draw
	abs    bool     // label nodes with absolute paths
}

func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags walkFlags
		ro    renderOpts
	)

	cmd := &cobra.Command{
		Use:   "render <entry>...",
		Short: "Render the dependency graph as DOT or SVG",
		Long: `Render walks the entry files and draws the graph with Graphviz. The output
format follows the -o extension: .svg renders the diagram, anything else
(or stdout) receives DOT source.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := parseDepTypes(ro.types)
			if err != nil {
				return err
			}
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			res, err := c.walk(cmd.Context(), opts, args)
			if err != nil {
				return err
			}

			ropts := render.Options{Types: types}
			if !ro.abs {
				ropts.Root = workingDir()
			}
			dot := render.ToDOT(res.Graph, ropts)

			if strings.EqualFold(filepath.Ext(ro.output), ".svg") {
				svg, err := render.RenderSVG(cmd.Context(), dot)
				if err != nil {
					return err
				}
				return c.writeOutput(cmd, ro.output, func(w io.Writer) error {
					_, err := w.Write(svg)
					return err
				})
			}
			return c.writeOutput(cmd, ro.output, func(w io.Writer) error {
				_, err := io.WriteString(w, dot)
				return err
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (.svg or .dot; default: DOT to stdout)")
	cmd.Flags().StringSliceVarP(&ro.types, "types", "t", nil, "dependency types to draw: normal, resolve, async (default: all)")
	cmd.Flags().BoolVar(&ro.abs, "absolute", false, "label nodes with absolute paths")
	return cmd
}

func parseDepTypes(names []string) ([]graph.DepType, error) {
	types := make([]graph.DepType, 0, len(names))
	for _, name := range names {
		t, err := graph.ParseDepType(strings.TrimSpace(name))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidOptions, err, "invalid dependency type")
		}
		types = append(types, t)
	}
	return types, nil
}
