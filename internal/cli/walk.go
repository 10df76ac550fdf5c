package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kaelzhang/module-walker/pkg/errors"
	"github.com/kaelzhang/module-walker/pkg/render"
	"github.com/kaelzhang/module-walker/pkg/walker"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatDOT  = "dot"
)

func (c *CLI) walkCommand() *cobra.Command {
	var (
		flags  walkFlags
		format string
		output string
		abs    bool
	)

	cmd := &cobra.Command{
		Use:   "walk <entry>...",
		Short: "Walk the dependency graph from entry files",
		Long: `Walk resolves every require and import reachable from the entry files and
prints the resulting graph. Entries may name a file or a directory with an
index file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
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

			ropts := render.Options{}
			if !abs {
				ropts.Root = workingDir()
			}
			err = c.writeOutput(cmd, output, func(w io.Writer) error {
				switch format {
				case formatJSON:
					return render.WriteJSON(res, w, ropts)
				case formatDOT:
					_, err := io.WriteString(w, render.ToDOT(res.Graph, ropts))
					return err
				default:
					return render.WriteText(res.Graph, w, ropts)
				}
			})
			if err != nil {
				return err
			}
			c.printSummary(res, ropts)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&abs, "absolute", false, "print absolute paths")
	return cmd
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatDOT:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidOptions, "unknown format %q (want %s)",
		format, strings.Join([]string{formatText, formatJSON, formatDOT}, ", "))
}

// writeOutput runs write against the file at path, or the command's output
// stream when path is empty.
func (c *CLI) writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printFile(c.Status, path)
	return nil
}

// printSummary reports warnings and graph statistics on the status stream.
func (c *CLI) printSummary(res *walker.Result, opts render.Options) {
	for _, w := range res.Warnings {
		switch w.Code {
		case errors.ErrCodeCyclicDependency:
			printWarning(c.Status, "cycle: %s", trail(w.Trail, opts))
		default:
			printWarning(c.Status, "%s", w.Message)
		}
	}
	printSuccess(c.Status, "Walked %s from %d %s", StyleNumber.Render(fmt.Sprint(res.Graph.Len())+" modules"),
		len(res.Entries), plural(len(res.Entries), "entry", "entries"))
	printStats(c.Status, res.Graph.Len(), res.Graph.EdgeCount(), len(res.Warnings))
}

// trail formats a cycle as "a -> b -> a" with labels relative to the root.
func trail(ids []string, opts render.Options) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = opts.Label(id)
	}
	return strings.Join(parts, " -> ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
