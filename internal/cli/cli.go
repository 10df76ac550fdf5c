// Package cli implements the modwalk command-line interface.
//
// # Commands
//
//   - walk: build the dependency graph and print it as text, JSON or DOT
//   - order: print files dependencies-first
//   - cycles: list dependency cycles
//   - render: write the graph as DOT or SVG
//   - serve: expose walks over HTTP with Prometheus metrics
//
// Walk options come from a .modwalk.toml or .modwalk.yaml file found above
// the working directory; flags override it. All commands support
// --verbose (-v) for debug logging.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kaelzhang/module-walker/pkg/buildinfo"
)

const appName = "modwalk"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Status receives progress, warnings and summaries. Command results go
	// to the command's output stream so they can be piped.
	Status io.Writer
}

// New creates a CLI that logs and reports status to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), Status: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "modwalk maps the module dependency graph of a JavaScript project",
		Long:         `modwalk walks require and import statements from entry files, resolves every specifier Node-style and reports the resulting dependency graph, load order and cycles.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.walkCommand())
	root.AddCommand(c.orderCommand())
	root.AddCommand(c.cyclesCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", appName, buildinfo.String())
		},
	}
}

// workingDir returns the directory output paths are shown relative to.
func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
