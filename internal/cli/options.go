package cli

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kaelzhang/module-walker/pkg/config"
	"github.com/kaelzhang/module-walker/pkg/observability"
	"github.com/kaelzhang/module-walker/pkg/resolve"
	"github.com/kaelzhang/module-walker/pkg/walker"
)

// walkFlags holds the flags shared by every command that walks.
type walkFlags struct {
	config        string   // explicit config file; empty searches upward
	noConfig      bool     // ignore config files
	concurrency   int      // worker count
	extensions    []string // resolver fallback extensions
	noCyclic      bool     // fail on cycles
	noAbsolute    bool     // fail on absolute specifiers
	checkPackages bool     // verify foreign packages in node_modules
	comments      bool     // honor "// @require" comments
	nonLiteral    bool     // skip non-literal require arguments instead of failing
	loose         bool     // disable arity checks
}

func (f *walkFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.config, "config", "", "config file (default: nearest .modwalk.toml/.yaml)")
	fs.BoolVar(&f.noConfig, "no-config", false, "ignore config files")
	fs.IntVarP(&f.concurrency, "concurrency", "j", walker.DefaultConcurrency, "files processed in parallel")
	fs.StringSliceVar(&f.extensions, "ext", resolve.DefaultExtensions, "extensions tried when resolving, in order")
	fs.BoolVar(&f.noCyclic, "no-cyclic", false, "fail when a dependency cycle is found")
	fs.BoolVar(&f.noAbsolute, "no-absolute", false, "fail on absolute-path dependencies")
	fs.BoolVar(&f.checkPackages, "check-packages", false, "verify packages exist in node_modules")
	fs.BoolVar(&f.comments, "comment-require", false, `collect "// @require" comment annotations`)
	fs.BoolVar(&f.nonLiteral, "allow-non-literal", false, "ignore require calls with computed arguments")
	fs.BoolVar(&f.loose, "loose", false, "do not check require argument counts")
}

// options builds walker options: defaults, then the config file, then
// explicitly set flags.
func (c *CLI) options(cmd *cobra.Command, f *walkFlags) (walker.Options, error) {
	opts := walker.DefaultOptions()
	logger := loggerFromContext(cmd.Context())

	if cfg, err := c.loadConfig(f); err != nil {
		return opts, err
	} else if cfg != nil {
		cfg.Apply(&opts)
		logger.Debug("loaded config", "path", cfg.Path)
	}

	fs := cmd.Flags()
	if fs.Changed("concurrency") {
		opts.Concurrency = f.concurrency
	}
	if fs.Changed("ext") {
		opts.Extensions = f.extensions
	}
	if f.noCyclic {
		opts.AllowCyclic = false
	}
	if f.noAbsolute {
		opts.AllowAbsoluteDependency = false
	}
	if f.checkPackages {
		opts.Packages = resolve.NodeModules{}
	}
	if f.comments {
		opts.CommentRequire = true
	}
	if f.nonLiteral {
		opts.AllowNonLiteralRequire = true
	}
	if f.loose {
		opts.CheckRequireLength = false
	}

	opts.Logger = logger
	return opts, nil
}

func (c *CLI) loadConfig(f *walkFlags) (*config.Config, error) {
	if f.noConfig {
		return nil, nil
	}
	path := f.config
	if path == "" {
		found, ok := config.Find(workingDir())
		if !ok {
			return nil, nil
		}
		path = found
	}
	return config.Load(path)
}

// walk runs a walk for a command, showing a spinner on terminals.
func (c *CLI) walk(ctx context.Context, opts walker.Options, entries []string) (*walker.Result, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	if c.interactive() {
		s := newSpinner(ctx, c.Status, "Walking...")
		h := &spinnerHooks{spinner: s}
		opts.Hooks = observability.Multi(opts.Hooks, h)
		s.Start()
		defer s.Stop()
	}

	res, err := walker.Walk(ctx, opts, entries...)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Walked %d files", res.Graph.Len()))
	logger.Debug("walk", "id", res.ID, "warnings", len(res.Warnings), "duration", res.Duration)
	return res, nil
}

// interactive reports whether status output goes to a terminal.
func (c *CLI) interactive() bool {
	f, ok := c.Status.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// spinnerHooks counts processed files on the spinner line.
type spinnerHooks struct {
	observability.NoopWalkHooks
	spinner *Spinner
	files   atomic.Int64
}

func (h *spinnerHooks) OnFileProcessed(context.Context, string, string, time.Duration, error) {
	n := h.files.Add(1)
	h.spinner.SetMessage(fmt.Sprintf("Walking... %d files", n))
}
