package walker

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/kaelzhang/module-walker/pkg/extract"
	"github.com/kaelzhang/module-walker/pkg/observability"
	"github.com/kaelzhang/module-walker/pkg/resolve"
	"github.com/kaelzhang/module-walker/pkg/transform"
)

// DefaultConcurrency is the default number of worker goroutines.
const DefaultConcurrency = 10

// Options configures a Walker.
//
// Boolean policies default to false in the zero value; start from
// [DefaultOptions] to get the conventional defaults.
type Options struct {
	// Concurrency is the number of files processed in parallel.
	// Zero selects DefaultConcurrency.
	Concurrency int

	// Extensions is the ordered resolver fallback list.
	// Nil selects resolve.DefaultExtensions.
	Extensions []string

	// AllowCyclic reports cycles as warnings instead of failing the walk.
	AllowCyclic bool

	// AllowAbsoluteDependency reports absolute specifiers as warnings
	// instead of failing the walk.
	AllowAbsoluteDependency bool

	// Extraction options, passed to the Extractor.
	RequireResolve         bool
	RequireAsync           bool
	CheckRequireLength     bool
	AllowNonLiteralRequire bool
	CommentRequire         bool

	// Stages are transform stages applied to every loaded file, in order.
	Stages []transform.Stage

	// Packages, if set, verifies foreign packages exist.
	Packages resolve.PackageLocator

	// Extractor finds specifiers in source files.
	// Nil selects the tree-sitter JavaScript extractor.
	Extractor extract.Extractor

	// ReadFile reads file content. Nil selects os.ReadFile.
	ReadFile func(path string) ([]byte, error)

	// Hooks receives walk events. Nil selects no-op hooks.
	Hooks observability.WalkHooks

	// Logger receives debug output. Nil discards it.
	Logger *log.Logger

	// OnWarning, if set, is called for every warning as it is raised.
	// Calls are sequential and made from a single goroutine.
	OnWarning func(Warning)
}

// DefaultOptions returns the conventional configuration: cycles and absolute
// specifiers are tolerated, require.resolve and require.async are collected,
// and call arity is checked.
func DefaultOptions() Options {
	return Options{
		Concurrency:             DefaultConcurrency,
		Extensions:              append([]string(nil), resolve.DefaultExtensions...),
		AllowCyclic:             true,
		AllowAbsoluteDependency: true,
		RequireResolve:          true,
		RequireAsync:            true,
		CheckRequireLength:      true,
	}
}

// WithDefaults returns a copy of o with zero-valued fields replaced by defaults.
// Boolean policies are left as they are.
func (o Options) WithDefaults() Options {
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Extensions == nil {
		o.Extensions = append([]string(nil), resolve.DefaultExtensions...)
	}
	if o.Extractor == nil {
		o.Extractor = extract.NewJavaScript()
	}
	if o.ReadFile == nil {
		o.ReadFile = os.ReadFile
	}
	if o.Hooks == nil {
		o.Hooks = observability.NoopWalkHooks{}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

func (o Options) extractOptions() extract.Options {
	return extract.Options{
		RequireResolve:         o.RequireResolve,
		RequireAsync:           o.RequireAsync,
		CheckRequireLength:     o.CheckRequireLength,
		AllowNonLiteralRequire: o.AllowNonLiteralRequire,
		CommentRequire:         o.CommentRequire,
	}
}
