package resolve

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kaelzhang/module-walker/pkg/errors"
)

// DefaultExtensions is the extension fallback order used when none is configured.
var DefaultExtensions = []string{".js", ".json", ".node"}

// Class is the syntactic category of a specifier.
type Class int

const (
	// Foreign specifiers name a package.
	Foreign Class = iota
	// Relative specifiers are resolved against the dependent's directory.
	Relative
	// Absolute specifiers name a path from the filesystem root.
	Absolute
)

func (c Class) String() string {
	switch c {
	case Relative:
		return "relative"
	case Absolute:
		return "absolute"
	default:
		return "foreign"
	}
}

// Classify returns the class of spec.
func Classify(spec string) Class {
	switch {
	case spec == "." || spec == "..",
		strings.HasPrefix(spec, "./"),
		strings.HasPrefix(spec, "../"):
		return Relative
	case strings.HasPrefix(spec, "/"), filepath.IsAbs(spec):
		return Absolute
	}
	return Foreign
}

// Resolution is the outcome of resolving one specifier.
type Resolution struct {
	ID         string // Absolute file path, or the specifier itself when Foreign
	Foreign    bool   // True when ID names a package
	Class      Class  // Class of the original specifier
	PackageDir string // Directory of a located foreign package, if a locator ran
}

// Options configures a Resolver.
type Options struct {
	// Extensions is the ordered fallback list. Nil selects DefaultExtensions;
	// an empty non-nil slice disables extension fallback.
	Extensions []string

	// Packages, if set, verifies that foreign packages exist.
	Packages PackageLocator
}

// Resolver resolves specifiers with Node-style fallback.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	exts     []string
	packages PackageLocator
}

// New creates a Resolver. It fails with INVALID_OPTIONS if an extension is malformed.
func New(opts Options) (*Resolver, error) {
	exts := opts.Extensions
	if exts == nil {
		exts = DefaultExtensions
	}
	if err := errors.ValidateExtensions(exts); err != nil {
		return nil, err
	}
	return &Resolver{
		exts:     append([]string(nil), exts...),
		packages: opts.Packages,
	}, nil
}

// Extensions returns the configured fallback order.
func (r *Resolver) Extensions() []string {
	return append([]string(nil), r.exts...)
}

// Resolve resolves spec as written in the file at dependent.
//
// A missing module fails with MODULE_NOT_FOUND carrying spec and dependent.
func (r *Resolver) Resolve(spec, dependent string) (Resolution, error) {
	class := Classify(spec)
	if class == Foreign {
		return r.resolveForeign(spec, dependent)
	}

	// A trailing slash, "." or ".." names a directory; only its index counts.
	dirOnly := strings.HasSuffix(spec, "/") || spec == "." || spec == ".."

	candidate := spec
	if class == Relative {
		candidate = filepath.Join(filepath.Dir(dependent), spec)
	}
	candidate = filepath.Clean(candidate)

	if path, ok := r.lookup(candidate, dirOnly); ok {
		return Resolution{ID: path, Class: class}, nil
	}
	return Resolution{}, notFound(spec, dependent)
}

// lookup tries the exact file, each extension, then the directory index.
// With dirOnly set only the directory index is tried.
func (r *Resolver) lookup(candidate string, dirOnly bool) (string, bool) {
	if !dirOnly {
		if isFile(candidate) {
			return candidate, true
		}
		for _, ext := range r.exts {
			if p := candidate + ext; isFile(p) {
				return p, true
			}
		}
	}
	if isDir(candidate) {
		index := filepath.Join(candidate, "index")
		for _, ext := range r.exts {
			if p := index + ext; isFile(p) {
				return p, true
			}
		}
	}
	return "", false
}

func (r *Resolver) resolveForeign(spec, dependent string) (Resolution, error) {
	res := Resolution{ID: spec, Foreign: true, Class: Foreign}
	if r.packages == nil {
		return res, nil
	}
	dir, err := r.packages.Locate(spec, filepath.Dir(dependent))
	if err != nil {
		e, ok := errors.As(err)
		if !ok {
			e = errors.Wrap(errors.ErrCodeModuleNotFound, err, "cannot find package %q", spec)
		}
		e.Specifier = spec
		e.Path = dependent
		return Resolution{}, e
	}
	res.PackageDir = dir
	return res, nil
}

func notFound(spec, dependent string) *errors.Error {
	return errors.New(errors.ErrCodeModuleNotFound, "cannot find module %q from %s", spec, dependent).
		WithSpecifier(spec).WithPath(dependent)
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
