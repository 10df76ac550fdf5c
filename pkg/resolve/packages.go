package resolve

import (
	"path/filepath"
	"strings"

	"github.com/kaelzhang/module-walker/pkg/errors"
)

// PackageLocator finds the directory of a foreign package.
//
// Locate receives the full specifier (which may include a subpath such as
// "lodash/fp") and the directory of the dependent file. It returns the
// package directory or an error when the package cannot be found.
type PackageLocator interface {
	Locate(spec, fromDir string) (string, error)
}

// NodeModules locates packages in node_modules directories, walking up from
// the dependent's directory to the filesystem root.
type NodeModules struct {
	// Dirs are extra directories searched after the walk up, in order.
	Dirs []string
}

// Locate implements PackageLocator.
func (m NodeModules) Locate(spec, fromDir string) (string, error) {
	name := PackageName(spec)
	if err := errors.ValidatePackageName(name); err != nil {
		return "", err
	}

	dir := filepath.Clean(fromDir)
	for {
		if filepath.Base(dir) != "node_modules" {
			if p := filepath.Join(dir, "node_modules", filepath.FromSlash(name)); isDir(p) {
				return p, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	for _, d := range m.Dirs {
		if p := filepath.Join(d, filepath.FromSlash(name)); isDir(p) {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeModuleNotFound, "cannot find package %q from %s", name, fromDir).
		WithSpecifier(spec)
}

// PackageName strips any subpath from a foreign specifier:
// "lodash/fp" becomes "lodash" and "@scope/pkg/x" becomes "@scope/pkg".
func PackageName(spec string) string {
	parts := strings.SplitN(spec, "/", 3)
	if strings.HasPrefix(spec, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}
