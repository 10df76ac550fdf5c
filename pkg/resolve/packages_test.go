package resolve

import (
	"path/filepath"
	"testing"

	"github.com/kaelzhang/module-walker/pkg/errors"
)

func TestPackageName(t *testing.T) {
	tests := map[string]string{
		"lodash":         "lodash",
		"lodash/fp":      "lodash",
		"@scope/pkg":     "@scope/pkg",
		"@scope/pkg/a/b": "@scope/pkg",
		"@scope":         "@scope",
	}
	for spec, want := range tests {
		if got := PackageName(spec); got != want {
			t.Errorf("PackageName(%q) = %q, want %q", spec, got, want)
		}
	}
}

func TestNodeModulesLocate(t *testing.T) {
	root := writeTree(t, map[string]string{
		"node_modules/lodash/package.json":     "{}",
		"node_modules/@scope/pkg/package.json": "{}",
		"src/deep/index.js":                    "",
		"src/node_modules/local/index.js":      "",
	})
	from := filepath.Join(root, "src", "deep")

	tests := []struct {
		name string
		spec string
		want string
	}{
		{"walk up", "lodash", filepath.Join(root, "node_modules", "lodash")},
		{"subpath", "lodash/fp", filepath.Join(root, "node_modules", "lodash")},
		{"scoped", "@scope/pkg", filepath.Join(root, "node_modules", "@scope", "pkg")},
		{"nearest first", "local", filepath.Join(root, "src", "node_modules", "local")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NodeModules{}.Locate(tt.spec, from)
			if err != nil {
				t.Fatalf("Locate(%q) error = %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("Locate(%q) = %s, want %s", tt.spec, got, tt.want)
			}
		})
	}
}

func TestResolveWithLocator(t *testing.T) {
	root := writeTree(t, map[string]string{
		"node_modules/lodash/index.js": "",
		"index.js":                     "",
	})
	entry := filepath.Join(root, "index.js")
	r, _ := New(Options{Packages: NodeModules{}})

	res, err := r.Resolve("lodash", entry)
	if err != nil {
		t.Fatalf("Resolve(lodash) error = %v", err)
	}
	if !res.Foreign || res.ID != "lodash" || res.PackageDir != filepath.Join(root, "node_modules", "lodash") {
		t.Errorf("Resolve(lodash) = %+v", res)
	}

	_, err = r.Resolve("react", entry)
	if !errors.Is(err, errors.ErrCodeModuleNotFound) {
		t.Fatalf("Resolve(react) error = %v, want MODULE_NOT_FOUND", err)
	}
	if e, _ := errors.As(err); e.Specifier != "react" || e.Path != entry {
		t.Errorf("error Specifier = %q, Path = %q", e.Specifier, e.Path)
	}

	_, err = r.Resolve("bad..name", entry)
	if !errors.Is(err, errors.ErrCodeInvalidPackage) {
		t.Errorf("Resolve(bad..name) error = %v, want INVALID_PACKAGE", err)
	}
}
