package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kaelzhang/module-walker/pkg/errors"
)

// writeTree creates files (relative path → content) under a temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestClassify(t *testing.T) {
	tests := []struct {
		spec string
		want Class
	}{
		{"./a", Relative},
		{"../a", Relative},
		{".", Relative},
		{"..", Relative},
		{"/abs/a", Absolute},
		{"lodash", Foreign},
		{"@scope/pkg", Foreign},
		{".hidden", Foreign},
		{"..foo", Foreign},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			if got := Classify(tt.spec); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.js":           "",
		"x.js":               "",
		"x.json":             "",
		"data.json":          "",
		"exact":              "",
		"dir/index.js":       "",
		"jsonDir/index.json": "",
		"sub/c.js":           "",
		"empty/readme.md":    "",
		"lib.js":             "",
		"lib/index.js":       "",
	})
	entry := filepath.Join(root, "index.js")

	r, err := New(Options{Extensions: []string{".js", ".json"}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name string
		spec string
		from string
		want string
	}{
		{"extension order", "./x", entry, filepath.Join(root, "x.js")},
		{"exact file", "./x.json", entry, filepath.Join(root, "x.json")},
		{"exact without extension", "./exact", entry, filepath.Join(root, "exact")},
		{"second extension", "./data", entry, filepath.Join(root, "data.json")},
		{"directory index", "./dir", entry, filepath.Join(root, "dir", "index.js")},
		{"directory index json", "./jsonDir", entry, filepath.Join(root, "jsonDir", "index.json")},
		{"parent", "../index", filepath.Join(root, "sub", "c.js"), entry},
		{"dot", ".", filepath.Join(root, "dir", "index.js"), filepath.Join(root, "dir", "index.js")},
		{"absolute", filepath.Join(root, "sub", "c"), entry, filepath.Join(root, "sub", "c.js")},
		{"file before directory", "./lib", entry, filepath.Join(root, "lib.js")},
		{"trailing slash", "./lib/", entry, filepath.Join(root, "lib", "index.js")},
		{"absolute trailing slash", filepath.Join(root, "lib") + "/", entry, filepath.Join(root, "lib", "index.js")},
		{"dot dot", "..", filepath.Join(root, "lib", "index.js"), entry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Resolve(tt.spec, tt.from)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.spec, err)
			}
			if res.ID != tt.want {
				t.Errorf("Resolve(%q) = %s, want %s", tt.spec, res.ID, tt.want)
			}
			if res.Foreign {
				t.Error("Foreign = true, want false")
			}
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	root := writeTree(t, map[string]string{"index.js": "", "empty/readme.md": ""})
	entry := filepath.Join(root, "index.js")
	r, _ := New(Options{})

	for _, spec := range []string{"./missing", "./empty", "../nowhere/x", "./index/"} {
		_, err := r.Resolve(spec, entry)
		if !errors.Is(err, errors.ErrCodeModuleNotFound) {
			t.Fatalf("Resolve(%q) error = %v, want MODULE_NOT_FOUND", spec, err)
		}
		e, _ := errors.As(err)
		if e.Specifier != spec || e.Path != entry {
			t.Errorf("error Specifier = %q, Path = %q", e.Specifier, e.Path)
		}
	}
}

func TestResolveForeign(t *testing.T) {
	r, _ := New(Options{})
	// The dependent does not exist: foreign specifiers never touch the disk.
	res, err := r.Resolve("lodash/fp", "/nonexistent/index.js")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !res.Foreign || res.ID != "lodash/fp" || res.Class != Foreign {
		t.Errorf("Resolve() = %+v, want foreign lodash/fp", res)
	}
}

func TestNoExtensions(t *testing.T) {
	root := writeTree(t, map[string]string{"index.js": "", "a.js": ""})
	r, err := New(Options{Extensions: []string{}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve("./a", filepath.Join(root, "index.js")); err == nil {
		t.Error("Resolve(./a) with no extensions should fail")
	}
	if len(r.Extensions()) != 0 {
		t.Errorf("Extensions() = %v, want empty", r.Extensions())
	}
}

func TestNewInvalidExtensions(t *testing.T) {
	_, err := New(Options{Extensions: []string{"js"}})
	if !errors.Is(err, errors.ErrCodeInvalidOptions) {
		t.Errorf("New() error = %v, want INVALID_OPTIONS", err)
	}
}
