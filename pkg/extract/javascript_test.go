package extract

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/kaelzhang/module-walker/pkg/errors"
)

var allOn = Options{
	RequireResolve:     true,
	RequireAsync:       true,
	CheckRequireLength: true,
}

func extract(t *testing.T, src string, opts Options) (*Result, error) {
	t.Helper()
	return NewJavaScript().Extract(context.Background(), []byte(src), "/src/index.js", opts)
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		opts    Options
		normal  []string
		resolve []string
		async   []string
	}{
		{
			name:   "require",
			src:    `var a = require('./a'); var b = require("./b")`,
			opts:   allOn,
			normal: []string{"./a", "./b"},
		},
		{
			name:   "duplicates removed",
			src:    "require('./a'); require('./a'); require('b')",
			opts:   allOn,
			normal: []string{"./a", "b"},
		},
		{
			name:   "es module imports",
			src:    "import a from './a'\nimport * as b from './b'\nimport './c'\nexport { d } from './d'\nexport * from './e'",
			opts:   allOn,
			normal: []string{"./a", "./b", "./c", "./d", "./e"},
		},
		{
			name:    "resolve and async",
			src:     "require.resolve('./r'); require.async('./x', function () {}); import('./y')",
			opts:    allOn,
			resolve: []string{"./r"},
			async:   []string{"./x", "./y"},
		},
		{
			name: "resolve and async disabled",
			src:  "require.resolve('./r'); require.async('./x'); import('./y')",
			opts: Options{CheckRequireLength: true},
		},
		{
			name:   "nested in function",
			src:    "function f() { if (x) { return require('./deep') } }",
			opts:   allOn,
			normal: []string{"./deep"},
		},
		{
			name:   "template literal",
			src:    "require(`./tpl`)",
			opts:   allOn,
			normal: []string{"./tpl"},
		},
		{
			name:   "top level return",
			src:    "if (done) return\nrequire('./a')",
			opts:   allOn,
			normal: []string{"./a"},
		},
		{
			name:   "other members ignored",
			src:    "require.cache['./x']; foo.require('./y'); require.main",
			opts:   allOn,
			normal: nil,
		},
		{
			name:   "no arguments without check",
			src:    "require(); require('./a')",
			opts:   Options{},
			normal: []string{"./a"},
		},
		{
			name:   "extra arguments without check",
			src:    "require('./a', 'x')",
			opts:   Options{},
			normal: []string{"./a"},
		},
		{
			name:   "non literal allowed",
			src:    "require(name); require('./a' + x); require('./b')",
			opts:   Options{CheckRequireLength: true, AllowNonLiteralRequire: true},
			normal: []string{"./b"},
		},
		{
			name:  "async extra arguments ok",
			src:   "require.async('./x', cb, other)",
			opts:  allOn,
			async: []string{"./x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := extract(t, tt.src, tt.opts)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if !slices.Equal(res.Normal, tt.normal) {
				t.Errorf("Normal = %v, want %v", res.Normal, tt.normal)
			}
			if !slices.Equal(res.ResolveOnly, tt.resolve) {
				t.Errorf("ResolveOnly = %v, want %v", res.ResolveOnly, tt.resolve)
			}
			if !slices.Equal(res.Async, tt.async) {
				t.Errorf("Async = %v, want %v", res.Async, tt.async)
			}
		})
	}
}

func TestExtractBadUsage(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		opts     Options
		location string
	}{
		{"no arguments", "require()", allOn, "Line 1: Column 0"},
		{"too many arguments", "\n  require('./a', './b')", allOn, "Line 2: Column 2"},
		{"resolve too many arguments", "require.resolve('./a', './b')", allOn, "Line 1: Column 0"},
		{"non literal", "require(name)", allOn, "Line 1: Column 8"},
		{"non literal without length check", "var x = require(a + b)", Options{}, "Line 1: Column 16"},
		{"template substitution", "require(`./${x}`)", allOn, "Line 1: Column 8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extract(t, tt.src, tt.opts)
			if !errors.Is(err, errors.ErrCodeBadDependencyUsage) {
				t.Fatalf("Extract() error = %v, want BAD_DEPENDENCY_USAGE", err)
			}
			e, _ := errors.As(err)
			if e.Location != tt.location {
				t.Errorf("Location = %q, want %q", e.Location, tt.location)
			}
			if e.Path != "/src/index.js" {
				t.Errorf("Path = %q", e.Path)
			}
		})
	}
}

func TestExtractComments(t *testing.T) {
	src := `
// @require('./a')
/*
 * @require("./b")
 * @require.resolve('./r')
 * @require.async('./x', cb)
 */
require('./c')
`
	opts := allOn
	opts.CommentRequire = true

	res, err := extract(t, src, opts)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !slices.Equal(res.Normal, []string{"./a", "./b", "./c"}) {
		t.Errorf("Normal = %v", res.Normal)
	}
	if !slices.Equal(res.ResolveOnly, []string{"./r"}) {
		t.Errorf("ResolveOnly = %v", res.ResolveOnly)
	}
	if !slices.Equal(res.Async, []string{"./x"}) {
		t.Errorf("Async = %v", res.Async)
	}

	res, _ = extract(t, src, allOn)
	if !slices.Equal(res.Normal, []string{"./c"}) {
		t.Errorf("Normal without CommentRequire = %v, want [./c]", res.Normal)
	}
}

func TestExtractSyntaxError(t *testing.T) {
	_, err := extract(t, "var = require('./a'", allOn)
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Fatalf("Extract() error = %v, want PARSE_ERROR", err)
	}
	if e, _ := errors.As(err); e.Location == "" {
		t.Error("Location is empty")
	}
}

func TestExtractConcurrent(t *testing.T) {
	js := NewJavaScript()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := js.Extract(context.Background(), []byte("require('./a')"), "/a.js", allOn)
			if err != nil || len(res.Normal) != 1 {
				t.Errorf("Extract() = %v, %v", res, err)
			}
		}()
	}
	wg.Wait()
}

func TestScanComment(t *testing.T) {
	var c collector
	scanComment(`@require('@scope/pkg') @require ( "./spaced" ) @require.resolve('./r') @require.async("./a")`, Options{}, &c)
	r := c.result()
	if !slices.Equal(r.Normal, []string{"@scope/pkg", "./spaced"}) {
		t.Errorf("Normal = %v", r.Normal)
	}
	if len(r.ResolveOnly) != 0 || len(r.Async) != 0 {
		t.Errorf("disabled types collected: %+v", r)
	}
}
