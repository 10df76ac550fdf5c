package transform

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	werrors "github.com/kaelzhang/module-walker/pkg/errors"
)

func upper(name string, rule MatchRule) Stage {
	return Stage{
		Name:  name,
		Match: rule,
		Run: func(_ context.Context, in Source) (Source, error) {
			return Source{Content: bytes.ToUpper(in.Content)}, nil
		},
	}
}

func suffix(s string) Stage {
	return Stage{
		Name: "suffix-" + s,
		Run: func(_ context.Context, in Source) (Source, error) {
			return Source{Content: append(append([]byte(nil), in.Content...), s...)}, nil
		},
	}
}

func TestClassify(t *testing.T) {
	tests := map[string]Kind{
		"/a/index.js":   KindSource,
		"/a/index.mjs":  KindSource,
		"/a/Makefile":   KindSource,
		"/a/data.json":  KindData,
		"/a/addon.node": KindNative,
		"/a/style.css":  KindOpaque,
		"/a/INDEX.JS":   KindSource,
	}
	for name, want := range tests {
		if got := Classify(name); got != want {
			t.Errorf("Classify(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestRunNoStages(t *testing.T) {
	p, _ := NewPipeline()
	out, err := p.Run(context.Background(), "/a.js", []byte("require('./b')"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if string(out.Content) != "require('./b')" {
		t.Errorf("Content = %q, want unchanged", out.Content)
	}
	if out.Kind != KindSource || !out.Kind.Extractable() {
		t.Errorf("Kind = %v, want source", out.Kind)
	}
}

func TestRunOrder(t *testing.T) {
	p, err := NewPipeline(suffix("1"), suffix("2"), suffix("3"))
	if err != nil {
		t.Fatal(err)
	}
	out, err := p.Run(context.Background(), "/a.js", []byte("x"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if string(out.Content) != "x123" {
		t.Errorf("Content = %q, want x123", out.Content)
	}
}

func TestMatchRules(t *testing.T) {
	tests := []struct {
		name string
		rule MatchRule
		file string
		want string
	}{
		{"regex match", Regex(`\.tpl$`), "/src/view.tpl", "HELLO"},
		{"regex miss", Regex(`\.tpl$`), "/src/view.js", "hello"},
		{"glob base", Glob("*.tpl"), "/src/deep/view.tpl", "HELLO"},
		{"glob path", Glob("/src/**/*.tpl"), "/src/deep/view.tpl", "HELLO"},
		{"glob path miss", Glob("/lib/**/*.tpl"), "/src/deep/view.tpl", "hello"},
		{"predicate", Predicate(func(f string) bool { return strings.Contains(f, "view") }), "/src/view.js", "HELLO"},
		{"nil rule matches all", nil, "/src/any", "HELLO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPipeline(upper("upper", tt.rule))
			if err != nil {
				t.Fatalf("NewPipeline() error = %v", err)
			}
			out, err := p.Run(context.Background(), tt.file, []byte("hello"))
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if string(out.Content) != tt.want {
				t.Errorf("Content = %q, want %q", out.Content, tt.want)
			}
		})
	}
}

func TestRegisterInvalid(t *testing.T) {
	tests := []struct {
		name  string
		stage Stage
	}{
		{"bad regex", upper("x", Regex("("))},
		{"bad glob", upper("x", Glob("[a"))},
		{"nil predicate", upper("x", Predicate(nil))},
		{"nil run", Stage{Name: "empty"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPipeline(tt.stage)
			if !werrors.Is(err, werrors.ErrCodeInvalidOptions) {
				t.Errorf("NewPipeline() error = %v, want INVALID_OPTIONS", err)
			}
		})
	}
}

func TestStageReclassifies(t *testing.T) {
	compile := Stage{
		Name:    "tpl",
		Match:   Glob("*.tpl"),
		Options: map[string]any{"strict": true},
		Run: func(_ context.Context, in Source) (Source, error) {
			if in.Options["strict"] != true {
				return Source{}, errors.New("options not passed")
			}
			if in.Kind != KindOpaque {
				return Source{}, errors.New("tpl should start opaque")
			}
			return Source{Content: []byte("module.exports = require('./helper')"), Kind: KindSource}, nil
		},
	}
	p, _ := NewPipeline(compile, suffix(";"))

	out, err := p.Run(context.Background(), "/view.tpl", []byte("<p>{{x}}</p>"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Kind != KindSource {
		t.Errorf("Kind = %v, want source", out.Kind)
	}
	if string(out.Content) != "module.exports = require('./helper');" {
		t.Errorf("Content = %q", out.Content)
	}
}

func TestStageError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	failing := Stage{Name: "minify", Run: func(context.Context, Source) (Source, error) { return Source{}, boom }}
	after := Stage{Name: "after", Run: func(_ context.Context, in Source) (Source, error) {
		calls++
		return in, nil
	}}
	p, _ := NewPipeline(failing, after)

	_, err := p.Run(context.Background(), "/a.js", []byte("x"))
	if !werrors.Is(err, werrors.ErrCodeTransformStageError) {
		t.Fatalf("Run() error = %v, want TRANSFORM_STAGE_ERROR", err)
	}
	if !errors.Is(err, boom) {
		t.Error("errors.Is(err, boom) = false")
	}
	if e, _ := werrors.As(err); e.Path != "/a.js" {
		t.Errorf("Path = %q, want /a.js", e.Path)
	}
	if calls != 0 {
		t.Errorf("later stage ran %d times after failure", calls)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindSource, KindData, KindNative, KindOpaque} {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("binary"); ok {
		t.Error("ParseKind(binary) ok = true")
	}
}
