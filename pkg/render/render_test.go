package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/kaelzhang/module-walker/pkg/errors"
	"github.com/kaelzhang/module-walker/pkg/graph"
	"github.com/kaelzhang/module-walker/pkg/walker"
)

// sample builds /p/a.js -> ./b (normal), lodash (normal), ./c (async);
// /p/b.js -> ./a (normal).
func sample(t *testing.T) *walker.Result {
	t.Helper()
	s := graph.NewStore()
	a, _ := s.GetOrCreate("/p/a.js", false)
	b, _ := s.GetOrCreate("/p/b.js", false)
	c, _ := s.GetOrCreate("/p/c.js", false)
	lodash, _ := s.GetOrCreate("lodash", true)

	s.Link(a, graph.Normal, "./b", b)
	s.Link(a, graph.Normal, "lodash", lodash)
	s.Link(a, graph.Async, "./c", c)
	s.Link(b, graph.Normal, "./a", a)

	if _, err := a.Load(func() (graph.Content, error) {
		return graph.Content{Raw: []byte("x"), Kind: "source", Extractable: true}, nil
	}); err != nil {
		t.Fatal(err)
	}

	return &walker.Result{
		ID:      "walk-1",
		Entries: []string{"/p/a.js"},
		Graph:   s,
		Warnings: []walker.Warning{{
			Code:      errors.ErrCodeCyclicDependency,
			Message:   "cycle",
			Path:      "/p/b.js",
			Specifier: "./a",
			Trail:     []string{"/p/a.js", "/p/b.js", "/p/a.js"},
		}},
	}
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument(sample(t), Options{Root: "/p"})

	if doc.ID != "walk-1" {
		t.Errorf("ID = %q, want walk-1", doc.ID)
	}
	if want := []string{"a.js"}; !slices.Equal(doc.Entries, want) {
		t.Errorf("Entries = %v, want %v", doc.Entries, want)
	}

	var ids []string
	for _, n := range doc.Nodes {
		ids = append(ids, n.ID)
	}
	if want := []string{"a.js", "b.js", "c.js", "lodash"}; !slices.Equal(ids, want) {
		t.Fatalf("node ids = %v, want %v", ids, want)
	}

	a := doc.Nodes[0]
	if a.Normal["./b"] != "b.js" || a.Normal["lodash"] != "lodash" {
		t.Errorf("a.Normal = %v", a.Normal)
	}
	if a.Async["./c"] != "c.js" {
		t.Errorf("a.Async = %v", a.Async)
	}
	if a.Resolve != nil {
		t.Errorf("a.Resolve = %v, want nil", a.Resolve)
	}
	if a.Kind != "source" || a.Digest == "" {
		t.Errorf("a kind=%q digest=%q, want source and a digest", a.Kind, a.Digest)
	}
	if b := doc.Nodes[1]; b.Kind != "" || b.Digest != "" {
		t.Errorf("unloaded node kind=%q digest=%q, want empty", b.Kind, b.Digest)
	}
	if !doc.Nodes[3].Foreign {
		t.Error("lodash not foreign")
	}

	if len(doc.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want one", doc.Warnings)
	}
	if want := []string{"a.js", "b.js", "a.js"}; !slices.Equal(doc.Warnings[0].Trail, want) {
		t.Errorf("Trail = %v, want %v", doc.Warnings[0].Trail, want)
	}
}

func TestNewDocumentTypes(t *testing.T) {
	doc := NewDocument(sample(t), Options{Types: []graph.DepType{graph.Async}})
	a := doc.Nodes[0]
	if a.ID != "/p/a.js" {
		t.Errorf("ID = %q, want absolute id without root", a.ID)
	}
	if a.Normal != nil || len(a.Async) != 1 {
		t.Errorf("Normal = %v Async = %v, want async only", a.Normal, a.Async)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sample(t), &buf, Options{Root: "/p"}); err != nil {
		t.Fatal(err)
	}
	doc, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Nodes) != 4 || doc.Nodes[0].Normal["./b"] != "b.js" {
		t.Errorf("ReadJSON() = %+v", doc)
	}
	if doc.Warnings[0].Code != string(errors.ErrCodeCyclicDependency) {
		t.Errorf("warning code = %q", doc.Warnings[0].Code)
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := ExportJSON(sample(t), path, Options{Root: "/p"}); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	doc, err := ReadJSON(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Nodes) != 4 {
		t.Errorf("len(Nodes) = %d, want 4", len(doc.Nodes))
	}

	if err := ExportJSON(sample(t), filepath.Join(t.TempDir(), "missing", "graph.json"), Options{}); err == nil {
		t.Error("ExportJSON() into a missing directory expected error")
	}
}

func TestReadJSONInvalid(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader("{")); err == nil {
		t.Error("ReadJSON() expected error")
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(t).Graph, Options{Root: "/p"})

	for _, want := range []string{
		"digraph G {",
		`"/p/a.js" [label="a.js"];`,
		`"lodash" [label="lodash", style="rounded,filled,dashed", fillcolor=lightgrey];`,
		`"/p/a.js" -> "/p/b.js";`,
		`"/p/a.js" -> "/p/c.js" [style=dashed, label="async"];`,
		`"/p/b.js" -> "/p/a.js";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %s\n%s", want, dot)
		}
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(sample(t).Graph, &buf, Options{Root: "/p"}); err != nil {
		t.Fatal(err)
	}
	want := "a.js\n" +
		"  [normal] ./b -> b.js\n" +
		"  [normal] lodash -> lodash\n" +
		"  [async] ./c -> c.js\n" +
		"b.js\n" +
		"  [normal] ./a -> a.js\n" +
		"c.js\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteText() =\n%s\nwant\n%s", got, want)
	}
}

func TestLabel(t *testing.T) {
	opts := Options{Root: "/p"}
	tests := []struct{ id, want string }{
		{"/p/a.js", "a.js"},
		{"/p/lib/b.js", "lib/b.js"},
		{"/q/c.js", "/q/c.js"},
		{"/pp/d.js", "/pp/d.js"},
		{"lodash", "lodash"},
	}
	for _, tt := range tests {
		if got := opts.Label(tt.id); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.25 200.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.25 200.00" width="100" height="200"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); !bytes.Equal(got, plain) {
		t.Errorf("normalizeViewBox() changed svg without viewBox: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sample(t).Graph, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("RenderSVG() output has no <svg> element")
	}
}
