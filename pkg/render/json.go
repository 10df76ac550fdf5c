package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kaelzhang/module-walker/pkg/graph"
	"github.com/kaelzhang/module-walker/pkg/walker"
)

// Document is the JSON form of a walk result.
type Document struct {
	ID       string    `json:"id,omitempty"`
	Entries  []string  `json:"entries"`
	Nodes    []Node    `json:"nodes"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Node is one graph node. Edge maps go from specifier to target id.
type Node struct {
	ID      string            `json:"id"`
	Foreign bool              `json:"foreign,omitempty"`
	Kind    string            `json:"kind,omitempty"`
	Digest  string            `json:"digest,omitempty"`
	Normal  map[string]string `json:"normal,omitempty"`
	Resolve map[string]string `json:"resolve,omitempty"`
	Async   map[string]string `json:"async,omitempty"`
}

// Warning mirrors walker.Warning.
type Warning struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Path      string   `json:"path,omitempty"`
	Specifier string   `json:"specifier,omitempty"`
	Trail     []string `json:"trail,omitempty"`
}

// NewDocument converts a walk result. Nodes are sorted by id.
func NewDocument(res *walker.Result, opts Options) Document {
	doc := Document{
		ID:      res.ID,
		Entries: make([]string, len(res.Entries)),
		Nodes:   make([]Node, 0, res.Graph.Len()),
	}
	for i, e := range res.Entries {
		doc.Entries[i] = opts.Label(e)
	}

	for _, n := range res.Graph.Nodes() {
		nd := Node{ID: opts.Label(n.ID), Foreign: n.Foreign, Digest: n.Digest()}
		if c, ok := n.Content(); ok {
			nd.Kind = c.Kind
		}
		for _, t := range opts.types() {
			edges := n.Edges(t)
			if len(edges) == 0 {
				continue
			}
			for spec, target := range edges {
				edges[spec] = opts.Label(target)
			}
			switch t {
			case graph.Normal:
				nd.Normal = edges
			case graph.ResolveOnly:
				nd.Resolve = edges
			case graph.Async:
				nd.Async = edges
			}
		}
		doc.Nodes = append(doc.Nodes, nd)
	}

	for _, w := range res.Warnings {
		trail := make([]string, len(w.Trail))
		for i, id := range w.Trail {
			trail[i] = opts.Label(id)
		}
		doc.Warnings = append(doc.Warnings, Warning{
			Code:      string(w.Code),
			Message:   w.Message,
			Path:      opts.Label(w.Path),
			Specifier: w.Specifier,
			Trail:     trail,
		})
	}
	return doc
}

// WriteJSON encodes res as an indented JSON [Document].
func WriteJSON(res *walker.Result, w io.Writer, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(res, opts)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a document written by [WriteJSON].
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	return doc, nil
}

// ExportJSON writes res to a JSON file at path.
func ExportJSON(res *walker.Result, path string, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(res, f, opts)
}
