package transform

import (
	"path/filepath"
	"strings"
)

// Kind classifies file content. The zero value means "unchanged" when
// returned by a stage.
type Kind int

const (
	// KindSource files are subject to dependency extraction.
	KindSource Kind = iota + 1
	// KindData files (JSON) are loaded but have no dependencies.
	KindData
	// KindNative files are compiled addons.
	KindNative
	// KindOpaque files are neither parsed nor interpreted.
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindData:
		return "data"
	case KindNative:
		return "native"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Extractable reports whether dependencies are extracted from files of kind k.
func (k Kind) Extractable() bool { return k == KindSource }

var kindByExt = map[string]Kind{
	"":      KindSource,
	".js":   KindSource,
	".mjs":  KindSource,
	".cjs":  KindSource,
	".json": KindData,
	".node": KindNative,
}

// Classify returns the kind implied by filename's extension.
// A file without an extension is treated as source.
func Classify(filename string) Kind {
	if k, ok := kindByExt[strings.ToLower(filepath.Ext(filename))]; ok {
		return k
	}
	return KindOpaque
}

// ParseKind converts a kind name back to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(s) {
	case "source", "js":
		return KindSource, true
	case "data", "json":
		return KindData, true
	case "native":
		return KindNative, true
	case "opaque":
		return KindOpaque, true
	}
	return 0, false
}
