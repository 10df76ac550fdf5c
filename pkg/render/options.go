package render

import (
	"path/filepath"
	"strings"

	"github.com/kaelzhang/module-walker/pkg/graph"
)

// Options configures every output format.
type Options struct {
	// Root shortens ids of nodes under it to relative paths. Empty keeps ids as they are.
	Root string

	// Types limits output to the given dependency types. Empty means all.
	Types []graph.DepType
}

// Label returns id relative to Root when it lies under it.
func (o Options) Label(id string) string {
	if o.Root == "" || !filepath.IsAbs(id) {
		return id
	}
	rel, err := filepath.Rel(o.Root, id)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return id
	}
	return filepath.ToSlash(rel)
}

func (o Options) types() []graph.DepType {
	if len(o.Types) == 0 {
		return graph.DepTypes
	}
	return o.Types
}
