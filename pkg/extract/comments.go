package extract

import (
	"regexp"

	"github.com/kaelzhang/module-walker/pkg/graph"
)

const (
	annotationArg   = `\s*\(\s*(?:'([A-Za-z0-9_/.@\-]+)'|"([A-Za-z0-9_/.@\-]+)")\s*`
	annotationClose = annotationArg + `\)`
)

var (
	reCommentRequire = regexp.MustCompile(`@require` + annotationClose)
	reCommentResolve = regexp.MustCompile(`@require\.resolve` + annotationClose)
	reCommentAsync   = regexp.MustCompile(`@require\.async` + annotationArg)
)

// scanComment collects @require annotations from the text of one comment.
func scanComment(text string, opts Options, c *collector) {
	addMatches(text, reCommentRequire, graph.Normal, c)
	if opts.RequireResolve {
		addMatches(text, reCommentResolve, graph.ResolveOnly, c)
	}
	if opts.RequireAsync {
		addMatches(text, reCommentAsync, graph.Async, c)
	}
}

func addMatches(text string, re *regexp.Regexp, t graph.DepType, c *collector) {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		spec := m[1]
		if spec == "" {
			spec = m[2]
		}
		c.add(t, spec)
	}
}
