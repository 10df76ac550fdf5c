package render

import (
	"bufio"
	"io"

	"github.com/kaelzhang/module-walker/pkg/graph"
)

// WriteText writes one block per local node: its id followed by each
// dependency as "  [type] specifier -> target".
func WriteText(s *graph.Store, w io.Writer, opts Options) error {
	bw := bufio.NewWriter(w)
	for _, n := range s.Nodes() {
		if n.Foreign {
			continue
		}
		bw.WriteString(opts.Label(n.ID))
		bw.WriteByte('\n')
		for _, t := range opts.types() {
			for _, spec := range n.Specifiers(t) {
				to, _ := n.Target(t, spec)
				bw.WriteString("  [" + t.String() + "] " + spec + " -> " + opts.Label(to) + "\n")
			}
		}
	}
	return bw.Flush()
}
