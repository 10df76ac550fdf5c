// Package render writes walk results in machine and human readable forms.
//
// # Formats
//
//   - JSON via [WriteJSON]: every node with its typed edges, kind and content
//     digest, plus the walk's warnings. [ReadJSON] decodes it back into a
//     [Document].
//   - DOT via [ToDOT]: a Graphviz digraph; [RenderSVG] lays it out in-process.
//   - Text via [WriteText]: an indented listing for terminals.
//
// Node ids are absolute paths. Every writer accepts a root directory; ids
// under it are shown relative to it.
//
//	dot := render.ToDOT(res.Graph, render.Options{Root: cwd})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package render
