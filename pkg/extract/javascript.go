package extract

import (
	"context"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/kaelzhang/module-walker/pkg/errors"
	"github.com/kaelzhang/module-walker/pkg/graph"
)

// JavaScript extracts dependencies from JavaScript source using tree-sitter.
// The zero value is ready to use.
type JavaScript struct {
	pool sync.Pool
}

// NewJavaScript returns a JavaScript extractor.
func NewJavaScript() *JavaScript { return &JavaScript{} }

func (j *JavaScript) parser() *sitter.Parser {
	if p, ok := j.pool.Get().(*sitter.Parser); ok {
		return p
	}
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	return p
}

// Extract implements Extractor.
func (j *JavaScript) Extract(ctx context.Context, content []byte, filename string, opts Options) (*Result, error) {
	parser := j.parser()
	tree, err := parser.ParseCtx(ctx, nil, content)
	j.pool.Put(parser)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse %s", filename).WithPath(filename)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root, content, filename)
	}

	v := &visitor{src: content, opts: opts, filename: filename}
	if err := v.walk(root); err != nil {
		return nil, err
	}
	return v.c.result(), nil
}

// visitor walks a syntax tree and dispatches on a closed set of node kinds.
type visitor struct {
	src      []byte
	opts     Options
	filename string
	c        collector
}

func (v *visitor) walk(root *sitter.Node) error {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := v.visit(n); err != nil {
			return err
		}
		// Push children in reverse so they are visited in source order.
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, n.Child(i))
		}
	}
	return nil
}

func (v *visitor) visit(n *sitter.Node) error {
	switch n.Type() {
	case "call_expression":
		return v.call(n)
	case "import_statement", "export_statement":
		if src := n.ChildByFieldName("source"); src != nil {
			if spec, ok := v.literal(src); ok {
				v.c.add(graph.Normal, spec)
			}
		}
	case "comment":
		if v.opts.CommentRequire {
			scanComment(n.Content(v.src), v.opts, &v.c)
		}
	}
	return nil
}

// call handles require(), require.resolve(), require.async() and import().
func (v *visitor) call(n *sitter.Node) error {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return nil
	}

	var (
		typ         graph.DepType
		checkExcess bool
	)
	switch {
	case fn.Type() == "identifier" && fn.Content(v.src) == "require":
		typ, checkExcess = graph.Normal, true
	case fn.Type() == "import":
		if !v.opts.RequireAsync {
			return nil
		}
		typ = graph.Async
	case fn.Type() == "member_expression":
		obj := fn.ChildByFieldName("object")
		prop := fn.ChildByFieldName("property")
		if obj == nil || prop == nil || obj.Type() != "identifier" || obj.Content(v.src) != "require" {
			return nil
		}
		switch prop.Content(v.src) {
		case "resolve":
			if !v.opts.RequireResolve {
				return nil
			}
			typ, checkExcess = graph.ResolveOnly, true
		case "async":
			if !v.opts.RequireAsync {
				return nil
			}
			typ = graph.Async
		default:
			return nil
		}
	default:
		return nil
	}

	args := arguments(n.ChildByFieldName("arguments"))
	loc := fn.StartPoint()

	if len(args) == 0 {
		if v.opts.CheckRequireLength {
			return v.badUsage(Location(int(loc.Row), int(loc.Column)), "method `require` accepts one and only one parameter")
		}
		return nil
	}
	if checkExcess && len(args) > 1 && v.opts.CheckRequireLength {
		return v.badUsage(Location(int(loc.Row), int(loc.Column)), "method `require` should not contain more than one parameter")
	}

	spec, ok := v.literal(args[0])
	if !ok {
		if v.opts.AllowNonLiteralRequire {
			return nil
		}
		p := args[0].StartPoint()
		return v.badUsage(Location(int(p.Row), int(p.Column)), "method `require` only accepts a string literal")
	}
	v.c.add(typ, spec)
	return nil
}

func (v *visitor) badUsage(location, msg string) error {
	err := errors.New(errors.ErrCodeBadDependencyUsage, "%s", msg).WithPath(v.filename)
	err.Location = location
	return err
}

// literal returns the value of a string or substitution-free template literal.
func (v *visitor) literal(n *sitter.Node) (string, bool) {
	switch n.Type() {
	case "string":
		raw := n.Content(v.src)
		if len(raw) < 2 {
			return "", false
		}
		return unescape(raw[1 : len(raw)-1]), true
	case "template_string":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if n.NamedChild(i).Type() == "template_substitution" {
				return "", false
			}
		}
		raw := n.Content(v.src)
		if len(raw) < 2 {
			return "", false
		}
		return raw[1 : len(raw)-1], true
	}
	return "", false
}

// arguments returns the argument expressions of an arguments node, skipping
// comments.
func arguments(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	var args []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		args = append(args, c)
	}
	return args
}

var escapes = strings.NewReplacer(`\'`, `'`, `\"`, `"`, `\\`, `\`, `\/`, `/`)

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return escapes.Replace(s)
}

// syntaxError reports the first error or missing node in source order.
func syntaxError(root *sitter.Node, content []byte, filename string) error {
	bad := firstError(root)
	if bad == nil {
		bad = root
	}
	p := bad.StartPoint()
	msg := "unexpected token"
	if bad.IsMissing() {
		msg = "missing " + bad.Type()
	} else if start, end := bad.StartByte(), bad.EndByte(); end > start && int(end) <= len(content) && end-start < 40 {
		msg = "unexpected " + strings.TrimSpace(string(content[start:end]))
	}
	err := errors.New(errors.ErrCodeParse, "%s", msg).WithPath(filename)
	err.Location = Location(int(p.Row), int(p.Column))
	return err
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstError(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}
