package expand

import (
	"go/ast"
	"go/token"
	"strings"

	"github.com/sirkon/throws/internal/diag"
)

// DirectiveKind tells the directive apart.
type DirectiveKind int

const (
	DirectiveNone DirectiveKind = iota
	DirectiveThrows
	DirectiveTry
	DirectiveUnknown
)

// Directive is a parsed //throws comment.
type Directive struct {
	Kind    DirectiveKind
	Comment *ast.Comment

	// Name of an unknown //throws:name directive.
	Name string

	Args string

	// ArgsPos is the position of the first byte of Args.
	ArgsPos token.Pos
}

// ParseDirective recognizes //<name>, //<name> <args>, //<name>:try and //<name>:<unknown>.
func ParseDirective(name string, c *ast.Comment) (Directive, bool) {
	prefix := "//" + name
	text, ok := strings.CutPrefix(c.Text, prefix)
	if !ok {
		return Directive{}, false
	}

	d := Directive{
		Comment: c,
		ArgsPos: c.Slash + token.Pos(len(prefix)),
	}

	switch {
	case text == "":
		d.Kind = DirectiveThrows

	case text[0] == ' ' || text[0] == '\t':
		d.Kind = DirectiveThrows
		d.Args = text[1:]
		d.ArgsPos++

	case text[0] == ':':
		sub, rest, _ := strings.Cut(text[1:], " ")
		d.ArgsPos += token.Pos(len(sub) + 2)
		d.Args = rest
		if sub == "try" {
			d.Kind = DirectiveTry
		} else {
			d.Kind = DirectiveUnknown
			d.Name = sub
		}

	default:
		// //throwsomething is not ours.
		return Directive{}, false
	}

	return d, true
}

// directives of a comment group.
func (x *expansion) directives(doc *ast.CommentGroup) []Directive {
	if doc == nil {
		return nil
	}

	var res []Directive
	for _, c := range doc.List {
		if d, ok := ParseDirective(x.e.opts.Directive, c); ok {
			res = append(res, d)
		}
	}

	return res
}

// strayDirectives reports directives not attached to functions or interface methods.
func (x *expansion) strayDirectives() {
	for _, group := range x.file.Comments {
		for _, d := range x.directives(group) {
			if x.consumed[d.Comment] {
				continue
			}

			x.consumed[d.Comment] = true
			if d.Kind == DirectiveUnknown {
				x.report(diag.PhaseExpand, diag.UnknownDirective(), unknownMessage(x.e.opts.Directive, d.Name), d.Comment.Pos())
				continue
			}
			x.report(diag.PhaseShape, diag.UnsupportedTarget(), "", d.Comment.Pos())
		}
	}
}

// stripDirectives removes directive comments from the file.
func (x *expansion) stripDirectives() {
	if len(x.consumed) == 0 {
		return
	}

	groups := x.file.Comments[:0]
	for _, group := range x.file.Comments {
		list := group.List[:0]
		for _, c := range group.List {
			if !x.consumed[c] {
				list = append(list, c)
			}
		}
		if len(list) < len(group.List) {
			// Drop the empty line that separated the doc text from the directive.
			for len(list) > 0 && list[len(list)-1].Text == "//" {
				list = list[:len(list)-1]
			}
		}
		group.List = list

		if len(group.List) > 0 {
			groups = append(groups, group)
		}
	}
	x.file.Comments = groups

	ast.Inspect(x.file, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.FuncDecl:
			v.Doc = nonEmpty(v.Doc)
		case *ast.GenDecl:
			v.Doc = nonEmpty(v.Doc)
		case *ast.TypeSpec:
			v.Doc = nonEmpty(v.Doc)
		case *ast.ValueSpec:
			v.Doc = nonEmpty(v.Doc)
		case *ast.Field:
			v.Doc = nonEmpty(v.Doc)
		}
		return true
	})

	x.changed = true
}

func nonEmpty(g *ast.CommentGroup) *ast.CommentGroup {
	if g == nil || len(g.List) == 0 {
		return nil
	}
	return g
}

func unknownMessage(name, sub string) string {
	return "unknown directive //" + name + ":" + sub
}
