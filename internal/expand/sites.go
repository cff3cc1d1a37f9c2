package expand

import (
	"errors"
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/sirkon/throws/internal/args"
	"github.com/sirkon/throws/internal/astx"
	"github.com/sirkon/throws/internal/diag"
	"github.com/sirkon/throws/internal/rewrite"
)

// exprSites expands expression markers. The walk is post-order, so inner sites are replaced with their
// rewritten operands before the outer ones are rewritten, and outer ones see them as plain function literals.
func (x *expansion) exprSites() {
	if x.spec == nil {
		return
	}

	astutil.Apply(x.file, nil, func(c *astutil.Cursor) bool {
		call, ok := c.Node().(*ast.CallExpr)
		if !ok {
			return true
		}

		m := rewrite.MarkerOf(x.runtime, call)
		if !m.IsExpression() {
			return true
		}

		if res := x.exprSite(call, m); res != nil {
			c.Replace(res)
		}
		return true
	})
}

func (x *expansion) exprSite(call *ast.CallExpr, m rewrite.Marker) ast.Expr {
	var (
		a       *args.Args
		operand ast.Expr
	)

	switch m {
	case rewrite.MarkerExpr:
		if len(call.Args) != 1 {
			x.report(diag.PhaseShape, diag.UnsupportedTarget(), "throws.Expr takes a closure or an async block", call.Pos())
			return nil
		}
		a = &args.Args{Mode: args.ModeErrorOmitted}
		operand = call.Args[0]

	case rewrite.MarkerExprAs:
		if len(call.Args) != 2 {
			x.report(diag.PhaseShape, diag.UnsupportedTarget(), "throws.ExprAs takes arguments and a closure or an async block", call.Pos())
			return nil
		}

		lit, ok := astx.Unparen(call.Args[0]).(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			x.report(diag.PhaseArgs, diag.NonLiteralArguments(), "", call.Args[0].Pos())
			return nil
		}

		src, err := strconv.Unquote(lit.Value)
		if err != nil {
			x.report(diag.PhaseArgs, diag.NonLiteralArguments(), err.Error(), lit.Pos())
			return nil
		}

		a, ok = x.parseArgs(src, lit.Pos()+1)
		if !ok {
			return nil
		}
		operand = call.Args[1]

	case rewrite.MarkerTryExpr:
		if len(call.Args) != 1 {
			x.report(diag.PhaseShape, diag.UnsupportedTarget(), "throws.TryExpr takes a closure or an async block", call.Pos())
			return nil
		}
		operand = call.Args[0]
	}

	operand = astx.Unparen(operand)
	switch v := operand.(type) {
	case *ast.FuncLit:
	case *ast.CallExpr:
		if rewrite.MarkerOf(x.runtime, v) != rewrite.MarkerAsync {
			x.report(diag.PhaseShape, diag.UnsupportedTarget(), "", operand.Pos())
			return nil
		}
	default:
		x.report(diag.PhaseShape, diag.UnsupportedTarget(), "", operand.Pos())
		return nil
	}

	res, ok := x.rewrite(operand, a)
	if !ok {
		return nil
	}

	return res.(ast.Expr)
}

// declSites expands functions, methods and interface methods with directives.
func (x *expansion) declSites() {
	ast.Inspect(x.file, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.FuncDecl:
			x.declSite(v, v.Doc)

		case *ast.InterfaceType:
			if v.Methods == nil {
				return true
			}
			for _, field := range v.Methods.List {
				if _, ok := field.Type.(*ast.FuncType); ok && len(field.Names) == 1 {
					x.declSite(field, field.Doc)
				}
			}
		}

		return true
	})
}

func (x *expansion) declSite(node ast.Node, doc *ast.CommentGroup) {
	ds := x.directives(doc)
	if len(ds) == 0 {
		return
	}
	for _, d := range ds {
		x.consumed[d.Comment] = true
	}

	if len(ds) > 1 {
		x.report(diag.PhaseArgs, diag.MalformedArguments(), "duplicate throws directive", ds[1].Comment.Pos())
		return
	}

	d := ds[0]
	var a *args.Args
	switch d.Kind {
	case DirectiveThrows:
		var ok bool
		if a, ok = x.parseArgs(d.Args, d.ArgsPos); !ok {
			return
		}

	case DirectiveTry:
		if strings.TrimSpace(d.Args) != "" {
			x.report(diag.PhaseArgs, diag.UnexpectedArguments(), "", d.ArgsPos)
			return
		}

	default:
		x.report(diag.PhaseExpand, diag.UnknownDirective(), unknownMessage(x.e.opts.Directive, d.Name), d.Comment.Pos())
		return
	}

	x.rewrite(node, a)
}

func (x *expansion) parseArgs(src string, pos token.Pos) (*args.Args, bool) {
	a, err := args.Parse(src)
	if err == nil {
		return a, true
	}

	var serr *args.SyntaxError
	if errors.As(err, &serr) {
		pos += token.Pos(serr.Offset)
	}
	x.report(diag.PhaseArgs, diag.MalformedArguments(), err.Error(), pos)
	return nil, false
}

// rewrite runs a fresh rewriter over the site.
func (x *expansion) rewrite(node ast.Node, a *args.Args) (ast.Node, bool) {
	x.sites++

	r := rewrite.New(a, rewrite.Options{
		Runtime: x.runtime,
		Imports: x.imports,
		Abandon: x.e.opts.Abandon,
		Names:   x.names,
		Logger:  x.e.opts.Logger,
	})
	res, err := r.Rewrite(node)
	if err != nil {
		x.fail(err)
		return nil, false
	}

	x.claimed[res] = true
	x.changed = true
	return res, true
}
