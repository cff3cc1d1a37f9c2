// Package lint checks throws directives and markers of un-rewritten sources.
package lint

import (
	"fmt"
	"go/ast"
	"go/token"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/sirkon/throws/internal/args"
	"github.com/sirkon/throws/internal/astx"
	"github.com/sirkon/throws/internal/diag"
	"github.com/sirkon/throws/internal/expand"
	"github.com/sirkon/throws/internal/rewrite"
	"github.com/sirkon/throws/internal/scope"
)

const doc = `throwslint checks throws directives and markers before generation

It reports propagation markers that no rewritten function owns, zero argument Throw calls in functions
returning errors, directives on declarations other than functions and non-literal ExprAs arguments.`

// Analyzer is the main entry point for the linter.
var Analyzer = &analysis.Analyzer{
	Name:     "throwslint",
	Doc:      doc,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var (
	flagRuntime   string
	flagDirective string
)

func init() {
	Analyzer.Flags.StringVar(&flagRuntime, "runtime", "", "comma separated import paths of additional runtime packages")
	Analyzer.Flags.StringVar(&flagDirective, "directive", expand.DefaultDirective, "directive name")
}

func run(pass *analysis.Pass) (any, error) {
	pector := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	custom := splitList(flagRuntime)
	l := &linter{
		pass:      pass,
		markers:   newKnownMarkers(custom),
		runtimes:  append(custom, rewrite.RuntimePath),
		directive: flagDirective,
		files:     map[*ast.File]*fileInfo{},
	}

	for _, file := range pass.Files {
		l.directives(file)
	}

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}
	pector.WithStack(nodeFilter, func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return true
		}

		file, ok := stack[0].(*ast.File)
		if !ok {
			return true
		}

		l.call(file, n.(*ast.CallExpr))
		return true
	})

	return nil, nil
}

type linter struct {
	pass      *analysis.Pass
	markers   *knownMarkers
	runtimes  []string
	directive string
	files     map[*ast.File]*fileInfo
}

// fileInfo keeps scopes of a file and sites among them.
type fileInfo struct {
	tree  *scope.Tree
	sites map[ast.Node]*site
}

// site is a function-like node rewritten by the generator.
type site struct {
	// errors is set for sites returning error-carrying containers, where Throw() returns the zero value.
	errors bool
}

func (l *linter) report(code diag.Code, pos token.Pos, format string, a ...any) {
	msg := code.Description()
	if format != "" {
		msg = fmt.Sprintf(format, a...)
	}

	l.pass.Report(analysis.Diagnostic{
		Pos:      pos,
		Category: code.String(),
		Message:  fmt.Sprintf("%s: %s", code.String()[:6], msg),
	})
}

// directives checks directives are attached to what can be rewritten.
func (l *linter) directives(file *ast.File) {
	attached := map[*ast.Comment]bool{}
	attach := func(doc *ast.CommentGroup) {
		if doc == nil {
			return
		}
		for _, c := range doc.List {
			attached[c] = true
		}
	}

	ast.Inspect(file, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.FuncDecl:
			attach(v.Doc)
		case *ast.InterfaceType:
			if v.Methods == nil {
				return true
			}
			for _, field := range v.Methods.List {
				if _, ok := field.Type.(*ast.FuncType); ok && len(field.Names) == 1 {
					attach(field.Doc)
				}
			}
		}
		return true
	})

	for _, group := range file.Comments {
		for _, c := range group.List {
			d, ok := expand.ParseDirective(l.directive, c)
			if !ok {
				continue
			}

			switch {
			case d.Kind == expand.DirectiveUnknown:
				l.report(diag.UnknownDirective(), c.Pos(), "unknown directive //%s:%s", l.directive, d.Name)
			case !attached[c]:
				l.report(diag.UnsupportedTarget(), c.Pos(), "")
			}
		}
	}
}

func (l *linter) call(file *ast.File, call *ast.CallExpr) {
	m := l.markers.markerOf(l.pass.TypesInfo, call)
	switch {
	case m == rewrite.MarkerExprAs:
		if len(call.Args) == 0 {
			return
		}
		if lit, ok := astx.Unparen(call.Args[0]).(*ast.BasicLit); !ok || lit.Kind != token.STRING {
			l.report(diag.NonLiteralArguments(), call.Args[0].Pos(), "")
		}

	case m.IsPropagation():
		info := l.fileInfo(file)
		s := info.tree.Innermost(call.Pos())
		if s == nil || !s.Claimed {
			where := "package scope"
			if s != nil {
				where = s.Name
			}
			l.report(
				diag.MarkerOutsideScope(),
				call.Pos(),
				"throws.%s in %s is not in a rewritten function and will panic at runtime",
				m,
				where,
			)
			return
		}

		if m == rewrite.MarkerThrow && len(call.Args) == 0 && info.sites[s.Node].errors {
			l.report(diag.ZeroThrowInResult(), call.Pos(), "")
		}
	}
}

func (l *linter) fileInfo(file *ast.File) *fileInfo {
	if info, ok := l.files[file]; ok {
		return info
	}

	info := &fileInfo{sites: l.sites(file)}
	info.tree = scope.FromFile(l.pass.Fset, file, func(n ast.Node) bool {
		return info.sites[n] != nil
	})
	l.files[file] = info
	return info
}

// sites collects functions with directives and operands of expression markers.
func (l *linter) sites(file *ast.File) map[ast.Node]*site {
	res := map[ast.Node]*site{}
	runtime := l.runtimeName(file)

	ast.Inspect(file, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.FuncDecl:
			if v.Doc == nil || v.Body == nil {
				return true
			}
			for _, c := range v.Doc.List {
				d, ok := expand.ParseDirective(l.directive, c)
				if !ok {
					continue
				}

				switch d.Kind {
				case expand.DirectiveThrows:
					res[v] = &site{errors: modeErrors(d.Args)}
				case expand.DirectiveTry:
					res[v] = &site{errors: declaredErrors(v.Type, runtime)}
				}
			}

		case *ast.CallExpr:
			m := l.markers.markerOf(l.pass.TypesInfo, v)
			if !m.IsExpression() || len(v.Args) == 0 {
				return true
			}

			lit := l.operand(v.Args[len(v.Args)-1])
			if lit == nil {
				return true
			}

			switch m {
			case rewrite.MarkerExpr:
				res[lit] = &site{errors: true}
			case rewrite.MarkerExprAs:
				s := &site{errors: true}
				if b, ok := astx.Unparen(v.Args[0]).(*ast.BasicLit); ok && b.Kind == token.STRING {
					if text, err := strconv.Unquote(b.Value); err == nil {
						s.errors = modeErrors(text)
					}
				}
				res[lit] = s
			case rewrite.MarkerTryExpr:
				res[lit] = &site{errors: declaredErrors(lit.Type, runtime)}
			}
		}

		return true
	})

	return res
}

// runtimeName is the local name of the runtime import of the file, empty for dot imports.
func (l *linter) runtimeName(file *ast.File) string {
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil || !slices.Contains(l.runtimes, p) {
			continue
		}

		switch {
		case spec.Name == nil:
			return rewrite.DefaultImportName(p)
		case spec.Name.Name == ".":
			return ""
		case spec.Name.Name != "_":
			return spec.Name.Name
		}
	}

	return rewrite.DefaultImportName(rewrite.RuntimePath)
}

// operand returns the function literal of a closure or an async block.
func (l *linter) operand(e ast.Expr) *ast.FuncLit {
	switch v := astx.Unparen(e).(type) {
	case *ast.FuncLit:
		return v
	case *ast.CallExpr:
		if l.markers.markerOf(l.pass.TypesInfo, v) != rewrite.MarkerAsync || len(v.Args) != 1 {
			return nil
		}
		lit, _ := astx.Unparen(v.Args[0]).(*ast.FuncLit)
		return lit
	default:
		return nil
	}
}

func modeErrors(src string) bool {
	a, err := args.Parse(src)
	if err != nil {
		return false
	}

	switch a.Mode {
	case args.ModeOption, args.ModeAliasOption:
		return false
	default:
		return true
	}
}

func declaredErrors(sig *ast.FuncType, runtime string) bool {
	t, err := args.Declared(sig.Results, args.Options{Runtime: runtime})
	if err != nil {
		return false
	}

	return !t.Presence
}

func splitList(s string) []string {
	var res []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}

	return res
}
