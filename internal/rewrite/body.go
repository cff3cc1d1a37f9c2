package rewrite

import (
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/sirkon/throws/internal/args"
	"github.com/sirkon/throws/internal/astx"
	"github.com/sirkon/throws/internal/diag"
)

// walker rewrites exit points of the outer function body.
type walker struct {
	r      *Rewriter
	target *args.Target
	err    error
}

func (w *walker) block(b *ast.BlockStmt) ([]ast.Stmt, error) {
	res := astutil.Apply(b, w.pre, w.post)
	if w.err != nil {
		return nil, w.err
	}

	return res.(*ast.BlockStmt).List, nil
}

func (w *walker) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *walker) pre(c *astutil.Cursor) bool {
	if w.err != nil {
		return false
	}

	lit, ok := c.Node().(*ast.FuncLit)
	if !ok {
		return true
	}

	// Closures, goroutine and deferred bodies, nested async blocks.
	if _, err := w.r.fold(&closureShape{lit: lit}, true); err != nil {
		w.fail(err)
	}
	return false
}

func (w *walker) post(c *astutil.Cursor) bool {
	if w.err != nil {
		return false
	}

	switch n := c.Node().(type) {
	case *ast.CallExpr:
		w.placement(c, n)
	case *ast.ReturnStmt:
		w.ret(c, n)
	case *ast.ExprStmt:
		w.exprStmt(c, n)
	case *ast.AssignStmt:
		w.assign(c, n)
	case *ast.DeclStmt:
		w.decl(c, n)
	}

	return w.err == nil
}

func (w *walker) marker(e ast.Expr) (*ast.CallExpr, Marker) {
	call, ok := astx.Unparen(e).(*ast.CallExpr)
	if !ok {
		return nil, MarkerNone
	}

	return call, MarkerOf(w.r.opts.Runtime, call)
}

// placement checks propagation markers are where their statements can expand them.
func (w *walker) placement(c *astutil.Cursor, call *ast.CallExpr) {
	m := MarkerOf(w.r.opts.Runtime, call)
	if !m.IsPropagation() {
		return
	}

	var ok bool
	switch p := c.Parent().(type) {
	case *ast.ExprStmt:
		ok = true
	case *ast.AssignStmt:
		ok = m == MarkerTry && c.Name() == "Rhs" && len(p.Rhs) == 1
	case *ast.ReturnStmt:
		ok = m == MarkerTry && len(p.Results) == 1
	case *ast.ValueSpec:
		ok = m == MarkerTry && c.Name() == "Values" && len(p.Values) == 1 && len(p.Names) == 1
	}

	if !ok {
		w.fail(diag.Errorf(diag.MisplacedMarker(), call.Pos(), ""))
	}
}

func (w *walker) ret(c *astutil.Cursor, n *ast.ReturnStmt) {
	t := w.target

	switch len(n.Results) {
	case 0:
		var res ast.Expr
		switch {
		case t.KeepBare:
			return
		case t.Name != nil:
			res = w.success(ast.NewIdent(t.Name.Name))
		case t.Unit():
			res = w.successUnit()
		default:
			res = w.success(astx.UnitValue())
		}
		c.Replace(&ast.ReturnStmt{Return: n.Return, Results: []ast.Expr{res}})

	case 1:
		if call, m := w.marker(n.Results[0]); m == MarkerTry {
			stmts, val := w.try(call, !t.Unit())
			if stmts == nil {
				return
			}

			out := w.successUnit()
			if !t.Unit() {
				out = w.success(val)
			}
			w.splice(c, stmts, &ast.ReturnStmt{Return: n.Return, Results: []ast.Expr{out}})
			return
		}

		if t.Family != args.FamilyContainer && t.Unit() {
			// This is the final error or presence already.
			return
		}
		c.Replace(&ast.ReturnStmt{Return: n.Return, Results: []ast.Expr{w.success(n.Results[0])}})

	default:
		// The final tuple is returned as is.
	}
}

func (w *walker) exprStmt(c *astutil.Cursor, n *ast.ExprStmt) {
	call, m := w.marker(n.X)
	switch m {
	case MarkerThrow:
		w.throw(c, n, call)

	case MarkerTry:
		stmts, _ := w.try(call, false)
		if stmts == nil {
			return
		}
		w.splice(c, stmts[:len(stmts)-1], stmts[len(stmts)-1])

	case MarkerCheck:
		if len(call.Args) != 1 {
			w.fail(diag.Errorf(diag.MisplacedMarker(), call.Pos(), "throws.Check takes a single failure value"))
			return
		}

		fail := ast.NewIdent(w.r.opts.Names.Fresh(w.failName()))
		c.Replace(&ast.IfStmt{
			If: n.Pos(),
			Init: &ast.AssignStmt{
				Lhs: []ast.Expr{fail},
				Tok: token.DEFINE,
				Rhs: call.Args,
			},
			Cond: w.failed(fail),
			Body: &ast.BlockStmt{List: []ast.Stmt{w.propagate(fail)}},
		})
	}
}

func (w *walker) throw(c *astutil.Cursor, n *ast.ExprStmt, call *ast.CallExpr) {
	var res ast.Expr
	switch len(call.Args) {
	case 0:
		res = w.absent()
	case 1:
		if w.target.Presence {
			w.fail(diag.Errorf(diag.ThrowValueInOption(), call.Args[0].Pos(), ""))
			return
		}
		res = w.failure(call.Args[0])
	default:
		w.fail(diag.Errorf(diag.MisplacedMarker(), call.Args[1].Pos(), "throws.Throw takes at most one argument"))
		return
	}

	c.Replace(&ast.ReturnStmt{Return: n.Pos(), Results: []ast.Expr{res}})
}

func (w *walker) assign(c *astutil.Cursor, n *ast.AssignStmt) {
	if len(n.Rhs) != 1 {
		return
	}

	call, m := w.marker(n.Rhs[0])
	if m != MarkerTry {
		return
	}

	stmts, val := w.try(call, true)
	if stmts == nil {
		return
	}

	w.splice(c, stmts, &ast.AssignStmt{
		Lhs:    n.Lhs,
		TokPos: n.TokPos,
		Tok:    n.Tok,
		Rhs:    []ast.Expr{val},
	})
}

func (w *walker) decl(c *astutil.Cursor, n *ast.DeclStmt) {
	gen, ok := n.Decl.(*ast.GenDecl)
	if !ok || gen.Tok != token.VAR || len(gen.Specs) != 1 {
		return
	}

	spec, ok := gen.Specs[0].(*ast.ValueSpec)
	if !ok || len(spec.Values) != 1 {
		return
	}

	call, m := w.marker(spec.Values[0])
	if m != MarkerTry {
		return
	}

	stmts, val := w.try(call, true)
	if stmts == nil {
		return
	}

	spec.Values = []ast.Expr{val}
	w.splice(c, stmts, n)
}

// try expands the Try marker into a temporary assignment and a failure check. The returned expression holds
// the unwrapped value, it is nil when the value is not needed.
func (w *walker) try(call *ast.CallExpr, needValue bool) ([]ast.Stmt, ast.Expr) {
	if len(call.Args) == 0 || len(call.Args) > 2 {
		w.fail(diag.Errorf(diag.MisplacedMarker(), call.Pos(), "throws.Try takes a call returning a value and a failure"))
		return nil, nil
	}

	var (
		lhs ast.Expr = ast.NewIdent("_")
		val ast.Expr
	)
	if needValue {
		val = ast.NewIdent(w.r.opts.Names.Fresh("throwsVal"))
		lhs = val
	}
	fail := ast.NewIdent(w.r.opts.Names.Fresh(w.failName()))

	return []ast.Stmt{
		&ast.AssignStmt{
			Lhs: []ast.Expr{lhs, fail},
			Tok: token.DEFINE,
			Rhs: call.Args,
		},
		&ast.IfStmt{
			Cond: w.failed(fail),
			Body: &ast.BlockStmt{List: []ast.Stmt{w.propagate(fail)}},
		},
	}, val
}

// splice puts stmts before the current statement and replaces it with last.
func (w *walker) splice(c *astutil.Cursor, stmts []ast.Stmt, last ast.Stmt) {
	if len(stmts) > 0 && c.Index() < 0 {
		w.fail(diag.Errorf(diag.MisplacedMarker(), c.Node().Pos(), "throws.Try must be in a statement list"))
		return
	}

	for _, s := range stmts {
		c.InsertBefore(s)
	}
	c.Replace(last)
}

func (w *walker) failName() string {
	if w.target.Presence {
		return "throwsOk"
	}
	return "throwsErr"
}

// failed is the failure condition of the temporary.
func (w *walker) failed(x *ast.Ident) ast.Expr {
	if w.target.Presence {
		return &ast.UnaryExpr{Op: token.NOT, X: x}
	}

	return &ast.BinaryExpr{X: x, Op: token.NEQ, Y: zeroFailure(w.target.Error)}
}

// zeroFailure is the "no failure" value of the failure type: the zero literal of predeclared basic types, nil
// otherwise. Propagated failures are assignable to the declared failure type, so a predeclared one is exactly theirs.
func zeroFailure(typ ast.Expr) ast.Expr {
	id, ok := typ.(*ast.Ident)
	if !ok {
		return ast.NewIdent("nil")
	}

	switch id.Name {
	case "bool":
		return ast.NewIdent("false")
	case "string":
		return &ast.BasicLit{Kind: token.STRING, Value: `""`}
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"byte", "rune", "float32", "float64", "complex64", "complex128":
		return &ast.BasicLit{Kind: token.INT, Value: "0"}
	}

	return ast.NewIdent("nil")
}

// propagate returns the failure kept in the temporary.
func (w *walker) propagate(x *ast.Ident) ast.Stmt {
	if w.target.Presence {
		return &ast.ReturnStmt{Results: []ast.Expr{w.absent()}}
	}

	return &ast.ReturnStmt{Results: []ast.Expr{w.failure(x)}}
}

// tail ends bodies that can fall off the end.
func (w *walker) tail() ast.Stmt {
	if w.target.KeepBare {
		return &ast.ReturnStmt{}
	}

	return &ast.ReturnStmt{Results: []ast.Expr{w.successUnit()}}
}
