package rewrite

import (
	"fmt"
	"go/ast"
	"go/token"
)

type shapeKind int

const (
	shapeInvalid shapeKind = iota
	shapeFunc
	shapeMethod
	shapeInterfaceMethod
	shapeClosure
	shapeAsync
)

func (k shapeKind) String() string {
	switch k {
	case shapeFunc:
		return "function"
	case shapeMethod:
		return "method"
	case shapeInterfaceMethod:
		return "interface method"
	case shapeClosure:
		return "closure"
	case shapeAsync:
		return "async block"
	default:
		return fmt.Sprintf("shape-unknown(%d)", k)
	}
}

// shape is a function-like node the rewriter can target.
type shape interface {
	kind() shapeKind
	node() ast.Node
	pos() token.Pos
	signature() *ast.FuncType

	// body is nil for signature only shapes.
	body() *ast.BlockStmt
	setBody(b *ast.BlockStmt)
}

// Entry shapes are tried in this order, the first match wins.
var shapeParsers = []func(r *Rewriter, n ast.Node) (shape, bool){
	parseFunc,
	parseMethod,
	parseInterfaceMethod,
	parseClosure,
	parseAsync,
}

func (r *Rewriter) shapeOf(n ast.Node) (shape, bool) {
	for _, parse := range shapeParsers {
		if s, ok := parse(r, n); ok {
			return s, true
		}
	}

	return nil, false
}

type declShape struct {
	decl *ast.FuncDecl
	k    shapeKind
}

func parseFunc(_ *Rewriter, n ast.Node) (shape, bool) {
	decl, ok := n.(*ast.FuncDecl)
	if !ok || decl.Recv != nil {
		return nil, false
	}

	return &declShape{decl: decl, k: shapeFunc}, true
}

func parseMethod(_ *Rewriter, n ast.Node) (shape, bool) {
	decl, ok := n.(*ast.FuncDecl)
	if !ok || decl.Recv == nil {
		return nil, false
	}

	return &declShape{decl: decl, k: shapeMethod}, true
}

func (s *declShape) kind() shapeKind          { return s.k }
func (s *declShape) node() ast.Node           { return s.decl }
func (s *declShape) pos() token.Pos           { return s.decl.Pos() }
func (s *declShape) signature() *ast.FuncType { return s.decl.Type }
func (s *declShape) body() *ast.BlockStmt     { return s.decl.Body }
func (s *declShape) setBody(b *ast.BlockStmt) { s.decl.Body = b }

type interfaceMethodShape struct {
	field *ast.Field
}

func parseInterfaceMethod(_ *Rewriter, n ast.Node) (shape, bool) {
	field, ok := n.(*ast.Field)
	if !ok || len(field.Names) != 1 {
		return nil, false
	}
	if _, ok := field.Type.(*ast.FuncType); !ok {
		return nil, false
	}

	return &interfaceMethodShape{field: field}, true
}

func (s *interfaceMethodShape) kind() shapeKind          { return shapeInterfaceMethod }
func (s *interfaceMethodShape) node() ast.Node           { return s.field }
func (s *interfaceMethodShape) pos() token.Pos           { return s.field.Pos() }
func (s *interfaceMethodShape) signature() *ast.FuncType { return s.field.Type.(*ast.FuncType) }
func (s *interfaceMethodShape) body() *ast.BlockStmt     { return nil }
func (s *interfaceMethodShape) setBody(*ast.BlockStmt)   {}

type closureShape struct {
	lit *ast.FuncLit
}

func parseClosure(_ *Rewriter, n ast.Node) (shape, bool) {
	lit, ok := n.(*ast.FuncLit)
	if !ok {
		return nil, false
	}

	return &closureShape{lit: lit}, true
}

func (s *closureShape) kind() shapeKind          { return shapeClosure }
func (s *closureShape) node() ast.Node           { return s.lit }
func (s *closureShape) pos() token.Pos           { return s.lit.Pos() }
func (s *closureShape) signature() *ast.FuncType { return s.lit.Type }
func (s *closureShape) body() *ast.BlockStmt     { return s.lit.Body }
func (s *closureShape) setBody(b *ast.BlockStmt) { s.lit.Body = b }

// asyncShape is throws.Async(func() T {...}). Its output is the result of the function literal.
type asyncShape struct {
	call *ast.CallExpr
	lit  *ast.FuncLit
}

func parseAsync(r *Rewriter, n ast.Node) (shape, bool) {
	call, ok := n.(*ast.CallExpr)
	if !ok || MarkerOf(r.opts.Runtime, call) != MarkerAsync || len(call.Args) != 1 {
		return nil, false
	}

	lit, ok := call.Args[0].(*ast.FuncLit)
	if !ok || lit.Type.Params.NumFields() != 0 {
		return nil, false
	}

	return &asyncShape{call: call, lit: lit}, true
}

func (s *asyncShape) kind() shapeKind          { return shapeAsync }
func (s *asyncShape) node() ast.Node           { return s.call }
func (s *asyncShape) pos() token.Pos           { return s.call.Pos() }
func (s *asyncShape) signature() *ast.FuncType { return s.lit.Type }
func (s *asyncShape) body() *ast.BlockStmt     { return s.lit.Body }
func (s *asyncShape) setBody(b *ast.BlockStmt) { s.lit.Body = b }
