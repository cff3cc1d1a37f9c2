package astx

import (
	"go/ast"
	"go/token"
	"strings"
)

// Sel is qual.name, or just name for an empty qualifier.
func Sel(qual, name string) ast.Expr {
	if qual == "" {
		return ast.NewIdent(name)
	}

	return &ast.SelectorExpr{X: ast.NewIdent(qual), Sel: ast.NewIdent(name)}
}

// Index instantiates a generic function or type. Without type arguments it returns x unchanged.
func Index(x ast.Expr, targs ...ast.Expr) ast.Expr {
	switch len(targs) {
	case 0:
		return x
	case 1:
		return &ast.IndexExpr{X: x, Index: targs[0]}
	default:
		return &ast.IndexListExpr{X: x, Indices: targs}
	}
}

// Call is fun(args...).
func Call(fun ast.Expr, args ...ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{Fun: fun, Args: args}
}

// Unit is the struct{} type.
func Unit() ast.Expr {
	return &ast.StructType{Fields: &ast.FieldList{}}
}

// UnitValue is the struct{}{} value.
func UnitValue() ast.Expr {
	return &ast.CompositeLit{Type: Unit()}
}

// IsIdent checks if e is an identifier with the given name.
func IsIdent(e ast.Expr, name string) bool {
	id, ok := e.(*ast.Ident)
	return ok && id.Name == name
}

// Unparen drops enclosing parentheses.
func Unparen(e ast.Expr) ast.Expr {
	for {
		p, ok := e.(*ast.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

// Unindex drops generic instantiation of a function reference: f[T] -> f.
func Unindex(e ast.Expr) ast.Expr {
	switch v := e.(type) {
	case *ast.IndexExpr:
		return v.X
	case *ast.IndexListExpr:
		return v.X
	default:
		return e
	}
}

// FuncName is the name of the function node, or a description of a literal with its position.
func FuncName(fset *token.FileSet, n ast.Node) string {
	switch v := n.(type) {
	case *ast.FuncDecl:
		if v.Recv == nil || len(v.Recv.List) == 0 {
			return v.Name.Name
		}

		var b strings.Builder
		b.WriteString(recvTypeName(v.Recv.List[0].Type))
		b.WriteByte('.')
		b.WriteString(v.Name.Name)
		return b.String()

	case *ast.FuncLit:
		if fset == nil {
			return "func literal"
		}

		return "func literal at " + fset.Position(v.Pos()).String()

	default:
		return "<unknown>"
	}
}

func recvTypeName(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.StarExpr:
		return "(*" + recvTypeName(v.X) + ")"
	case *ast.IndexExpr:
		return recvTypeName(v.X)
	case *ast.IndexListExpr:
		return recvTypeName(v.X)
	case *ast.Ident:
		return v.Name
	default:
		return "?"
	}
}
