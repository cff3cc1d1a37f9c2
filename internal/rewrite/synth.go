package rewrite

import (
	"go/ast"

	"github.com/sirkon/throws/internal/args"
	"github.com/sirkon/throws/internal/astx"
)

func (w *walker) rt(name string) ast.Expr {
	return astx.Sel(w.r.opts.Runtime, name)
}

// zeroMethod is throws.Zero[C]().<name> of the container type.
func (w *walker) zeroMethod(name string) ast.Expr {
	return &ast.SelectorExpr{
		X:   astx.Call(astx.Index(w.rt("Zero"), astx.Clone(w.target.Container))),
		Sel: ast.NewIdent(name),
	}
}

// success wraps a success value.
func (w *walker) success(v ast.Expr) ast.Expr {
	t := w.target

	switch t.Family {
	case args.FamilyResult:
		return astx.Call(astx.Index(w.rt("Ok"), astx.Clone(t.Error), astx.Clone(t.Value)), v)

	case args.FamilyOption:
		return astx.Call(astx.Index(w.rt("Some"), astx.Clone(t.Value)), v)

	default:
		return astx.Call(w.zeroMethod("FromOk"), v)
	}
}

// successUnit is the success without a value.
func (w *walker) successUnit() ast.Expr {
	t := w.target

	switch t.Family {
	case args.FamilyResult:
		return astx.Call(astx.Index(w.rt("Done"), astx.Clone(t.Error)))
	case args.FamilyOption:
		return ast.NewIdent("true")
	default:
		return astx.Call(w.zeroMethod("FromOk"), astx.UnitValue())
	}
}

// failure wraps a failure value.
func (w *walker) failure(e ast.Expr) ast.Expr {
	t := w.target

	switch t.Family {
	case args.FamilyResult:
		if t.Unit() {
			return astx.Call(astx.Index(w.rt("Fail"), astx.Clone(t.Error)), e)
		}
		return astx.Call(astx.Index(w.rt("Err"), astx.Clone(t.Value), astx.Clone(t.Error)), e)
	case args.FamilyOption:
		return w.absent()
	default:
		return astx.Call(w.zeroMethod("FromError"), e)
	}
}

// absent is the default value of the exit type: absence for presence containers, the zero value otherwise.
func (w *walker) absent() ast.Expr {
	t := w.target

	switch t.Family {
	case args.FamilyResult:
		if t.Unit() {
			return astx.Call(astx.Index(w.rt("Zero"), astx.Clone(t.Error)))
		}
		return astx.Call(astx.Index(w.rt("Default"), astx.Clone(t.Value), astx.Clone(t.Error)))
	case args.FamilyOption:
		if t.Unit() {
			return ast.NewIdent("false")
		}
		return astx.Call(astx.Index(w.rt("None"), astx.Clone(t.Value)))
	default:
		return astx.Call(astx.Index(w.rt("Zero"), astx.Clone(t.Container)))
	}
}
