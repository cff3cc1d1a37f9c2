package rewrite

import (
	"fmt"
	"go/ast"

	"github.com/sirkon/throws/internal/astx"
)

// Marker is a runtime package function the generator treats specially.
type Marker int

const (
	MarkerNone Marker = iota

	// MarkerThrow is throws.Throw: early exit with a failure.
	MarkerThrow

	// MarkerTry is throws.Try: unwrap or propagate.
	MarkerTry

	// MarkerCheck is throws.Check: propagate a failure of a call without a value.
	MarkerCheck

	// MarkerExpr is throws.Expr: a fallible closure or async block with the bare Error type.
	MarkerExpr

	// MarkerExprAs is throws.ExprAs: a fallible closure or async block with arguments.
	MarkerExprAs

	// MarkerTryExpr is throws.TryExpr: propagation form of a closure or async block.
	MarkerTryExpr

	// MarkerAsync is throws.Async: an async block.
	MarkerAsync
)

var markerValueMap = map[Marker]string{
	MarkerThrow:   "Throw",
	MarkerTry:     "Try",
	MarkerCheck:   "Check",
	MarkerExpr:    "Expr",
	MarkerExprAs:  "ExprAs",
	MarkerTryExpr: "TryExpr",
	MarkerAsync:   "Async",
}

func (m Marker) String() string {
	v, ok := markerValueMap[m]
	if !ok {
		return fmt.Sprintf("invalid(%d)", m)
	}

	return v
}

// UnmarshalText for setting values with configs, CLI, etc.
func (m *Marker) UnmarshalText(rawtext []byte) error {
	text := string(rawtext)
	for k, v := range markerValueMap {
		if v == text {
			*m = k
			return nil
		}
	}

	return fmt.Errorf("unknown marker %q", text)
}

// Markers lists all markers.
func Markers() []Marker {
	return []Marker{
		MarkerThrow,
		MarkerTry,
		MarkerCheck,
		MarkerExpr,
		MarkerExprAs,
		MarkerTryExpr,
		MarkerAsync,
	}
}

// IsPropagation checks if the marker is an exit point of the enclosing function.
func (m Marker) IsPropagation() bool {
	switch m {
	case MarkerThrow, MarkerTry, MarkerCheck:
		return true
	default:
		return false
	}
}

// IsExpression checks if the marker introduces a fallible closure or async block.
func (m Marker) IsExpression() bool {
	switch m {
	case MarkerExpr, MarkerExprAs, MarkerTryExpr:
		return true
	default:
		return false
	}
}

// MarkerOf recognizes calls of the runtime package referenced with the given qualifier.
// An empty qualifier stands for a dot import.
func MarkerOf(runtime string, call *ast.CallExpr) Marker {
	var name string
	switch fun := astx.Unindex(astx.Unparen(call.Fun)).(type) {
	case *ast.SelectorExpr:
		if runtime == "" || !astx.IsIdent(fun.X, runtime) {
			return MarkerNone
		}
		name = fun.Sel.Name

	case *ast.Ident:
		if runtime != "" {
			return MarkerNone
		}
		name = fun.Name

	default:
		return MarkerNone
	}

	var m Marker
	if err := m.UnmarshalText([]byte(name)); err != nil {
		return MarkerNone
	}

	return m
}
