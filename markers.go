package throws

import (
	"fmt"
)

// UnexpandedError is the panic value of markers that reached the runtime without being rewritten.
type UnexpandedError struct {
	Marker string
	Value  any
}

func (e *UnexpandedError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("throws.%s called outside a rewritten function", e.Marker)
	}

	return fmt.Sprintf("throws.%s called outside a rewritten function: %v", e.Marker, e.Value)
}

// Throw ends the enclosing fallible function with the given error. Without arguments it ends the function
// with the default value of its result container: the zero error for error tuples, absence for options.
//
// It is a statement marker. The generator replaces it with a return.
func Throw(err ...any) {
	var v any
	if len(err) > 0 {
		v = err[0]
	}

	panic(&UnexpandedError{Marker: "Throw", Value: v})
}

// Try unwraps a (value, error) or (value, ok) pair. A failure ends the enclosing fallible function
// with that failure.
//
// It is a statement marker: allowed as the right side of an assignment, as an expression statement and as the
// single result of a return.
func Try[T, E any](v T, err E) T {
	if failed(err) {
		panic(&UnexpandedError{Marker: "Try", Value: err})
	}

	return v
}

// Check is Try for calls without a success value.
func Check[E any](err E) {
	if failed(err) {
		panic(&UnexpandedError{Marker: "Check", Value: err})
	}
}

// Expr marks a closure or an Async block as fallible with the bare Error type.
func Expr[F any](fn F) F {
	return fn
}

// ExprAs marks a closure or an Async block as fallible. args is a string literal using the directive grammar.
func ExprAs[F any](args string, fn F) F {
	return fn
}

// TryExpr marks a closure or an Async block whose result already is a container.
func TryExpr[F any](fn F) F {
	return fn
}

func failed(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return !x
	default:
		return true
	}
}
