package throws

import (
	"fmt"
)

// Result is the single-value form of the error tuple. Async blocks and containers that must be a single type
// use it.
//
// The zero value is a success with the zero value of T, the same as the zero error tuple.
type Result[T, E any] struct {
	value  T
	err    E
	failed bool
}

// Fallible is a Result with the builtin error type, handy for "as Fallible" directives.
type Fallible[T any] = Result[T, error]

// NewOk creates successful result.
func NewOk[T, E any](v T) Result[T, E] {
	return Result[T, E]{value: v}
}

// NewErr creates failed result.
func NewErr[T, E any](err E) Result[T, E] {
	return Result[T, E]{err: err, failed: true}
}

// FromTuple converts an error tuple. Interface errors are failures when non-nil.
func FromTuple[T, E any](v T, err E) Result[T, E] {
	if failed(err) {
		return NewErr[T](err)
	}

	return NewOk[T, E](v)
}

// FromOk implements Succeeder.
func (r Result[T, E]) FromOk(v T) Result[T, E] {
	return NewOk[T, E](v)
}

// FromError implements Thrower.
func (r Result[T, E]) FromError(err E) Result[T, E] {
	return NewErr[T](err)
}

// Get returns the error tuple.
func (r Result[T, E]) Get() (T, E) {
	return r.value, r.err
}

func (r Result[T, E]) IsOk() bool {
	return !r.failed
}

func (r Result[T, E]) Value() T {
	return r.value
}

func (r Result[T, E]) Err() E {
	return r.err
}

// Unwrap returns the success value and panics on failures.
func (r Result[T, E]) Unwrap() T {
	if r.failed {
		panic(fmt.Sprintf("unwrap failed result: %v", r.err))
	}

	return r.value
}

func (r Result[T, E]) String() string {
	if r.failed {
		return fmt.Sprintf("Err(%v)", r.err)
	}

	return fmt.Sprintf("Ok(%v)", r.value)
}
