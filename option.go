package throws

import (
	"fmt"
)

// Option is the single-value form of the comma-ok tuple. The zero value is absence.
type Option[T any] struct {
	value   T
	present bool
}

// Maybe is an alias to use with "as option Maybe" directives.
type Maybe[T any] = Option[T]

func NewSome[T any](v T) Option[T] {
	return Option[T]{value: v, present: true}
}

func NewNone[T any]() Option[T] {
	return Option[T]{}
}

// FromOk implements Succeeder.
func (o Option[T]) FromOk(v T) Option[T] {
	return NewSome(v)
}

// Get returns the comma-ok tuple.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Option[T]) IsSome() bool {
	return o.present
}

func (o Option[T]) Value() T {
	return o.value
}

// Unwrap returns the value and panics on absence.
func (o Option[T]) Unwrap() T {
	if !o.present {
		panic("unwrap absent option")
	}

	return o.value
}

func (o Option[T]) String() string {
	if !o.present {
		return "None"
	}

	return fmt.Sprintf("Some(%v)", o.value)
}
