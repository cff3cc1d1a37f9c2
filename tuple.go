package throws

// Succeeder builds a container of type C out of a success value.
type Succeeder[C, T any] interface {
	FromOk(v T) C
}

// Thrower builds a container of type C out of a failure.
type Thrower[C, E any] interface {
	FromError(err E) C
}

// Ok is the success of an error tuple. The error type comes first, so the success type can be inferred.
func Ok[E, T any](v T) (T, E) {
	var err E
	return v, err
}

// Err is the failure of an error tuple.
func Err[T, E any](err E) (T, E) {
	var v T
	return v, err
}

// Done is the success of an error-only result.
func Done[E any]() E {
	var err E
	return err
}

// Fail is the failure of an error-only result.
func Fail[E any](err E) E {
	return err
}

// Default is the default value of an error tuple, what Throw() without arguments produces.
//
// Note it is indistinguishable from success for interface error types.
func Default[T, E any]() (T, E) {
	var (
		v   T
		err E
	)
	return v, err
}

// Some is the presence of a comma-ok tuple.
func Some[T any](v T) (T, bool) {
	return v, true
}

// None is the absence of a comma-ok tuple.
func None[T any]() (T, bool) {
	var v T
	return v, false
}

// Zero returns the zero value of C. Generated code uses it as the receiver of FromOk and FromError.
func Zero[C any]() C {
	var c C
	return c
}
