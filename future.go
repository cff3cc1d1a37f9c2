package throws

import (
	"context"
)

// Future is the handle of an Async block.
type Future[T any] struct {
	done  chan struct{}
	value T
	panic any
}

// Async runs fn in its own goroutine. Wrapped into Expr, ExprAs or TryExpr, fn becomes a fallible
// async block and its result a Result or Option.
func Async[T any](fn func() T) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			f.panic = recover()
		}()

		f.value = fn()
	}()

	return f
}

// Done is closed once the block has finished.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the block finishes. A panic of the block is re-raised here.
func (f *Future[T]) Await() T {
	<-f.done
	if f.panic != nil {
		panic(f.panic)
	}

	return f.value
}

// AwaitContext is Await that gives up when ctx is done.
func (f *Future[T]) AwaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.Await(), nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Poll returns the result without blocking.
func (f *Future[T]) Poll() (T, bool) {
	select {
	case <-f.done:
		return f.Await(), true
	default:
		var zero T
		return zero, false
	}
}
