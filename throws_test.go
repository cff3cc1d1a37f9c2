package throws_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sirkon/throws"
)

func TestTupleConstructors(t *testing.T) {
	v, err := throws.Ok[error](12)
	require.Equal(t, 12, v)
	require.NoError(t, err)

	s, err := throws.Err[string](io.EOF)
	require.Empty(t, s)
	require.ErrorIs(t, err, io.EOF)

	require.NoError(t, throws.Done[error]())
	require.ErrorIs(t, throws.Fail[error](io.EOF), io.EOF)

	n, ok := throws.Some(3)
	require.True(t, ok)
	require.Equal(t, 3, n)

	_, ok = throws.None[int]()
	require.False(t, ok)
}

func TestDefaultLooksLikeSuccess(t *testing.T) {
	// Throw() without arguments in an error tuple scope.
	v, err := throws.Default[int, error]()
	require.Zero(t, v)
	require.NoError(t, err)

	r := throws.Zero[throws.Result[int, error]]()
	require.True(t, r.IsOk())

	o := throws.Zero[throws.Option[int]]()
	require.False(t, o.IsSome())
}

func TestContainers(t *testing.T) {
	var (
		_ throws.Succeeder[throws.Result[int, error], int]       = throws.Result[int, error]{}
		_ throws.Thrower[throws.Result[int, error], error]       = throws.Result[int, error]{}
		_ throws.Succeeder[throws.Option[string], string]        = throws.Option[string]{}
		_ throws.Succeeder[throws.Poll[int, error], int]         = throws.Poll[int, error]{}
		_ throws.Thrower[throws.Poll[int, error], error]         = throws.Poll[int, error]{}
		_ throws.Succeeder[throws.StreamPoll[int, error], int]   = throws.StreamPoll[int, error]{}
		_ throws.Thrower[throws.StreamPoll[int, error], error]   = throws.StreamPoll[int, error]{}
		_ throws.Succeeder[throws.Fallible[struct{}], struct{}]  = throws.Fallible[struct{}]{}
		_ throws.Succeeder[throws.Maybe[[]byte], []byte]         = throws.Maybe[[]byte]{}
	)

	t.Run("result", func(t *testing.T) {
		r := throws.Zero[throws.Fallible[int]]().FromOk(5)
		require.True(t, r.IsOk())
		require.Equal(t, 5, r.Unwrap())
		require.Equal(t, "Ok(5)", r.String())

		r = throws.Zero[throws.Fallible[int]]().FromError(io.EOF)
		require.False(t, r.IsOk())
		require.ErrorIs(t, r.Err(), io.EOF)
		require.Panics(t, func() { r.Unwrap() })

		v, err := throws.FromTuple(7, error(nil)).Get()
		require.Equal(t, 7, v)
		require.NoError(t, err)
	})

	t.Run("option", func(t *testing.T) {
		o := throws.Zero[throws.Option[string]]().FromOk("x")
		v, ok := o.Get()
		require.True(t, ok)
		require.Equal(t, "x", v)
		require.Equal(t, "None", throws.NewNone[int]().String())
	})

	t.Run("poll", func(t *testing.T) {
		p := throws.Zero[throws.Poll[int, error]]()
		require.False(t, p.IsReady())

		p = p.FromError(io.EOF)
		r, ready := p.Result()
		require.True(t, ready)
		require.ErrorIs(t, r.Err(), io.EOF)
	})

	t.Run("stream poll", func(t *testing.T) {
		p := throws.Zero[throws.StreamPoll[int, error]]().FromError(io.EOF)
		item, ok := p.Item()
		require.True(t, ok)
		require.ErrorIs(t, item.Err(), io.EOF)

		_, ok = throws.Finished[int, error]().Item()
		require.False(t, ok)
		require.True(t, throws.Finished[int, error]().IsReady())
	})
}

func TestUnexpandedMarkers(t *testing.T) {
	require.PanicsWithError(t, "throws.Throw called outside a rewritten function: EOF", func() {
		throws.Throw(io.EOF)
	})
	require.PanicsWithError(t, "throws.Throw called outside a rewritten function", func() {
		throws.Throw()
	})

	require.Equal(t, 3, throws.Try(3, error(nil)))
	require.Equal(t, 3, throws.Try(3, true))
	require.Panics(t, func() { throws.Try(0, false) })
	require.Panics(t, func() { throws.Check(errors.New("boom")) })
	require.NotPanics(t, func() { throws.Check(error(nil)) })

	fn := func() int { return 1 }
	require.Equal(t, 1, throws.Expr(fn)())
	require.Equal(t, 1, throws.ExprAs("as Option", fn)())
	require.Equal(t, 1, throws.TryExpr(fn)())
}

func TestFuture(t *testing.T) {
	release := make(chan struct{})
	f := throws.Async(func() throws.Fallible[int] {
		<-release
		return throws.NewOk[int, error](42)
	})

	_, ready := f.Poll()
	require.False(t, ready)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.AwaitContext(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.Equal(t, 42, f.Await().Unwrap())

	<-f.Done()
	r, ready := f.Poll()
	require.True(t, ready)
	require.True(t, r.IsOk())

	boom := throws.Async(func() int { panic("boom") })
	require.PanicsWithValue(t, "boom", func() { boom.Await() })
}
