package throws

func Throw(err ...any) {}

func Try[T, E any](v T, err E) T { return v }

func Check[E any](err E) {}

func Expr[F any](fn F) F { return fn }

func ExprAs[F any](args string, fn F) F { return fn }

func TryExpr[F any](fn F) F { return fn }

type Future[T any] struct {
	v T
}

func Async[T any](fn func() T) *Future[T] { return &Future[T]{v: fn()} }

type Option[T any] struct {
	v  T
	ok bool
}

func (o Option[T]) FromOk(v T) Option[T] { return Option[T]{v: v, ok: true} }
