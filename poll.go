package throws

// Poll is the state of a pending computation producing a Result. Failures are always ready.
type Poll[T, E any] struct {
	ready  bool
	result Result[T, E]
}

// Ready wraps a finished result.
func Ready[T, E any](r Result[T, E]) Poll[T, E] {
	return Poll[T, E]{ready: true, result: r}
}

// Pending is a computation still in progress.
func Pending[T, E any]() Poll[T, E] {
	return Poll[T, E]{}
}

// FromOk implements Succeeder.
func (p Poll[T, E]) FromOk(v T) Poll[T, E] {
	return Ready(NewOk[T, E](v))
}

// FromError implements Thrower.
func (p Poll[T, E]) FromError(err E) Poll[T, E] {
	return Ready(NewErr[T](err))
}

func (p Poll[T, E]) IsReady() bool {
	return p.ready
}

// Result returns the result and whether it is ready.
func (p Poll[T, E]) Result() (Result[T, E], bool) {
	return p.result, p.ready
}

// StreamPoll is the state of a stream: pending, finished, or ready with the next item.
// Failures are a ready item carrying the error.
type StreamPoll[T, E any] struct {
	ready bool
	item  Option[Result[T, E]]
}

// ReadyItem wraps the next item of the stream.
func ReadyItem[T, E any](r Result[T, E]) StreamPoll[T, E] {
	return StreamPoll[T, E]{ready: true, item: NewSome(r)}
}

// Finished is a ready stream without more items.
func Finished[T, E any]() StreamPoll[T, E] {
	return StreamPoll[T, E]{ready: true}
}

// FromOk implements Succeeder.
func (p StreamPoll[T, E]) FromOk(v T) StreamPoll[T, E] {
	return ReadyItem(NewOk[T, E](v))
}

// FromError implements Thrower.
func (p StreamPoll[T, E]) FromError(err E) StreamPoll[T, E] {
	return ReadyItem(NewErr[T](err))
}

func (p StreamPoll[T, E]) IsReady() bool {
	return p.ready
}

// Item returns the next item. The second value is false for pending and finished streams.
func (p StreamPoll[T, E]) Item() (Result[T, E], bool) {
	if !p.ready {
		return Result[T, E]{}, false
	}

	return p.item.Get()
}
