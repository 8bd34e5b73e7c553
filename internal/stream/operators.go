package stream

func forward[T any](out Emitter[T]) Listener[T] {
	return Listener[T]{Next: out.Emit, Error: out.Fail, Complete: out.End}
}

// Map applies f to every value of in.
func Map[T, U any](in *Stream[T], f func(T) U) *Stream[U] {
	return New(func(out Emitter[U]) func() {
		sub := in.Subscribe(Listener[T]{
			Next:     func(v T) { out.Emit(f(v)) },
			Error:    out.Fail,
			Complete: out.End,
		})
		return sub.Unsubscribe
	})
}

// Merge interleaves the values of ins in arrival order. It fails as soon as
// one input fails and completes once every input completed.
func Merge[T any](ins ...*Stream[T]) *Stream[T] {
	return New(func(out Emitter[T]) func() {
		remaining := len(ins)
		if remaining == 0 {
			out.End()
			return nil
		}
		subs := make([]*Subscription, 0, len(ins))
		for _, in := range ins {
			subs = append(subs, in.Subscribe(Listener[T]{
				Next:  out.Emit,
				Error: out.Fail,
				Complete: func() {
					remaining--
					if remaining == 0 {
						out.End()
					}
				},
			}))
		}
		return func() {
			for _, sub := range subs {
				sub.Unsubscribe()
			}
		}
	})
}

// WithLatest combines every value of trigger with the latest value of
// latest. Trigger values that arrive before latest has emitted are dropped.
// The result ends with trigger.
func WithLatest[T, U, R any](trigger *Stream[T], latest *Stream[U], combine func(T, U) R) *Stream[R] {
	return New(func(out Emitter[R]) func() {
		var (
			last U
			has  bool
		)
		ls := latest.Subscribe(Listener[U]{
			Next:  func(v U) { last, has = v, true },
			Error: out.Fail,
		})
		ts := trigger.Subscribe(Listener[T]{
			Next: func(v T) {
				if has {
					out.Emit(combine(v, last))
				}
			},
			Error:    out.Fail,
			Complete: out.End,
		})
		return func() {
			ts.Unsubscribe()
			ls.Unsubscribe()
		}
	})
}

// Of emits vs and completes.
func Of[T any](vs ...T) *Stream[T] {
	return New(func(out Emitter[T]) func() {
		for _, v := range vs {
			out.Emit(v)
		}
		out.End()
		return nil
	})
}

// Never returns a stream that neither emits nor ends.
func Never[T any]() *Stream[T] {
	return New(func(Emitter[T]) func() { return nil })
}

// Filter keeps the values for which keep returns true.
func (s *Stream[T]) Filter(keep func(T) bool) *Stream[T] {
	return New(func(out Emitter[T]) func() {
		sub := s.Subscribe(Listener[T]{
			Next: func(v T) {
				if keep(v) {
					out.Emit(v)
				}
			},
			Error:    out.Fail,
			Complete: out.End,
		})
		return sub.Unsubscribe
	})
}

// Remember returns a stream that replays the latest value of s to late listeners.
func (s *Stream[T]) Remember() *Stream[T] {
	r := New(func(out Emitter[T]) func() {
		return s.Subscribe(forward(out)).Unsubscribe
	})
	r.remember = true
	return r
}

// Debug calls spy for every value without altering the stream.
func (s *Stream[T]) Debug(spy func(T)) *Stream[T] {
	return New(func(out Emitter[T]) func() {
		sub := s.Subscribe(Listener[T]{
			Next: func(v T) {
				spy(v)
				out.Emit(v)
			},
			Error:    out.Fail,
			Complete: out.End,
		})
		return sub.Unsubscribe
	})
}

// OnEnd replaces completion of s with the failure returned by fail.
func (s *Stream[T]) OnEnd(fail func() error) *Stream[T] {
	return New(func(out Emitter[T]) func() {
		sub := s.Subscribe(Listener[T]{
			Next:     out.Emit,
			Error:    out.Fail,
			Complete: func() { out.Fail(fail()) },
		})
		return sub.Unsubscribe
	})
}

// Compose applies an operator written as a function of streams.
func (s *Stream[T]) Compose(op func(*Stream[T]) *Stream[T]) *Stream[T] {
	return op(s)
}
