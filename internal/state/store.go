package state

import (
	"go.uber.org/zap"

	"github.com/jask/mmmmm/internal/stream"
)

// Store owns the current state and applies reducers serially.
type Store[T any] struct {
	current  T
	out      *stream.Stream[T]
	pending  []Reducer[T]
	applying bool
	applied  uint64
	log      *zap.Logger
}

// NewStore starts from initial, which is emitted to the first listeners.
func NewStore[T any](initial T, log *zap.Logger) *Store[T] {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store[T]{
		current: initial,
		out:     stream.NewMemorySubject[T](),
		log:     log,
	}
	s.out.Emit(initial)
	return s
}

// Source returns the state stream.
func (s *Store[T]) Source() *Source[T] {
	return NewSource(s.out)
}

// Current returns the latest state.
func (s *Store[T]) Current() T {
	return s.current
}

// Applied returns the number of reducers applied so far.
func (s *Store[T]) Applied() uint64 {
	return s.applied
}

// Dispatch applies r after every reducer that arrived before it. A reducer
// dispatched while another is being applied, for example by a listener of the
// state stream, is queued rather than nested.
func (s *Store[T]) Dispatch(r Reducer[T]) {
	if r == nil {
		return
	}
	s.pending = append(s.pending, r)
	if s.applying {
		return
	}
	s.applying = true
	defer func() { s.applying = false }()
	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending[0] = nil
		s.pending = s.pending[1:]
		s.current = next(s.current)
		s.applied++
		s.out.Emit(s.current)
	}
}

// Consume dispatches every reducer of reducers. onErr receives the failure
// that terminates the stream, if any.
func (s *Store[T]) Consume(reducers *stream.Stream[Reducer[T]], onErr func(error)) *stream.Subscription {
	return reducers.Subscribe(stream.Listener[Reducer[T]]{
		Next: s.Dispatch,
		Error: func(err error) {
			s.log.Error("reducer stream failed", zap.Error(err), zap.Uint64("applied", s.applied))
			if onErr != nil {
				onErr(err)
			}
		},
		Complete: func() {
			s.log.Warn("reducer stream completed", zap.Uint64("applied", s.applied))
		},
	})
}
