// Package state holds application state behind reducers.
//
// State is never mutated in place. Every change is a Reducer applied by a
// Store, which is the only writer and applies reducers one at a time in
// arrival order.
package state

import "github.com/jask/mmmmm/internal/stream"

// Reducer returns the next state from the previous one.
type Reducer[T any] func(prev T) T

// Lens focuses a parent state P on one of its slices C.
type Lens[P, C any] struct {
	Get func(P) C
	Set func(P, C) P
}

// Lift turns a reducer over the slice into a reducer over the parent. Every
// other field of the parent is carried over by value.
func Lift[P, C any](l Lens[P, C], r Reducer[C]) Reducer[P] {
	return func(prev P) P {
		return l.Set(prev, r(l.Get(prev)))
	}
}

// Source exposes the current value of a state as a stream. New listeners
// receive the current value immediately.
type Source[T any] struct {
	stream *stream.Stream[T]
}

// NewSource wraps a stream that replays its latest value.
func NewSource[T any](s *stream.Stream[T]) *Source[T] {
	return &Source[T]{stream: s}
}

// Stream returns the state stream.
func (s *Source[T]) Stream() *stream.Stream[T] {
	return s.stream
}

// Select narrows src to the slice seen through l.
func Select[P, C any](src *Source[P], l Lens[P, C]) *Source[C] {
	return &Source[C]{stream: stream.Map(src.stream, l.Get).Remember()}
}
