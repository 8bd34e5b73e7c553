// Package stream implements push streams with synchronous, ordered delivery.
//
// A value emitted on a stream reaches every current listener, and every
// stream derived from it, before Emit returns. Streams are not safe for
// concurrent use; an application drives all of its streams from one
// goroutine and funnels foreign events through a Loop.
package stream

// Listener receives the events of a stream. Nil callbacks are skipped.
type Listener[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

// Emitter is the write side of a stream, handed to producers.
type Emitter[T any] interface {
	Emit(T)
	Fail(error)
	End()
}

// Producer feeds a stream while it has at least one listener.
type Producer[T any] interface {
	Start(out Emitter[T])
	Stop()
}

type funcProducer[T any] struct {
	start func(out Emitter[T]) func()
	stop  func()
}

func (p *funcProducer[T]) Start(out Emitter[T]) { p.stop = p.start(out) }

func (p *funcProducer[T]) Stop() {
	if p.stop == nil {
		return
	}
	stop := p.stop
	p.stop = nil
	stop()
}

type entry[T any] struct {
	l      Listener[T]
	active bool
}

// Stream is a lazily started, multicast sequence of values.
type Stream[T any] struct {
	prod        Producer[T]
	entries     []*entry[T]
	running     bool
	starting    bool
	stopPending bool
	ended       bool
	err         error
	remember    bool
	has         bool
	last        T
}

// New returns a stream whose producer is start. start runs when the first
// listener subscribes and returns the function that stops it once the last
// listener leaves.
func New[T any](start func(out Emitter[T]) (stop func())) *Stream[T] {
	return &Stream[T]{prod: &funcProducer[T]{start: start}}
}

// NewSubject returns a stream without a producer; values are pushed with Emit.
func NewSubject[T any]() *Stream[T] {
	return &Stream[T]{}
}

// NewMemorySubject is NewSubject that replays its latest value to new listeners.
func NewMemorySubject[T any]() *Stream[T] {
	return &Stream[T]{remember: true}
}

// Subscribe registers l. The producer starts if l is the first listener.
func (s *Stream[T]) Subscribe(l Listener[T]) *Subscription {
	if s.ended {
		if s.err != nil {
			if l.Error != nil {
				l.Error(s.err)
			}
		} else if l.Complete != nil {
			l.Complete()
		}
		return &Subscription{}
	}
	e := &entry[T]{l: l, active: true}
	s.entries = append(s.entries, e)
	sub := &Subscription{cancel: func() { s.remove(e) }}
	if s.remember && s.has && l.Next != nil {
		l.Next(s.last)
	}
	if !s.running && s.prod != nil && e.active {
		s.running = true
		s.starting = true
		s.prod.Start(s)
		s.starting = false
		if s.stopPending {
			s.stopPending = false
			s.prod.Stop()
		}
	}
	return sub
}

// Emit delivers v to every listener in subscription order.
func (s *Stream[T]) Emit(v T) {
	if s.ended {
		return
	}
	if s.remember {
		s.last, s.has = v, true
	}
	for _, e := range s.snapshot() {
		if e.active && e.l.Next != nil {
			e.l.Next(v)
		}
	}
}

// Fail terminates the stream with err.
func (s *Stream[T]) Fail(err error) {
	if s.ended {
		return
	}
	s.ended, s.err = true, err
	entries := s.snapshot()
	s.teardown()
	for _, e := range entries {
		if !e.active {
			continue
		}
		e.active = false
		if e.l.Error != nil {
			e.l.Error(err)
		}
	}
}

// End completes the stream.
func (s *Stream[T]) End() {
	if s.ended {
		return
	}
	s.ended = true
	entries := s.snapshot()
	s.teardown()
	for _, e := range entries {
		if !e.active {
			continue
		}
		e.active = false
		if e.l.Complete != nil {
			e.l.Complete()
		}
	}
}

// Ended reports whether the stream completed or failed.
func (s *Stream[T]) Ended() bool { return s.ended }

// Err returns the failure that terminated the stream, if any.
func (s *Stream[T]) Err() error { return s.err }

// Listeners returns the number of active listeners.
func (s *Stream[T]) Listeners() int { return len(s.entries) }

// Running reports whether the producer is started.
func (s *Stream[T]) Running() bool { return s.running }

func (s *Stream[T]) snapshot() []*entry[T] {
	out := make([]*entry[T], len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Stream[T]) remove(e *entry[T]) {
	if !e.active {
		return
	}
	e.active = false
	for i, x := range s.entries {
		if x == e {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			break
		}
	}
	if len(s.entries) == 0 && s.running {
		s.stopProducer()
	}
}

func (s *Stream[T]) teardown() {
	s.entries = nil
	if s.running {
		s.stopProducer()
	}
}

func (s *Stream[T]) stopProducer() {
	s.running = false
	if s.prod == nil {
		return
	}
	// a restarted producer emits a fresh value
	var zero T
	s.last, s.has = zero, false
	if s.starting {
		s.stopPending = true
		return
	}
	s.prod.Stop()
}

// Subscription detaches a listener.
type Subscription struct {
	cancel func()
}

// Unsubscribe removes the listener. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.cancel == nil {
		return
	}
	cancel := s.cancel
	s.cancel = nil
	cancel()
}

// Bag collects subscriptions that share a lifetime.
type Bag struct {
	subs []*Subscription
}

// Add keeps sub until Release.
func (b *Bag) Add(sub *Subscription) {
	b.subs = append(b.subs, sub)
}

// Release unsubscribes everything in reverse order of registration.
func (b *Bag) Release() {
	for i := len(b.subs) - 1; i >= 0; i-- {
		b.subs[i].Unsubscribe()
	}
	b.subs = nil
}

// Len returns the number of held subscriptions.
func (b *Bag) Len() int { return len(b.subs) }
