package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/mmmmm/internal/nav"
	"github.com/jask/mmmmm/internal/stream"
)

type EventKind string

const (
	KeyPress  EventKind = "key"
	DidAppear EventKind = "didAppear"
)

// Event is a view-system event addressed to one screen.
type Event struct {
	Screen nav.ScreenID
	Kind   EventKind
	Key    tea.KeyMsg
	Props  nav.Props
}

// Source delivers view-system events to scenes.
type Source struct {
	events *stream.Stream[Event]
}

func NewSource() *Source {
	return &Source{events: stream.NewSubject[Event]()}
}

// Emit pushes e to every scene listening on e.Screen.
func (s *Source) Emit(e Event) {
	s.events.Emit(e)
}

// Events returns every event addressed to screen.
func (s *Source) Events(screen nav.ScreenID) *stream.Stream[Event] {
	return s.events.Filter(func(e Event) bool { return e.Screen == screen })
}

// Keys returns key presses made while screen is on top.
func (s *Source) Keys(screen nav.ScreenID) *stream.Stream[tea.KeyMsg] {
	keys := s.Events(screen).Filter(func(e Event) bool { return e.Kind == KeyPress })
	return stream.Map(keys, func(e Event) tea.KeyMsg { return e.Key })
}

// Appear emits the props screen was presented with each time it becomes visible.
func (s *Source) Appear(screen nav.ScreenID) *stream.Stream[nav.Props] {
	appear := s.Events(screen).Filter(func(e Event) bool { return e.Kind == DidAppear })
	return stream.Map(appear, func(e Event) nav.Props { return e.Props })
}

// Listeners returns the number of scenes subscribed to the source.
func (s *Source) Listeners() int {
	return s.events.Listeners()
}
