// Package scene defines the contract every screen module satisfies and the
// isolation that scopes a module to its own slice of application state.
package scene

import (
	"errors"
	"fmt"

	"github.com/jask/mmmmm/internal/nav"
	"github.com/jask/mmmmm/internal/ssb"
	"github.com/jask/mmmmm/internal/state"
	"github.com/jask/mmmmm/internal/stream"
	"github.com/jask/mmmmm/internal/view"
)

var (
	ErrDuplicateSliceKey = errors.New("duplicate slice key")
	ErrMissingSink       = errors.New("missing sink")
	ErrSceneEnded        = errors.New("scene sink ended")
)

// Sources are the inputs of a scene over state S.
type Sources[S any] struct {
	Screen  *view.Source
	State   *state.Source[S]
	Network *ssb.Source
}

// Sinks are the four outputs of a scene over state S. None of them may end
// while the application runs.
type Sinks[S any] struct {
	Screen     *stream.Stream[view.VNode]
	NavCommand *stream.Stream[nav.Command]
	Reducer    *stream.Stream[state.Reducer[S]]
	Network    *stream.Stream[ssb.Content]
}

func (s Sinks[S]) validate() error {
	switch {
	case s.Screen == nil:
		return fmt.Errorf("screen: %w", ErrMissingSink)
	case s.NavCommand == nil:
		return fmt.Errorf("navCommand: %w", ErrMissingSink)
	case s.Reducer == nil:
		return fmt.Errorf("reducer: %w", ErrMissingSink)
	case s.Network == nil:
		return fmt.Errorf("network: %w", ErrMissingSink)
	}
	return nil
}

// Scene is a pure function from sources to sinks.
type Scene[S any] func(Sources[S]) Sinks[S]

// Isolated is a scene lifted onto the parent state P under a slice key.
type Isolated[P any] struct {
	Key string
	run func(Sources[P]) (Sinks[P], error)
}

// Isolate scopes sc to the slice of P focused by lens. The scene reads only
// that slice and every reducer it emits is rewritten to replace only that
// slice. Screen, navigation and network streams pass through, except that a
// sink which ends fails with ErrSceneEnded.
func Isolate[P, S any](sc Scene[S], key string, lens state.Lens[P, S]) Isolated[P] {
	return Isolated[P]{
		Key: key,
		run: func(src Sources[P]) (Sinks[P], error) {
			sinks := sc(Sources[S]{
				Screen:  src.Screen,
				State:   state.Select(src.State, lens),
				Network: src.Network,
			})
			if err := sinks.validate(); err != nil {
				return Sinks[P]{}, fmt.Errorf("scene %q: %w", key, err)
			}
			lift := func(r state.Reducer[S]) state.Reducer[P] {
				if r == nil {
					return nil
				}
				return state.Lift(lens, r)
			}
			return Sinks[P]{
				Screen:     guard(sinks.Screen, key, "screen"),
				NavCommand: guard(sinks.NavCommand, key, "navCommand"),
				Reducer:    guard(stream.Map(sinks.Reducer, lift), key, "reducer"),
				Network:    guard(sinks.Network, key, "network"),
			}, nil
		},
	}
}

func guard[T any](s *stream.Stream[T], key, sink string) *stream.Stream[T] {
	return s.OnEnd(func() error {
		return fmt.Errorf("scene %q %s: %w", key, sink, ErrSceneEnded)
	})
}

// Instantiate runs every scene with sources. Slice keys must be unique and
// every scene must return all four sinks.
func Instantiate[P any](sources Sources[P], scenes ...Isolated[P]) ([]Sinks[P], error) {
	seen := make(map[string]bool, len(scenes))
	for _, sc := range scenes {
		if sc.Key == "" || sc.run == nil {
			return nil, fmt.Errorf("scene %q: %w", sc.Key, ErrMissingSink)
		}
		if seen[sc.Key] {
			return nil, fmt.Errorf("scene %q: %w", sc.Key, ErrDuplicateSliceKey)
		}
		seen[sc.Key] = true
	}
	out := make([]Sinks[P], 0, len(scenes))
	for _, sc := range scenes {
		sinks, err := sc.run(sources)
		if err != nil {
			return nil, err
		}
		out = append(out, sinks)
	}
	return out, nil
}

// MergeSinks fans the sinks of several scenes into one bundle, stream by stream.
func MergeSinks[P any](all []Sinks[P]) Sinks[P] {
	screens := make([]*stream.Stream[view.VNode], 0, len(all))
	navs := make([]*stream.Stream[nav.Command], 0, len(all))
	reducers := make([]*stream.Stream[state.Reducer[P]], 0, len(all))
	nets := make([]*stream.Stream[ssb.Content], 0, len(all))
	for _, s := range all {
		screens = append(screens, s.Screen)
		navs = append(navs, s.NavCommand)
		reducers = append(reducers, s.Reducer)
		nets = append(nets, s.Network)
	}
	return Sinks[P]{
		Screen:     stream.Merge(screens...),
		NavCommand: stream.Merge(navs...),
		Reducer:    stream.Merge(reducers...),
		Network:    stream.Merge(nets...),
	}
}
