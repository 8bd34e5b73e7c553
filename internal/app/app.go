// Package app composes the scenes into one application.
//
// Each scene runs isolated on its own slice of State. Their outputs are
// merged stream by stream, and a single cross-scene reducer watches the
// merged navigation commands to point the profile at the feed being opened.
package app

import (
	"github.com/jask/mmmmm/internal/scene"
	"github.com/jask/mmmmm/internal/scenes/central"
	"github.com/jask/mmmmm/internal/scenes/profile"
	"github.com/jask/mmmmm/internal/state"
	"github.com/jask/mmmmm/internal/stream"
)

const (
	ProfileKey = "profile"
	CentralKey = "central"

	// DefaultBanner marks builds that are not ready for production use.
	DefaultBanner = "Alpha version, not ready for use"
	// BannerKey tags the banner node in decorated trees.
	BannerKey = "alpha-disclaimer"
)

// State is the whole application state, one slice per scene.
type State struct {
	Profile profile.State
	Central central.State
}

// Initial collects the initial slice of every scene.
func Initial() State {
	return State{Profile: profile.Initial(), Central: central.Initial()}
}

var (
	ProfileLens = state.Lens[State, profile.State]{
		Get: func(s State) profile.State { return s.Profile },
		Set: func(s State, p profile.State) State { s.Profile = p; return s },
	}
	CentralLens = state.Lens[State, central.State]{
		Get: func(s State) central.State { return s.Central },
		Set: func(s State, c central.State) State { s.Central = c; return s },
	}
)

type (
	Sources = scene.Sources[State]
	Sinks   = scene.Sinks[State]
)

// Composer wires the scenes. It holds configuration only.
type Composer struct {
	// Banner is the text overlaid on every screen. Empty disables the overlay.
	Banner string
}

// Main composes the default application.
func Main(sources Sources) (Sinks, error) {
	return Composer{Banner: DefaultBanner}.Main(sources)
}

// Main returns the merged sinks of every scene.
func (c Composer) Main(sources Sources) (Sinks, error) {
	all, err := scene.Instantiate(sources,
		scene.Isolate(profile.Scene, ProfileKey, ProfileLens),
		scene.Isolate(central.Scene, CentralKey, CentralLens),
	)
	if err != nil {
		return Sinks{}, err
	}

	merged := scene.MergeSinks(all)

	screen := merged.Screen
	if c.Banner != "" {
		screen = screen.Compose(AddAlphaDisclaimer(c.Banner))
	}
	return Sinks{
		Screen:     screen,
		NavCommand: merged.NavCommand,
		Reducer:    stream.Merge(Model(merged.NavCommand), merged.Reducer),
		Network:    merged.Network,
	}, nil
}
