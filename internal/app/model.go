package app

import (
	"github.com/jask/mmmmm/internal/nav"
	"github.com/jask/mmmmm/internal/ssb"
	"github.com/jask/mmmmm/internal/state"
	"github.com/jask/mmmmm/internal/stream"
)

// FeedIDProp is the pass prop carrying the feed to show on the profile screen.
const FeedIDProp = "feedId"

// Model turns navigation into reducers that span scene slices. Only pushes
// to the profile screen produce a reducer.
func Model(navCommand *stream.Stream[nav.Command]) *stream.Stream[state.Reducer[State]] {
	toProfile := navCommand.Filter(func(c nav.Command) bool {
		return c.IsPush() && c.Screen == nav.ScreenProfile
	})
	return stream.Map(toProfile, SetProfileDisplayFeedID)
}

// SetProfileDisplayFeedID points the profile at the feed named in the
// command's pass props, or at the user's own feed when none is given.
func SetProfileDisplayFeedID(c nav.Command) state.Reducer[State] {
	return func(prev State) State {
		if id, ok := c.PassProps.String(FeedIDProp); ok {
			prev.Profile.DisplayFeedID = ssb.FeedID(id)
		} else {
			prev.Profile.DisplayFeedID = prev.Profile.SelfFeedID
		}
		return prev
	}
}
