package app

import (
	"github.com/jask/mmmmm/internal/stream"
	"github.com/jask/mmmmm/internal/view"
)

var bannerStyle = view.Style{
	Foreground: view.ColorBase,
	Background: view.ColorWarn,
	Bold:       true,
	PadX:       1,
	Position:   view.BottomLeft,
}

// AddAlphaDisclaimer overlays a banner with text on every view. The screen
// id and the original tree are kept as they are.
func AddAlphaDisclaimer(text string) func(*stream.Stream[view.VNode]) *stream.Stream[view.VNode] {
	banner := view.StyledText(text, bannerStyle).WithKey(BannerKey)
	return func(in *stream.Stream[view.VNode]) *stream.Stream[view.VNode] {
		return stream.Map(in, func(v view.VNode) view.VNode {
			return view.VNode{
				Screen: v.Screen,
				Tree:   view.Box(view.Style{}, v.Tree, banner),
			}
		})
	}
}
