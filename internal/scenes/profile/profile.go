// Package profile shows the messages of one feed.
package profile

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/mmmmm/internal/nav"
	"github.com/jask/mmmmm/internal/scene"
	"github.com/jask/mmmmm/internal/ssb"
	"github.com/jask/mmmmm/internal/state"
	"github.com/jask/mmmmm/internal/stream"
	"github.com/jask/mmmmm/internal/view"
)

// State is the profile slice of application state.
//
// DisplayFeedID is written from outside this scene when another screen
// pushes the profile with a feed id.
type State struct {
	SelfFeedID    ssb.FeedID
	DisplayFeedID ssb.FeedID
	Messages      []ssb.Msg
	Offset        int
}

func Initial() State {
	return State{}
}

type keyMap struct {
	Back key.Binding
	Up   key.Binding
	Down key.Binding
}

var keys = keyMap{
	Back: key.NewBinding(key.WithKeys("esc", "backspace", "h"), key.WithHelp("esc", "back")),
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
}

// Scene is the profile screen.
func Scene(src scene.Sources[State]) scene.Sinks[State] {
	press := src.Screen.Keys(nav.ScreenProfile)

	back := press.Filter(func(k tea.KeyMsg) bool { return key.Matches(k, keys.Back) })
	navCommand := stream.Map(back, func(tea.KeyMsg) nav.Command { return nav.PopScreen() })

	reducer := stream.Merge(
		stream.Map(src.Network.SelfFeedID(), setSelf),
		stream.Map(src.Network.PublicFeed(), addMsg),
		stream.Map(src.Screen.Appear(nav.ScreenProfile), func(nav.Props) state.Reducer[State] { return resetOffset }),
		stream.Map(press.Filter(isScroll), scroll),
	)

	return scene.Sinks[State]{
		Screen:     stream.Map(src.State.Stream(), render),
		NavCommand: navCommand,
		Reducer:    reducer,
		Network:    stream.Never[ssb.Content](),
	}
}

func setSelf(id ssb.FeedID) state.Reducer[State] {
	return func(prev State) State {
		prev.SelfFeedID = id
		if prev.DisplayFeedID == "" {
			prev.DisplayFeedID = id
		}
		return prev
	}
}

func addMsg(m ssb.Msg) state.Reducer[State] {
	return func(prev State) State {
		msgs := make([]ssb.Msg, len(prev.Messages), len(prev.Messages)+1)
		copy(msgs, prev.Messages)
		prev.Messages = append(msgs, m)
		return prev
	}
}

func resetOffset(prev State) State {
	prev.Offset = 0
	return prev
}

func isScroll(k tea.KeyMsg) bool {
	return key.Matches(k, keys.Up) || key.Matches(k, keys.Down)
}

func scroll(k tea.KeyMsg) state.Reducer[State] {
	delta := 1
	if key.Matches(k, keys.Up) {
		delta = -1
	}
	return func(prev State) State {
		n := len(prev.Feed())
		prev.Offset = max(0, min(prev.Offset+delta, n-1))
		return prev
	}
}

// Feed returns the messages authored by the displayed feed.
func (s State) Feed() []ssb.Msg {
	var out []ssb.Msg
	for _, m := range s.Messages {
		if m.Author == s.DisplayFeedID {
			out = append(out, m)
		}
	}
	return out
}

func render(s State) view.VNode {
	title := "Profile"
	if s.DisplayFeedID != "" && s.DisplayFeedID == s.SelfFeedID {
		title = "Your profile"
	}
	children := []view.Node{
		view.StyledText(title, view.Style{Bold: true, Foreground: view.ColorAccent}),
		view.StyledText(string(s.DisplayFeedID), view.Style{Foreground: view.ColorMuted}),
	}
	feed := s.Feed()
	if len(feed) == 0 {
		children = append(children, view.StyledText("No messages yet", view.Style{Italic: true, PadY: 1}))
	}
	for i := s.Offset; i < len(feed); i++ {
		m := feed[i]
		children = append(children, view.Text(fmt.Sprintf("#%-4d %s", m.Sequence, m.Content.Text)))
	}
	children = append(children, view.Help(keys.Back, keys.Up, keys.Down))
	return view.VNode{Screen: nav.ScreenProfile, Tree: view.Box(view.Style{PadX: 1}, children...)}
}
