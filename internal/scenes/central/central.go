// Package central is the home screen: the public feed and a composer.
package central

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/mmmmm/internal/nav"
	"github.com/jask/mmmmm/internal/scene"
	"github.com/jask/mmmmm/internal/ssb"
	"github.com/jask/mmmmm/internal/state"
	"github.com/jask/mmmmm/internal/stream"
	"github.com/jask/mmmmm/internal/view"
)

// State is the central slice of application state.
type State struct {
	SelfFeedID ssb.FeedID
	Feed       []ssb.Msg
	Cursor     int
	Composing  bool
	Input      textinput.Model
}

func Initial() State {
	return State{}
}

// Selected returns the message under the cursor.
func (s State) Selected() (ssb.Msg, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Feed) {
		return ssb.Msg{}, false
	}
	return s.Feed[s.Cursor], true
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Self    key.Binding
	Compose key.Binding
	Send    key.Binding
	Cancel  key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:    key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter", "author")),
	Self:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "my profile")),
	Compose: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "compose")),
	Send:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "publish")),
	Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

func newInput() textinput.Model {
	inp := textinput.New()
	inp.Prompt = "> "
	inp.Placeholder = "What's happening?"
	inp.Cursor.SetMode(cursor.CursorStatic)
	inp.Focus()
	return inp
}

// Draft returns the text being composed.
func (s State) Draft() string {
	return strings.TrimSpace(s.Input.Value())
}

// action is a key press together with the state it was made in.
type action struct {
	key   tea.KeyMsg
	state State
}

// Scene is the central screen.
func Scene(src scene.Sources[State]) scene.Sinks[State] {
	acts := stream.WithLatest(src.Screen.Keys(nav.ScreenCentral), src.State.Stream(), func(k tea.KeyMsg, s State) action {
		return action{key: k, state: s}
	})

	navCommand := stream.Map(acts.Filter(func(a action) bool {
		_, ok := navigate(a)
		return ok
	}), func(a action) nav.Command {
		c, _ := navigate(a)
		return c
	})

	publish := acts.Filter(func(a action) bool {
		return a.state.Composing && key.Matches(a.key, keys.Send) && a.state.Draft() != ""
	})

	reducer := stream.Merge(
		stream.Map(src.Network.SelfFeedID(), func(id ssb.FeedID) state.Reducer[State] {
			return func(prev State) State {
				prev.SelfFeedID = id
				return prev
			}
		}),
		stream.Map(src.Network.PublicFeed(), addMsg),
		stream.Map(acts, func(a action) state.Reducer[State] { return reduceKey(a.key) }),
	)

	return scene.Sinks[State]{
		Screen:     stream.Map(src.State.Stream(), render),
		NavCommand: navCommand,
		Reducer:    reducer,
		Network: stream.Map(publish, func(a action) ssb.Content {
			return ssb.Post(a.state.Draft())
		}),
	}
}

func navigate(a action) (nav.Command, bool) {
	if a.state.Composing {
		return nav.Command{}, false
	}
	switch {
	case key.Matches(a.key, keys.Open):
		m, ok := a.state.Selected()
		if !ok {
			return nav.Command{}, false
		}
		return nav.PushTo(nav.ScreenProfile, nav.Props{"feedId": string(m.Author)}), true
	case key.Matches(a.key, keys.Self):
		return nav.PushTo(nav.ScreenProfile, nil), true
	}
	return nav.Command{}, false
}

// addMsg keeps the newest message first. The cursor moves with the feed so
// the selected message stays selected.
func addMsg(m ssb.Msg) state.Reducer[State] {
	return func(prev State) State {
		feed := make([]ssb.Msg, 0, len(prev.Feed)+1)
		feed = append(feed, m)
		if len(prev.Feed) > 0 {
			prev.Cursor++
		}
		prev.Feed = append(feed, prev.Feed...)
		return prev
	}
}

func reduceKey(k tea.KeyMsg) state.Reducer[State] {
	return func(prev State) State {
		if prev.Composing {
			switch {
			case key.Matches(k, keys.Cancel):
				prev.Composing, prev.Input = false, textinput.Model{}
			case key.Matches(k, keys.Send):
				if prev.Draft() != "" {
					prev.Composing, prev.Input = false, textinput.Model{}
				}
			default:
				// Update edits its rune buffer in place, which earlier
				// states still share.
				prev.Input.SetValue(prev.Input.Value())
				prev.Input, _ = prev.Input.Update(k)
			}
			return prev
		}
		switch {
		case key.Matches(k, keys.Up):
			prev.Cursor = max(0, prev.Cursor-1)
		case key.Matches(k, keys.Down):
			prev.Cursor = max(0, min(prev.Cursor+1, len(prev.Feed)-1))
		case key.Matches(k, keys.Compose):
			prev.Composing, prev.Input = true, newInput()
		}
		return prev
	}
}

func render(s State) view.VNode {
	children := []view.Node{view.StyledText("Public feed", view.Style{Bold: true, Foreground: view.ColorAccent})}
	if len(s.Feed) == 0 {
		children = append(children, view.StyledText("Nothing here yet. Press c to write the first post.", view.Style{Italic: true, PadY: 1, Foreground: view.ColorMuted}))
	}
	for i, m := range s.Feed {
		prefix := "  "
		if i == s.Cursor {
			prefix = "> "
		}
		author := m.Author.Short()
		if m.Author == s.SelfFeedID {
			author = "you"
		}
		children = append(children, view.Row(view.Style{},
			view.Text(prefix),
			view.StyledText(fmt.Sprintf("%-12s", author), view.Style{Foreground: view.ColorSuccess}),
			view.Text(m.Content.Text),
		))
	}
	help := view.Help(keys.Up, keys.Down, keys.Open, keys.Self, keys.Compose)
	if s.Composing {
		children = append(children, view.StyledText(s.Input.View(), view.Style{Border: true, PadX: 1, Foreground: view.ColorText}))
		help = view.Help(keys.Send, keys.Cancel)
	}
	children = append(children, help)
	return view.VNode{Screen: nav.ScreenCentral, Tree: view.Box(view.Style{PadX: 1}, children...)}
}
