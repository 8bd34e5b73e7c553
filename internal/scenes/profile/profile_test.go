package profile

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/mmmmm/internal/nav"
	"github.com/jask/mmmmm/internal/scene"
	"github.com/jask/mmmmm/internal/ssb"
	"github.com/jask/mmmmm/internal/state"
	"github.com/jask/mmmmm/internal/stream"
	"github.com/jask/mmmmm/internal/view"
)

type fixture struct {
	store  *state.Store[State]
	screen *view.Source
	net    *ssb.Source
	navs   []nav.Command
	last   view.VNode
}

func setup(t *testing.T, initial State) *fixture {
	t.Helper()
	f := &fixture{
		store:  state.NewStore(initial, nil),
		screen: view.NewSource(),
		net:    ssb.NewSource("@me"),
	}
	sinks := Scene(scene.Sources[State]{Screen: f.screen, State: f.store.Source(), Network: f.net})
	var bag stream.Bag
	bag.Add(sinks.Screen.Subscribe(stream.Listener[view.VNode]{Next: func(v view.VNode) { f.last = v }}))
	bag.Add(f.store.Consume(sinks.Reducer, nil))
	bag.Add(sinks.NavCommand.Subscribe(stream.Listener[nav.Command]{Next: func(c nav.Command) { f.navs = append(f.navs, c) }}))
	t.Cleanup(bag.Release)
	return f
}

func (f *fixture) press(k tea.KeyMsg) {
	f.screen.Emit(view.Event{Screen: nav.ScreenProfile, Kind: view.KeyPress, Key: k})
}

func TestSelfFeedIDDefaultsDisplay(t *testing.T) {
	f := setup(t, Initial())
	s := f.store.Current()
	require.Equal(t, ssb.FeedID("@me"), s.SelfFeedID)
	require.Equal(t, ssb.FeedID("@me"), s.DisplayFeedID)

	f = setup(t, State{DisplayFeedID: "@abc"})
	require.Equal(t, ssb.FeedID("@abc"), f.store.Current().DisplayFeedID)
}

func TestMessagesAreFilteredByDisplayedFeed(t *testing.T) {
	f := setup(t, State{DisplayFeedID: "@abc"})
	before := f.store.Current().Messages

	f.net.Deliver(ssb.Msg{Author: "@abc", Sequence: 1, Content: ssb.Post("mine")})
	f.net.Deliver(ssb.Msg{Author: "@other", Sequence: 1, Content: ssb.Post("theirs")})

	s := f.store.Current()
	require.Len(t, s.Messages, 2)
	require.Empty(t, before)
	require.Len(t, s.Feed(), 1)
	require.Equal(t, "mine", s.Feed()[0].Content.Text)

	out := view.Render(f.last.Tree, 0, 0)
	require.Contains(t, out, "mine")
	require.NotContains(t, out, "theirs")
	require.Equal(t, nav.ScreenProfile, f.last.Screen)
}

func TestBackPops(t *testing.T) {
	f := setup(t, Initial())
	f.press(tea.KeyMsg{Type: tea.KeyEsc})
	f.press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	f.press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	require.Equal(t, []nav.Command{nav.PopScreen(), nav.PopScreen()}, f.navs)
}

func TestScrollIsBoundedAndResetOnAppear(t *testing.T) {
	f := setup(t, Initial())
	for i := int64(1); i <= 3; i++ {
		f.net.Deliver(ssb.Msg{Author: "@me", Sequence: i, Content: ssb.Post("m")})
	}
	down := tea.KeyMsg{Type: tea.KeyDown}
	for i := 0; i < 5; i++ {
		f.press(down)
	}
	require.Equal(t, 2, f.store.Current().Offset)

	f.press(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, 1, f.store.Current().Offset)

	f.screen.Emit(view.Event{Screen: nav.ScreenProfile, Kind: view.DidAppear})
	require.Zero(t, f.store.Current().Offset)
}

func TestOtherScreensKeysAreIgnored(t *testing.T) {
	f := setup(t, Initial())
	f.screen.Emit(view.Event{Screen: nav.ScreenCentral, Kind: view.KeyPress, Key: tea.KeyMsg{Type: tea.KeyEsc}})
	require.Empty(t, f.navs)
}

func TestRenderTitle(t *testing.T) {
	f := setup(t, Initial())
	require.Contains(t, view.Render(f.last.Tree, 0, 0), "Your profile")

	f = setup(t, State{DisplayFeedID: "@abc"})
	out := view.Render(f.last.Tree, 0, 0)
	require.Contains(t, out, "Profile")
	require.NotContains(t, out, "Your profile")
	require.Contains(t, out, "No messages yet")
}
