package app

import (
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jask/mmmmm/internal/nav"
	"github.com/jask/mmmmm/internal/scenes/central"
	"github.com/jask/mmmmm/internal/scenes/profile"
	"github.com/jask/mmmmm/internal/ssb"
	"github.com/jask/mmmmm/internal/state"
	"github.com/jask/mmmmm/internal/stream"
	"github.com/jask/mmmmm/internal/view"
)

func baseState() State {
	return State{
		Profile: profile.State{
			SelfFeedID:    "@me",
			DisplayFeedID: "@me",
			Messages:      []ssb.Msg{{Key: "%1", Author: "@me", Sequence: 1}},
		},
		Central: central.State{
			SelfFeedID: "@me",
			Feed:       []ssb.Msg{{Key: "%2", Author: "@abc", Sequence: 1}},
			Cursor:     0,
		},
	}
}

// compareInput diffs the compose box by what it shows.
var compareInput = cmp.Comparer(func(a, b textinput.Model) bool {
	return a.Value() == b.Value() && a.Position() == b.Position() && a.Focused() == b.Focused()
})

func collectReducers(t *testing.T, cmds ...nav.Command) []state.Reducer[State] {
	t.Helper()
	var got []state.Reducer[State]
	sub := Model(stream.Of(cmds...)).Subscribe(stream.Listener[state.Reducer[State]]{
		Next: func(r state.Reducer[State]) { got = append(got, r) },
	})
	sub.Unsubscribe()
	return got
}

func TestPushWithFeedIDShowsThatFeed(t *testing.T) {
	s := baseState()
	rs := collectReducers(t, nav.PushTo(nav.ScreenProfile, nav.Props{"feedId": "@abc"}))
	require.Len(t, rs, 1)

	out := rs[0](s)
	want := s
	want.Profile.DisplayFeedID = "@abc"
	if diff := cmp.Diff(want, out, compareInput); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestPushWithoutFeedIDShowsSelf(t *testing.T) {
	for name, props := range map[string]nav.Props{
		"nil":         nil,
		"empty":       {},
		"blank id":    {"feedId": ""},
		"not string":  {"feedId": 42},
		"other props": {"title": "x"},
	} {
		t.Run(name, func(t *testing.T) {
			s := baseState()
			s.Profile.DisplayFeedID = "@someone"
			rs := collectReducers(t, nav.PushTo(nav.ScreenProfile, props))
			require.Len(t, rs, 1)
			require.Equal(t, ssb.FeedID("@me"), rs[0](s).Profile.DisplayFeedID)
		})
	}
}

func TestOtherCommandsEmitNothing(t *testing.T) {
	rs := collectReducers(t,
		nav.PushTo(nav.ScreenCentral, nil),
		nav.PushTo(nav.ScreenCentral, nav.Props{"feedId": "@abc"}),
		nav.PopScreen(),
		nav.PopAll(),
		nav.Reset(nav.ScreenProfile, nav.Props{"feedId": "@abc"}),
		nav.Command{Type: "bogus", Screen: nav.ScreenProfile},
		nav.Command{Type: nav.Push},
	)
	require.Empty(t, rs)
}

func TestSetProfileDisplayFeedIDIsIdempotent(t *testing.T) {
	s := baseState()
	for _, c := range []nav.Command{
		nav.PushTo(nav.ScreenProfile, nav.Props{"feedId": "@abc"}),
		nav.PushTo(nav.ScreenProfile, nil),
	} {
		r := SetProfileDisplayFeedID(c)
		once := r(s)
		require.Empty(t, cmp.Diff(once, r(once), compareInput))
	}
}

func TestSetProfileDisplayFeedIDKeepsReferences(t *testing.T) {
	s := baseState()
	out := SetProfileDisplayFeedID(nav.PushTo(nav.ScreenProfile, nav.Props{"feedId": "@abc"}))(s)
	require.Same(t, &s.Profile.Messages[0], &out.Profile.Messages[0])
	require.Same(t, &s.Central.Feed[0], &out.Central.Feed[0])
	require.Equal(t, ssb.FeedID("@me"), s.Profile.DisplayFeedID, "input state must not change")
}

func TestAddAlphaDisclaimerIsTotal(t *testing.T) {
	deep := view.Text("leaf")
	for i := 0; i < 20; i++ {
		deep = view.Box(view.Style{}, deep, view.Row(view.Style{}, view.Text("x")))
	}
	inputs := []view.VNode{
		{},
		{Screen: nav.ScreenCentral},
		{Screen: nav.ScreenProfile, Tree: deep},
		{Screen: "not.registered", Tree: view.Box(view.Style{}, view.Box(view.Style{}))},
	}
	var got []view.VNode
	AddAlphaDisclaimer(DefaultBanner)(stream.Of(inputs...)).Subscribe(stream.Listener[view.VNode]{
		Next: func(v view.VNode) { got = append(got, v) },
	})

	require.Len(t, got, len(inputs))
	for i, v := range got {
		require.Equal(t, inputs[i].Screen, v.Screen)
		require.Equal(t, 1, v.Tree.CountKey(BannerKey))
		require.Empty(t, cmp.Diff(inputs[i].Tree, v.Tree.Children[0]))
		banner := v.Tree.Children[1]
		require.Equal(t, DefaultBanner, banner.Text)
		require.Equal(t, view.BottomLeft, banner.Style.Position)
	}
}

type harness struct {
	store   *state.Store[State]
	screen  *view.Source
	net     *ssb.Source
	bag     stream.Bag
	views   []view.VNode
	navs    []nav.Command
	applied int
	out     []ssb.Content
	err     error
}

func newHarness(t *testing.T, c Composer) *harness {
	t.Helper()
	h := &harness{
		store:  state.NewStore(Initial(), zaptest.NewLogger(t)),
		screen: view.NewSource(),
		net:    ssb.NewSource("@me"),
	}
	sinks, err := c.Main(Sources{Screen: h.screen, State: h.store.Source(), Network: h.net})
	require.NoError(t, err)

	fail := func(err error) { h.err = err }
	h.bag.Add(sinks.Screen.Subscribe(stream.Listener[view.VNode]{
		Next:  func(v view.VNode) { h.views = append(h.views, v) },
		Error: fail,
	}))
	h.bag.Add(h.store.Consume(sinks.Reducer.Debug(func(state.Reducer[State]) { h.applied++ }), fail))
	h.bag.Add(sinks.NavCommand.Subscribe(stream.Listener[nav.Command]{
		Next:  func(c nav.Command) { h.navs = append(h.navs, c) },
		Error: fail,
	}))
	h.bag.Add(sinks.Network.Subscribe(stream.Listener[ssb.Content]{
		Next:  func(c ssb.Content) { h.out = append(h.out, c) },
		Error: fail,
	}))
	t.Cleanup(h.bag.Release)
	return h
}

func (h *harness) reset() {
	h.views, h.navs, h.applied, h.out = nil, nil, 0, nil
}

func (h *harness) press(screen nav.ScreenID, keys ...string) {
	for _, k := range keys {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		}
		h.screen.Emit(view.Event{Screen: screen, Kind: view.KeyPress, Key: msg})
	}
}

func (h *harness) viewsOf(screen nav.ScreenID) int {
	n := 0
	for _, v := range h.views {
		if v.Screen == screen {
			n++
		}
	}
	return n
}

func TestMainStartsFromSelfFeedID(t *testing.T) {
	h := newHarness(t, Composer{Banner: DefaultBanner})
	s := h.store.Current()
	require.Equal(t, ssb.FeedID("@me"), s.Profile.SelfFeedID)
	require.Equal(t, ssb.FeedID("@me"), s.Profile.DisplayFeedID)
	require.Equal(t, ssb.FeedID("@me"), s.Central.SelfFeedID)
	require.NoError(t, h.err)
}

func TestMainMergesEveryEmission(t *testing.T) {
	h := newHarness(t, Composer{Banner: DefaultBanner})
	h.reset()

	h.net.Deliver(ssb.Msg{Key: "%a", Author: "@abc", Sequence: 1, Content: ssb.Post("hello")})

	// one reducer per scene, then one view per scene for each applied reducer
	require.Equal(t, 2, h.applied)
	require.Equal(t, 2, h.viewsOf(nav.ScreenCentral))
	require.Equal(t, 2, h.viewsOf(nav.ScreenProfile))
	require.Len(t, h.views, 4)
	for _, v := range h.views {
		require.Equal(t, 1, v.Tree.CountKey(BannerKey))
	}
	require.Empty(t, h.navs)
	require.Empty(t, h.out)
}

func TestOpeningAnAuthorShowsTheirProfile(t *testing.T) {
	h := newHarness(t, Composer{Banner: DefaultBanner})
	h.net.Deliver(ssb.Msg{Key: "%a", Author: "@abc", Sequence: 1, Content: ssb.Post("hello")})
	h.reset()

	h.press(nav.ScreenCentral, "enter")

	require.Equal(t, []nav.Command{nav.PushTo(nav.ScreenProfile, nav.Props{"feedId": "@abc"})}, h.navs)
	s := h.store.Current()
	require.Equal(t, ssb.FeedID("@abc"), s.Profile.DisplayFeedID)
	require.Equal(t, ssb.FeedID("@me"), s.Profile.SelfFeedID)
	require.Len(t, s.Profile.Messages, 1)
	require.Len(t, s.Central.Feed, 1)

	h.press(nav.ScreenCentral, "p")
	require.Equal(t, ssb.FeedID("@me"), h.store.Current().Profile.DisplayFeedID)
	require.Len(t, h.navs, 2)
}

func TestProfileBackIsForwardedUnchanged(t *testing.T) {
	h := newHarness(t, Composer{Banner: DefaultBanner})
	h.reset()
	before := h.store.Current()

	h.press(nav.ScreenProfile, "esc")

	require.Equal(t, []nav.Command{nav.PopScreen()}, h.navs)
	require.Equal(t, before.Profile.DisplayFeedID, h.store.Current().Profile.DisplayFeedID)
}

func TestComposeAndPublish(t *testing.T) {
	h := newHarness(t, Composer{Banner: DefaultBanner})
	h.reset()

	h.press(nav.ScreenCentral, "c", "h", "i", "enter")

	require.Equal(t, []ssb.Content{ssb.Post("hi")}, h.out)
	require.Empty(t, h.navs)
	s := h.store.Current()
	require.False(t, s.Central.Composing)
	require.Empty(t, s.Central.Input.Value())
}

func TestEmptyBannerLeavesViewsUndecorated(t *testing.T) {
	h := newHarness(t, Composer{})
	require.NotEmpty(t, h.views)
	for _, v := range h.views {
		require.Zero(t, v.Tree.CountKey(BannerKey))
	}
}

func TestReleaseLeavesNoListeners(t *testing.T) {
	h := newHarness(t, Composer{Banner: DefaultBanner})
	h.bag.Release()
	require.Zero(t, h.screen.Listeners())
	require.Zero(t, h.net.Listeners())
}
