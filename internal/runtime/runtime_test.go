package runtime

import (
	"fmt"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jask/mmmmm/internal/app"
	"github.com/jask/mmmmm/internal/nav"
	"github.com/jask/mmmmm/internal/scene"
	"github.com/jask/mmmmm/internal/scenes/central"
	"github.com/jask/mmmmm/internal/ssb"
	"github.com/jask/mmmmm/internal/state"
	"github.com/jask/mmmmm/internal/stream"
	"github.com/jask/mmmmm/internal/view"
)

type fakePublisher struct {
	mu  sync.Mutex
	got []ssb.Content
}

func (p *fakePublisher) Publish(c ssb.Content) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, c)
}

func start(t *testing.T) (*Runtime, *fakePublisher) {
	t.Helper()
	pub := &fakePublisher{}
	r, err := Start(app.Initial(), app.Main, Options{
		Self:      "@me",
		Publisher: pub,
		Logger:    zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(r.Stop)
	return r, pub
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStartShowsRoot(t *testing.T) {
	r, _ := start(t)
	require.Equal(t, nav.ScreenCentral, r.Top())
	require.Equal(t, ssb.FeedID("@me"), r.State().Profile.SelfFeedID)

	v, ok := r.VNode()
	require.True(t, ok)
	require.Equal(t, nav.ScreenCentral, v.Screen)
	require.Equal(t, 1, v.Tree.CountKey(app.BannerKey))

	out := r.View(80, 24)
	require.Contains(t, out, "Public feed")
	require.Contains(t, out, app.DefaultBanner)
}

func TestOpenProfileAndBack(t *testing.T) {
	r, _ := start(t)
	r.Receive(ssb.Msg{Key: "%1", Author: "@abc", Sequence: 1, Content: ssb.Post("hello")})

	r.Key(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, nav.ScreenProfile, r.Top())
	require.Equal(t, ssb.FeedID("@abc"), r.State().Profile.DisplayFeedID)
	out := r.View(80, 24)
	require.Contains(t, out, "@abc")
	require.Contains(t, out, "hello")

	r.Key(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, nav.ScreenCentral, r.Top())

	r.Key(runes("p"))
	require.Equal(t, nav.ScreenProfile, r.Top())
	require.Equal(t, ssb.FeedID("@me"), r.State().Profile.DisplayFeedID)
	require.Contains(t, r.View(80, 24), "Your profile")
}

func TestKeysOnlyReachVisibleScreen(t *testing.T) {
	r, _ := start(t)
	// "h" is back on the profile screen; on central it does nothing.
	r.Key(runes("h"))
	require.Equal(t, nav.ScreenCentral, r.Top())
	require.NoError(t, r.Err())
}

func TestPublishReachesPublisher(t *testing.T) {
	r, pub := start(t)
	for _, k := range []tea.KeyMsg{runes("c"), runes("y"), runes("o"), {Type: tea.KeyEnter}} {
		r.Key(k)
	}
	require.Equal(t, []ssb.Content{ssb.Post("yo")}, pub.got)
	require.False(t, r.State().Central.Composing)
	require.Equal(t, nav.ScreenCentral, r.Top())
}

func TestReceiveFromManyGoroutines(t *testing.T) {
	r, _ := start(t)
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				author := ssb.FeedID(fmt.Sprintf("@g%d", g))
				r.Receive(ssb.Msg{Key: ssb.MsgKey(author, int64(i+1)), Author: author, Sequence: int64(i + 1)})
			}
		}()
	}
	wg.Wait()
	require.Len(t, r.State().Central.Feed, 100)
	require.Len(t, r.State().Profile.Messages, 100)
}

func TestStopReleasesListeners(t *testing.T) {
	r, pub := start(t)
	require.NotZero(t, r.Listeners())

	r.Stop()
	require.Zero(t, r.Listeners())

	r.Key(runes("c"))
	r.Receive(ssb.Msg{Key: "%1", Author: "@abc", Sequence: 1})
	require.False(t, r.State().Central.Composing)
	require.Empty(t, pub.got)
	r.Stop()
}

func TestStartRejectsBadComposition(t *testing.T) {
	_, err := Start(app.Initial(), func(app.Sources) (app.Sinks, error) {
		return app.Sinks{}, fmt.Errorf("scene %q: %w", "central", scene.ErrDuplicateSliceKey)
	}, Options{Self: "@me"})
	require.ErrorIs(t, err, scene.ErrDuplicateSliceKey)
}

func TestEndedSceneIsFatal(t *testing.T) {
	ending := func(scene.Sources[central.State]) scene.Sinks[central.State] {
		return scene.Sinks[central.State]{
			Screen:     stream.Of[view.VNode](),
			NavCommand: stream.Never[nav.Command](),
			Reducer:    stream.Never[state.Reducer[central.State]](),
			Network:    stream.Never[ssb.Content](),
		}
	}
	main := func(src app.Sources) (app.Sinks, error) {
		all, err := scene.Instantiate(src, scene.Isolate(ending, app.CentralKey, app.CentralLens))
		if err != nil {
			return app.Sinks{}, err
		}
		return scene.MergeSinks(all), nil
	}
	_, err := Start(app.Initial(), main, Options{Self: "@me", Logger: zaptest.NewLogger(t)})
	require.ErrorIs(t, err, scene.ErrSceneEnded)
}
