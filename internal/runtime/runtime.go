// Package runtime connects the composed application to its collaborators:
// the state store, the navigation host, the renderer and the network.
package runtime

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/mmmmm/internal/app"
	"github.com/jask/mmmmm/internal/nav"
	"github.com/jask/mmmmm/internal/ssb"
	"github.com/jask/mmmmm/internal/state"
	"github.com/jask/mmmmm/internal/stream"
	"github.com/jask/mmmmm/internal/view"
)

// Publisher accepts outgoing content.
type Publisher interface {
	Publish(ssb.Content)
}

// Main builds the application sinks from its sources.
type Main func(app.Sources) (app.Sinks, error)

type Options struct {
	Self      ssb.FeedID
	Publisher Publisher
	Logger    *zap.Logger
	// Root is the first screen shown. Defaults to the central screen.
	Root nav.ScreenID
}

// Runtime runs one application instance. Every input is posted to a single
// loop so streams only ever see one event at a time.
type Runtime struct {
	loop   stream.Loop
	store  *state.Store[app.State]
	host   *nav.Host
	screen *view.Source
	net    *ssb.Source
	pub    Publisher
	log    *zap.Logger

	bag stream.Bag

	mu      sync.Mutex
	views   map[nav.ScreenID]view.VNode
	current app.State
	top     nav.ScreenID
	err     error
	stopped bool
}

// Start composes the application with main and subscribes to its sinks.
// Configuration errors from main are returned and nothing is left running.
func Start(initial app.State, main Main, opts Options) (*Runtime, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	root := opts.Root
	if root == "" {
		root = nav.ScreenCentral
	}
	host, err := nav.NewHost(root, nav.Screens, log.Named("nav"))
	if err != nil {
		return nil, fmt.Errorf("navigation: %w", err)
	}
	r := &Runtime{
		store:  state.NewStore(initial, log.Named("state")),
		host:   host,
		screen: view.NewSource(),
		net:    ssb.NewSource(opts.Self),
		pub:    opts.Publisher,
		log:    log,
		views:  make(map[nav.ScreenID]view.VNode),
	}

	sinks, err := main(app.Sources{Screen: r.screen, State: r.store.Source(), Network: r.net})
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	r.loop.Post(func() { r.subscribe(sinks) })
	if err := r.Err(); err != nil {
		r.Stop()
		return nil, err
	}
	log.Info("runtime started", zap.String("self", string(opts.Self)), zap.String("root", string(root)))
	return r, nil
}

// subscribe wires the sinks. Reducers are consumed before navigation so a
// screen appears with the state its push command produced.
func (r *Runtime) subscribe(sinks app.Sinks) {
	r.bag.Add(sinks.Screen.Subscribe(stream.Listener[view.VNode]{
		Next: func(v view.VNode) {
			r.mu.Lock()
			r.views[v.Screen] = v
			r.mu.Unlock()
		},
		Error: r.fail,
	}))
	r.bag.Add(r.store.Source().Stream().Subscribe(stream.Listener[app.State]{
		Next: func(s app.State) {
			r.mu.Lock()
			r.current = s
			r.mu.Unlock()
		},
	}))
	r.bag.Add(r.store.Consume(sinks.Reducer, r.fail))
	r.bag.Add(r.host.Events().Subscribe(stream.Listener[nav.Transition]{
		Next: func(t nav.Transition) {
			r.mu.Lock()
			r.top = t.Screen
			r.mu.Unlock()
			r.screen.Emit(view.Event{Screen: t.Screen, Kind: view.DidAppear, Props: t.Props})
		},
	}))
	r.bag.Add(r.host.Consume(sinks.NavCommand, r.fail))
	r.bag.Add(sinks.Network.Subscribe(stream.Listener[ssb.Content]{
		Next: func(c ssb.Content) {
			if r.pub == nil {
				r.log.Warn("dropping outgoing content, no publisher", zap.String("type", c.Type))
				return
			}
			r.pub.Publish(c)
		},
		Error: r.fail,
	}))
}

func (r *Runtime) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		r.err = err
		r.log.Error("application stopped", zap.Error(err))
	}
}

// Key delivers a key press to the visible screen.
func (r *Runtime) Key(k tea.KeyMsg) {
	r.loop.Post(func() {
		if r.isStopped() {
			return
		}
		r.screen.Emit(view.Event{Screen: r.host.Top().Screen, Kind: view.KeyPress, Key: k})
	})
}

// Receive delivers a message from the network.
func (r *Runtime) Receive(m ssb.Msg) {
	r.loop.Post(func() {
		if r.isStopped() {
			return
		}
		r.net.Deliver(m)
	})
}

// Top returns the visible screen.
func (r *Runtime) Top() nav.ScreenID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.top
}

// State returns the latest application state.
func (r *Runtime) State() app.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// VNode returns the latest view of the visible screen.
func (r *Runtime) VNode() (view.VNode, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[r.top]
	return v, ok
}

// View renders the visible screen into a width x height canvas.
func (r *Runtime) View(width, height int) string {
	v, ok := r.VNode()
	if !ok {
		return ""
	}
	return view.Render(v.Tree, width, height)
}

// Err returns the failure that stopped the application, if any.
func (r *Runtime) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Stop releases every subscription once the events queued before it have
// run. Inputs arriving afterwards are dropped.
func (r *Runtime) Stop() {
	r.loop.Post(func() {
		r.mu.Lock()
		if r.stopped {
			r.mu.Unlock()
			return
		}
		r.stopped = true
		r.mu.Unlock()
		r.bag.Release()
		r.log.Info("runtime stopped", zap.Uint64("reducers", r.store.Applied()), zap.Uint64("events", r.loop.Dispatched()))
	})
}

func (r *Runtime) isStopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

// Listeners returns how many scene listeners remain on the inputs.
func (r *Runtime) Listeners() int {
	return r.screen.Listeners() + r.net.Listeners()
}
