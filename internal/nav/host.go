// Package nav defines navigation commands and the host that executes them on
// a screen stack.
package nav

import (
	"errors"
	"fmt"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/jask/mmmmm/internal/stream"
)

var (
	ErrUnknownScreen   = errors.New("unknown screen")
	ErrDuplicateScreen = errors.New("duplicate screen")
)

// Transition reports the screen that became visible after a command.
type Transition struct {
	Screen ScreenID
	Props  Props
	Depth  int
}

// Host keeps the screen stack and applies commands to it.
type Host struct {
	stack  Stack
	root   ScreenID
	known  []ScreenID
	events *stream.Stream[Transition]
	log    *zap.Logger
}

// NewHost registers screens and presents root.
func NewHost(root ScreenID, screens []ScreenID, log *zap.Logger) (*Host, error) {
	if log == nil {
		log = zap.NewNop()
	}
	seen := make(map[ScreenID]bool, len(screens))
	for _, id := range screens {
		if seen[id] {
			return nil, fmt.Errorf("register %q: %w", id, ErrDuplicateScreen)
		}
		seen[id] = true
	}
	if !seen[root] {
		return nil, fmt.Errorf("root %q: %w", root, ErrUnknownScreen)
	}
	h := &Host{
		root:   root,
		known:  append([]ScreenID(nil), screens...),
		events: stream.NewMemorySubject[Transition](),
		log:    log,
	}
	h.stack.Push(Entry{Screen: root})
	h.events.Emit(Transition{Screen: root, Depth: 1})
	return h, nil
}

// Events emits a Transition every time the top of the stack changes.
func (h *Host) Events() *stream.Stream[Transition] {
	return h.events
}

// Top returns the visible screen.
func (h *Host) Top() Entry {
	e, _ := h.stack.Top()
	return e
}

// Depth returns the stack size.
func (h *Host) Depth() int {
	return h.stack.Len()
}

// Screens returns the stack from root to top.
func (h *Host) Screens() []ScreenID {
	return h.stack.Screens()
}

// Apply executes c and reports whether the stack changed. Commands with an
// unknown tag or screen are logged and ignored.
func (h *Host) Apply(c Command) bool {
	switch c.Type {
	case Push:
		if !h.validate(c) {
			return false
		}
		h.stack.Push(Entry{Screen: c.Screen, Props: c.PassProps})
	case Pop:
		if h.stack.Len() <= 1 {
			return false
		}
		h.stack.Pop()
	case PopToRoot:
		if h.stack.Len() <= 1 {
			return false
		}
		h.stack.Truncate(1)
	case ResetTo:
		if !h.validate(c) {
			return false
		}
		h.stack = Stack{}
		h.stack.Push(Entry{Screen: c.Screen, Props: c.PassProps})
	default:
		h.log.Warn("ignoring navigation command", zap.String("type", string(c.Type)))
		return false
	}
	top := h.Top()
	h.log.Debug("navigated",
		zap.String("command", string(c.Type)),
		zap.String("screen", string(top.Screen)),
		zap.Int("depth", h.stack.Len()))
	h.events.Emit(Transition{Screen: top.Screen, Props: top.Props, Depth: h.stack.Len()})
	return true
}

// Consume applies every command of cmds.
func (h *Host) Consume(cmds *stream.Stream[Command], onErr func(error)) *stream.Subscription {
	return cmds.Subscribe(stream.Listener[Command]{
		Next: func(c Command) { h.Apply(c) },
		Error: func(err error) {
			h.log.Error("navigation stream failed", zap.Error(err))
			if onErr != nil {
				onErr(err)
			}
		},
	})
}

func (h *Host) validate(c Command) bool {
	for _, id := range h.known {
		if id == c.Screen {
			return true
		}
	}
	fields := []zap.Field{zap.String("type", string(c.Type)), zap.String("screen", string(c.Screen))}
	if near, ok := Suggest(c.Screen, h.known); ok {
		fields = append(fields, zap.String("suggestion", string(near)))
	}
	h.log.Warn("ignoring command for unknown screen", fields...)
	return false
}

// Suggest returns the registered screen closest to id when it is within a
// small edit distance.
func Suggest(id ScreenID, known []ScreenID) (ScreenID, bool) {
	const maxDistance = 3
	best, bestDist := ScreenID(""), maxDistance+1
	for _, k := range known {
		if d := levenshtein.ComputeDistance(string(id), string(k)); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best, best != ""
}
