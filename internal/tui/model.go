// Package tui runs the application inside bubbletea.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/mmmmm/internal/runtime"
	"github.com/jask/mmmmm/internal/ssb"
	"github.com/jask/mmmmm/internal/view"
)

var (
	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(view.ColorSuccess)).
			Background(lipgloss.Color(view.ColorSurface))
	statusErrBarStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(view.ColorError)).
				Background(lipgloss.Color(view.ColorSurface))
)

// Network is the part of the network driver the TUI listens to.
type Network interface {
	Incoming() <-chan ssb.Msg
	Done() <-chan struct{}
}

// Model forwards terminal events to the runtime and renders its top screen.
type Model struct {
	rt        *runtime.Runtime
	incoming  <-chan ssb.Msg
	done      <-chan struct{}
	width     int
	height    int
	status    string
	statusErr bool
	err       error
	quitting  bool
}

// New returns a model over rt. net may be nil when nothing arrives from the
// network.
func New(rt *runtime.Runtime, net Network) Model {
	m := Model{rt: rt}
	if net != nil {
		m.incoming, m.done = net.Incoming(), net.Done()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return waitForMsg(m.incoming, m.done)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case StatusMsg:
		m.status, m.statusErr = msg.Text, msg.IsErr
		return m, nil
	case incomingMsg:
		m.rt.Receive(msg.Msg)
		return m.checkFatal(waitForMsg(m.incoming, m.done))
	case networkClosedMsg:
		m.incoming = nil
		return m, StatusCmd("network closed")
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		m.rt.Key(msg)
		return m.checkFatal(nil)
	}
	return m, nil
}

func (m Model) checkFatal(next tea.Cmd) (tea.Model, tea.Cmd) {
	if err := m.rt.Err(); err != nil {
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}
	return m, next
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	height := m.height
	if m.status != "" && height > 0 {
		height--
	}
	out := m.rt.View(m.width, height)
	if m.status != "" {
		style := statusBarStyle
		if m.statusErr {
			style = statusErrBarStyle
		}
		out += "\n" + renderBar(style, m.width, m.status)
	}
	return out
}

// renderBar draws text on a single line of exactly width cells.
func renderBar(style lipgloss.Style, width int, text string) string {
	line := strings.ReplaceAll(text, "\n", " ")
	if width <= 0 {
		return style.Render(line)
	}
	line = ansi.Truncate(line, width, "")
	if w := ansi.StringWidth(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return style.Width(width).MaxWidth(width).Render(line)
}

// Err returns the failure that ended the program, if any.
func (m Model) Err() error {
	return m.err
}
