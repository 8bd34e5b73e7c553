package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/mmmmm/internal/ssb"
)

type incomingMsg struct {
	Msg ssb.Msg
}

type networkClosedMsg struct{}

type StatusMsg struct {
	Text  string
	IsErr bool
}

func StatusCmd(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text} }
}

// waitForMsg blocks until the network delivers a message or shuts down.
func waitForMsg(incoming <-chan ssb.Msg, done <-chan struct{}) tea.Cmd {
	if incoming == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case m, ok := <-incoming:
			if !ok {
				return networkClosedMsg{}
			}
			return incomingMsg{Msg: m}
		case <-done:
			return networkClosedMsg{}
		}
	}
}
