// Package tui provides the Bubble Tea integration for the blockfall platform.
// It handles the terminal UI loop, input mapping, and game orchestration.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/registry"
)

// TickMsg is sent to trigger a platform frame.
type TickMsg time.Time

// UpdateMsg is sent when a game changed state on its own, between frames.
type UpdateMsg struct{}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForUpdate returns a command that blocks until the game signals a
// change. It returns nil for games that do not signal.
func waitForUpdate(game registry.Game) tea.Cmd {
	n, ok := game.(registry.Notifier)
	if !ok {
		return nil
	}
	ch := n.Updates()
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, open := <-ch; !open {
			return nil
		}
		return UpdateMsg{}
	}
}
