// Package tui provides the Bubble Tea integration for the 2048 game.
// It handles the terminal UI loop, input mapping, menus, the scoreboard and
// the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// infoDuration is how long a status message stays on screen.
const infoDuration = 2 * time.Second

// infoExpiredMsg clears the status message with the matching sequence number.
type infoExpiredMsg struct {
	seq int
}

// expireInfoCmd returns a command that expires status message seq after infoDuration.
func expireInfoCmd(seq int) tea.Cmd {
	return tea.Tick(infoDuration, func(time.Time) tea.Msg {
		return infoExpiredMsg{seq: seq}
	})
}
