package term

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to advance the engine by one step.
type TickMsg time.Time

// tickCmd returns a command that sends a TickMsg at the given rate.
func tickCmd(tps int) tea.Cmd {
	interval := time.Second / time.Duration(tps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
