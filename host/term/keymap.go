package term

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/wasm-doom/host"
	"github.com/wippyai/wasm-doom/keys"
)

// KeyMap holds the bindings the panel handles itself. Everything else is
// forwarded to the engine.
type KeyMap struct {
	Quit   key.Binding
	Help   key.Binding
	Fire   key.Binding
	Strafe key.Binding
	Run    key.Binding
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Fire, k.Quit, k.Help}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Fire, k.Strafe, k.Run},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default bindings. Terminals do not report bare
// modifier keys, so fire, strafe and run get control-key chords.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "toggle help"),
		),
		Fire: key.NewBinding(
			key.WithKeys("ctrl+f", "ctrl+@"),
			key.WithHelp("ctrl+f", "fire"),
		),
		Strafe: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "strafe"),
		),
		Run: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "run"),
		),
	}
}

// engineKey maps a terminal key to a doom code.
func (k KeyMap) engineKey(msg tea.KeyMsg) (uint8, bool) {
	switch {
	case key.Matches(msg, k.Fire):
		return keys.Fire, true
	case key.Matches(msg, k.Strafe):
		return keys.RAlt, true
	case key.Matches(msg, k.Run):
		return keys.RShift, true
	}
	return host.KeyCode(msg.String())
}
