package term

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-doom/bridge"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#8B0000")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// DefaultTPS is the tick rate used when none is configured.
const DefaultTPS = 35

// TickFunc advances the engine by one step.
type TickFunc func(ctx context.Context) error

// Model is the bubbletea model that drives the engine and shows its frames.
type Model struct {
	ctx    context.Context
	panel  *Panel
	tick   TickFunc
	keys   KeyMap
	help   help.Model
	log    *zap.Logger
	err    error
	tps    int
	cols   int
	rows   int
	ticks  uint64
	quit   bool
	detail bool
}

// NewModel returns a model that calls tick tps times per second.
func NewModel(ctx context.Context, panel *Panel, tick TickFunc, tps int) *Model {
	if tps <= 0 {
		tps = DefaultTPS
	}
	return &Model{
		ctx:   ctx,
		panel: panel,
		tick:  tick,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		log:   bridge.Logger().Named("term"),
		tps:   tps,
		cols:  80,
		rows:  24,
	}
}

// Err returns the error that stopped the model, if any.
func (m *Model) Err() error {
	return m.err
}

// Ticks returns the number of engine ticks run.
func (m *Model) Ticks() uint64 {
	return m.ticks
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tickCmd(m.tps)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quit = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.detail = !m.detail
		m.help.ShowAll = m.detail
		return m, nil
	}
	if code, ok := m.keys.engineKey(msg); ok {
		m.panel.Tap(code)
	}
	return m, nil
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quit {
		return m, nil
	}
	if err := m.tick(m.ctx); err != nil {
		m.log.Info("engine stopped", zap.Error(err), zap.Uint64("ticks", m.ticks))
		m.err = err
		m.quit = true
		return m, tea.Quit
	}
	m.ticks++
	return m, tickCmd(m.tps)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quit {
		if m.err != nil {
			return errorStyle.Render(m.err.Error()) + "\n"
		}
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.panel.Title()))
	b.WriteByte('\n')

	helpView := m.help.View(m.keys)
	reserved := 2 + strings.Count(helpView, "\n")
	m.panel.snapshot(func(rgba []byte, width, height int) {
		cw, ch := fitCells(width, height, m.cols, m.rows-reserved)
		b.WriteString(renderFrame(rgba, width, height, cw, ch))
	})
	b.WriteByte('\n')

	status := fmt.Sprintf("tick %d  frame %d  ", m.ticks, m.panel.Frames())
	b.WriteString(statusStyle.Render(status))
	b.WriteString(helpView)
	return b.String()
}

// Resize sets the terminal size used until the first WindowSizeMsg.
func (m *Model) Resize(cols, rows int) {
	m.cols = cols
	m.rows = rows
	m.help.Width = cols
}

// Run drives the engine through a full-screen bubbletea program until the
// user quits or the engine stops. It returns the engine's error, if any.
func Run(ctx context.Context, panel *Panel, tick TickFunc, tps int) error {
	return RunModel(ctx, NewModel(ctx, panel, tick, tps))
}

// RunModel is Run for a prepared model.
func RunModel(ctx context.Context, m *Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.Err()
}
