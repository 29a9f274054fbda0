package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/t2048/internal/core"
	"github.com/vovakirdan/t2048/internal/games/t2048"
)

// Lines below the game screen: status plus short or full help.
const (
	footerHeight     = 2
	fullFooterHeight = 5
)

// Model is the Bubble Tea model for one 2048 game.
type Model struct {
	game     *t2048.Game
	screen   *core.Screen
	config   core.RuntimeConfig
	keys     KeyMap
	help     help.Model
	theme    Theme
	state    core.GameState
	info     string
	infoSeq  int
	quitting bool
	back     bool

	// ScreenshotDir is where ctrl+p writes plain-text screenshots.
	ScreenshotDir string
}

// NewModel creates a model for game and starts a fresh game.
// The game is reset here because Init has a value receiver.
func NewModel(game *t2048.Game, cfg core.RuntimeConfig, theme Theme) Model {
	screenH := max(cfg.ScreenH-footerHeight, 0)
	game.Reset(core.RuntimeConfig{ScreenW: cfg.ScreenW, ScreenH: screenH, Seed: cfg.Seed})

	h := help.New()
	h.Styles.ShortKey = theme.Help
	h.Styles.ShortDesc = theme.Help
	h.Styles.FullKey = theme.Help
	h.Styles.FullDesc = theme.Help
	h.Width = cfg.ScreenW

	return Model{
		game:          game,
		screen:        core.NewScreen(cfg.ScreenW, screenH),
		config:        cfg,
		keys:          DefaultKeyMap(),
		help:          h,
		theme:         theme,
		state:         game.Summary(),
		ScreenshotDir: defaultScreenshotDir(),
	}
}

func defaultScreenshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".t2048", "screenshots")
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case infoExpiredMsg:
		if msg.seq == m.infoSeq {
			m.info = ""
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.back = true
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	case key.Matches(msg, m.keys.Screenshot):
		return m.setInfo(m.saveScreenshot())
	}

	action := m.keys.Action(msg)
	if action == core.ActionNone {
		return m, nil
	}

	in := core.NewInputFrame()
	in.Set(action)
	res := m.game.Step(in)

	wasWon := m.state.Won
	m.state = res.State

	switch {
	case res.Info != "":
		return m.setInfo(res.Info)
	case res.Moved && res.State.Won && !wasWon:
		return m.setInfo("You win!")
	}
	return m, nil
}

// setInfo shows a status message and schedules its removal.
func (m Model) setInfo(info string) (tea.Model, tea.Cmd) {
	m.info = info
	m.infoSeq++
	return m, expireInfoCmd(m.infoSeq)
}

// handleResize processes window resize events. The game keeps its board.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width
	m.layout()

	return m, nil
}

// layout sizes the game screen to the space left above the footer.
func (m *Model) layout() {
	footer := footerHeight
	if m.help.ShowAll {
		footer = fullFooterHeight
	}
	screenH := max(m.config.ScreenH-footer, 0)
	m.screen.Resize(m.config.ScreenW, screenH)
	m.game.Resize(m.config.ScreenW, screenH)
}

// saveScreenshot saves the current screen to a file and returns a status message.
func (m Model) saveScreenshot() string {
	if m.ScreenshotDir == "" {
		return "No screenshot dir"
	}

	// Render current state
	m.game.Render(m.screen)

	if err := os.MkdirAll(m.ScreenshotDir, 0o755); err != nil {
		return "Screenshot failed"
	}

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(m.ScreenshotDir, filename)

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "Screenshot failed"
	}
	return "Screenshot saved"
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	// Render game to screen buffer
	m.game.Render(m.screen)

	return RenderScreen(m.screen, m.theme) + "\n" +
		centerText(m.theme.Info.Render(m.info), m.config.ScreenW) + "\n" +
		m.help.View(m.keys)
}

// State returns the last platform-facing game state.
func (m Model) State() core.GameState {
	return m.state
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.back
}

// Run starts the Bubble Tea program for a single game without the menu.
func Run(game *t2048.Game, cfg core.RuntimeConfig, theme Theme) error {
	model := NewModel(game, cfg, theme)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
