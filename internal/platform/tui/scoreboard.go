package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/t2048/internal/games/t2048"
	"github.com/vovakirdan/t2048/internal/storage"
)

const (
	minWidthForSidebar = 70
	sidebarWidth       = 22
	maxScores          = 100
)

// ScoreboardKeyMap defines the scoreboard key bindings.
type ScoreboardKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Reload key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp implements help.KeyMap.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Reload, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultScoreboardKeyMap returns the scoreboard bindings. Tab closes the
// scoreboard because it is also the key that opens it from the menu.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Back:   key.NewBinding(key.WithKeys("esc", "b", "tab"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// scoreData is one read of the score tables.
type scoreData struct {
	scores []storage.ScoreEntry
	stats  *storage.GameStats
	err    error
}

func loadScoreData(store *storage.Store) scoreData {
	var d scoreData
	if store == nil {
		return d
	}
	if d.scores, d.err = store.TopScores(t2048.GameID, maxScores); d.err != nil {
		return d
	}
	d.stats, d.err = store.GetGameStats(t2048.GameID)
	return d
}

// ScoreboardModel shows the best finished games and aggregate stats.
type ScoreboardModel struct {
	store *storage.Store // May be nil
	data  scoreData
	theme Theme
	table table.Model
	help  help.Model
	keys  ScoreboardKeyMap

	width, height int
	quitting      bool
	goingBack     bool
}

// NewScoreboardModel creates a scoreboard and loads the scores.
func NewScoreboardModel(store *storage.Store, theme Theme, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store: store,
		theme: theme,
		help:  help.New(),
		keys:  DefaultScoreboardKeyMap(),
	}
	m.help.Styles.ShortKey = theme.Help
	m.help.Styles.ShortDesc = theme.Help
	m.resize(width, height)
	m.reload()
	return m
}

func (m ScoreboardModel) wide() bool {
	return m.width >= minWidthForSidebar
}

// resize rebuilds the table for the new size; rows are re-added by reload or
// setRows.
func (m *ScoreboardModel) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width

	avail := width - 4
	if m.wide() {
		avail -= sidebarWidth + 3
	}
	dateW := 18
	if avail > 40 {
		dateW = min(avail-22, 20)
	}

	m.table = table.New(
		table.WithColumns([]table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 10},
			{Title: "Date", Width: dateW},
		}),
		table.WithFocused(true),
		table.WithHeight(max(height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = m.theme.MenuItemActive
	m.table.SetStyles(s)
}

func (m *ScoreboardModel) reload() {
	m.data = loadScoreData(m.store)
	m.setRows()
}

func (m *ScoreboardModel) setRows() {
	rows := make([]table.Row, 0, len(m.data.scores))
	for i, e := range m.data.scores {
		rows = append(rows, table.Row{
			"#" + strconv.Itoa(i+1),
			strconv.Itoa(e.Score),
			e.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.setRows()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	scores := panel.Render(m.tableView())

	var b strings.Builder
	b.WriteString(centerText(m.theme.MenuTitle.Render("HIGH SCORES - 2048"), m.width))
	b.WriteString("\n\n")

	if m.wide() {
		stats := panel.Width(sidebarWidth).Render(m.statsView())
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, stats, "  ", scores))
	} else {
		if line := m.summaryLine(); line != "" {
			b.WriteString(centerText(line, m.width))
			b.WriteString("\n\n")
		}
		b.WriteString(scores)
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m ScoreboardModel) tableView() string {
	empty := m.theme.Help.Italic(true).Padding(2, 4)
	switch {
	case m.store == nil:
		return empty.Render("No score database configured.")
	case m.data.err != nil:
		return empty.Render("Could not load scores.")
	case len(m.data.scores) == 0:
		return empty.Render("No scores recorded yet.\nPlay a game to set a high score!")
	}
	return m.table.View()
}

func (m ScoreboardModel) statsView() string {
	var sb strings.Builder
	sb.WriteString("Stats\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))

	st := m.data.stats
	if st == nil {
		sb.WriteString("\nn/a")
		return sb.String()
	}

	row := func(label, value string) {
		fmt.Fprintf(&sb, "\n%-8s %9s", label, value)
	}
	row("Games", strconv.Itoa(st.GamesCount))
	row("Best", strconv.Itoa(st.BestScore))
	row("Average", fmt.Sprintf("%.0f", st.AvgScore))
	row("Total", strconv.FormatInt(st.TotalScore, 10))
	row("Saves", strconv.Itoa(st.SavedGames))
	if !st.LastPlayed.IsZero() {
		row("Last", st.LastPlayed.Format("Jan 02"))
	}
	return sb.String()
}

func (m ScoreboardModel) summaryLine() string {
	st := m.data.stats
	if st == nil {
		return ""
	}
	return fmt.Sprintf("Games: %d  Best: %d  Avg: %.0f", st.GamesCount, st.BestScore, st.AvgScore)
}

// IsGoingBack reports whether the user asked to return to the menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the user asked to quit.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard on its own.
func RunScoreboard(store *storage.Store, theme Theme, width, height int) error {
	_, err := tea.NewProgram(NewScoreboardModel(store, theme, width, height), tea.WithAltScreen()).Run()
	return err
}
