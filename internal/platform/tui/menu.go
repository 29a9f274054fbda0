package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/t2048/internal/config"
	"github.com/vovakirdan/t2048/internal/core"
)

// MenuItem is one difficulty choice.
type MenuItem struct {
	Preset      config.DifficultyPreset
	Title       string
	Description string
}

// DefaultMenuItems returns easy, normal and hard in that order.
func DefaultMenuItems() []MenuItem {
	presets := []config.DifficultyPreset{config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard}
	items := make([]MenuItem, len(presets))
	for i, p := range presets {
		items[i] = MenuItem{
			Preset: p,
			Title:  strings.ToUpper(string(p[:1])) + string(p[1:]),
			Description: fmt.Sprintf("%d%% of new tiles are 4s",
				int(config.SpawnFourForPreset(p)*100+0.5)),
		}
	}
	return items
}

const menuControls = "Up/Down: Navigate  |  Enter: Play  |  Tab: Scores  |  Q: Quit"

// MenuModel is the difficulty picker shown before each game.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	config    core.RuntimeConfig
	theme     Theme
	bestScore int

	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel creates a menu with the cursor on Normal.
func NewMenuModel(cfg core.RuntimeConfig, theme Theme, bestScore int) MenuModel {
	return MenuModel{
		items:     DefaultMenuItems(),
		cursor:    1,
		config:    cfg,
		theme:     theme,
		bestScore: bestScore,
	}
}

// Init implements tea.Model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Leaving the menu in any way returns tea.Quit;
// the session drops it when it switches screens.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height

	case tea.KeyMsg:
		switch MapKeyToMenuAction(msg) {
		case MenuActionUp:
			m.cursor = max(m.cursor-1, 0)
		case MenuActionDown:
			m.cursor = min(m.cursor+1, len(m.items)-1)
		case MenuActionSelect:
			item := m.items[m.cursor]
			m.selected = &item
			return m, tea.Quit
		case MenuActionScoreboard:
			m.openScoreboard = true
			return m, tea.Quit
		case MenuActionQuit, MenuActionBack:
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	w := m.config.ScreenW
	lines := []string{"", m.theme.MenuTitle.Render("2 0 4 8"), ""}
	if m.bestScore > 0 {
		lines = append(lines, m.theme.MenuDescription.Render(fmt.Sprintf("Best: %d", m.bestScore)), "")
	}
	lines = append(lines, "Select difficulty:", "")

	for i, item := range m.items {
		if i == m.cursor {
			lines = append(lines, m.theme.MenuItemActive.Render("> "+item.Title))
		} else {
			lines = append(lines, m.theme.MenuItemNormal.Render("  "+item.Title))
		}
	}

	lines = append(lines, "",
		m.theme.MenuDescription.Render(m.items[m.cursor].Description), "",
		m.theme.Help.Render(menuControls), "")

	for i, line := range lines {
		lines[i] = centerText(line, w)
	}
	return strings.Join(lines, "\n")
}

// Selected returns the chosen item, or nil.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting reports whether the user quit from the menu.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard reports whether the user pressed Tab.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}
