package tui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/t2048/internal/core"
)

// Theme contains the configurable visual styles for the terminal UI.
type Theme struct {
	// Screen cell colors, keyed by core.Color
	Colors map[core.Color]lipgloss.Style

	// Status and help lines below the board
	Info lipgloss.Style
	Help lipgloss.Style

	// Difficulty menu
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Colors: map[core.Color]lipgloss.Style{
			core.ColorDefault:       lipgloss.NewStyle(),
			core.ColorRed:           fg("1"),
			core.ColorGreen:         fg("2"),
			core.ColorYellow:        fg("3"),
			core.ColorBlue:          fg("4"),
			core.ColorMagenta:       fg("5"),
			core.ColorCyan:          fg("6"),
			core.ColorWhite:         fg("7"),
			core.ColorBrightRed:     fg("9"),
			core.ColorBrightGreen:   fg("10"),
			core.ColorBrightYellow:  fg("11"),
			core.ColorBrightBlue:    fg("12"),
			core.ColorBrightMagenta: fg("13"),
			core.ColorBrightCyan:    fg("14"),
			core.ColorBrightWhite:   fg("15"),
			core.ColorOrange:        fg("208"),
			core.ColorGray:          fg("245"),
		},

		Info: fg("226").Bold(true),
		Help: fg("241"),

		MenuTitle:       fg("51").Bold(true),
		MenuItemNormal:  fg("252"),
		MenuItemActive:  fg("226").Bold(true),
		MenuDescription: fg("245"),
	}
}

// NeonTheme returns a saturated 256-color theme.
func NeonTheme() Theme {
	theme := DefaultTheme()
	theme.Colors = cloneColors(theme.Colors)
	theme.Colors[core.ColorWhite] = fg("159")
	theme.Colors[core.ColorBrightWhite] = fg("123")
	theme.Colors[core.ColorYellow] = fg("227")
	theme.Colors[core.ColorOrange] = fg("214")
	theme.Colors[core.ColorRed] = fg("203")
	theme.Colors[core.ColorBrightRed] = fg("199")
	theme.Colors[core.ColorBrightYellow] = fg("226")
	theme.Colors[core.ColorGreen] = fg("118")
	theme.Colors[core.ColorBrightGreen] = fg("46")
	theme.Colors[core.ColorCyan] = fg("87")
	theme.Colors[core.ColorBrightCyan] = fg("51").Bold(true)
	theme.Colors[core.ColorBrightMagenta] = fg("171").Bold(true)
	return theme
}

// MonochromeTheme returns a grayscale theme for terminals without color.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	gray := lipgloss.NewStyle()
	colors := make(map[core.Color]lipgloss.Style, len(theme.Colors))
	for c := range theme.Colors {
		colors[c] = gray
	}
	colors[core.ColorGray] = lipgloss.NewStyle().Faint(true)
	colors[core.ColorBrightCyan] = lipgloss.NewStyle().Bold(true)
	colors[core.ColorBrightMagenta] = lipgloss.NewStyle().Bold(true)
	theme.Colors = colors
	theme.Info = lipgloss.NewStyle().Bold(true)
	theme.MenuTitle = lipgloss.NewStyle().Bold(true)
	theme.MenuItemActive = lipgloss.NewStyle().Reverse(true)
	return theme
}

var themes = map[string]func() Theme{
	"default": DefaultTheme,
	"neon":    NeonTheme,
	"mono":    MonochromeTheme,
}

// ThemeByName returns a named theme. Empty means default.
func ThemeByName(name string) (Theme, error) {
	if name == "" {
		return DefaultTheme(), nil
	}
	build, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("tui: unknown theme %q (available: %v)", name, ThemeNames())
	}
	return build(), nil
}

// ThemeNames lists the available theme names.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func cloneColors(src map[core.Color]lipgloss.Style) map[core.Color]lipgloss.Style {
	dst := make(map[core.Color]lipgloss.Style, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
