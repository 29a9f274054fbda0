package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/t2048/internal/core"
)

// RenderScreen styles a Screen buffer with the theme. Each run of cells
// sharing a color is rendered with a single style call.
func RenderScreen(s *core.Screen, theme Theme) string {
	var out, run strings.Builder
	out.Grow(s.Width()*s.Height()*2 + s.Height())

	flush := func(c core.Color) {
		if run.Len() == 0 {
			return
		}
		style, ok := theme.Colors[c]
		if !ok {
			style = theme.Colors[core.ColorDefault]
		}
		out.WriteString(style.Render(run.String()))
		run.Reset()
	}

	for y := range s.Height() {
		if y > 0 {
			out.WriteByte('\n')
		}
		color := core.ColorDefault
		for x := range s.Width() {
			cell := s.GetCell(x, y)
			if cell.Color != color {
				flush(color)
				color = cell.Color
			}
			run.WriteRune(cell.Rune)
		}
		flush(color)
	}
	return out.String()
}

// centerText centers text within given width. Styled text is measured by
// its printable width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
