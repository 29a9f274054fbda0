package t2048

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/t2048/internal/core"
)

const (
	cellWidth  = 7 // Width of each cell (including left border)
	cellHeight = 2 // Height of each cell (including top border)
	hudHeight  = 3

	boardW = BoardSize*cellWidth + 1  // +1 for right border
	boardH = BoardSize*cellHeight + 1 // +1 for bottom border

	minScreenW = boardW + 2
	minScreenH = hudHeight + 1 + boardH + 2
)

// tileColors maps tile values to display colors.
var tileColors = map[int]core.Color{
	2:    core.ColorWhite,
	4:    core.ColorBrightWhite,
	8:    core.ColorYellow,
	16:   core.ColorOrange,
	32:   core.ColorRed,
	64:   core.ColorBrightRed,
	128:  core.ColorBrightYellow,
	256:  core.ColorGreen,
	512:  core.ColorBrightGreen,
	1024: core.ColorCyan,
	2048: core.ColorBrightCyan,
}

// TileColor returns the display color of a tile.
func TileColor(t Tile) core.Color {
	if t.IsNew {
		return core.ColorGray
	}
	if c, ok := tileColors[t.Value]; ok {
		return c
	}
	return core.ColorBrightMagenta
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX)
	g.renderBoard(dst, boardX, boardY)
	g.renderOverlays(dst, boardX, boardY)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
}

// renderHUD draws the title, score and status line.
func (g *Game) renderHUD(dst *core.Screen, boardX int) {
	title := "2 0 4 8"
	dst.DrawTextColored(boardX+(boardW-len(title))/2, 0, title, core.ColorBrightYellow)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", g.state.Score))

	best := fmt.Sprintf("Best: %d", g.state.BestScore)
	dst.DrawText(boardX+boardW-len(best), 1, best)

	status := fmt.Sprintf("Moves: %d  Max: %d", g.state.MoveCount, MaxTile(g.state.Board))
	if g.state.Status == StatusWon {
		status = fmt.Sprintf("%d reached! Keep going", g.rules.WinTile)
	}
	dst.DrawTextColored(boardX+(boardW-len(status))/2, 2, status, core.ColorGray)
}

// renderBoard draws the 4x4 grid with tiles.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	for y := range BoardSize + 1 {
		for x := range BoardSize + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == BoardSize:
				corner = '┐'
			case y == BoardSize && x == 0:
				corner = '└'
			case y == BoardSize && x == BoardSize:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == BoardSize:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == BoardSize:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.Set(px, py, corner)

			if x < BoardSize {
				for i := 1; i < cellWidth; i++ {
					dst.Set(px+i, py, '─')
				}
			}
			if y < BoardSize {
				for i := 1; i < cellHeight; i++ {
					dst.Set(px, py+i, '│')
				}
			}
		}
	}

	for y := range BoardSize {
		for x := range BoardSize {
			tile := g.state.Board[y][x]
			if tile.Empty() {
				continue
			}

			cellX := boardX + x*cellWidth + 1
			cellY := boardY + y*cellHeight + 1

			label := tileLabel(tile)
			padLeft := max((cellWidth-1-len(label))/2, 0)
			dst.DrawTextColored(cellX+padLeft, cellY, label, TileColor(tile))
		}
	}
}

// renderOverlays draws the game over box and the controls line.
func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY int) {
	hint := "arrows/wasd move  n new  ^s save  ^l load  q quit"
	if len(hint) > g.screenW {
		hint = "arrows move  n new  q quit"
	}
	dst.DrawTextColored(max((g.screenW-len(hint))/2, 0), boardY+boardH+1, hint, core.ColorGray)

	if g.state.Status != StatusLost {
		return
	}

	g.drawOverlay(dst, core.NewRect(boardX, boardY, boardW, boardH),
		"GAME OVER",
		fmt.Sprintf("Score: %d", g.state.Score),
		"Press N for a new game",
	)
}

// drawOverlay draws a text box centered over area.
func (g *Game) drawOverlay(dst *core.Screen, area core.Rect, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := core.CenteredRect(area.W, area.H, maxLen+4, len(lines)+2).Offset(area.X, area.Y)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	for i, line := range lines {
		dst.DrawText(box.X+(box.W-len(line))/2, box.Y+1+i, line)
	}
}

// tileLabel marks merged tiles with a trailing "+" when the cell has room.
func tileLabel(t Tile) string {
	label := strconv.Itoa(t.Value)
	if t.IsMerged && len(label) < cellWidth-1 {
		label += "+"
	}
	return label
}
