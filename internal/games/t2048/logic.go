package t2048

import (
	"errors"
	"fmt"
	"strings"
)

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// ErrInvalidDirection is returned by ParseDirection for unknown tokens.
var ErrInvalidDirection = errors.New("t2048: invalid direction")

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the four move directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// ParseDirection converts a direction token ("up", "LEFT", ...) to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// turns returns the clockwise quarter turns applied before and after a
// left slide so that the slide moves tiles in direction d.
func (d Direction) turns() (before, after int) {
	switch d {
	case DirUp:
		return 3, 1
	case DirDown:
		return 1, 3
	case DirRight:
		return 2, 2
	case DirLeft:
		return 0, 0
	}
	panic(fmt.Sprintf("t2048: slide with invalid direction %d", int(d)))
}

// BoardSize is the board dimension.
const BoardSize = 4

// WinTile is the default tile value that wins the game.
const WinTile = 2048

// Board is a 4x4 grid of tiles indexed [row][col]. Zero tiles are empty slots.
type Board [BoardSize][BoardSize]Tile

// Pos addresses a board slot.
type Pos struct {
	X int // column
	Y int // row
}

// NewBoard returns an empty board.
func NewBoard() Board {
	return Board{}
}

// Rotate returns b rotated clockwise by quarterTurns * 90 degrees.
// Negative values rotate counter-clockwise.
func Rotate(b Board, quarterTurns int) Board {
	turns := ((quarterTurns % 4) + 4) % 4
	for range turns {
		b = rotateClockwise(b)
	}
	return b
}

func rotateClockwise(b Board) Board {
	var result Board
	for y := range BoardSize {
		for x := range BoardSize {
			result[y][x] = b[BoardSize-1-x][y]
		}
	}
	return result
}

// SlideResult is the outcome of sliding a board in one direction.
type SlideResult struct {
	Board      Board
	ScoreDelta int
	// MergedIDs lists the IDs of tiles consumed by merges.
	MergedIDs []TileID
}

// slideRow slides and merges a single row to the left.
// Each tile takes part in at most one merge.
func slideRow(row [BoardSize]Tile, ids IDSource) (result [BoardSize]Tile, score int, merged []TileID) {
	line := make([]Tile, 0, BoardSize)
	for _, t := range row {
		if !t.Empty() {
			line = append(line, t)
		}
	}

	writePos := 0
	for i := 0; i < len(line); i++ {
		t := line[i]
		if i+1 < len(line) && line[i+1].Value == t.Value {
			value := t.Value * 2
			result[writePos] = Tile{Value: value, ID: ids.NextID(), IsMerged: true}
			score += value
			merged = append(merged, t.ID, line[i+1].ID)
			i++ // the partner is consumed
		} else {
			t.IsNew = false
			t.IsMerged = false
			result[writePos] = t
		}
		writePos++
	}

	return result, score, merged
}

// Slide moves every tile in direction dir, merging equal neighbours.
// The board is rotated so the move becomes a left slide and rotated back after.
// Slide panics if dir is not a valid Direction.
func Slide(b Board, dir Direction, ids IDSource) SlideResult {
	before, after := dir.turns()
	work := Rotate(b, before)

	var res SlideResult
	for y := range BoardSize {
		row, score, merged := slideRow(work[y], ids)
		work[y] = row
		res.ScoreDelta += score
		res.MergedIDs = append(res.MergedIDs, merged...)
	}

	res.Board = Rotate(work, after)
	return res
}

// IsMoveEffective reports whether the boards differ in any tile value,
// position or ID. Presentation flags are ignored.
func IsMoveEffective(oldBoard, newBoard Board) bool {
	for y := range BoardSize {
		for x := range BoardSize {
			a, b := oldBoard[y][x], newBoard[y][x]
			if a.Value != b.Value || a.ID != b.ID {
				return true
			}
		}
	}
	return false
}

// EmptyCells returns the positions of all empty slots in row-major order.
func EmptyCells(b Board) []Pos {
	var cells []Pos
	for y := range BoardSize {
		for x := range BoardSize {
			if b[y][x].Empty() {
				cells = append(cells, Pos{X: x, Y: y})
			}
		}
	}
	return cells
}

// HasEmptyCell returns true if there's at least one empty cell.
func HasEmptyCell(b Board) bool {
	for y := range BoardSize {
		for x := range BoardSize {
			if b[y][x].Empty() {
				return true
			}
		}
	}
	return false
}

// HasPossibleMerge returns true if two horizontally or vertically adjacent
// tiles share a value.
func HasPossibleMerge(b Board) bool {
	for y := range BoardSize {
		for x := range BoardSize {
			val := b[y][x].Value
			if val == 0 {
				continue
			}
			if x < BoardSize-1 && b[y][x+1].Value == val {
				return true
			}
			if y < BoardSize-1 && b[y+1][x].Value == val {
				return true
			}
		}
	}
	return false
}

// IsBoardLocked reports the loss condition: no empty slot and no adjacent equal pair.
func IsBoardLocked(b Board) bool {
	return !HasEmptyCell(b) && !HasPossibleMerge(b)
}

// HasWinningTile reports whether any tile has reached winTile.
func HasWinningTile(b Board, winTile int) bool {
	return MaxTile(b) >= winTile
}

// MaxTile returns the maximum tile value on the board.
func MaxTile(b Board) int {
	maxVal := 0
	for y := range BoardSize {
		for x := range BoardSize {
			if b[y][x].Value > maxVal {
				maxVal = b[y][x].Value
			}
		}
	}
	return maxVal
}

// TotalValue returns the sum of all tile values.
func TotalValue(b Board) int {
	total := 0
	for y := range BoardSize {
		for x := range BoardSize {
			total += b[y][x].Value
		}
	}
	return total
}

// TileCount returns the number of occupied slots.
func TileCount(b Board) int {
	return BoardSize*BoardSize - len(EmptyCells(b))
}
