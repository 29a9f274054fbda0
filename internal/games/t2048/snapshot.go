package t2048

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedState is returned when a saved game fails validation.
var ErrMalformedState = errors.New("t2048: malformed game state")

// MarshalJSON encodes the board as a 4x4 array where empty slots are null.
func (b Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*Tile, BoardSize)
	for y := range BoardSize {
		rows[y] = make([]*Tile, BoardSize)
		for x := range BoardSize {
			if t := b[y][x]; !t.Empty() {
				rows[y][x] = &t
			}
		}
	}
	return json.Marshal(rows)
}

// UnmarshalJSON decodes a board written by MarshalJSON.
func (b *Board) UnmarshalJSON(data []byte) error {
	var rows [][]*Tile
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	if len(rows) != BoardSize {
		return fmt.Errorf("%w: board has %d rows", ErrMalformedState, len(rows))
	}

	var out Board
	for y, row := range rows {
		if len(row) != BoardSize {
			return fmt.Errorf("%w: row %d has %d slots", ErrMalformedState, y, len(row))
		}
		for x, t := range row {
			if t == nil {
				continue
			}
			if !isTileValue(t.Value) {
				return fmt.Errorf("%w: tile value %d at (%d,%d)", ErrMalformedState, t.Value, x, y)
			}
			out[y][x] = *t
		}
	}
	*b = out
	return nil
}

func isTileValue(v int) bool {
	return v >= 2 && v&(v-1) == 0
}

// Encode serializes the state for save slots.
func (s GameState) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeState restores a state written by Encode.
func DecodeState(data []byte) (GameState, error) {
	var s GameState
	if err := json.Unmarshal(data, &s); err != nil {
		if errors.Is(err, ErrMalformedState) {
			return GameState{}, err
		}
		return GameState{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if !s.Status.Valid() {
		return GameState{}, fmt.Errorf("%w: status %q", ErrMalformedState, s.Status)
	}
	if s.Score < 0 || s.BestScore < 0 || s.MoveCount < 0 {
		return GameState{}, fmt.Errorf("%w: negative counter", ErrMalformedState)
	}
	if err := checkTiles(s.Board); err != nil {
		return GameState{}, err
	}
	return s, nil
}

// checkTiles requires at least one tile and a unique non-empty id on each.
// A missing board decodes to an empty one and fails here.
func checkTiles(b Board) error {
	seen := make(map[TileID]struct{}, BoardSize*BoardSize)
	for y := range BoardSize {
		for x := range BoardSize {
			t := b[y][x]
			if t.Empty() {
				continue
			}
			if t.ID == "" {
				return fmt.Errorf("%w: tile at (%d,%d) has no id", ErrMalformedState, x, y)
			}
			if _, dup := seen[t.ID]; dup {
				return fmt.Errorf("%w: duplicate tile id %q", ErrMalformedState, t.ID)
			}
			seen[t.ID] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return fmt.Errorf("%w: board has no tiles", ErrMalformedState)
	}
	return nil
}
