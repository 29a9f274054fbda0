package t2048

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// TileID is an opaque handle that stays with a tile while it slides.
// Renderers use it to animate continuity between moves.
type TileID string

// Tile is a single numbered tile. The zero Tile is an empty slot.
type Tile struct {
	Value    int    `json:"value"`
	ID       TileID `json:"id"`
	IsNew    bool   `json:"isNew"`
	IsMerged bool   `json:"isMerged"`
}

// Empty reports whether the slot holds no tile.
func (t Tile) Empty() bool {
	return t.Value == 0
}

// IDSource hands out unique tile IDs.
type IDSource interface {
	NextID() TileID
}

// Sequence is a monotonic IDSource. The zero value starts at 1.
type Sequence struct {
	next atomic.Uint64
}

// NewSequence creates a sequence whose first ID is start+1.
func NewSequence(start uint64) *Sequence {
	s := &Sequence{}
	s.next.Store(start)
	return s
}

// NextID returns the next ID in the sequence.
func (s *Sequence) NextID() TileID {
	return TileID(strconv.FormatUint(s.next.Add(1), 10))
}

// UUIDs is an IDSource backed by random UUIDs.
// Use it when boards are restored from storage and IDs must not collide.
type UUIDs struct{}

// NextID returns a fresh random UUID.
func (UUIDs) NextID() TileID {
	return TileID(uuid.NewString())
}
