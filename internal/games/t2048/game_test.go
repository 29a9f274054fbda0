package t2048

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/t2048/internal/core"
)

var errSlotMissing = errors.New("slot missing")

// memStore is an in-memory Store that counts writes.
type memStore struct {
	best      map[string]int
	bestSaves int
	scores    []int
	slots     map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{
		best:  make(map[string]int),
		slots: make(map[string][]byte),
	}
}

func (m *memStore) BestScore(gameID string) (int, error) {
	return m.best[gameID], nil
}

func (m *memStore) SaveBestScore(gameID string, score int) error {
	m.bestSaves++
	m.best[gameID] = max(m.best[gameID], score)
	return nil
}

func (m *memStore) SaveScore(_ string, score int) (int64, error) {
	m.scores = append(m.scores, score)
	return int64(len(m.scores)), nil
}

func (m *memStore) SaveGame(gameID, slot string, data []byte) error {
	m.slots[gameID+"/"+slot] = data
	return nil
}

func (m *memStore) LoadGame(gameID, slot string) ([]byte, error) {
	data, ok := m.slots[gameID+"/"+slot]
	if !ok {
		return nil, errSlotMissing
	}
	return data, nil
}

func newTestGame(store Store) *Game {
	g := New(Options{Store: store, IDs: &Sequence{}})
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 42})
	return g
}

func TestGameReset(t *testing.T) {
	store := newMemStore()
	store.best[GameID] = 700

	g := newTestGame(store)
	s := g.State()

	if s.BestScore != 700 {
		t.Errorf("BestScore = %d, want 700 from store", s.BestScore)
	}
	if TileCount(s.Board) != InitialTiles {
		t.Errorf("TileCount = %d, want %d", TileCount(s.Board), InitialTiles)
	}
	if s.Status != StatusPlaying {
		t.Errorf("Status = %s, want playing", s.Status)
	}
}

func TestGameSeedIsDeterministic(t *testing.T) {
	a := newTestGame(nil)
	b := newTestGame(nil)

	for _, dir := range []Direction{DirLeft, DirUp, DirRight, DirDown, DirLeft, DirUp} {
		a.Move(dir)
		b.Move(dir)
	}

	if values(a.State().Board) != values(b.State().Board) {
		t.Error("games with the same seed should play out identically")
	}
}

func TestGameResizeKeepsState(t *testing.T) {
	g := newTestGame(nil)
	g.state.Score = 96
	before := g.State()

	g.Resize(20, 10)
	if !g.tooSmall {
		t.Error("20x10 should be too small")
	}

	g.Resize(100, 40)
	if g.tooSmall {
		t.Error("100x40 should fit")
	}
	if g.State() != before {
		t.Error("resize should not touch the game")
	}
}

func TestGameWinSavesBestScore(t *testing.T) {
	store := newMemStore()
	g := newTestGame(store)
	g.state = GameState{
		Board:  board([BoardSize][BoardSize]int{{1024, 1024, 0, 0}}),
		Status: StatusPlaying,
	}

	if !g.Move(DirLeft) {
		t.Fatal("move should be effective")
	}
	if g.State().Status != StatusWon {
		t.Fatalf("Status = %s, want won", g.State().Status)
	}
	if store.bestSaves != 1 || store.best[GameID] != 2048 {
		t.Errorf("best score saves = %d (best %d), want 1 save of 2048", store.bestSaves, store.best[GameID])
	}
	if len(store.scores) != 0 {
		t.Error("a won game should not record a final score")
	}
	if !g.Summary().Won {
		t.Error("Summary should report the win")
	}
}

func TestGameLostRecordsScoreOnce(t *testing.T) {
	store := newMemStore()
	g := newTestGame(store)
	g.state = GameState{
		Board:     nearlyLocked(),
		Score:     1000,
		BestScore: 900,
		Status:    StatusWon,
	}

	if !g.Move(DirRight) {
		t.Fatal("move should be effective")
	}
	if g.State().Status != StatusLost {
		t.Fatalf("Status = %s, want lost", g.State().Status)
	}
	if len(store.scores) != 1 || store.scores[0] != 1000 {
		t.Errorf("scores = %v, want [1000]", store.scores)
	}
	if store.best[GameID] != 1000 {
		t.Errorf("best = %d, want 1000", store.best[GameID])
	}

	for _, dir := range []Direction{DirUp, DirDown, DirLeft, DirRight} {
		if g.Move(dir) {
			t.Errorf("Move(%s) should be rejected after losing", dir)
		}
	}
	if len(store.scores) != 1 {
		t.Errorf("final score recorded %d times, want 1", len(store.scores))
	}
	if sum := g.Summary(); !sum.GameOver || sum.Won {
		t.Errorf("Summary = %+v, want game over without a win", sum)
	}
}

func TestGamePlayingDoesNotPersist(t *testing.T) {
	store := newMemStore()
	g := newTestGame(store)
	g.state = GameState{
		Board:  board([BoardSize][BoardSize]int{{2, 2, 0, 0}}),
		Status: StatusPlaying,
	}

	g.Move(DirLeft)

	if store.bestSaves != 0 || len(store.scores) != 0 {
		t.Errorf("playing moves should not write to the store: %d best, %d scores", store.bestSaves, len(store.scores))
	}
}

func TestGameNewGameKeepsBest(t *testing.T) {
	g := newTestGame(nil)
	g.state.Score = 500
	g.state.BestScore = 300

	g.NewGame()

	s := g.State()
	if s.BestScore != 500 || s.Score != 0 || s.MoveCount != 0 {
		t.Errorf("after NewGame: %+v, want score 0, best 500", s)
	}
}

func TestGameSaveLoad(t *testing.T) {
	store := newMemStore()
	g := newTestGame(store)

	g.Move(DirLeft)
	g.Move(DirUp)
	saved := g.State()

	if err := g.Save("slot1"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	g.NewGame()
	if err := g.Load("slot1"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	got := g.State()
	if got.Board != saved.Board || got.Score != saved.Score || got.MoveCount != saved.MoveCount {
		t.Errorf("loaded state differs:\ngot  %+v\nwant %+v", got, saved)
	}

	if err := g.Load("nope"); !errors.Is(err, errSlotMissing) {
		t.Errorf("Load missing slot error = %v, want errSlotMissing", err)
	}
}

func TestGameLoadKeepsHigherBest(t *testing.T) {
	store := newMemStore()
	g := newTestGame(store)
	if err := g.Save("old"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	g.state.BestScore = 4000
	if err := g.Load("old"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if g.State().BestScore != 4000 {
		t.Errorf("BestScore = %d, want 4000", g.State().BestScore)
	}
}

func TestGameWithoutStore(t *testing.T) {
	g := newTestGame(nil)

	if err := g.Save(QuickSaveSlot); !errors.Is(err, ErrNoStore) {
		t.Errorf("Save error = %v, want ErrNoStore", err)
	}
	if err := g.Load(QuickSaveSlot); !errors.Is(err, ErrNoStore) {
		t.Errorf("Load error = %v, want ErrNoStore", err)
	}
}

func TestGameStep(t *testing.T) {
	store := newMemStore()
	g := newTestGame(store)
	g.state = GameState{
		Board:  board([BoardSize][BoardSize]int{{2, 2, 0, 0}}),
		Status: StatusPlaying,
	}

	in := core.NewInputFrame()
	in.Set(core.ActionLeft)
	res := g.Step(in)
	if !res.Moved || res.State.Score != 4 {
		t.Errorf("Step(left) = %+v, want moved with score 4", res)
	}

	in.Clear()
	in.Set(core.ActionSave)
	if res := g.Step(in); res.Info != "Saved" {
		t.Errorf("Step(save) info = %q, want Saved", res.Info)
	}

	in.Clear()
	in.Set(core.ActionNewGame)
	if res := g.Step(in); res.State.Score != 0 || res.State.BestScore != 4 {
		t.Errorf("Step(new game) = %+v, want score 0 best 4", res.State)
	}

	in.Clear()
	in.Set(core.ActionLoad)
	if res := g.Step(in); res.Info != "Loaded" || res.State.Score != 4 {
		t.Errorf("Step(load) = %+v, want loaded score 4", res)
	}

	in.Clear()
	if res := g.Step(in); res.Moved {
		t.Error("empty frame should not move")
	}
}

func TestGameStepNoStore(t *testing.T) {
	g := newTestGame(nil)

	in := core.NewInputFrame()
	in.Set(core.ActionSave)
	if res := g.Step(in); res.Info != "No storage" {
		t.Errorf("Step(save) info = %q, want No storage", res.Info)
	}
}

func TestGameRender(t *testing.T) {
	g := newTestGame(nil)
	g.state = GameState{
		Board:     board([BoardSize][BoardSize]int{{2048, 4, 0, 0}, {0, 0, 16, 0}}),
		Score:     1234,
		BestScore: 5678,
		Status:    StatusPlaying,
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	for _, want := range []string{"2 0 4 8", "Score: 1234", "Best: 5678", "2048", "16", "┌", "┘"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
	if strings.Contains(out, "GAME OVER") {
		t.Error("playing game should not show the game over box")
	}

	g.state.Status = StatusLost
	g.Render(screen)
	if !strings.Contains(screen.String(), "GAME OVER") {
		t.Error("lost game should show the game over box")
	}

	g.Resize(10, 5)
	small := core.NewScreen(10, 5)
	g.Render(small)
	if !strings.Contains(small.String(), "Need") {
		t.Error("small screen should show the size hint")
	}
}

func TestTileColor(t *testing.T) {
	if TileColor(Tile{Value: 2, IsNew: true}) != core.ColorGray {
		t.Error("new tiles should render gray")
	}
	if TileColor(Tile{Value: 2048}) != core.ColorBrightCyan {
		t.Error("2048 should render bright cyan")
	}
	if TileColor(Tile{Value: 8192}) != core.ColorBrightMagenta {
		t.Error("tiles above 2048 should render magenta")
	}
}

func TestTileLabel(t *testing.T) {
	tests := []struct {
		tile Tile
		want string
	}{
		{Tile{Value: 2}, "2"},
		{Tile{Value: 2048, IsMerged: true}, "2048+"},
		{Tile{Value: 65536, IsMerged: true}, "65536+"},
		{Tile{Value: 131072, IsMerged: true}, "131072"},
		{Tile{Value: 131072}, "131072"},
	}

	for _, tt := range tests {
		got := tileLabel(tt.tile)
		if got != tt.want {
			t.Errorf("tileLabel(%+v) = %q, want %q", tt.tile, got, tt.want)
		}
		if len(got) > cellWidth-1 {
			t.Errorf("tileLabel(%+v) = %q overflows the cell", tt.tile, got)
		}
	}
}
