// Package t2048 implements the 2048 sliding-tile puzzle.
//
// The engine half (Board, Slide, Engine.ApplyMove, ...) is pure: every
// operation maps an old state plus input to a new state, with randomness and
// tile IDs injected. Game wraps an engine for a single player session and
// talks to persistence and the platform.
package t2048

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/t2048/internal/core"
)

// GameID identifies the game in score storage.
const GameID = "2048"

// QuickSaveSlot is the save slot used by the save/load keys.
const QuickSaveSlot = "quick"

// ErrNoStore is returned by Save and Load when the game has no store.
var ErrNoStore = errors.New("t2048: no store configured")

// Store is the persistence the game needs. *storage.Store implements it.
type Store interface {
	BestScore(gameID string) (int, error)
	SaveBestScore(gameID string, score int) error
	SaveScore(gameID string, score int) (int64, error)
	SaveGame(gameID, slot string, data []byte) error
	LoadGame(gameID, slot string) ([]byte, error)
}

// Options configures a Game. Zero fields get defaults.
type Options struct {
	Rules  Rules
	Store  Store       // Optional, nil disables persistence
	Logger *log.Logger // Optional, nil discards logs
	IDs    IDSource    // Defaults to UUIDs so restored boards never collide
}

// Game is one player's 2048 session.
type Game struct {
	rules  Rules
	store  Store
	logger *log.Logger
	ids    IDSource

	engine *Engine
	state  GameState

	// Screen dimensions
	screenW  int
	screenH  int
	tooSmall bool

	scoreSaved bool // Final score written for the current lost game
}

// New creates a game. Call Reset before use.
func New(opts Options) *Game {
	g := &Game{
		rules:  opts.Rules.normalized(),
		store:  opts.Store,
		logger: opts.Logger,
		ids:    opts.IDs,
	}
	if g.logger == nil {
		g.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if g.ids == nil {
		g.ids = UUIDs{}
	}
	return g
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameID
}

// Reset seeds the random source and starts a fresh game. The best score is
// read from the store when one is configured.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.engine = NewEngine(g.rules, rand.New(rand.NewSource(seed)), g.ids)
	g.scoreSaved = false
	g.Resize(cfg.ScreenW, cfg.ScreenH)

	best := 0
	if g.store != nil {
		var err error
		best, err = g.store.BestScore(GameID)
		if err != nil {
			g.logger.Warn("could not load best score", "error", err)
		}
	}
	g.state = g.engine.NewGame(best)
}

// Resize updates the screen dimensions without touching the game.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	g.tooSmall = g.screenW < minScreenW || g.screenH < minScreenH
}

// State returns the current engine state.
func (g *Game) State() GameState {
	return g.state
}

// Rules returns the rules in effect.
func (g *Game) Rules() Rules {
	return g.rules
}

// Move applies one move and reports whether it changed the board.
func (g *Game) Move(dir Direction) bool {
	prev := g.state
	next := g.engine.ApplyMove(prev, dir)
	if next.MoveCount == prev.MoveCount {
		return false
	}
	g.state = next
	g.record(prev, next)
	return true
}

// NewGame starts over, carrying the best score forward.
func (g *Game) NewGame() {
	g.state = g.engine.Restart(g.state)
	g.scoreSaved = false
}

// record writes the best score whenever the game is out of the playing state
// and something changed, and the final score once when the game is lost.
func (g *Game) record(prev, next GameState) {
	if g.store == nil || next.Status == StatusPlaying {
		return
	}

	if next.Status != prev.Status || next.BestScore != prev.BestScore {
		if err := g.store.SaveBestScore(GameID, next.BestScore); err != nil {
			g.logger.Warn("could not save best score", "error", err)
		}
	}

	if next.Status == StatusLost && !g.scoreSaved && next.Score > 0 {
		if _, err := g.store.SaveScore(GameID, next.Score); err != nil {
			g.logger.Warn("could not save score", "error", err)
		}
		g.scoreSaved = true
		g.logger.Info("game over", "score", next.Score, "moves", next.MoveCount, "max_tile", MaxTile(next.Board))
	}
}

// Save writes the current state to a save slot.
func (g *Game) Save(slot string) error {
	if g.store == nil {
		return ErrNoStore
	}
	data, err := g.state.Encode()
	if err != nil {
		return fmt.Errorf("t2048: encode state: %w", err)
	}
	return g.store.SaveGame(GameID, slot, data)
}

// Load replaces the current state with a save slot. The best score never
// goes down on load.
func (g *Game) Load(slot string) error {
	if g.store == nil {
		return ErrNoStore
	}
	data, err := g.store.LoadGame(GameID, slot)
	if err != nil {
		return err
	}
	restored, err := DecodeState(data)
	if err != nil {
		return err
	}
	restored.BestScore = max(restored.BestScore, g.state.BestScore, restored.Score)
	g.state = restored
	g.scoreSaved = restored.Status == StatusLost
	return nil
}

// Step applies one batch of input. At most one move is taken per frame.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	var res core.StepResult

	switch {
	case in.Has(core.ActionNewGame):
		g.NewGame()
		res.Info = "New game"
	case in.Has(core.ActionSave):
		res.Info = g.slotInfo("Saved", g.Save(QuickSaveSlot))
	case in.Has(core.ActionLoad):
		res.Info = g.slotInfo("Loaded", g.Load(QuickSaveSlot))
	default:
		if dir, ok := directionFor(in); ok {
			res.Moved = g.Move(dir)
		}
	}

	res.State = g.Summary()
	return res
}

func (g *Game) slotInfo(ok string, err error) string {
	if err == nil {
		return ok
	}
	g.logger.Warn("save slot failed", "error", err)
	if errors.Is(err, ErrNoStore) {
		return "No storage"
	}
	return "Failed"
}

func directionFor(in core.InputFrame) (Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return DirUp, true
	case in.Has(core.ActionDown):
		return DirDown, true
	case in.Has(core.ActionLeft):
		return DirLeft, true
	case in.Has(core.ActionRight):
		return DirRight, true
	}
	return 0, false
}

// Summary returns the platform-facing game state. Won and GameOver follow
// the status, so a lost game never reports a win.
func (g *Game) Summary() core.GameState {
	return core.GameState{
		Score:     g.state.Score,
		BestScore: g.state.BestScore,
		GameOver:  g.state.Status == StatusLost,
		Won:       g.state.Status == StatusWon,
	}
}
