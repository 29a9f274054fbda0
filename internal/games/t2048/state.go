package t2048

// Status is the game lifecycle state.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPlaying, StatusWon, StatusLost:
		return true
	}
	return false
}

// InitialTiles is the number of tiles spawned on a fresh board.
const InitialTiles = 2

// GameState is an immutable snapshot of a game. Engine methods return new values.
type GameState struct {
	Board     Board  `json:"board"`
	Score     int    `json:"score"`
	BestScore int    `json:"bestScore"`
	Status    Status `json:"status"`
	MoveCount int    `json:"moveCount"`
}

// Rules parameterize the engine.
type Rules struct {
	WinTile   int     // Tile value that wins the game
	SpawnFour float64 // Probability of spawning 4 instead of 2 (0.0-1.0)
}

// DefaultRules returns the classic rules: win at 2048, 10% fours.
func DefaultRules() Rules {
	return Rules{
		WinTile:   WinTile,
		SpawnFour: DefaultSpawnFour,
	}
}

func (r Rules) normalized() Rules {
	if r.WinTile <= 0 {
		r.WinTile = WinTile
	}
	if r.SpawnFour < 0 || r.SpawnFour > 1 {
		r.SpawnFour = DefaultSpawnFour
	}
	return r
}

// Engine applies moves to game states. It holds the injected random and ID
// sources and is not safe for concurrent use unless both sources are.
type Engine struct {
	rules Rules
	rng   Rand
	ids   IDSource
}

// NewEngine creates an engine. A nil ids defaults to a fresh Sequence.
func NewEngine(rules Rules, rng Rand, ids IDSource) *Engine {
	if ids == nil {
		ids = &Sequence{}
	}
	return &Engine{
		rules: rules.normalized(),
		rng:   rng,
		ids:   ids,
	}
}

// Rules returns the rules in effect.
func (e *Engine) Rules() Rules {
	return e.rules
}

// SpawnTile spawns one tile using the engine's sources.
func (e *Engine) SpawnTile(b Board) Board {
	return SpawnTile(b, e.rng, e.ids, e.rules.SpawnFour)
}

// Slide slides b using the engine's ID source.
func (e *Engine) Slide(b Board, dir Direction) SlideResult {
	return Slide(b, dir, e.ids)
}

// NewGame returns a fresh game with two spawned tiles. bestScore seeds the
// best score, typically from persistent storage.
func (e *Engine) NewGame(bestScore int) GameState {
	board := NewBoard()
	for range InitialTiles {
		board = e.SpawnTile(board)
	}
	return GameState{
		Board:     board,
		BestScore: max(bestScore, 0),
		Status:    StatusPlaying,
	}
}

// Restart starts a new game, keeping only the best score of prev.
func (e *Engine) Restart(prev GameState) GameState {
	return e.NewGame(max(prev.BestScore, prev.Score))
}

// ApplyMove applies one move. Moves that change nothing return s unchanged:
// no tile spawns, no turn is consumed. A lost game never changes.
func (e *Engine) ApplyMove(s GameState, dir Direction) GameState {
	if s.Status == StatusLost {
		return s
	}

	res := e.Slide(s.Board, dir)
	if !IsMoveEffective(s.Board, res.Board) {
		return s
	}

	next := s
	next.Board = e.SpawnTile(res.Board)
	next.Score = s.Score + res.ScoreDelta
	next.BestScore = max(s.BestScore, next.Score)

	switch {
	case HasWinningTile(next.Board, e.rules.WinTile) && s.Status == StatusPlaying:
		next.Status = StatusWon
	case IsBoardLocked(next.Board):
		next.Status = StatusLost
	}

	next.MoveCount = s.MoveCount + 1
	return next
}
