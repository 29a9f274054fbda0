package core

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW int   // Screen width in characters
	ScreenH int   // Screen height in characters
	Seed    int64 // RNG seed for deterministic gameplay, 0 = time based
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		Seed:    0,
	}
}

// GameState is the platform-facing summary of a game.
type GameState struct {
	Score     int
	BestScore int
	GameOver  bool // No further moves are accepted
	Won       bool // The win tile has been reached
}

// StepResult is returned by Game.Step() after each batch of input.
type StepResult struct {
	State GameState
	Moved bool   // A move changed the board
	Info  string // Short status message for the HUD, e.g. "Saved"
}
