package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/vovakirdan/t2048/internal/config"
	"github.com/vovakirdan/t2048/internal/core"
	"github.com/vovakirdan/t2048/internal/games/t2048"
	"github.com/vovakirdan/t2048/internal/storage"
)

// openStore opens the configured database. When optional is set a failure
// is logged and a nil store returned so play can continue without scores.
func openStore(optional bool) (*storage.Store, error) {
	store, err := storage.Open(appConfig.Storage.DBPath)
	if err != nil {
		if optional {
			logger.Warn("could not open scores database", "path", appConfig.Storage.DBPath, "error", err)
			return nil, nil
		}
		return nil, fmt.Errorf("open scores database: %w", err)
	}
	return store, nil
}

// newGameFactory builds games with the configured rules. A nil store is
// kept out of the interface so the game sees no store at all.
func newGameFactory(store *storage.Store) func(config.DifficultyPreset) *t2048.Game {
	return func(preset config.DifficultyPreset) *t2048.Game {
		rules := appConfig.RulesFor(preset)
		opts := t2048.Options{
			Rules: t2048.Rules{
				WinTile:   rules.WinTile,
				SpawnFour: rules.SpawnFourProbability,
			},
			Logger: logger.WithPrefix("game"),
		}
		if store != nil {
			opts.Store = store
		}
		return t2048.New(opts)
	}
}

// runtimeConfig sizes the screen from the terminal, falling back to the
// core defaults.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.Seed = flagSeed
	return cfg
}
