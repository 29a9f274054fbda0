package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/t2048/internal/config"
	"github.com/vovakirdan/t2048/internal/platform/tui"
)

var (
	flagDifficulty string
	flagTheme      string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048 in this terminal",
	Long: `Start a game in the local terminal.

Without --difficulty a menu lets you pick a difficulty or open the
scoreboard. With --difficulty the game starts right away.

Controls:
  Arrows/WASD/HJKL - Slide
  N/R              - New game
  Ctrl+S / Ctrl+L  - Save / load quick slot
  Ctrl+P           - Screenshot
  ?                - Toggle help
  Esc/B            - Back to menu
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - 5% of new tiles are 4s
  normal - Configured rate (10% by default)
  hard   - 25% of new tiles are 4s

Examples:
  t2048 play
  t2048 play --difficulty easy
  t2048 play --theme mono --seed 42`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard (skips the menu)")
	playCmd.Flags().StringVar(&flagTheme, "theme", "", fmt.Sprintf("Color theme: %v", tui.ThemeNames()))
}

func runPlay(cmd *cobra.Command, _ []string) error {
	theme, err := tui.ThemeByName(flagTheme)
	if err != nil {
		return err
	}

	// Continue without storage - game still works
	store, _ := openStore(true)
	if store != nil {
		defer store.Close()
	}

	newGame := newGameFactory(store)
	cfg := runtimeConfig()

	if !cmd.Flags().Changed("difficulty") {
		return tui.RunSession(newGame, store, cfg, theme)
	}

	preset, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		return err
	}
	return tui.Run(newGame(preset), cfg, theme)
}
