package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/t2048/internal/games/t2048"
	"github.com/vovakirdan/t2048/internal/platform/tui"
)

var (
	flagScoresLimit int
	flagInteractive bool
	flagClear       bool
	flagScoresTheme string
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top high scores and saved games.

Examples:
  t2048 scores
  t2048 scores --limit 25
  t2048 scores --interactive
  t2048 scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Open the scoreboard screen")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded scores")
	scoresCmd.Flags().StringVar(&flagScoresTheme, "theme", "", "Color theme for --interactive")
}

func runScores(cmd *cobra.Command, _ []string) error {
	store, err := openStore(false)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(t2048.GameID); err != nil {
			return fmt.Errorf("clear scores: %w", err)
		}
		fmt.Println("Scores cleared.")
		return nil
	}

	if flagInteractive {
		theme, err := tui.ThemeByName(flagScoresTheme)
		if err != nil {
			return err
		}
		cfg := runtimeConfig()
		return tui.RunScoreboard(store, theme, cfg.ScreenW, cfg.ScreenH)
	}

	// Get top scores
	scores, err := store.TopScores(t2048.GameID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieve scores: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "High Scores - 2048")
	fmt.Fprintln(out)

	if len(scores) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Play 't2048 play' to set the first high score!")
		return nil
	}

	// Print header
	fmt.Fprintf(out, "  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Fprintf(out, "  %-4s  %-10s  %s\n", "----", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Fprintf(out, "  %-4d  %-10d  %s\n", i+1, entry.Score, dateStr)
	}

	fmt.Fprintln(out)
	if best, err := store.BestScore(t2048.GameID); err == nil {
		fmt.Fprintf(out, "Best: %d\n", best)
	}

	if slots, err := store.ListGames(t2048.GameID); err == nil && len(slots) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Saved games:")
		for _, slot := range slots {
			fmt.Fprintf(out, "  %-10s  %s\n", slot.Slot, slot.SavedAt.Format("2006-01-02 15:04"))
		}
	}
	return nil
}
