// t2048 is the 2048 sliding-tile puzzle for the terminal, SSH and the browser.
//
// Usage:
//
//	t2048 play             - Play in this terminal
//	t2048 serve            - Start SSH server for remote play
//	t2048 web              - Start HTTP/WebSocket server
//	t2048 scores           - Show high scores
//	t2048 config           - Print the effective configuration
//
// Global flags:
//
//	--config <path> - Config file (default: ~/.t2048/config.yaml)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Override the database path
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/t2048/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string

	// Set by the root PersistentPreRunE
	appConfig config.Config
	logger    *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 - Slide tiles and reach 2048 in your terminal",
	Long: `t2048 is the 2048 sliding-tile puzzle.

Slide the board in one of four directions. Equal tiles that touch merge
into their sum. Reach 2048 to win; fill the board with no merges left and
the game is over.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  web      - Start HTTP/WebSocket server
  scores   - View high scores
  config   - Print the effective configuration

Examples:
  t2048 play
  t2048 play --difficulty hard --theme neon
  t2048 serve --ssh :2222
  t2048 web --addr :9090
  t2048 scores`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed for play and web games (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig resolves the config file and applies flag overrides.
func loadConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	appConfig = cfg
	logger = config.NewLogger(os.Stderr, cfg.Log, "t2048")
	return nil
}
