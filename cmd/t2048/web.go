package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/t2048/internal/platform/web"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the 2048 HTTP/WebSocket server",
	Long: `Start an HTTP server for browser clients.

Endpoints:
  GET /health                  - Liveness check
  GET /api/scores?limit=N      - Top scores as JSON
  GET /api/stats               - Aggregate statistics as JSON
  GET /ws?difficulty=<preset>  - WebSocket game session

WebSocket messages are JSON objects:
  {"type":"move","direction":"left"}
  {"type":"new_game"}
  {"type":"save","slot":"a"}  {"type":"load","slot":"a"}
  {"type":"state"}

Examples:
  t2048 web
  t2048 web --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", "", "HTTP listen address (overrides config)")
}

func runWeb(cmd *cobra.Command, _ []string) error {
	addr := appConfig.Web.Address
	if flagWebAddr != "" {
		addr = flagWebAddr
	}

	store, err := openStore(false)
	if err != nil {
		return err
	}
	defer store.Close()

	server, err := web.NewServer(web.ServerConfig{
		Address: addr,
		NewGame: newGameFactory(store),
		Store:   store,
		Seed:    flagSeed,
		Logger:  logger.WithPrefix("web"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Starting 2048 web server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(cmd.Context())
}
