// Package web serves 2048 over HTTP. Each WebSocket connection plays its own
// game; a small JSON API exposes the score table.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/t2048/internal/config"
	"github.com/vovakirdan/t2048/internal/games/t2048"
	"github.com/vovakirdan/t2048/internal/storage"
)

const (
	defaultScoreLimit = 10
	maxScoreLimit     = 100
)

// GameFactory creates a game for a difficulty preset.
type GameFactory func(preset config.DifficultyPreset) *t2048.Game

// ServerConfig holds configuration for the web server.
type ServerConfig struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// NewGame creates a game per connection. Required.
	NewGame GameFactory

	// Store backs the score API. Optional.
	Store *storage.Store

	// Seed fixes the random source of every game. Zero seeds from the clock.
	Seed int64

	// Logger receives request and session events. Optional.
	Logger *log.Logger
}

// Server is the HTTP front end.
type Server struct {
	config   ServerConfig
	router   chi.Router
	upgrader websocket.Upgrader
	logger   *log.Logger
	httpSrv  *http.Server
	sessions atomic.Int64
}

// NewServer builds the router. It does not start listening.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.NewGame == nil {
		return nil, errors.New("web: server needs a game factory")
	}
	if cfg.Address == "" {
		cfg.Address = ":8080"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	s := &Server{
		config: cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers on any origin may play; there is no cookie state to protect
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.router = s.routes()
	s.httpSrv = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/scores", s.handleScores)
		r.Get("/stats", s.handleStats)
	})
	r.Get("/ws", s.handleWebSocket)

	return r
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ActiveSessions returns the number of open WebSocket games.
func (s *Server) ActiveSessions() int {
	return int(s.sessions.Load())
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.config.Address
}

// ListenAndServe serves until SIGINT/SIGTERM or ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("web: listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting web server", "address", ln.Addr().String())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type scoreResponse struct {
	Rank      int       `json:"rank"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.config.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "no score database configured")
		return
	}

	limit := defaultScoreLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxScoreLimit)
	}

	entries, err := s.config.Store.TopScores(t2048.GameID, limit)
	if err != nil {
		s.logger.Error("load scores", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load scores")
		return
	}

	scores := make([]scoreResponse, len(entries))
	for i, e := range entries {
		scores[i] = scoreResponse{Rank: i + 1, Score: e.Score, CreatedAt: e.CreatedAt}
	}
	writeJSON(w, http.StatusOK, map[string]any{"scores": scores})
}

type statsResponse struct {
	GamesCount int        `json:"gamesCount"`
	HighScore  int        `json:"highScore"`
	BestScore  int        `json:"bestScore"`
	AvgScore   float64    `json:"avgScore"`
	TotalScore int64      `json:"totalScore"`
	SavedGames int        `json:"savedGames"`
	LastPlayed *time.Time `json:"lastPlayed,omitempty"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.config.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "no score database configured")
		return
	}

	stats, err := s.config.Store.GetGameStats(t2048.GameID)
	if err != nil {
		s.logger.Error("load stats", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load stats")
		return
	}

	resp := statsResponse{
		GamesCount: stats.GamesCount,
		HighScore:  stats.HighScore,
		BestScore:  stats.BestScore,
		AvgScore:   stats.AvgScore,
		TotalScore: stats.TotalScore,
		SavedGames: stats.SavedGames,
	}
	if !stats.LastPlayed.IsZero() {
		resp.LastPlayed = &stats.LastPlayed
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	preset, err := config.ParseDifficulty(r.URL.Query().Get("difficulty"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.sessions.Add(1)
	defer s.sessions.Add(-1)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sess := newSession(conn, s.config.NewGame(preset), s.config.Seed, s.logger.With(
		"remote", r.RemoteAddr,
		"difficulty", preset,
	))
	sess.run()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
