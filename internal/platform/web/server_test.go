package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/t2048/internal/config"
	"github.com/vovakirdan/t2048/internal/games/t2048"
	"github.com/vovakirdan/t2048/internal/storage"
)

func newTestServer(t *testing.T, store *storage.Store) *httptest.Server {
	t.Helper()
	_, ts := startServer(t, ServerConfig{Store: store})
	return ts
}

// startServer fills in a game factory backed by cfg.Store.
func startServer(t *testing.T, cfg ServerConfig) (*Server, *httptest.Server) {
	t.Helper()

	store := cfg.Store
	cfg.NewGame = func(preset config.DifficultyPreset) *t2048.Game {
		opts := t2048.Options{
			Rules: t2048.Rules{WinTile: t2048.WinTile, SpawnFour: config.SpawnFourForPreset(preset)},
			IDs:   &t2048.Sequence{},
		}
		if store != nil {
			opts.Store = store
		}
		return t2048.New(opts)
	}

	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "web.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial(%s) failed: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg ClientMessage) ServerMessage {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("WriteJSON(%+v) failed: %v", msg, err)
	}
	return readMessage(t, conn)
}

func readMessage(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var reply ServerMessage
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("ReadJSON() failed: %v", err)
	}
	return reply
}

func TestNewServerRequiresFactory(t *testing.T) {
	if _, err := NewServer(ServerConfig{}); err == nil {
		t.Error("NewServer without a factory should fail")
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body["status"] != "ok" {
		t.Errorf("body = %v, err = %v", body, err)
	}
}

func TestScoresWithoutStore(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, path := range []string{"/api/scores", "/api/stats"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want 503", path, resp.StatusCode)
		}
	}
}

func TestScores(t *testing.T) {
	store := openTestStore(t)
	for _, score := range []int{120, 480, 64} {
		if _, err := store.SaveScore(t2048.GameID, score); err != nil {
			t.Fatalf("SaveScore: %v", err)
		}
	}
	ts := newTestServer(t, store)

	resp, err := http.Get(ts.URL + "/api/scores?limit=2")
	if err != nil {
		t.Fatalf("GET /api/scores: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Scores []scoreResponse `json:"scores"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Scores) != 2 {
		t.Fatalf("got %d scores, want 2", len(body.Scores))
	}
	if body.Scores[0].Score != 480 || body.Scores[0].Rank != 1 || body.Scores[1].Score != 120 {
		t.Errorf("scores = %+v", body.Scores)
	}

	bad, err := http.Get(ts.URL + "/api/scores?limit=zero")
	if err != nil {
		t.Fatalf("GET bad limit: %v", err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", bad.StatusCode)
	}
}

func TestStats(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveScore(t2048.GameID, 300); err != nil {
		t.Fatalf("SaveScore: %v", err)
	}
	ts := newTestServer(t, store)

	resp, err := http.Get(ts.URL + "/api/stats")
	if err != nil {
		t.Fatalf("GET /api/stats: %v", err)
	}
	defer resp.Body.Close()

	var stats statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.GamesCount != 1 || stats.HighScore != 300 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestWebSocketRejectsUnknownDifficulty(t *testing.T) {
	ts := newTestServer(t, nil)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?difficulty=nightmare"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial should fail for an unknown difficulty")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Errorf("response = %v, want 400", resp)
	}
}

func TestWebSocketPlay(t *testing.T) {
	ts := newTestServer(t, nil)
	conn := dial(t, ts, "?difficulty=easy")

	first := readMessage(t, conn)
	if first.Type != MsgUpdate || first.State == nil {
		t.Fatalf("first message = %+v, want state update", first)
	}
	if first.State.Status != t2048.StatusPlaying || t2048.TileCount(first.State.Board) != t2048.InitialTiles {
		t.Errorf("initial state = %+v", first.State)
	}

	// Some direction always moves a fresh two-tile board
	var moved bool
	for _, dir := range []string{"left", "up", "right", "down"} {
		reply := roundTrip(t, conn, ClientMessage{Type: MsgMove, Direction: dir})
		if reply.Type != MsgUpdate {
			t.Fatalf("move %s reply = %+v", dir, reply)
		}
		if reply.Moved {
			moved = true
			if reply.State.MoveCount != 1 || t2048.TileCount(reply.State.Board) < t2048.InitialTiles {
				t.Errorf("state after move = %+v", reply.State)
			}
			break
		}
	}
	if !moved {
		t.Fatal("no direction moved the board")
	}

	tests := []struct {
		name string
		msg  ClientMessage
		want string
	}{
		{"bad direction", ClientMessage{Type: MsgMove, Direction: "sideways"}, "sideways"},
		{"unknown type", ClientMessage{Type: "undo"}, "unknown message type"},
		{"save without store", ClientMessage{Type: MsgSave}, "no storage"},
		{"load without store", ClientMessage{Type: MsgLoad, Slot: "a"}, "no storage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := roundTrip(t, conn, tt.msg)
			if reply.Type != MsgError || !strings.Contains(reply.Error, tt.want) {
				t.Errorf("reply = %+v, want error containing %q", reply, tt.want)
			}
		})
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if reply := readMessage(t, conn); reply.Type != MsgError {
		t.Errorf("malformed reply = %+v, want error", reply)
	}

	reply := roundTrip(t, conn, ClientMessage{Type: MsgNewGame})
	if reply.Info != "New game" || reply.State.MoveCount != 0 || reply.State.Score != 0 {
		t.Errorf("new game reply = %+v", reply)
	}
}

func TestWebSocketSaveLoad(t *testing.T) {
	store := openTestStore(t)
	ts := newTestServer(t, store)
	conn := dial(t, ts, "")

	saved := readMessage(t, conn).State

	if reply := roundTrip(t, conn, ClientMessage{Type: MsgSave, Slot: "slot1"}); reply.Info != "Saved" {
		t.Fatalf("save reply = %+v", reply)
	}

	// Move away from the saved position, then load it back
	roundTrip(t, conn, ClientMessage{Type: MsgNewGame})

	reply := roundTrip(t, conn, ClientMessage{Type: MsgLoad, Slot: "slot1"})
	if reply.Info != "Loaded" || reply.State.Board != saved.Board {
		t.Errorf("load reply = %+v, want saved board", reply)
	}

	if reply := roundTrip(t, conn, ClientMessage{Type: MsgLoad, Slot: "missing"}); reply.Type != MsgError {
		t.Errorf("missing slot reply = %+v, want error", reply)
	}
}

func TestWebSocketSeed(t *testing.T) {
	_, ts := startServer(t, ServerConfig{Seed: 7})

	first := readMessage(t, dial(t, ts, "")).State
	second := readMessage(t, dial(t, ts, "")).State

	if first.Board != second.Board {
		t.Errorf("seeded games differ:\n%+v\n%+v", first.Board, second.Board)
	}
}

func TestWebSocketClientThatNeverReads(t *testing.T) {
	srv, ts := startServer(t, ServerConfig{})
	conn := dial(t, ts, "")

	// Flood until the socket buffers fill and the write deadline trips
	msg := []byte(`{"type":"state"}`)
	_ = conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	for {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
	conn.Close()

	deadline := time.Now().Add(writeWait + 5*time.Second)
	for srv.ActiveSessions() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("%d sessions still open after the client went away", srv.ActiveSessions())
		}
		time.Sleep(50 * time.Millisecond)
	}
}
