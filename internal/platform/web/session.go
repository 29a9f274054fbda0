package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/t2048/internal/core"
	"github.com/vovakirdan/t2048/internal/games/t2048"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	sendBuffer = 16
)

// Client message types.
const (
	MsgMove    = "move"
	MsgNewGame = "new_game"
	MsgSave    = "save"
	MsgLoad    = "load"
	MsgState   = "state"
)

// Server message types.
const (
	MsgUpdate = "update"
	MsgError  = "error"
)

// ClientMessage is a command sent by the browser.
type ClientMessage struct {
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty"`
	Slot      string `json:"slot,omitempty"`
}

// ServerMessage is sent after every command. State is set on updates and
// Error on failures.
type ServerMessage struct {
	Type  string           `json:"type"`
	State *t2048.GameState `json:"state,omitempty"`
	Moved bool             `json:"moved,omitempty"`
	Info  string           `json:"info,omitempty"`
	Error string           `json:"error,omitempty"`
}

// session owns one connection and one game. Only the read loop touches the
// game; writes go through send so the connection has a single writer.
type session struct {
	conn   *websocket.Conn
	game   *t2048.Game
	seed   int64
	logger *log.Logger
	send   chan ServerMessage

	// done is closed when the reader exits, writerDone when the writer does.
	done       chan struct{}
	writerDone chan struct{}
}

func newSession(conn *websocket.Conn, game *t2048.Game, seed int64, logger *log.Logger) *session {
	return &session{
		conn:       conn,
		game:       game,
		seed:       seed,
		logger:     logger,
		send:       make(chan ServerMessage, sendBuffer),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
}

func (s *session) run() {
	start := time.Now()
	s.logger.Info("session started")

	s.game.Reset(core.RuntimeConfig{Seed: s.seed})
	go s.writePump()
	if s.push(s.update(false, "")) {
		s.readPump()
	}

	s.logger.Info("session ended",
		"score", s.game.State().Score,
		"moves", s.game.State().MoveCount,
		"duration", time.Since(start).Round(time.Second),
	)
}

// readPump decodes commands until the peer goes away.
func (s *session) readPump() {
	defer func() {
		close(s.done)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			if !s.push(errorMessage("malformed message")) {
				return
			}
			continue
		}
		if !s.push(s.handle(msg)) {
			return
		}
	}
}

// writePump serializes outgoing messages and keeps the connection alive.
func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(s.writerDone)
		s.conn.Close()
	}()

	for {
		select {
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.done:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// push queues msg for the writer. It reports false once the writer has
// stopped, after which nothing drains send.
func (s *session) push(msg ServerMessage) bool {
	select {
	case s.send <- msg:
		return true
	case <-s.writerDone:
		return false
	}
}

// handle applies one command to the game.
func (s *session) handle(msg ClientMessage) ServerMessage {
	switch msg.Type {
	case MsgMove:
		dir, err := t2048.ParseDirection(msg.Direction)
		if err != nil {
			return errorMessage(err.Error())
		}
		return s.update(s.game.Move(dir), "")

	case MsgNewGame:
		s.game.NewGame()
		return s.update(false, "New game")

	case MsgSave:
		if err := s.game.Save(slotOrQuick(msg.Slot)); err != nil {
			return s.slotError("save", err)
		}
		return s.update(false, "Saved")

	case MsgLoad:
		if err := s.game.Load(slotOrQuick(msg.Slot)); err != nil {
			return s.slotError("load", err)
		}
		return s.update(false, "Loaded")

	case MsgState:
		return s.update(false, "")
	}
	return errorMessage(fmt.Sprintf("unknown message type %q", msg.Type))
}

func (s *session) update(moved bool, info string) ServerMessage {
	state := s.game.State()
	return ServerMessage{Type: MsgUpdate, State: &state, Moved: moved, Info: info}
}

func (s *session) slotError(op string, err error) ServerMessage {
	if errors.Is(err, t2048.ErrNoStore) {
		return errorMessage("no storage")
	}
	s.logger.Warn(op+" failed", "error", err)
	return errorMessage(op + " failed")
}

func slotOrQuick(slot string) string {
	if slot == "" {
		return t2048.QuickSaveSlot
	}
	return slot
}

func errorMessage(text string) ServerMessage {
	return ServerMessage{Type: MsgError, Error: text}
}
