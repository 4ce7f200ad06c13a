// Package hub pushes committed game snapshots to websocket subscribers.
// The stream is read-only: inbound messages are discarded.
package hub

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ericogr/arcane-clash/internal/constants"
	"github.com/ericogr/arcane-clash/internal/game"
	"github.com/ericogr/arcane-clash/internal/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// MessageTypeState tags snapshot messages.
const MessageTypeState = "game_state"

// Message is the envelope written to subscribers.
type Message struct {
	Type string      `json:"type"`
	Data *game.State `json:"data"`
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	gameID string
}

// Hub fans out snapshots per game id.
type Hub struct {
	mu       sync.RWMutex
	games    map[string]map[*client]struct{}
	upgrader websocket.Upgrader
}

// New returns an empty hub accepting any origin.
func New() *Hub {
	return &Hub{
		games: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func encode(s *game.State) ([]byte, error) {
	return json.Marshal(Message{Type: MessageTypeState, Data: s})
}

// Publish queues s for every subscriber of s.ID. Slow subscribers that
// cannot keep up are dropped.
func (h *Hub) Publish(s *game.State) {
	if s == nil {
		return
	}
	msg, err := encode(s)
	if err != nil {
		logging.Error("failed to encode game state", err, logging.Fields{constants.LogFieldGameID: s.ID})
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.games[s.ID] {
		select {
		case c.send <- msg:
		default:
			h.removeLocked(c)
		}
	}
}

// Subscribers returns the number of open streams for gameID.
func (h *Hub) Subscribers(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.games[c.gameID]
	if !ok {
		set = make(map[*client]struct{})
		h.games[c.gameID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	set, ok := h.games[c.gameID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.games, c.gameID)
	}
}

// Serve upgrades the request and streams snapshots of gameID, starting with
// current.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, current *game.State) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer), gameID: current.ID}
	if msg, err := encode(current); err == nil {
		c.send <- msg
	}
	h.add(c)
	logging.Debug("stream subscribed", logging.Fields{constants.LogFieldGameID: current.ID})

	go c.writePump()
	go c.readPump(h)
	return nil
}

func (c *client) readPump(h *Hub) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
