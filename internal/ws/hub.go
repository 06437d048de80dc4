package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playmatatu/billiards/internal/game"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 256
)

// Client is one seat's WebSocket connection to a match.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	matchID string
	seat    int
	send    chan []byte
}

// Hub tracks connected seats per match and fans match output out to them.
type Hub struct {
	rooms      map[string]map[int]*Client // matchID -> seat -> Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

// Message types
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type frameMessage struct {
	Type    string     `json:"type"`
	MatchID string     `json:"match_id"`
	Frame   game.Frame `json:"frame"`
}

type eventMessage struct {
	Type    string       `json:"type"`
	MatchID string       `json:"match_id"`
	Events  []game.Event `json:"events"`
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[int]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes connects and disconnects until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			room, exists := h.rooms[client.matchID]
			if !exists {
				room = make(map[int]*Client)
				h.rooms[client.matchID] = room
			}
			if old, ok := room[client.seat]; ok {
				log.Printf("[WS] Seat %d of match %s reconnecting - closing old connection", client.seat, client.matchID)
				old.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"),
					time.Now().Add(time.Second))
				close(old.send)
			}
			room[client.seat] = client
			h.mu.Unlock()
			log.Printf("[WS] Seat %d connected to match %s", client.seat, client.matchID)

		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.matchID]; ok && room[client.seat] == client {
				delete(room, client.seat)
				if len(room) == 0 {
					delete(h.rooms, client.matchID)
				}
				close(client.send)
				log.Printf("[WS] Seat %d disconnected from match %s", client.seat, client.matchID)
			}
			h.mu.Unlock()
		}
	}
}

// add and remove give up once Run has returned.
func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, room := range h.rooms {
		for _, c := range room {
			close(c.send)
		}
		delete(h.rooms, id)
	}
}

// RoomSize is the number of seats connected to a match.
func (h *Hub) RoomSize(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[matchID])
}

// BroadcastToMatch sends a message to every seat connected to a match.
// Slow clients drop messages rather than stall the caller.
func (h *Hub) BroadcastToMatch(matchID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for seat, client := range h.rooms[matchID] {
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] Send buffer full for seat %d in match %s, dropping message", seat, matchID)
		}
	}
}

// PublishFrame streams a tick to the match's room.
func (h *Hub) PublishFrame(matchID string, f game.Frame) {
	h.BroadcastToMatch(matchID, frameMessage{Type: "frame", MatchID: matchID, Frame: f})
}

// PublishEvents delivers rule events to the match's room.
func (h *Hub) PublishEvents(matchID string, events []game.Event) {
	if len(events) == 0 {
		return
	}
	h.BroadcastToMatch(matchID, eventMessage{Type: "match_event", MatchID: matchID, Events: events})
}

// sendTo queues data for one client unless it has already been replaced
// or dropped, whose send channel may be closed.
func (h *Hub) sendTo(c *Client, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if room, ok := h.rooms[c.matchID]; !ok || room[c.seat] != c {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[WS] Dropped message for seat %d in match %s (buffer full)", c.seat, c.matchID)
	}
}

func (c *Client) sendJSON(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}
	c.hub.sendTo(c, data)
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.sendJSON(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Write error for seat %d in match %s: %v", c.seat, c.matchID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] Ping error for seat %d in match %s: %v", c.seat, c.matchID, err)
				return
			}
		}
	}
}
