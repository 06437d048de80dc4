package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/billiards/internal/auth"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/game"
)

// Origins are checked by middleware.WebSocketCORSCheck before the upgrade.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const commandTimeout = 2 * time.Second

type TakeShotData struct {
	Force float64 `json:"force"`
	Angle float64 `json:"angle"`
}

type RotateCueData struct {
	Direction int     `json:"direction"`
	DT        float64 `json:"dt"`
}

type stateMessage struct {
	Type  string             `json:"type"`
	Seat  int                `json:"seat"`
	State game.MatchSnapshot `json:"state"`
}

type aimMessage struct {
	Type      string           `json:"type"`
	Available bool             `json:"available"`
	Preview   *game.AimPreview `json:"preview,omitempty"`
}

// HandleMatchWebSocket upgrades a seat holder's connection to a match.
// The seat token comes in the token query parameter since browsers cannot
// set headers on a WebSocket handshake.
func HandleMatchWebSocket(hub *Hub, mgr *game.MatchManager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID := c.Param("id")
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
			return
		}

		claims, err := auth.ParseSeatToken(cfg.JWTSecret, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid seat token"})
			return
		}
		if claims.MatchID != matchID {
			c.JSON(http.StatusForbidden, gin.H{"error": "token is for a different match"})
			return
		}

		match, err := mgr.GetMatch(matchID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			hub:     hub,
			conn:    conn,
			matchID: matchID,
			seat:    claims.Seat,
			send:    make(chan []byte, sendBuffer),
		}

		// queued before registration so nothing can close send underneath it
		ctx, cancel := context.WithTimeout(c.Request.Context(), commandTimeout)
		snap, err := match.Snapshot(ctx)
		cancel()
		if err == nil {
			if data, merr := json.Marshal(stateMessage{Type: "match_state", Seat: client.seat, State: snap}); merr == nil {
				client.send <- data
			}
		}

		if !hub.add(client) {
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump(mgr)
	}
}

func (c *Client) readPump(mgr *game.MatchManager) {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Unexpected close for seat %d in match %s: %v", c.seat, c.matchID, err)
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}

		c.handleMessage(mgr, msg)
	}
}

func (c *Client) handleMessage(mgr *game.MatchManager, msg WSMessage) {
	match, err := mgr.GetMatch(c.matchID)
	if err != nil {
		c.sendError("Match not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch msg.Type {
	case "take_shot":
		var data TakeShotData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid shot data")
			return
		}
		if err := match.Shoot(ctx, c.seat, data.Force, data.Angle); err != nil {
			c.sendError(commandError(err))
		}

	case "rotate_cue":
		var data RotateCueData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid rotate data")
			return
		}
		if _, err := match.Rotate(ctx, c.seat, data.Direction, data.DT); err != nil {
			c.sendError(commandError(err))
		}

	case "reset":
		if err := match.Reset(ctx); err != nil {
			c.sendError(commandError(err))
		}

	case "get_state":
		snap, err := match.Snapshot(ctx)
		if err != nil {
			c.sendError(commandError(err))
			return
		}
		c.sendJSON(stateMessage{Type: "match_state", Seat: c.seat, State: snap})

	case "get_aim":
		p, ok, err := match.Aim(ctx)
		if err != nil {
			c.sendError(commandError(err))
			return
		}
		out := aimMessage{Type: "aim_preview", Available: ok}
		if ok {
			out.Preview = &p
		}
		c.sendJSON(out)

	default:
		c.sendError("Unknown message type")
	}
}

func commandError(err error) string {
	switch {
	case errors.Is(err, game.ErrRunnerStopped):
		return "Match has ended"
	case errors.Is(err, context.DeadlineExceeded):
		return "Match is busy, try again"
	default:
		return err.Error()
	}
}
