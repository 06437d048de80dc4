package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/game"
	"github.com/playmatatu/billiards/internal/ws"
)

// HandleMatchWebSocket handles real-time match communication
func HandleMatchWebSocket(hub *ws.Hub, mgr *game.MatchManager, cfg *config.Config) gin.HandlerFunc {
	return ws.HandleMatchWebSocket(hub, mgr, cfg)
}
