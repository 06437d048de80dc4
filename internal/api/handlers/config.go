package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/game"
)

// GetMatchConfig returns a match's live physics tuning.
func GetMatchConfig(mgr *game.MatchManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := lookupMatch(c, mgr)
		if !ok {
			return
		}
		ctx, cancel := commandContext(c)
		defer cancel()

		cfg, err := m.Config(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"config": cfg})
	}
}

// UpdateMatchConfig hot-applies a partial tuning update. Values out of
// range are clamped, not rejected; the response carries what was applied.
func UpdateMatchConfig(mgr *game.MatchManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req game.ConfigUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		m, ok := lookupMatch(c, mgr)
		if !ok {
			return
		}
		ctx, cancel := commandContext(c)
		defer cancel()

		cfg, err := m.ApplyConfig(ctx, req)
		if err != nil {
			respondError(c, err)
			return
		}
		log.Printf("[API] Operator %s updated config of match %s", c.ClientIP(), m.ID)
		c.JSON(http.StatusOK, gin.H{"config": cfg})
	}
}
