package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/auth"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/game"
)

// CreateMatch racks a new match and hands out one token per seat.
func CreateMatch(mgr *game.MatchManager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		m := mgr.CreateMatch()

		ttl := time.Duration(cfg.SeatTokenTTLMinutes) * time.Minute
		if ttl <= 0 {
			ttl = 4 * time.Hour
		}
		p1, err := auth.IssueSeatToken(cfg.JWTSecret, m.ID, 1, ttl)
		if err != nil {
			log.Printf("[API] Failed to issue seat tokens for %s: %v", m.ID, err)
			mgr.RemoveMatch(m.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create match"})
			return
		}
		p2, err := auth.IssueSeatToken(cfg.JWTSecret, m.ID, 2, ttl)
		if err != nil {
			log.Printf("[API] Failed to issue seat tokens for %s: %v", m.ID, err)
			mgr.RemoveMatch(m.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create match"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"match_id":      m.ID,
			"player1_token": p1,
			"player2_token": p2,
			"expires_at":    time.Now().Add(ttl).Format(time.RFC3339),
		})
	}
}

// GetMatchState returns the live snapshot, or the last cached one once the
// match is no longer hosted here.
func GetMatchState(mgr *game.MatchManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		m, err := mgr.GetMatch(id)
		if err != nil {
			cached, cerr := mgr.CachedSnapshot(c.Request.Context(), id)
			if cerr != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"live": false, "state": cached})
			return
		}

		ctx, cancel := commandContext(c)
		defer cancel()
		snap, err := m.Snapshot(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"live": true, "state": snap})
	}
}

// GetAimPreview returns the guide line for the current cue angle.
func GetAimPreview(mgr *game.MatchManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := lookupMatch(c, mgr)
		if !ok {
			return
		}
		ctx, cancel := commandContext(c)
		defer cancel()

		p, available, err := m.Aim(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		if !available {
			c.JSON(http.StatusOK, gin.H{"available": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"available": true, "preview": p})
	}
}

// TakeShot arms a strike for the authenticated seat.
func TakeShot(mgr *game.MatchManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Force float64 `json:"force"`
			Angle float64 `json:"angle"`
		}
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

		if err := m.Shoot(ctx, c.GetInt("seat"), req.Force, req.Angle); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "strike_pending"})
	}
}

// RotateCue turns the cue for the authenticated seat.
func RotateCue(mgr *game.MatchManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Direction int     `json:"direction" binding:"required,oneof=-1 1"`
			DT        float64 `json:"dt" binding:"required,gt=0,lte=1"`
		}
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

		angle, err := m.Rotate(ctx, c.GetInt("seat"), req.Direction, req.DT)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cue_angle": angle})
	}
}

// ResetMatch reracks. Either seat may ask.
func ResetMatch(mgr *game.MatchManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := lookupMatch(c, mgr)
		if !ok {
			return
		}
		ctx, cancel := commandContext(c)
		defer cancel()

		if err := m.Reset(ctx); err != nil {
			respondError(c, err)
			return
		}
		log.Printf("[API] Match %s reset by seat %d", m.ID, c.GetInt("seat"))
		c.JSON(http.StatusOK, gin.H{"status": "reset"})
	}
}

// DeleteMatch stops and forgets a match.
func DeleteMatch(mgr *game.MatchManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := mgr.RemoveMatch(c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
