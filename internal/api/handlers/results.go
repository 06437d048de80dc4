package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/billiards/internal/models"
)

// ListResults returns the most recent finished matches.
func ListResults(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "results ledger not configured"})
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
		if limit <= 0 {
			limit = 25
		}
		if limit > 200 {
			limit = 200
		}

		results := []models.MatchResult{}
		err := db.Select(&results, `
			SELECT id, match_id, winner_seat, loser_seat, outcome, winner_team,
				player1_score, player2_score, shots, created_at
			FROM match_results
			ORDER BY created_at DESC
			LIMIT $1
		`, limit)
		if err != nil {
			log.Printf("[DB] Failed to fetch match results: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch results"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"results": results, "limit": limit})
	}
}
