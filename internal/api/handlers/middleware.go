package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/auth"
	"github.com/playmatatu/billiards/internal/config"
)

// SeatAuth validates the bearer seat token against the :id in the path and
// sets "seat" in the context.
func SeatAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := auth.ParseSeatToken(cfg.JWTSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if claims.MatchID != c.Param("id") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token is for a different match"})
			return
		}

		c.Set("seat", claims.Seat)
		c.Next()
	}
}

// OperatorAuth guards tuning and teardown. With no OPERATOR_TOKEN_HASH set
// the routes are open outside production and closed in it.
func OperatorAuth(cfg *config.Config) gin.HandlerFunc {
	if cfg.OperatorTokenHash == "" {
		if cfg.Environment == "production" {
			log.Println("[AUTH] OPERATOR_TOKEN_HASH not set; operator routes disabled")
		} else {
			log.Println("[AUTH] OPERATOR_TOKEN_HASH not set; operator routes open (development)")
		}
	}

	return func(c *gin.Context) {
		if cfg.OperatorTokenHash == "" {
			if cfg.Environment == "production" {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "operator access not configured"})
				return
			}
			c.Next()
			return
		}

		if !auth.VerifyOperatorToken(cfg.OperatorTokenHash, c.GetHeader("X-Operator-Token")) {
			log.Printf("[AUTH] Operator token rejected from %s", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid operator token"})
			return
		}
		c.Next()
	}
}
