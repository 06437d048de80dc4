package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/billiards/internal/api/handlers"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/game"
	"github.com/playmatatu/billiards/internal/middleware"
	"github.com/playmatatu/billiards/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, mgr *game.MatchManager, hub *ws.Hub, db *sqlx.DB, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.WebSocketCORSCheck(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] No-cache headers enabled for all routes")
	}

	seat := handlers.SeatAuth(cfg)
	operator := handlers.OperatorAuth(cfg)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(mgr))
		v1.GET("/results", handlers.ListResults(db))

		matches := v1.Group("/matches")
		{
			matches.POST("", handlers.CreateMatch(mgr, cfg))
			matches.GET("/:id", handlers.GetMatchState(mgr))
			matches.GET("/:id/aim", handlers.GetAimPreview(mgr))
			matches.GET("/:id/ws", handlers.HandleMatchWebSocket(hub, mgr, cfg))

			matches.POST("/:id/shot", seat, handlers.TakeShot(mgr))
			matches.POST("/:id/rotate", seat, handlers.RotateCue(mgr))
			matches.POST("/:id/reset", seat, handlers.ResetMatch(mgr))

			matches.GET("/:id/config", operator, handlers.GetMatchConfig(mgr))
			matches.PUT("/:id/config", operator, handlers.UpdateMatchConfig(mgr))
			matches.DELETE("/:id", operator, handlers.DeleteMatch(mgr))
		}
	}
}
