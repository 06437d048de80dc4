package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/game"
)

const commandTimeout = 2 * time.Second

// commandContext bounds how long a request waits for a busy match runner.
func commandContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), commandTimeout)
}

// lookupMatch resolves :id or writes a 404.
func lookupMatch(c *gin.Context, mgr *game.MatchManager) (*game.Match, bool) {
	m, err := mgr.GetMatch(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return m, true
}

// respondError maps command errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrMatchNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrShotPending), errors.Is(err, game.ErrBallsMoving):
		status = http.StatusConflict
	case errors.Is(err, game.ErrNotYourTurn):
		status = http.StatusForbidden
	case errors.Is(err, game.ErrRunnerStopped):
		status = http.StatusGone
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
