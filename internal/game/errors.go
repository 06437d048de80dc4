package game

import "errors"

var (
	ErrShotPending   = errors.New("a shot is already in progress")
	ErrBallsMoving   = errors.New("balls are still moving")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrMatchNotFound = errors.New("match not found")
	ErrRunnerStopped = errors.New("match runner stopped")
)
