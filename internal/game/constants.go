package game

// Table and ball constants for 8-ball. Units are meters, kilograms and seconds,
// with y pointing up out of the cloth.

const (
	BallRadius   = 0.07
	BallMass     = 0.17
	PocketRadius = 0.1
	NumBalls     = 16 // 0=cue, 1-7=solids, 8=black, 9-15=stripes
	CueBallID    = 0
	BlackBallID  = 8
	TeamSize     = 7

	// Play area of the cloth, centered on the origin.
	TableHalfWidth  = 1.375
	TableHalfLength = 3.175
	TableSurfaceY   = 2.5

	HeadSpotZ = 1.6  // cue ball start
	FootSpotZ = -1.6 // rack apex

	// MinSeparation bounds the collision normal computation for near-coincident centers.
	MinSeparation = 1e-6

	// SinkDepth is how far below the cloth a pocketed ball eases to.
	SinkDepth = 0.3

	MinShotForce = 0.05
	MaxShotForce = 2.0
	MaxPullBack  = 0.3

	strikePullBackSeconds = 0.25
	strikeThrustSeconds   = 0.08
)
