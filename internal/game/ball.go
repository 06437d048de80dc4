package game

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Team is a player's assigned ball category.
type Team string

const (
	TeamUnassigned Team = "unassigned"
	TeamSolid      Team = "solid"
	TeamStripe     Team = "stripe"
)

// Opposite returns the complementary team. Unassigned stays unassigned.
func (t Team) Opposite() Team {
	switch t {
	case TeamSolid:
		return TeamStripe
	case TeamStripe:
		return TeamSolid
	}
	return TeamUnassigned
}

// teamForBall returns the team for a ball ID. Cue and black have none.
func teamForBall(id int) Team {
	if id >= 1 && id <= 7 {
		return TeamSolid
	}
	if id >= 9 && id <= 15 {
		return TeamStripe
	}
	return TeamUnassigned
}

// BallPhase tags whether a ball takes part in the physics.
type BallPhase int

const (
	PhaseActive BallPhase = iota
	PhasePocketed
)

// Ball is the kinematic state of one ball.
type Ball struct {
	ID              int
	Position        mgl64.Vec3
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	Orientation     mgl64.Quat
	Radius          float64
	Mass            float64
	Team            Team
	IsCue           bool
	IsBlackBall     bool
	Phase           BallPhase
	SinkTarget      mgl64.Vec3 // only meaningful when Phase == PhasePocketed
}

// NewBall creates an active ball at rest at pos.
func NewBall(id int, pos mgl64.Vec3) *Ball {
	return &Ball{
		ID:          id,
		Position:    pos,
		Orientation: mgl64.QuatIdent(),
		Radius:      BallRadius,
		Mass:        BallMass,
		Team:        teamForBall(id),
		IsCue:       id == CueBallID,
		IsBlackBall: id == BlackBallID,
		Phase:       PhaseActive,
	}
}

func (b *Ball) IsPocketed() bool {
	return b.Phase == PhasePocketed
}

// IsMoving reports whether an active ball has any linear velocity.
func (b *Ball) IsMoving() bool {
	return !b.IsPocketed() && b.Velocity != (mgl64.Vec3{})
}

func (b *Ball) Speed() float64 {
	return b.Velocity.Len()
}

// Stop zeroes linear and angular velocity.
func (b *Ball) Stop() {
	b.Velocity = mgl64.Vec3{}
	b.AngularVelocity = mgl64.Vec3{}
}

// pocket moves the ball into the pocketed phase. It stops colliding and
// eases toward target from here on.
func (b *Ball) pocket(target mgl64.Vec3) {
	b.Stop()
	b.Phase = PhasePocketed
	b.SinkTarget = target
}

// BallSnapshot is the presentation view of a ball.
type BallSnapshot struct {
	ID          int        `json:"id"`
	Position    mgl64.Vec3 `json:"position"`
	Orientation [4]float64 `json:"orientation"` // x, y, z, w
	Team        Team       `json:"team"`
	Pocketed    bool       `json:"pocketed"`
	Moving      bool       `json:"moving"`
}

func (b *Ball) snapshot() BallSnapshot {
	q := b.Orientation
	return BallSnapshot{
		ID:          b.ID,
		Position:    b.Position,
		Orientation: [4]float64{q.V[0], q.V[1], q.V[2], q.W},
		Team:        b.Team,
		Pocketed:    b.IsPocketed(),
		Moving:      b.IsMoving(),
	}
}
