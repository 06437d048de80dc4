package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AimKind tells what the aim line runs into first.
type AimKind string

const (
	AimBall    AimKind = "ball"
	AimCushion AimKind = "cushion"
)

// AimPreview is the guide line drawn while the player lines up a shot.
type AimPreview struct {
	Kind      AimKind    `json:"kind"`
	Origin    mgl64.Vec3 `json:"origin"`
	Direction mgl64.Vec3 `json:"direction"`
	Distance  float64    `json:"distance"`

	// where the cue ball will be at first contact
	GhostBall    mgl64.Vec3 `json:"ghost_ball"`
	ContactPoint mgl64.Vec3 `json:"contact_point"`

	TargetBallID    int        `json:"target_ball_id,omitempty"`
	TargetPosition  mgl64.Vec3 `json:"target_position"`
	CueDirection    mgl64.Vec3 `json:"cue_direction"`
	TargetDirection mgl64.Vec3 `json:"target_direction"`

	ReflectedDirection mgl64.Vec3 `json:"reflected_direction"`
}

// PredictAim sweeps the cue ball along dir and reports the first object ball
// it would touch, or the cushion bounce when the line is clear. It only reads
// the balls it is given.
func PredictAim(cue *Ball, dir mgl64.Vec3, balls []*Ball, tb TableBounds, cfg Config) AimPreview {
	dir[1] = 0
	if l := dir.Len(); l > MinSeparation {
		dir = dir.Mul(1 / l)
	} else {
		dir = mgl64.Vec3{1, 0, 0}
	}
	origin := cue.Position

	var target *Ball
	best := math.Inf(1)
	for _, b := range balls {
		if b == cue || b.IsCue || b.IsPocketed() {
			continue
		}
		t, ok := sweepHit(origin, dir, cue.Radius+b.Radius, b.Position)
		if ok && t < best {
			best, target = t, b
		}
	}

	if target != nil {
		return ballPreview(cue, target, origin, dir, best, cfg.BallRestitution)
	}
	return cushionPreview(cue, origin, dir, tb)
}

// sweepHit returns the distance along dir at which a sphere of the summed
// radius centered at c is first entered.
func sweepHit(origin, dir mgl64.Vec3, radius float64, c mgl64.Vec3) (float64, bool) {
	oc := c.Sub(origin)
	tp := oc.Dot(dir)
	if tp <= 0 {
		return 0, false
	}
	perp2 := oc.Dot(oc) - tp*tp
	r2 := radius * radius
	if perp2 > r2 {
		return 0, false
	}
	t := tp - math.Sqrt(r2-perp2)
	if t < 0 {
		return 0, false
	}
	return t, true
}

func ballPreview(cue, target *Ball, origin, dir mgl64.Vec3, dist, e float64) AimPreview {
	ghost := origin.Add(dir.Mul(dist))
	n := target.Position.Sub(ghost)
	n[1] = 0
	if l := n.Len(); l > MinSeparation {
		n = n.Mul(1 / l)
	} else {
		n = dir
	}

	// same normal exchange as ResolveCollision with the target at rest
	m1, m2 := cue.Mass, target.Mass
	v1n := dir.Dot(n)
	v1nAfter := (m1*v1n - m2*e*v1n) / (m1 + m2)
	v2nAfter := (m1*v1n + m1*e*v1n) / (m1 + m2)

	return AimPreview{
		Kind:            AimBall,
		Origin:          origin,
		Direction:       dir,
		Distance:        dist,
		GhostBall:       ghost,
		ContactPoint:    ghost.Add(n.Mul(cue.Radius)),
		TargetBallID:    target.ID,
		TargetPosition:  target.Position,
		CueDirection:    unitOrZero(dir.Add(n.Mul(v1nAfter - v1n))),
		TargetDirection: unitOrZero(n.Mul(v2nAfter)),
	}
}

func cushionPreview(cue *Ball, origin, dir mgl64.Vec3, tb TableBounds) AimPreview {
	r := cue.Radius
	tx := railDistance(origin[0], dir[0], tb.MinX+r, tb.MaxX-r)
	tz := railDistance(origin[2], dir[2], tb.MinZ+r, tb.MaxZ-r)
	t := math.Min(tx, tz)
	if math.IsInf(t, 1) {
		t = 0
	}

	reflected := dir
	const eps = 1e-9
	if math.Abs(tx-t) < eps {
		reflected[0] = -reflected[0]
	}
	if math.Abs(tz-t) < eps {
		reflected[2] = -reflected[2]
	}

	hit := origin.Add(dir.Mul(t))
	return AimPreview{
		Kind:               AimCushion,
		Origin:             origin,
		Direction:          dir,
		Distance:           t,
		GhostBall:          hit,
		ContactPoint:       hit.Add(dir.Mul(r)),
		ReflectedDirection: reflected,
	}
}

// railDistance is how far along one axis the ray travels before reaching
// the inset limit it is heading for.
func railDistance(p, d, lo, hi float64) float64 {
	switch {
	case d > 0:
		return math.Max(0, (hi-p)/d)
	case d < 0:
		return math.Max(0, (lo-p)/d)
	}
	return math.Inf(1)
}

func unitOrZero(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < MinSeparation {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}
