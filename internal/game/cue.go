package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CueStick is the aim direction and how far the stick is drawn back.
type CueStick struct {
	Angle    float64 `json:"angle"`     // radians in the table plane, 0 = +x
	PullBack float64 `json:"pull_back"` // meters behind the cue ball
}

// defaultCueAngle points from the head spot at the rack.
const defaultCueAngle = -math.Pi / 2

func newCueStick() CueStick {
	return CueStick{Angle: defaultCueAngle}
}

// Direction is the unit aim vector in the table plane.
func (c CueStick) Direction() mgl64.Vec3 {
	return aimDirection(c.Angle)
}

// Rotate turns the stick by speed*dt radians; dir is -1, 0 or 1.
func (c *CueStick) Rotate(dir int, dt, speed float64) {
	if dir == 0 || dt <= 0 {
		return
	}
	if dir > 0 {
		dir = 1
	} else {
		dir = -1
	}
	c.Angle = math.Remainder(c.Angle+float64(dir)*speed*dt, 2*math.Pi)
}

func aimDirection(angle float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(angle), 0, math.Sin(angle)}
}

// strike is an armed shot playing its stick animation. It is sampled once per
// frame; onComplete fires on the frame the thrust finishes.
type strike struct {
	elapsed    float64
	peak       float64
	impulse    mgl64.Vec3
	onComplete func()
}

func newStrike(impulse mgl64.Vec3, force float64, onComplete func()) *strike {
	return &strike{
		peak:       MaxPullBack * force / MaxShotForce,
		impulse:    impulse,
		onComplete: onComplete,
	}
}

func (st *strike) duration() float64 {
	return strikePullBackSeconds + strikeThrustSeconds
}

// advance moves the animation clock and returns the stick pull-back and
// whether the thrust has landed.
func (st *strike) advance(dt float64) (float64, bool) {
	if dt > 0 {
		st.elapsed += dt
	}
	if st.elapsed >= st.duration() {
		return 0, true
	}
	return st.pullBack(), false
}

func (st *strike) pullBack() float64 {
	if st.elapsed < strikePullBackSeconds {
		u := st.elapsed / strikePullBackSeconds
		return st.peak * (1 - (1-u)*(1-u))
	}
	u := (st.elapsed - strikePullBackSeconds) / strikeThrustSeconds
	return st.peak * (1 - u*u)
}
