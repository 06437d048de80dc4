package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var tableNormal = mgl64.Vec3{0, 1, 0}

// Advance moves one ball forward by dt.
//
// Active balls translate by their velocity, take a spin derived from rolling
// (velocity x table normal, scaled by 1/(radius*SpinCoupling)) and lose speed
// by Damping^dt, so the decay per second does not depend on the sub-step size.
// Pocketed balls skip all of that and ease toward their sink target instead.
func Advance(b *Ball, dt float64, cfg Config) {
	if b.IsPocketed() {
		easeTowardSink(b, cfg.SinkEase)
		return
	}
	if dt <= 0 {
		return
	}

	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	b.AngularVelocity = rollingSpin(b.Velocity, b.Radius, cfg.SpinCoupling)
	b.Orientation = rotate(b.Orientation, b.AngularVelocity, dt)

	decay := math.Pow(cfg.Damping, dt)
	b.Velocity = b.Velocity.Mul(decay)
	b.AngularVelocity = b.AngularVelocity.Mul(decay)

	if b.Velocity.Len() < cfg.RestSpeed {
		b.Stop()
	}
}

func rollingSpin(v mgl64.Vec3, radius, coupling float64) mgl64.Vec3 {
	k := radius * coupling
	if k <= 0 {
		return mgl64.Vec3{}
	}
	return v.Cross(tableNormal).Mul(1 / k)
}

// rotate turns q about omega by |omega|*dt radians.
func rotate(q mgl64.Quat, omega mgl64.Vec3, dt float64) mgl64.Quat {
	rate := omega.Len()
	if rate == 0 {
		return q
	}
	step := mgl64.QuatRotate(rate*dt, omega.Mul(1/rate))
	return step.Mul(q).Normalize()
}

func easeTowardSink(b *Ball, ease float64) {
	b.Position = b.Position.Add(b.SinkTarget.Sub(b.Position).Mul(ease))
}
