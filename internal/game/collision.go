package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Overlapping reports whether two active balls touch or interpenetrate.
func Overlapping(a, b *Ball) bool {
	if a.IsPocketed() || b.IsPocketed() {
		return false
	}
	return b.Position.Sub(a.Position).Len() <= a.Radius+b.Radius
}

// ResolveCollision separates and bounces two overlapping balls.
//
// Steps run in a fixed order: positional correction, normal impulse, spin
// transfer, spin-induced swerve. The impulse steps only run while the pair is
// closing along the normal; a resting or separating contact is just pushed
// apart. Reports whether an impulse was exchanged.
func ResolveCollision(a, b *Ball, cfg Config) bool {
	if !Overlapping(a, b) {
		return false
	}

	delta := b.Position.Sub(a.Position)
	dist := delta.Len()
	n := mgl64.Vec3{1, 0, 0}
	if dist < MinSeparation {
		dist = MinSeparation
	} else {
		n = delta.Mul(1 / dist)
	}

	// 1. push each ball back by half the penetration
	half := (a.Radius + b.Radius - dist) / 2
	a.Position = a.Position.Sub(n.Mul(half))
	b.Position = b.Position.Add(n.Mul(half))

	// 2. normal impulse, tangential components untouched
	v1n := a.Velocity.Dot(n)
	v2n := b.Velocity.Dot(n)
	if v1n-v2n <= 0 {
		return false
	}
	m1, m2 := a.Mass, b.Mass
	total := m1 + m2
	if total <= 0 {
		return false
	}
	e := cfg.BallRestitution
	v1nAfter := (m1*v1n + m2*v2n + m2*e*(v2n-v1n)) / total
	v2nAfter := (m1*v1n + m2*v2n + m1*e*(v1n-v2n)) / total

	relBefore := a.Velocity.Sub(b.Velocity)
	a.Velocity = a.Velocity.Add(n.Mul(v1nAfter - v1n))
	b.Velocity = b.Velocity.Add(n.Mul(v2nAfter - v2n))
	impulse := m1 * math.Abs(v1nAfter-v1n)

	// 3. spin transfer from tangential slip at the contact
	transferSpin(a, b, n, relBefore, impulse, cfg.SpinTransfer)

	// 4. swerve from the post-collision spin, kept in the table plane
	swerve(a, b, n, cfg.SpinInfluence)
	return true
}

func transferSpin(a, b *Ball, n, rel mgl64.Vec3, impulse, coeff float64) {
	if coeff == 0 || impulse == 0 {
		return
	}
	tangent := rel.Sub(n.Mul(rel.Dot(n)))
	slip := tangent.Len()
	if slip < MinSeparation {
		return
	}
	friction := tangent.Mul(impulse * coeff / slip)

	contact := a.Position.Add(b.Position).Mul(0.5)
	leverA := contact.Sub(a.Position)
	leverB := contact.Sub(b.Position)

	// friction opposes a's slip relative to b and drives b the other way
	a.AngularVelocity = a.AngularVelocity.Add(leverA.Cross(friction.Mul(-1)).Mul(1 / sphereInertia(a)))
	b.AngularVelocity = b.AngularVelocity.Add(leverB.Cross(friction).Mul(1 / sphereInertia(b)))
}

func swerve(a, b *Ball, n mgl64.Vec3, influence float64) {
	da := a.AngularVelocity.Cross(n).Mul(influence)
	db := b.AngularVelocity.Cross(n).Mul(influence)
	da[1] = 0
	db[1] = 0
	a.Velocity = a.Velocity.Add(da)
	b.Velocity = b.Velocity.Sub(db)
	a.Velocity[1] = 0
	b.Velocity[1] = 0
}

// sphereInertia is the moment of inertia of a solid sphere, 2/5 m r^2.
func sphereInertia(b *Ball) float64 {
	i := 0.4 * b.Mass * b.Radius * b.Radius
	if i <= 0 {
		return 1
	}
	return i
}

// resolveAll runs the resolver over every unordered pair of active balls and
// returns how many impulses were exchanged.
func resolveAll(balls []*Ball, cfg Config) int {
	contacts := 0
	for i := 0; i < len(balls); i++ {
		if balls[i].IsPocketed() {
			continue
		}
		for j := i + 1; j < len(balls); j++ {
			if balls[j].IsPocketed() {
				continue
			}
			if ResolveCollision(balls[i], balls[j], cfg) {
				contacts++
			}
		}
	}
	return contacts
}
