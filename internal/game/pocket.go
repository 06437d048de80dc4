package game

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Pocket is one capture zone on the table.
type Pocket struct {
	ID       int        `json:"id"`
	Position mgl64.Vec3 `json:"position"`
	Radius   float64    `json:"radius"`
}

// StandardPockets returns the four corner and two side pockets, placed at
// ball-center height so the capture test is a plain distance check.
func StandardPockets(tb TableBounds) []Pocket {
	y := tb.BallY()
	return []Pocket{
		{ID: 1, Position: mgl64.Vec3{tb.MinX, y, tb.MinZ}, Radius: PocketRadius},
		{ID: 2, Position: mgl64.Vec3{tb.MaxX, y, tb.MinZ}, Radius: PocketRadius},
		{ID: 3, Position: mgl64.Vec3{tb.MinX, y, 0}, Radius: PocketRadius},
		{ID: 4, Position: mgl64.Vec3{tb.MaxX, y, 0}, Radius: PocketRadius},
		{ID: 5, Position: mgl64.Vec3{tb.MinX, y, tb.MaxZ}, Radius: PocketRadius},
		{ID: 6, Position: mgl64.Vec3{tb.MaxX, y, tb.MaxZ}, Radius: PocketRadius},
	}
}

// IsInPocket reports the first pocket whose center lies within
// ball radius + pocket radius of the ball's center.
func IsInPocket(b *Ball, pockets []Pocket) (Pocket, bool) {
	if b.IsPocketed() {
		return Pocket{}, false
	}
	for _, p := range pockets {
		if b.Position.Sub(p.Position).Len() <= b.Radius+p.Radius {
			return p, true
		}
	}
	return Pocket{}, false
}

// sinkTarget is where a pocketed ball eases to: a little further along its
// travel direction and below the cloth. A ball that was at rest drops toward
// the pocket center instead.
func sinkTarget(b *Ball, p Pocket) mgl64.Vec3 {
	dir := b.Velocity
	dir[1] = 0
	if dir.Len() < MinSeparation {
		dir = p.Position.Sub(b.Position)
		dir[1] = 0
	}
	target := b.Position
	if l := dir.Len(); l >= MinSeparation {
		target = target.Add(dir.Mul(p.Radius / l))
	}
	target[1] -= SinkDepth
	return target
}
