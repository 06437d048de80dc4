package game

import "math"

// ClampToTable keeps a ball inside the rails. On each horizontal axis where
// the ball's edge crosses a limit, the center is put back just inside and the
// velocity component is turned inward, scaled by restitution. The height axis
// is left alone. Reports whether any rail was hit.
func ClampToTable(b *Ball, tb TableBounds, restitution float64) bool {
	if b.IsPocketed() {
		return false
	}
	hitX := clampAxis(&b.Position[0], &b.Velocity[0], b.Radius, tb.MinX, tb.MaxX, restitution)
	hitZ := clampAxis(&b.Position[2], &b.Velocity[2], b.Radius, tb.MinZ, tb.MaxZ, restitution)
	return hitX || hitZ
}

func clampAxis(pos, vel *float64, radius, lo, hi, restitution float64) bool {
	switch {
	case *pos-radius < lo:
		*pos = lo + radius
		*vel = math.Abs(*vel) * restitution
		return true
	case *pos+radius > hi:
		*pos = hi - radius
		*vel = -math.Abs(*vel) * restitution
		return true
	}
	return false
}
