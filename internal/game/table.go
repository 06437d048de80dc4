package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// TableBounds is the legal play rectangle. Balls roll at SurfaceY + radius.
type TableBounds struct {
	MinX     float64 `json:"min_x"`
	MaxX     float64 `json:"max_x"`
	MinZ     float64 `json:"min_z"`
	MaxZ     float64 `json:"max_z"`
	SurfaceY float64 `json:"surface_y"`
}

// StandardBounds returns the cloth of the standard table.
func StandardBounds() TableBounds {
	return TableBounds{
		MinX:     -TableHalfWidth,
		MaxX:     TableHalfWidth,
		MinZ:     -TableHalfLength,
		MaxZ:     TableHalfLength,
		SurfaceY: TableSurfaceY,
	}
}

// BallY is the height of a resting ball's center.
func (tb TableBounds) BallY() float64 {
	return tb.SurfaceY + BallRadius
}

// Contains reports whether a ball of radius r centered at p lies fully inside.
func (tb TableBounds) Contains(p mgl64.Vec3, r float64) bool {
	return p[0]-r >= tb.MinX && p[0]+r <= tb.MaxX &&
		p[2]-r >= tb.MinZ && p[2]+r <= tb.MaxZ
}

// CueSpot is where the cue ball starts and is respotted after a scratch.
func (tb TableBounds) CueSpot() mgl64.Vec3 {
	return mgl64.Vec3{0, tb.BallY(), HeadSpotZ}
}

// rackRows lists ball IDs per row from the apex, ordered from -x to +x.
// The black ball sits in the middle of the third row.
var rackRows = [][]int{
	{1},
	{15, 2},
	{10, 8, 5},
	{6, 9, 7, 4},
	{3, 13, 11, 12, 14},
}

// Rack builds a full set of balls: the cue ball on the head spot and the
// fifteen object balls in a triangle whose apex is on the foot spot.
// spacing scales the gap between neighbours (1 = touching).
func Rack(tb TableBounds, spacing float64) []*Ball {
	balls := make([]*Ball, NumBalls)
	y := tb.BallY()
	d := 2 * BallRadius * spacing
	rowStep := math.Sqrt(3) * BallRadius * spacing

	balls[CueBallID] = NewBall(CueBallID, tb.CueSpot())

	for r, row := range rackRows {
		z := FootSpotZ - float64(r)*rowStep
		for k, id := range row {
			x := (float64(k) - float64(r)/2) * d
			balls[id] = NewBall(id, mgl64.Vec3{x, y, z})
		}
	}
	return balls
}
