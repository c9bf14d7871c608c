package sim

import "github.com/fchimpan/gh-kusa-svg/internal/unit"

// Rect is an axis-aligned rectangle in grid units.
type Rect struct {
	X, Y unit.Grid
	W, H unit.Grid
}

func (r Rect) Center() (unit.Grid, unit.Grid) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Axis names the velocity component a bounce negates.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Collides reports whether the ball's bounding square overlaps r. Both axis
// intervals must overlap strictly; touching edges do not count.
func Collides(b *Ball, r Rect) bool {
	rad := b.Radius()
	return b.X+rad > r.X &&
		b.X-rad < r.X+r.W &&
		b.Y+rad > r.Y &&
		b.Y-rad < r.Y+r.H
}

// BounceAxisFor picks the axis with the larger center offset. Equal offsets
// resolve to Y.
func BounceAxisFor(b *Ball, r Rect) Axis {
	cx, cy := r.Center()
	dx := b.X - cx
	dy := b.Y - cy
	if dx.Abs() > dy.Abs() {
		return AxisX
	}
	return AxisY
}
