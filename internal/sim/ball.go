package sim

import (
	"math/rand/v2"

	"github.com/fchimpan/gh-kusa-svg/internal/unit"
)

// Ball is the single moving body. Position and velocity are in grid units
// (velocity per frame). The radius is fixed at construction.
type Ball struct {
	X, Y   unit.Grid
	VX, VY unit.Grid

	radius unit.Grid
}

func NewBall(x, y, vx, vy, radius unit.Grid) *Ball {
	return &Ball{X: x, Y: y, VX: vx, VY: vy, radius: radius}
}

// RandomBall places a ball fully inside the board with each velocity
// component drawn from (-SpeedRange, SpeedRange).
func RandomBall(cfg Config, rng *rand.Rand) *Ball {
	r := cfg.BallRadius
	x := unit.Grid(rng.Float64())*(cfg.BoardWidth()-r*2) + r
	y := unit.Grid(rng.Float64())*(cfg.BoardHeight()-r*2) + r
	vx := unit.Grid(rng.Float64()*2-1) * cfg.SpeedRange
	vy := unit.Grid(rng.Float64()*2-1) * cfg.SpeedRange
	return NewBall(x, y, vx, vy, r)
}

// NewRand returns the deterministic generator used for a given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (b *Ball) Radius() unit.Grid { return b.radius }

func (b *Ball) Move() {
	b.X += b.VX
	b.Y += b.VY
}

func (b *Ball) BounceX() { b.VX = -b.VX }
func (b *Ball) BounceY() { b.VY = -b.VY }

// Reflect keeps the ball on a cols x rows board. Each axis is clamped at most
// once per call: the low edge is checked first and the high edge only if the
// low edge did not fire.
func (b *Ball) Reflect(cols, rows unit.Grid) {
	if b.X < 0 {
		b.X = b.radius
		b.BounceX()
	} else if b.X+b.radius > cols {
		b.X = cols - b.radius
		b.BounceX()
	}
	if b.Y < 0 {
		b.Y = b.radius
		b.BounceY()
	} else if b.Y+b.radius > rows {
		b.Y = rows - b.radius
		b.BounceY()
	}
}
