package sim

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/fchimpan/gh-kusa-svg/internal/unit"
)

// ColorRamp maps health to a display color. The ramp is linear in RGB between
// Empty (health 0) and Full (health >= Ref).
type ColorRamp struct {
	Empty colorful.Color
	Full  colorful.Color
	Ref   int
}

func (r ColorRamp) At(health int) colorful.Color {
	ratio := 0.0
	if r.Ref > 0 {
		ratio = math.Min(1, float64(health)/float64(r.Ref))
	}
	if ratio < 0 {
		ratio = 0
	}
	c := r.Empty.BlendRgb(r.Full, ratio).Clamped()
	// Quantize to 8-bit channels so equal health always yields an identical color.
	cr, cg, cb := c.RGB255()
	return colorful.Color{R: float64(cr) / 255.0, G: float64(cg) / 255.0, B: float64(cb) / 255.0}
}

// Block is one destructible cell. Geometry is stored in pixels, the way the
// layout produces it; collision code converts it to grid units.
type Block struct {
	id  string
	row int
	col int

	x, y          unit.Pixel
	width, height unit.Pixel

	health    int
	maxHealth int
	alive     bool
	color     colorful.Color
	ramp      ColorRamp
}

func NewBlock(id string, row, col int, x, y, w, h unit.Pixel, health int, ramp ColorRamp) *Block {
	b := &Block{
		id:        id,
		row:       row,
		col:       col,
		x:         x,
		y:         y,
		width:     w,
		height:    h,
		maxHealth: health,
		ramp:      ramp,
	}
	b.SetHealth(health)
	return b
}

// BlockID is the identifier used for the block at (row, col).
func BlockID(row, col int) string {
	return fmt.Sprintf("block-%d-%d", row, col)
}

func (b *Block) ID() string            { return b.id }
func (b *Block) Row() int              { return b.row }
func (b *Block) Col() int              { return b.col }
func (b *Block) X() unit.Pixel         { return b.x }
func (b *Block) Y() unit.Pixel         { return b.y }
func (b *Block) Width() unit.Pixel     { return b.width }
func (b *Block) Height() unit.Pixel    { return b.height }
func (b *Block) Health() int           { return b.health }
func (b *Block) MaxHealth() int        { return b.maxHealth }
func (b *Block) Alive() bool           { return b.alive }
func (b *Block) Color() colorful.Color { return b.color }
func (b *Block) Ramp() ColorRamp       { return b.ramp }

// SetHealth stores health and recomputes liveness and color together.
func (b *Block) SetHealth(health int) {
	b.health = health
	b.alive = health > 0
	b.color = b.ramp.At(health)
}

// Bounds returns the block rectangle in grid units.
func (b *Block) Bounds(s unit.Scale) Rect {
	return Rect{
		X: s.ToGrid(b.x),
		Y: s.ToGrid(b.y),
		W: s.ToGrid(b.width),
		H: s.ToGrid(b.height),
	}
}

// Info returns the static attributes a renderer needs after the run.
func (b *Block) Info() BlockInfo {
	return BlockInfo{
		ID:        b.id,
		Row:       b.row,
		Col:       b.col,
		X:         b.x,
		Y:         b.y,
		Width:     b.width,
		Height:    b.height,
		MaxHealth: b.maxHealth,
	}
}

// BlockInfo is an immutable snapshot of a block's layout.
type BlockInfo struct {
	ID        string
	Row, Col  int
	X, Y      unit.Pixel
	Width     unit.Pixel
	Height    unit.Pixel
	MaxHealth int
}
