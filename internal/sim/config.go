package sim

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/fchimpan/gh-kusa-svg/internal/unit"
)

// Config holds the board layout and tuning for one simulation run.
type Config struct {
	Rows int // weekdays
	Cols int // weeks

	BlockSize  unit.Scale // pixels per grid unit
	BallRadius unit.Grid

	// SpeedRange bounds each initial velocity component to (-SpeedRange, SpeedRange).
	SpeedRange unit.Grid

	// FPS only converts a frame count into an animation duration.
	FPS float64

	// HealthRef is the health at which a block's color saturates.
	HealthRef int

	// MaxFrames stops runaway runs. Zero or negative disables the ceiling.
	MaxFrames int

	EmptyColor colorful.Color
	FullColor  colorful.Color
}

func DefaultConfig() Config {
	return Config{
		Rows:       7,
		Cols:       53,
		BlockSize:  10,
		BallRadius: 0.5,
		SpeedRange: 0.3,
		FPS:        120,
		HealthRef:  5,
		MaxFrames:  2_000_000,
		EmptyColor: colorful.Color{R: 0, G: 0, B: 0},
		FullColor:  colorful.Color{R: 198.0 / 255.0, G: 228.0 / 255.0, B: 139.0 / 255.0},
	}
}

func (c Config) Validate() error {
	if c.BlockSize <= 0 || !finite(float64(c.BlockSize)) {
		return fmt.Errorf("block size must be > 0")
	}
	if c.BallRadius < 0 || !finite(float64(c.BallRadius)) {
		return fmt.Errorf("ball radius must be >= 0")
	}
	if c.SpeedRange < 0 || !finite(float64(c.SpeedRange)) {
		return fmt.Errorf("speed range must be >= 0")
	}
	if c.FPS <= 0 || !finite(c.FPS) {
		return fmt.Errorf("fps must be > 0")
	}
	if c.HealthRef <= 0 {
		return fmt.Errorf("health reference must be > 0")
	}
	return nil
}

// Ramp returns the color ramp shared by every block built from this config.
func (c Config) Ramp() ColorRamp {
	return ColorRamp{Empty: c.EmptyColor, Full: c.FullColor, Ref: c.HealthRef}
}

// BoardWidth and BoardHeight are the board extents in grid units.
func (c Config) BoardWidth() unit.Grid  { return unit.Grid(c.Cols) }
func (c Config) BoardHeight() unit.Grid { return unit.Grid(c.Rows) }

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
