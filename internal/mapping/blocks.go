package mapping

import (
	"fmt"
	"math"

	"github.com/fchimpan/gh-kusa-svg/internal/github"
	"github.com/fchimpan/gh-kusa-svg/internal/sim"
)

// Strategy decides how a day's contribution count becomes block health.
type Strategy string

const (
	// StrategyCount uses the raw contribution count as health.
	StrategyCount Strategy = "count"
	// StrategyLevel buckets counts into 1..4 relative to the busiest day.
	StrategyLevel Strategy = "level"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyCount, StrategyLevel:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown health strategy %q (expected %q or %q)", s, StrategyCount, StrategyLevel)
	}
}

func HPFromCount(count, maxCount int) int {
	if count <= 0 {
		return 0
	}
	if maxCount <= 0 {
		return 1
	}
	hp := int(math.Ceil(4.0 * float64(count) / float64(maxCount)))
	if hp < 1 {
		hp = 1
	}
	if hp > 4 {
		hp = 4
	}
	return hp
}

// Window keeps the most recent n days. Older days would fall outside the board.
func Window(days []github.Day, n int) []github.Day {
	if n <= 0 {
		return nil
	}
	if len(days) <= n {
		return days
	}
	return days[len(days)-n:]
}

// BuildBlocks lays chronologically ordered days out column-major on the
// board: day i goes to row i%Rows, column i/Rows. Days without contributions
// leave their position empty.
func BuildBlocks(days []github.Day, cfg sim.Config, strategy Strategy) []*sim.Block {
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return nil
	}
	days = Window(days, cfg.Rows*cfg.Cols)

	maxCount := 0
	for _, d := range days {
		if d.ContributionCount > maxCount {
			maxCount = d.ContributionCount
		}
	}

	ramp := cfg.Ramp()
	size := cfg.BlockSize.Pixels(1)
	var blocks []*sim.Block
	for i, d := range days {
		if d.ContributionCount <= 0 {
			continue
		}
		row := i % cfg.Rows
		col := i / cfg.Rows

		hp := d.ContributionCount
		if strategy == StrategyLevel {
			hp = HPFromCount(d.ContributionCount, maxCount)
		}
		blocks = append(blocks, sim.NewBlock(
			sim.BlockID(row, col), row, col,
			cfg.BlockSize.Pixels(col), cfg.BlockSize.Pixels(row),
			size, size, hp, ramp,
		))
	}
	return blocks
}

// GitHub-like greens used for a block's starting fill (light -> dark).
const (
	ColorLow  = "#c6e48b"
	ColorMid  = "#7bc96f"
	ColorHigh = "#196127"
)

// StartColor picks the initial fill for a block by its starting health.
func StartColor(maxHealth int) string {
	switch {
	case maxHealth >= 4:
		return ColorHigh
	case maxHealth >= 2:
		return ColorMid
	default:
		return ColorLow
	}
}
