package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fchimpan/gh-kusa-svg/internal/github"
	"github.com/fchimpan/gh-kusa-svg/internal/mapping"
	"github.com/fchimpan/gh-kusa-svg/internal/render"
	"github.com/fchimpan/gh-kusa-svg/internal/sim"
)

type options struct {
	user     string
	weeks    int
	from, to *time.Time
	out      string
	seed     uint64
	strategy mapping.Strategy

	maxFrames int
	retries   int

	preview bool
	speed   float64
}

func run(ctx context.Context, deps Deps, opts options) error {
	if deps.FetchCalendar == nil {
		return fmt.Errorf("deps.FetchCalendar is nil")
	}
	if deps.FetchUserCalendar == nil {
		return fmt.Errorf("deps.FetchUserCalendar is nil")
	}
	if deps.FetchCalendarRange == nil {
		return fmt.Errorf("deps.FetchCalendarRange is nil")
	}
	if deps.FetchUserCalendarRange == nil {
		return fmt.Errorf("deps.FetchUserCalendarRange is nil")
	}
	if deps.NewBall == nil {
		return fmt.Errorf("deps.NewBall is nil")
	}
	if deps.WriteOutput == nil {
		return fmt.Errorf("deps.WriteOutput is nil")
	}
	if opts.preview && deps.RunPreview == nil {
		return fmt.Errorf("deps.RunPreview is nil")
	}

	var (
		login string
		cal   github.Calendar
		err   error
	)

	if opts.from != nil && opts.to != nil {
		if opts.user != "" {
			login, cal, err = deps.FetchUserCalendarRange(ctx, opts.user, *opts.from, *opts.to)
		} else {
			login, cal, err = deps.FetchCalendarRange(ctx, *opts.from, *opts.to)
		}
	} else {
		if opts.user != "" {
			login, cal, err = deps.FetchUserCalendar(ctx, opts.user, opts.weeks)
		} else {
			login, cal, err = deps.FetchCalendar(ctx, opts.weeks)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to fetch GitHub contributions: %w", err)
	}
	if err := github.ValidateCalendar(cal); err != nil {
		return err
	}

	cfg := sim.DefaultConfig()
	cfg.MaxFrames = opts.maxFrames
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid simulation config: %w", err)
	}

	res, seed, err := simulate(deps, cfg, cal.Days(), opts)
	if err != nil {
		return err
	}

	svg := render.SVG(res, cfg)
	status := deps.Stdout
	if opts.out == "-" {
		if _, err := deps.Stdout.Write(svg); err != nil {
			return fmt.Errorf("failed to write svg: %w", err)
		}
		status = deps.Stderr
	} else if err := deps.WriteOutput(opts.out, svg); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.out, err)
	}
	fmt.Fprintf(status, "wrote %s (%d frames, %.2fs, %d blocks, seed %d)\n",
		opts.out, res.Frames, res.Duration(), len(res.Blocks), seed)

	if opts.preview {
		return deps.RunPreview(login, res, cfg, opts.speed)
	}
	return nil
}

// simulate runs the board, moving to the next seed when a run hits the frame
// ceiling. Blocks are rebuilt per attempt since a run consumes them.
func simulate(deps Deps, cfg sim.Config, days []github.Day, opts options) (sim.Result, uint64, error) {
	seed := opts.seed
	for attempt := 0; ; attempt++ {
		blocks := mapping.BuildBlocks(days, cfg, opts.strategy)
		res, err := sim.New(cfg, deps.NewBall(cfg, seed), blocks).Run()

		var limit *sim.FrameLimitError
		if errors.As(err, &limit) && attempt < opts.retries {
			fmt.Fprintf(deps.Stderr, "warn: seed %d hit the frame limit, retrying with %d\n", seed, seed+1)
			seed++
			continue
		}
		if err != nil {
			return sim.Result{}, seed, fmt.Errorf("simulation failed: %w", err)
		}
		return res, seed, nil
	}
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
