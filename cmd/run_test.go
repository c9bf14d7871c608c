package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fchimpan/gh-kusa-svg/internal/github"
	"github.com/fchimpan/gh-kusa-svg/internal/mapping"
	"github.com/fchimpan/gh-kusa-svg/internal/sim"
)

// oneDay has a single block at the top-left corner with health 2.
func oneDay() github.Calendar {
	return github.Calendar{Weeks: []github.Week{{ContributionDays: []github.Day{
		{Date: "2025-01-05", Weekday: 0, ContributionCount: 2},
	}}}}
}

// stillBall sits inside the top-left block, so a one-block board clears in two frames.
func stillBall(cfg sim.Config, seed uint64) *sim.Ball {
	return sim.NewBall(0.5, 0.5, 0, 0, cfg.BallRadius)
}

type written struct {
	path string
	data []byte
}

func testDeps(t *testing.T, out *written) Deps {
	t.Helper()
	return Deps{
		FetchCalendar: func(ctx context.Context, weeks int) (string, github.Calendar, error) {
			return "octocat", oneDay(), nil
		},
		FetchUserCalendar: func(ctx context.Context, user string, weeks int) (string, github.Calendar, error) {
			t.Fatalf("FetchUserCalendar should not be called in this test")
			return "", github.Calendar{}, nil
		},
		FetchCalendarRange: func(ctx context.Context, from, to time.Time) (string, github.Calendar, error) {
			t.Fatalf("FetchCalendarRange should not be called in this test")
			return "", github.Calendar{}, nil
		},
		FetchUserCalendarRange: func(ctx context.Context, user string, from, to time.Time) (string, github.Calendar, error) {
			t.Fatalf("FetchUserCalendarRange should not be called in this test")
			return "", github.Calendar{}, nil
		},
		NewBall: stillBall,
		WriteOutput: func(path string, data []byte) error {
			out.path = path
			out.data = data
			return nil
		},
		RunPreview: func(login string, res sim.Result, cfg sim.Config, speed float64) error {
			t.Fatalf("RunPreview should not be called in this test")
			return nil
		},
		Now:    func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) },
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
	}
}

func baseOptions() options {
	return options{
		weeks:     52,
		out:       "out.svg",
		seed:      1,
		strategy:  mapping.StrategyCount,
		maxFrames: 1000,
		speed:     1,
	}
}

func TestRun_Success(t *testing.T) {
	t.Parallel()

	var out written
	deps := testDeps(t, &out)
	var stdout bytes.Buffer
	deps.Stdout = &stdout

	if err := run(context.Background(), deps, baseOptions()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if out.path != "out.svg" {
		t.Fatalf("path = %q", out.path)
	}
	svg := string(out.data)
	if !strings.Contains(svg, `<rect id="block-0-0"`) || !strings.Contains(svg, "@keyframes move") {
		t.Fatalf("unexpected svg:\n%s", svg)
	}
	if !strings.Contains(stdout.String(), "wrote out.svg (2 frames, 0.02s, 1 blocks, seed 1)") {
		t.Fatalf("unexpected summary: %q", stdout.String())
	}
}

func TestRun_Success_User(t *testing.T) {
	t.Parallel()

	var out written
	deps := testDeps(t, &out)
	deps.FetchCalendar = func(ctx context.Context, weeks int) (string, github.Calendar, error) {
		t.Fatalf("FetchCalendar should not be called when user is provided")
		return "", github.Calendar{}, nil
	}
	var calledUser bool
	deps.FetchUserCalendar = func(ctx context.Context, user string, weeks int) (string, github.Calendar, error) {
		calledUser = true
		if user != "someone" || weeks != 52 {
			t.Fatalf("unexpected args: %q %d", user, weeks)
		}
		return "someone", oneDay(), nil
	}

	opts := baseOptions()
	opts.user = "someone"
	if err := run(context.Background(), deps, opts); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !calledUser {
		t.Fatalf("FetchUserCalendar not called")
	}
}

func TestRun_Success_Range(t *testing.T) {
	t.Parallel()

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)

	var out written
	deps := testDeps(t, &out)
	deps.FetchCalendar = func(ctx context.Context, weeks int) (string, github.Calendar, error) {
		t.Fatalf("FetchCalendar should not be called in range mode")
		return "", github.Calendar{}, nil
	}
	var calledRange bool
	deps.FetchCalendarRange = func(ctx context.Context, gotFrom, gotTo time.Time) (string, github.Calendar, error) {
		calledRange = true
		if !gotFrom.Equal(from) || !gotTo.Equal(to) {
			t.Fatalf("range mismatch: got %v..%v", gotFrom, gotTo)
		}
		return "octocat", oneDay(), nil
	}

	opts := baseOptions()
	opts.from, opts.to = &from, &to
	if err := run(context.Background(), deps, opts); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !calledRange {
		t.Fatalf("FetchCalendarRange not called")
	}
}

func TestRun_FetchError(t *testing.T) {
	t.Parallel()

	want := errors.New("no auth")
	var out written
	deps := testDeps(t, &out)
	deps.FetchCalendar = func(ctx context.Context, weeks int) (string, github.Calendar, error) {
		return "", github.Calendar{}, want
	}
	deps.WriteOutput = func(path string, data []byte) error {
		t.Fatalf("WriteOutput should not be called on fetch error")
		return nil
	}

	err := run(context.Background(), deps, baseOptions())
	if !errors.Is(err, want) {
		t.Fatalf("expected wrapped error %v, got %v", want, err)
	}
}

func TestRun_InvalidCalendar(t *testing.T) {
	t.Parallel()

	var out written
	deps := testDeps(t, &out)
	deps.FetchCalendar = func(ctx context.Context, weeks int) (string, github.Calendar, error) {
		cal := oneDay()
		cal.Weeks[0].ContributionDays[0].ContributionCount = -3
		return "octocat", cal, nil
	}

	err := run(context.Background(), deps, baseOptions())
	var ice *github.InvalidCalendarError
	if !errors.As(err, &ice) {
		t.Fatalf("expected InvalidCalendarError, got %v", err)
	}
	if out.path != "" {
		t.Fatalf("nothing should be written for an invalid calendar")
	}
}

func TestRun_NoContributions(t *testing.T) {
	t.Parallel()

	var out written
	deps := testDeps(t, &out)
	deps.FetchCalendar = func(ctx context.Context, weeks int) (string, github.Calendar, error) {
		cal := oneDay()
		cal.Weeks[0].ContributionDays[0].ContributionCount = 0
		return "octocat", cal, nil
	}

	if err := run(context.Background(), deps, baseOptions()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if strings.Contains(string(out.data), "@keyframes move") {
		t.Fatalf("empty board should not animate the ball")
	}
}

func TestRun_RetriesOnFrameLimit(t *testing.T) {
	t.Parallel()

	var out written
	deps := testDeps(t, &out)
	var stderr bytes.Buffer
	deps.Stderr = &stderr
	var seeds []uint64
	deps.NewBall = func(cfg sim.Config, seed uint64) *sim.Ball {
		seeds = append(seeds, seed)
		if seed == 7 {
			// Parked far from the only block.
			return sim.NewBall(40, 3, 0, 0, cfg.BallRadius)
		}
		return stillBall(cfg, seed)
	}

	opts := baseOptions()
	opts.seed = 7
	opts.retries = 1
	if err := run(context.Background(), deps, opts); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(seeds) != 2 || seeds[1] != 8 {
		t.Fatalf("seeds = %v, want [7 8]", seeds)
	}
	if !strings.Contains(stderr.String(), "warn: seed 7 hit the frame limit, retrying with 8") {
		t.Fatalf("expected retry warning, got %q", stderr.String())
	}
}

func TestRun_FrameLimitExhausted(t *testing.T) {
	t.Parallel()

	var out written
	deps := testDeps(t, &out)
	calls := 0
	deps.NewBall = func(cfg sim.Config, seed uint64) *sim.Ball {
		calls++
		return sim.NewBall(40, 3, 0, 0, cfg.BallRadius)
	}

	opts := baseOptions()
	opts.maxFrames = 50
	opts.retries = 2
	err := run(context.Background(), deps, opts)
	var limit *sim.FrameLimitError
	if !errors.As(err, &limit) {
		t.Fatalf("expected FrameLimitError, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("attempts = %d, want 3", calls)
	}
}

func TestRun_StdoutOutputAndPreview(t *testing.T) {
	t.Parallel()

	var out written
	deps := testDeps(t, &out)
	var stdout, stderr bytes.Buffer
	deps.Stdout = &stdout
	deps.Stderr = &stderr
	deps.WriteOutput = func(path string, data []byte) error {
		t.Fatalf("WriteOutput should not be called for -")
		return nil
	}
	var previewed bool
	deps.RunPreview = func(login string, res sim.Result, cfg sim.Config, speed float64) error {
		previewed = true
		if login != "octocat" || res.Frames != 2 || speed != 2 {
			t.Fatalf("unexpected preview args: %q %d %v", login, res.Frames, speed)
		}
		return nil
	}

	opts := baseOptions()
	opts.out = "-"
	opts.preview = true
	opts.speed = 2
	if err := run(context.Background(), deps, opts); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "<svg ") {
		t.Fatalf("expected svg on stdout, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "wrote -") {
		t.Fatalf("expected summary on stderr, got %q", stderr.String())
	}
	if !previewed {
		t.Fatalf("RunPreview not called")
	}
}

func TestRun_MissingDeps(t *testing.T) {
	t.Parallel()

	if err := run(context.Background(), Deps{}, baseOptions()); err == nil {
		t.Fatalf("expected error for missing deps")
	}
}

func TestWriteOutput_CreatesDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.svg")
	if err := writeOutput(path, []byte("<svg/>")); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "<svg/>" {
		t.Fatalf("read back %q, %v", got, err)
	}
}
