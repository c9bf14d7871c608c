package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fchimpan/gh-kusa-svg/internal/config"
	"github.com/fchimpan/gh-kusa-svg/internal/github"
	"github.com/fchimpan/gh-kusa-svg/internal/mapping"
	"github.com/fchimpan/gh-kusa-svg/internal/sim"
)

type Deps struct {
	FetchCalendar          func(ctx context.Context, weeks int) (string, github.Calendar, error)
	FetchUserCalendar      func(ctx context.Context, user string, weeks int) (string, github.Calendar, error)
	FetchCalendarRange     func(ctx context.Context, from, to time.Time) (string, github.Calendar, error)
	FetchUserCalendarRange func(ctx context.Context, user string, from, to time.Time) (string, github.Calendar, error)
	LoadEnv                func() (config.Env, error)
	NewBall                func(cfg sim.Config, seed uint64) *sim.Ball
	WriteOutput            func(path string, data []byte) error
	RunPreview             func(login string, res sim.Result, cfg sim.Config, speed float64) error
	Now                    func() time.Time
	Stdout                 io.Writer
	Stderr                 io.Writer
}

func DefaultDeps() Deps {
	return Deps{
		FetchCalendar:          github.FetchViewerContributionCalendar,
		FetchUserCalendar:      github.FetchUserContributionCalendar,
		FetchCalendarRange:     github.FetchViewerContributionCalendarRange,
		FetchUserCalendarRange: github.FetchUserContributionCalendarRange,
		LoadEnv:                func() (config.Env, error) { return config.Load(config.DefaultEnvFiles...) },
		NewBall:                defaultNewBall,
		WriteOutput:            writeOutput,
		RunPreview:             defaultRunPreview,
		Now:                    time.Now,
		Stdout:                 os.Stdout,
		Stderr:                 os.Stderr,
	}
}

func defaultNewBall(cfg sim.Config, seed uint64) *sim.Ball {
	return sim.RandomBall(cfg, sim.NewRand(seed))
}

func NewRootCmd(deps Deps) *cobra.Command {
	const defaultWeeks = 52
	var (
		user      string
		fromStr   string
		toStr     string
		out       string
		seed      uint64
		health    string
		maxFrames int
		retries   int
		preview   bool
		speed     float64
	)

	c := &cobra.Command{
		Use:          "kusa-svg",
		Short:        "Render your GitHub contribution graph as an animated block-breaker SVG",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if speed <= 0 {
				return fmt.Errorf("--speed must be > 0")
			}
			if retries < 0 {
				return fmt.Errorf("--retries must be >= 0")
			}
			strategy, err := mapping.ParseStrategy(health)
			if err != nil {
				return err
			}

			env := config.FromLookup(func(string) string { return "" })
			if deps.LoadEnv != nil {
				env, err = deps.LoadEnv()
				if err != nil {
					return err
				}
			}
			if user == "" {
				user = env.Owner
			}
			if out == "" {
				out = env.Output
			}

			opts := options{
				user:      user,
				weeks:     defaultWeeks,
				out:       out,
				seed:      seed,
				strategy:  strategy,
				maxFrames: maxFrames,
				retries:   retries,
				preview:   preview,
				speed:     speed,
			}
			if fromStr != "" || toStr != "" {
				// Date range mode.
				if fromStr != "" {
					t, err := parseDateStartUTC(fromStr)
					if err != nil {
						return err
					}
					opts.from = &t
				}
				if toStr != "" {
					t, err := parseDateEndUTC(toStr)
					if err != nil {
						return err
					}
					opts.to = &t
				}
				if opts.to == nil {
					t := deps.Now().UTC()
					opts.to = &t
				}
				if opts.from == nil {
					// Default the start by 52 weeks (GitHub UI default).
					t := opts.to.AddDate(0, 0, -7*defaultWeeks)
					opts.from = &t
				}
			}
			if opts.seed == 0 {
				opts.seed = uint64(deps.Now().UnixNano())
			}

			if err := run(cmd.Context(), deps, opts); err != nil {
				if github.IsAuthError(err) {
					fmt.Fprintln(deps.Stderr, "hint: set GITHUB_TOKEN or GH_TOKEN, or run `gh auth login`")
				}
				return err
			}
			return nil
		},
	}

	c.Flags().StringVarP(&user, "user", "u", "", "GitHub username to use (default: $GITHUB_REPOSITORY_OWNER, else the authenticated user)")
	c.Flags().StringVarP(&fromStr, "from", "f", "", "start date (YYYY-MM-DD). if set, enables date range mode")
	c.Flags().StringVarP(&toStr, "to", "t", "", "end date (YYYY-MM-DD). if set, enables date range mode")
	c.Flags().StringVarP(&out, "out", "o", "", "output path, - for stdout (default: $KUSA_SVG_OUT, else out.svg)")
	c.Flags().Uint64Var(&seed, "seed", 0, "random seed for the ball's start (0 picks one from the clock)")
	c.Flags().StringVar(&health, "health", string(mapping.StrategyCount), "block health: count (contributions) or level (1-4)")
	c.Flags().IntVar(&maxFrames, "max-frames", sim.DefaultConfig().MaxFrames, "stop a run after this many frames (0 disables)")
	c.Flags().IntVar(&retries, "retries", 3, "retries with the next seed when a run hits --max-frames")
	c.Flags().BoolVarP(&preview, "preview", "p", false, "replay the simulation in the terminal after writing")
	c.Flags().Float64VarP(&speed, "speed", "s", 1.0, "preview speed multiplier (1.0 is real time)")

	c.SetOut(deps.Stdout)
	c.SetErr(deps.Stderr)
	return c
}

const dateLayout = "2006-01-02"

func parseDateStartUTC(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --from date %q (expected YYYY-MM-DD)", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func parseDateEndUTC(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --to date %q (expected YYYY-MM-DD)", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC), nil
}
