package cli

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/vixio-core/internal/playback"
	"github.com/nerrad567/vixio-core/internal/timeline"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Until float64
	Step  float64
}

// Firing is one event fired during a simulation.
type Firing struct {
	At       float64 `json:"at"`
	T        float64 `json:"t"`
	ID       string  `json:"id"`
	Priority int     `json:"priority"`
}

// SimulateResult is the JSON data of the simulate command.
type SimulateResult struct {
	Until    float64  `json:"until"`
	Step     float64  `json:"step"`
	Fired    []Firing `json:"fired"`
	Warnings []string `json:"warnings"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate <story.json>",
		Short: "Walk a playhead over the compiled timeline",
		Long: `Compile a story and play it through the scheduler in fixed steps,
printing every event in the order it fires. Nothing is sent to devices.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Step <= 0 || math.IsNaN(opts.Step) {
				return NewExitError(ExitCommandError, "--step must be positive")
			}
			if opts.Until < 0 || math.IsNaN(opts.Until) {
				return NewExitError(ExitCommandError, "--until must not be negative")
			}
			return runSimulate(cmd.Context(), opts, newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr()), args[0])
		},
	}

	cmd.Flags().Float64Var(&opts.Until, "until", 30, "stop the playhead at this many seconds")
	cmd.Flags().Float64Var(&opts.Step, "step", 0.1, "tick length in seconds")

	return cmd
}

func runSimulate(ctx context.Context, opts *SimulateOptions, f *OutputFormatter, path string) error {
	tl, warnings, err := compileStory(f, path)
	if err != nil {
		return err
	}

	fired := Simulate(ctx, tl, opts.Until, opts.Step)
	if f.JSON() {
		return f.Success(SimulateResult{Until: opts.Until, Step: opts.Step, Fired: fired, Warnings: warnings})
	}

	fmt.Fprintf(f.Writer, "%8s  %8s  %-28s  %s\n", "at", "t", "id", "priority")
	for _, e := range fired {
		fmt.Fprintf(f.Writer, "%8.3f  %8.3f  %-28s  %d\n", e.At, e.T, e.ID, e.Priority)
	}
	fmt.Fprintf(f.Writer, "%d of %d events fired by %.3fs\n", len(fired), len(tl.Events), opts.Until)
	return nil
}

// Simulate plays tl from zero to until in ticks of step seconds and
// returns the events in firing order.
func Simulate(ctx context.Context, tl *timeline.Timeline, until, step float64) []Firing {
	sched := playback.NewScheduler(playback.Config{
		MaxDuration: time.Duration(until * float64(time.Second)),
		QueueSize:   len(tl.Events) + 1,
	}, playback.DispatcherFunc(func(context.Context, timeline.Event) {}), nil)
	defer sched.Close()

	sched.Load(tl)
	sched.Play()

	fired := []Firing{}
	tick := time.Duration(step * float64(time.Second))
	for ctx.Err() == nil {
		due := sched.Tick(tick)
		st := sched.Status()
		for _, ev := range due {
			fired = append(fired, Firing{At: st.Position, T: ev.T, ID: ev.Payload.ID, Priority: ev.Meta.Priority})
		}
		if st.State != playback.StatePlaying || st.Position >= until {
			break
		}
	}
	return fired
}
