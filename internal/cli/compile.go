package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nerrad567/vixio-core/internal/story"
	"github.com/nerrad567/vixio-core/internal/timeline"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string
}

// CompileResult is the JSON data of the compile command.
type CompileResult struct {
	Timeline *timeline.Timeline `json:"timeline,omitempty"`
	Output   string             `json:"output,omitempty"`
	Events   int                `json:"events"`
	Warnings []string           `json:"warnings"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <story.json>",
		Short: "Compile a story into a timeline",
		Long: `Validate a story and compile it into the timeline the core would publish.

The timeline is printed to stdout, or written to the --output file.
Compile warnings go to stderr.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr()), args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the timeline to this file")

	return cmd
}

// compileStory loads, validates and compiles path. A non-nil error has
// already been reported through f.
func compileStory(f *OutputFormatter, path string) (*timeline.Timeline, []string, error) {
	s, err := LoadStory(path)
	if err != nil {
		return nil, nil, f.loadFailure(err)
	}
	if errs := story.Validate(s); len(errs) > 0 {
		return nil, nil, validationFailure(f, ValidationResult{Beats: len(s.Beats), Cues: len(s.Cues), Errors: errs})
	}

	tl, warnings := timeline.Compile(s)
	f.VerboseLog("compiled %s: %d events", path, len(tl.Events))
	for _, w := range warnings {
		f.Warn(w)
	}
	return tl, warnings, nil
}

func runCompile(opts *CompileOptions, f *OutputFormatter, path string) error {
	tl, warnings, err := compileStory(f, path)
	if err != nil {
		return err
	}
	result := CompileResult{Events: len(tl.Events), Warnings: warnings}

	if opts.Output != "" {
		if err := writeTimeline(opts.Output, tl); err != nil {
			if f.JSON() {
				//nolint:errcheck // exit error carries the failure
				f.Failure(ErrCodeWrite, err.Error(), nil, nil)
			} else {
				fmt.Fprintf(f.Writer, "✗ %s\n", err)
			}
			return NewExitError(ExitCommandError, err.Error())
		}
		result.Output = opts.Output
		if f.JSON() {
			return f.Success(result)
		}
		fmt.Fprintf(f.Writer, "✓ wrote %d events to %s\n", result.Events, opts.Output)
		return nil
	}

	if f.JSON() {
		result.Timeline = tl
		return f.Success(result)
	}
	return f.encode(tl)
}

func writeTimeline(path string, tl *timeline.Timeline) error {
	data, err := json.MarshalIndent(tl, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding timeline: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil { //nolint:gosec // timeline files are not secret
		return fmt.Errorf("writing timeline: %w", err)
	}
	return nil
}
