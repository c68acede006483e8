package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/vixio-core/internal/story"
)

// ValidationResult is the JSON data of the validate command.
type ValidationResult struct {
	Valid  bool                    `json:"valid"`
	Beats  int                     `json:"beats"`
	Cues   int                     `json:"cues"`
	Errors []story.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <story.json>",
		Short: "Check a story for referential and range errors",
		Long: `Validate a story file the way the core does before saving or publishing.

Every problem is reported; the command exits 1 when any are found.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr()), args[0])
		},
	}
}

func runValidate(f *OutputFormatter, path string) error {
	s, err := LoadStory(path)
	if err != nil {
		return f.loadFailure(err)
	}
	f.VerboseLog("loaded %s: %d beats, %d cues", path, len(s.Beats), len(s.Cues))

	errs := story.Validate(s)
	result := ValidationResult{Valid: len(errs) == 0, Beats: len(s.Beats), Cues: len(s.Cues), Errors: errs}
	if len(errs) > 0 {
		return validationFailure(f, result)
	}

	if f.JSON() {
		return f.Success(result)
	}
	fmt.Fprintf(f.Writer, "✓ story valid (%d beats, %d cues)\n", result.Beats, result.Cues)
	return nil
}

// validationFailure reports a story that failed validation and returns
// an ExitFailure error.
func validationFailure(f *OutputFormatter, result ValidationResult) error {
	msg := fmt.Sprintf("validation failed with %d error(s)", len(result.Errors))
	if f.JSON() {
		if err := f.Failure(ErrCodeValidation, result.Errors[0].Message, result, nil); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	fmt.Fprintln(f.Writer, "✗ validation failed")
	for _, e := range result.Errors {
		fmt.Fprintf(f.Writer, "  %s\n", e.Message)
	}
	return NewExitError(ExitFailure, msg)
}
