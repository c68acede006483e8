package publish

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nerrad567/vixio-core/internal/story"
)

// ErrNoStory is returned by Publish when no story was ever saved.
var ErrNoStory = errors.New("publish: no story saved")

// ValidationFailedError carries every problem found in a rejected story.
type ValidationFailedError struct {
	Errors []story.ValidationError
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("publish: story has %d validation errors: %s",
		len(e.Errors), strings.Join(story.Messages(e.Errors), "; "))
}

// Messages returns the validation messages in order.
func (e *ValidationFailedError) Messages() []string {
	return story.Messages(e.Errors)
}
