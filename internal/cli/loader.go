package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/nerrad567/vixio-core/internal/story"
)

// Error codes reported by showctl.
const (
	ErrCodeNotFound   = "not_found"
	ErrCodeRead       = "read_error"
	ErrCodeParse      = "parse_error"
	ErrCodeValidation = "validation_failed"
	ErrCodeWrite      = "write_error"
)

// LoadError describes why a story file could not be loaded.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadStory reads a story file. Comments and trailing commas are
// accepted.
func LoadStory(path string) (*story.Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "file not found", Err: err}
		}
		return nil, &LoadError{Code: ErrCodeRead, Path: path, Message: err.Error(), Err: err}
	}

	s, err := story.Decode(jsonc.ToJSON(data))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Path: path, Message: err.Error(), Err: err}
	}
	return s, nil
}
