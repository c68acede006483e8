package playback

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Transport actions accepted by Apply.
const (
	ActionPlay  = "play"
	ActionPause = "pause"
	ActionReset = "reset"
	ActionSeek  = "seek"
)

// Command is a remote transport request, as received on the MQTT
// transport topic or the HTTP playback endpoints.
type Command struct {
	Action  string   `json:"action"`
	Seconds *float64 `json:"seconds,omitempty"`
}

// ParseCommand decodes a JSON transport command.
func ParseCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("decoding transport command: %w", err)
	}
	cmd.Action = strings.ToLower(strings.TrimSpace(cmd.Action))
	return cmd, nil
}

// Apply runs cmd against the scheduler. A seek without seconds is
// rejected with ErrInvalidPosition.
func (s *Scheduler) Apply(cmd Command) (Status, error) {
	switch cmd.Action {
	case ActionPlay:
		return s.Play(), nil
	case ActionPause:
		return s.Pause(), nil
	case ActionReset:
		return s.Reset(), nil
	case ActionSeek:
		if cmd.Seconds == nil {
			return s.Status(), fmt.Errorf("%w: seek needs seconds", ErrInvalidPosition)
		}
		return s.Seek(*cmd.Seconds)
	default:
		return s.Status(), fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}
}
