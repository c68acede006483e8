package playback

import "errors"

// Domain errors for the playback package.
var (
	// ErrInvalidPosition is returned by Seek for NaN or infinite positions.
	ErrInvalidPosition = errors.New("playback: invalid position")

	// ErrReportFailed wraps position report failures.
	ErrReportFailed = errors.New("playback: position report failed")
)

// ErrUnknownAction is returned by Apply for a transport action it does
// not recognise.
var ErrUnknownAction = errors.New("playback: unknown transport action")
