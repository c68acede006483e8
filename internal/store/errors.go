package store

import "errors"

var (
	// ErrNotFound is returned by LoadStory when no story was ever saved.
	ErrNotFound = errors.New("store: document not found")

	// ErrCorruptDocument is returned when a stored body no longer decodes.
	ErrCorruptDocument = errors.New("store: corrupt document")
)
