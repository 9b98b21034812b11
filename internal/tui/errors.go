package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyAttempts is returned when a field is answered invalidly more
	// often than the walker allows.
	ErrTooManyAttempts = errors.New("tui: too many invalid answers")
	// ErrIncomplete is returned when a stage stays blocked although every
	// field was answered.
	ErrIncomplete = errors.New("tui: stage cannot be completed")
)
