package commands

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when the requested status cannot follow
	// the current one. The wrapped error carries the specific reason.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrJobIsTerminal is an ErrInvalidTransition for jobs that can no longer change.
	ErrJobIsTerminal = fmt.Errorf("%w: job is in a terminal status", ErrInvalidTransition)

	// ErrJobBusy is returned when the job row stayed locked through every retry.
	// It is retryable by the caller.
	ErrJobBusy = errors.New("job is being updated by another request, retry later")

	// ErrAlertNotFound is returned when an alert id matches nothing.
	ErrAlertNotFound = errors.New("alert not found")
)
