package domain

import "errors"

var (
	// ErrInvalidTimeOfDay indicates a clock value outside 00:00:00-23:59:59.
	ErrInvalidTimeOfDay = errors.New("invalid time of day")

	// ErrInvalidInterval indicates a non-positive check interval.
	ErrInvalidInterval = errors.New("check interval must be at least 1 minute")

	// ErrUnknownProfile indicates a profile name other than day or night.
	ErrUnknownProfile = errors.New("unknown profile")

	// ErrStopped is returned for commands sent after the scheduler stopped.
	ErrStopped = errors.New("scheduler is not running")
)
