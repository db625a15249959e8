package core

import "errors"

var (
	// ErrRateUnachievable is returned by Begin when no clock divider can
	// express the requested rate within the compare register.
	ErrRateUnachievable = errors.New("timer rate unachievable")

	// ErrCapacityExceeded is returned by AddTask when all task slots are used.
	ErrCapacityExceeded = errors.New("too many timer tasks")

	ErrNilTask = errors.New("timer task has no callback")

	// ErrAsyncWriteTimeout is returned when an asynchronous timer never
	// reports a register write as propagated into its clock domain.
	ErrAsyncWriteTimeout = errors.New("async timer register write did not complete")

	ErrMillisDriverTaken = errors.New("millis clock already driven by another timer")
	ErrVectorBound       = errors.New("interrupt vector already bound")
	ErrInvalidVector     = errors.New("invalid interrupt vector or handler")
)
