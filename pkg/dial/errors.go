package dial

import "errors"

// Errors returned by the dial models. Check them with errors.Is.
var (
	// ErrInvalidCommand is returned for a negative distance, a direction other
	// than Left or Right, or a position outside the dial.
	ErrInvalidCommand = errors.New("dial: invalid command")

	// ErrInvalidInitialPosition is returned by a reset outside [0, size).
	ErrInvalidInitialPosition = errors.New("dial: invalid initial position")

	// ErrInvalidSize is returned when the dial has no positions.
	ErrInvalidSize = errors.New("dial: invalid size")

	// ErrNotReady is returned when a stepper is driven before it was reset.
	ErrNotReady = errors.New("dial: not reset")
)
