package sim

import (
	"errors"
	"fmt"
)

var (
	ErrNoFrames       = errors.New("sim: frame count must be positive")
	ErrUnknownPalette = errors.New("sim: unknown palette")
)

// FrameError reports the frame at which an observer failed.
type FrameError struct {
	Frame   uint64
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Frame, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
