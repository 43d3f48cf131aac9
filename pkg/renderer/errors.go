package renderer

import "errors"

var (
	ErrZeroSampleBudget = errors.New("renderer: sample budget must be positive")
	ErrTileOutOfRange   = errors.New("renderer: tile index out of range")
	ErrPixelOutOfRange  = errors.New("renderer: pixel coordinates out of range")
	ErrInvalidConfig    = errors.New("renderer: invalid configuration")
	ErrClosed           = errors.New("renderer: renderer is closed")
)
