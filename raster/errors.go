package raster

import (
	"errors"
	"fmt"
	"image"
)

// ErrOutOfRange is matched by every *RangeError.
var ErrOutOfRange = errors.New("out of range")

// RangeError reports a pixel or region access outside a buffer.
type RangeError struct {
	Op     string
	Rect   image.Rectangle
	Bounds image.Rectangle
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %v outside %v", e.Op, e.Rect, e.Bounds)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
