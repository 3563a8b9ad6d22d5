package export

import (
	"errors"
	"fmt"
)

var (
	// ErrNothingToExport is returned when there are no frames. It marks
	// an idle request rather than a failure.
	ErrNothingToExport = errors.New("nothing to export")

	// ErrMissingDependency is returned when the requested archive format
	// has no registered writer.
	ErrMissingDependency = errors.New("archive support unavailable")
)

// EncodeError reports a failure of an image or archive encoder.
type EncodeError struct {
	Op  string
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("could not %s: %v", e.Op, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
