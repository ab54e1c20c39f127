package export

import (
	"errors"
	"fmt"
)

var (
	ErrExportInProgress = errors.New("an export is already in progress")
	ErrRenderTimeout    = errors.New("layout was not ready in time")
	ErrBitmapTooLarge   = errors.New("bitmap exceeds the pixel limit")
	ErrEmptyBitmap      = errors.New("bitmap has no pixels")
)

// RenderingError reports a failure after the snapshot was taken. Stage is
// the state the pipeline was in when it failed.
type RenderingError struct {
	Stage State
	Err   error
}

func (e *RenderingError) Error() string {
	return fmt.Sprintf("export failed at %s stage: %v", e.Stage, e.Err)
}

func (e *RenderingError) Unwrap() error { return e.Err }
