// Package layout locates the author/affiliation header of a paper's first page.
//
// It works on two views of the page: a rendered bitmap, scanned for rows of
// pure background to find section boundaries, and the text layer, walked
// strip by strip to rebuild logical lines with their vertical extent.
package layout

import (
	"errors"
	"fmt"
)

// ErrLayoutDetection indicates the page header does not match the expected template.
var ErrLayoutDetection = errors.New("layout detection failed")

// LayoutError describes where layout detection failed.
type LayoutError struct {
	Stage  string // gaps, segments, split
	Reason string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("%s (%s): %s", ErrLayoutDetection, e.Stage, e.Reason)
}

// Unwrap ties every LayoutError to ErrLayoutDetection.
func (e *LayoutError) Unwrap() error {
	return ErrLayoutDetection
}

// IsLayoutFailure returns true if err signals a layout detection failure.
func IsLayoutFailure(err error) bool {
	return errors.Is(err, ErrLayoutDetection)
}

func layoutErrorf(stage, format string, args ...any) error {
	return &LayoutError{Stage: stage, Reason: fmt.Sprintf(format, args...)}
}
