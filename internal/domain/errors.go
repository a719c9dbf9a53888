package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidPageCapacity is returned by PlanPages for a non-positive row count.
var ErrInvalidPageCapacity = errors.New("rows per half page must be positive")

// ResourceError reports that the log file does not exist.
type ResourceError struct {
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("log file not found: %s", e.Path)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// IOError reports a log file that exists but could not be read or decoded.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("read log: %v", e.Err)
	}
	return fmt.Sprintf("read log %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// EmptySelectionError reports an export request without a month or for a
// month with no readings.
type EmptySelectionError struct {
	Month string
}

func (e *EmptySelectionError) Error() string {
	if e.Month == "" {
		return "no month selected"
	}
	return fmt.Sprintf("no readings for month %q", e.Month)
}
