package obbinfo

import "fmt"

// Errors
var (
	ErrInvalidRecord = &InfoError{"invalid OBB info"}
	ErrInvalidSalt   = &InfoError{"invalid salt"}
	ErrTruncated     = &InfoError{"truncated footer"}
	ErrMalformedName = &InfoError{"malformed package name"}
)

// InfoError represents a footer codec error
type InfoError struct {
	Message string
}

func (e *InfoError) Error() string {
	return e.Message
}

// UnsupportedVersionError is returned when a footer carries a version other than 1.
type UnsupportedVersionError struct {
	Version uint32
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported version: %d", e.Version)
}

// NotObbError reports that a file holds no valid version-1 footer.
// Callers treat it as an absence signal rather than a failure.
type NotObbError struct {
	Reason string
	Err    error
}

func (e *NotObbError) Error() string {
	return "not an OBB file: " + e.Reason
}

func (e *NotObbError) Unwrap() error {
	return e.Err
}

// IOError wraps a failure of the underlying storage. It is never
// reinterpreted as a missing footer.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
