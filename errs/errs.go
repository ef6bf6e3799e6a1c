package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentLoad matches any DocumentLoadError.
	ErrDocumentLoad = errors.New("document load error")

	// ErrPathResolution matches any PathResolutionError.
	ErrPathResolution = errors.New("path resolution error")

	// ErrOutputWrite matches any OutputWriteError.
	ErrOutputWrite = errors.New("output write error")

	// ErrKeyNotFound indicates a mapping has no entry for a segment.
	ErrKeyNotFound = errors.New("key not found")

	// ErrIndexOutOfRange indicates a sequence index past the end of the sequence.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrTypeMismatch indicates a segment cannot address the container it was applied to.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrEmptyPath indicates a path without segments.
	ErrEmptyPath = errors.New("empty path")
)

// DocumentLoadError reports a failure to load or interpret a YAML document.
type DocumentLoadError struct {
	// Source is the file path or other identifier of the document.
	Source string
	// Line is the line of the failure, 0 if unknown.
	Line int
	// Column is the column of the failure, 0 if unknown.
	Column int
	// Message describes the failure.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns a human-readable error message.
func (e *DocumentLoadError) Error() string {
	msg := "failed to load document"
	if e.Source != "" {
		msg += " " + e.Source
	}

	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}

	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

// Unwrap returns the underlying cause.
func (e *DocumentLoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrDocumentLoad.
func (e *DocumentLoadError) Is(target error) bool {
	return target == ErrDocumentLoad //nolint:errorlint,err113 // sentinel identity
}

// PathResolutionError reports a path segment that could not be walked.
type PathResolutionError struct {
	// Path is the full path as written by the caller.
	Path string
	// Segment is the raw text of the failing segment.
	Segment string
	// Depth is the zero-based position of the failing segment.
	Depth int
	// Reason is one of ErrKeyNotFound, ErrIndexOutOfRange, ErrTypeMismatch or ErrEmptyPath.
	Reason error
	// Message adds detail such as the container kind or length.
	Message string
}

// Error returns a human-readable error message.
func (e *PathResolutionError) Error() string {
	msg := "cannot resolve path"
	if e.Path != "" {
		msg += fmt.Sprintf(" %q", e.Path)
	}

	if e.Segment != "" {
		msg += fmt.Sprintf(" at segment %q (depth %d)", e.Segment, e.Depth)
	}

	if e.Reason != nil {
		msg += ": " + e.Reason.Error()
	}

	if e.Message != "" {
		msg += ": " + e.Message
	}

	return msg
}

// Unwrap returns the reason sentinel.
func (e *PathResolutionError) Unwrap() error {
	return e.Reason
}

// Is reports whether target is ErrPathResolution.
// Reason sentinels are matched through Unwrap.
func (e *PathResolutionError) Is(target error) bool {
	return target == ErrPathResolution //nolint:errorlint,err113 // sentinel identity
}

// OutputWriteError reports a failure to materialize output.
type OutputWriteError struct {
	// Path is the directory or file involved.
	Path string
	// Op is the operation that failed, e.g. "mkdir", "create", "write", "close".
	Op string
	// Cause is the underlying error.
	Cause error
}

// Error returns a human-readable error message.
func (e *OutputWriteError) Error() string {
	msg := "output write failed"
	if e.Op != "" {
		msg += " (" + e.Op + ")"
	}

	if e.Path != "" {
		msg += " " + e.Path
	}

	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

// Unwrap returns the underlying cause.
func (e *OutputWriteError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrOutputWrite.
func (e *OutputWriteError) Is(target error) bool {
	return target == ErrOutputWrite //nolint:errorlint,err113 // sentinel identity
}
