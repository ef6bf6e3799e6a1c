// Package errs defines the error kinds surfaced by yamlcase.
//
// Three kinds cover every failure the tool can report:
//
//   - [DocumentLoadError]: a file could not be read, was not valid YAML, or did not
//     have the expected shape (for example a changes file without a "cases" list).
//   - [PathResolutionError]: an override path could not be walked.
//   - [OutputWriteError]: a directory or file could not be created or written.
//
// Each kind has a sentinel for [errors.Is]:
//
//	if errors.Is(err, errs.ErrPathResolution) {
//	    // bad override path
//	}
//
// Path resolution failures additionally match a reason sentinel
// ([ErrKeyNotFound], [ErrIndexOutOfRange], [ErrTypeMismatch], [ErrEmptyPath]).
package errs
