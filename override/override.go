// Package override applies path-keyed value overrides to a document.
package override

import (
	"errors"
	"fmt"

	"github.com/0xalexb/yamlcase/codec"
	"github.com/0xalexb/yamlcase/docpath"
	"github.com/0xalexb/yamlcase/document"
)

// ErrPairMismatch is returned when --path and --value flags are not paired.
var ErrPairMismatch = errors.New("each path needs exactly one value")

// Override sets Value at Path.
type Override struct {
	Path  docpath.Path
	Value document.Node
}

// IsNoop reports whether the override requests no change: a null value or an empty mapping.
func (o Override) IsNoop() bool {
	return document.IsNull(o.Value) || document.IsEmptyMapping(o.Value)
}

// ApplyError reports the override that failed and how many were applied before it.
type ApplyError struct {
	// Applied counts the overrides that took effect before the failure.
	Applied int
	// Index is the position of the failing override.
	Index int
	// Path is the failing override's path.
	Path string
	Err  error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("override %d (%s): %v", e.Index+1, e.Path, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Apply assigns each override in order and returns doc, which is mutated in place.
// Values are copied so the document never shares nodes with the overrides.
// Later overrides to the same path win. No-op overrides are skipped after their
// path has been resolved, so a bad path is still reported. On failure the
// overrides before the failing one stay applied.
func Apply(doc document.Node, overrides []Override) (document.Node, error) {
	applied := 0

	for i, o := range overrides {
		var err error

		if o.IsNoop() {
			_, _, err = docpath.Resolve(doc, o.Path)
		} else {
			err = docpath.Set(doc, o.Path, document.Clone(o.Value))
		}

		if err != nil {
			return doc, &ApplyError{Applied: applied, Index: i, Path: o.Path.String(), Err: err}
		}

		if !o.IsNoop() {
			applied++
		}
	}

	return doc, nil
}

// FromMapping reads a flat changes document: every key is a path, every value the new value.
func FromMapping(m *document.Mapping, policy docpath.Policy) ([]Override, error) {
	overrides := make([]Override, 0, m.Len())

	for _, e := range m.Entries {
		path, err := docpath.Parse(e.Key, policy)
		if err != nil {
			return nil, fmt.Errorf("changes key %q: %w", e.Key, err)
		}

		overrides = append(overrides, Override{Path: path, Value: e.Value})
	}

	return overrides, nil
}

// FromPairs pairs paths with values by position. Each value is parsed as a YAML fragment.
func FromPairs(paths, values []string, policy docpath.Policy) ([]Override, error) {
	if len(paths) != len(values) {
		return nil, fmt.Errorf("%w: got %d paths and %d values", ErrPairMismatch, len(paths), len(values))
	}

	overrides := make([]Override, 0, len(paths))

	for i := range paths {
		path, err := docpath.Parse(paths[i], policy)
		if err != nil {
			return nil, err
		}

		value, err := codec.ParseValue(values[i])
		if err != nil {
			return nil, err
		}

		overrides = append(overrides, Override{Path: path, Value: value})
	}

	return overrides, nil
}
