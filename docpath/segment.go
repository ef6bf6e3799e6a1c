// Package docpath addresses locations inside a document.Node tree.
//
// A path is written as colon-separated segments, e.g. "servers:0:port". Each
// segment is decided once, when the path is parsed, to be either an Index into a
// sequence or a Key into a mapping. The decision is made by a Policy so that it
// does not depend on the document being walked.
package docpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Separator joins path segments.
const Separator = ":"

// ErrUnknownPolicy is returned by PolicyByName for unregistered names.
var ErrUnknownPolicy = errors.New("unknown segment policy")

// SegmentKind tells which variant a Segment holds.
type SegmentKind int

const (
	// KindKey addresses a mapping entry.
	KindKey SegmentKind = iota
	// KindIndex addresses a sequence item.
	KindIndex
)

// Segment is one step of a Path: either Index(n) or Key(s).
type Segment struct {
	kind  SegmentKind
	key   string
	index int
	raw   string
}

// Key returns a mapping key segment.
func Key(key string) Segment {
	return Segment{kind: KindKey, key: key, raw: key}
}

// Index returns a sequence index segment.
func Index(index int) Segment {
	return Segment{kind: KindIndex, index: index, raw: strconv.Itoa(index)}
}

// Kind returns the variant.
func (s Segment) Kind() SegmentKind { return s.kind }

// IsIndex reports whether the segment is an Index.
func (s Segment) IsIndex() bool { return s.kind == KindIndex }

// Key returns the key of a Key segment.
func (s Segment) Key() string { return s.key }

// Index returns the index of an Index segment.
func (s Segment) Index() int { return s.index }

// String returns the text the segment was parsed from.
func (s Segment) String() string { return s.raw }

// Policy decides the variant of a raw segment.
type Policy func(raw string) Segment

// NumericIndex treats non-negative base-10 integers as indexes and everything else as keys.
func NumericIndex(raw string) Segment {
	if raw != "" && raw[0] != '+' && raw[0] != '-' {
		if n, err := strconv.Atoi(raw); err == nil {
			return Segment{kind: KindIndex, index: n, raw: raw}
		}
	}

	return Key(raw)
}

// KeysOnly treats every segment as a mapping key.
func KeysOnly(raw string) Segment {
	return Key(raw)
}

// Policy names accepted by PolicyByName.
const (
	PolicyNumeric = "numeric"
	PolicyKeys    = "keys"
)

// PolicyByName returns the policy registered under name. An empty name selects NumericIndex.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(name) {
	case "", PolicyNumeric:
		return NumericIndex, nil
	case PolicyKeys:
		return KeysOnly, nil
	default:
		return nil, fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownPolicy, name, PolicyNumeric, PolicyKeys)
	}
}
