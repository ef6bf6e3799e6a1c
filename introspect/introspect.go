// Package introspect enumerates the addressable paths of a document.
//
// Both enumerations are lazy: nothing is walked until the returned sequence is
// ranged over, and ranging stops the walk as soon as the loop breaks.
package introspect

import (
	"fmt"
	"iter"
	"strconv"

	"github.com/0xalexb/yamlcase/docpath"
	"github.com/0xalexb/yamlcase/document"
)

// Entry describes one node of a document.
type Entry struct {
	Path string
	Kind document.Kind
	// Len is the number of children of a container, 0 for scalars.
	Len int
	// Value is set for scalars only.
	Value *document.Scalar
}

// String renders "a:c (sequence, 2 items)" for containers and "a:b = 1" for scalars.
func (e Entry) String() string {
	switch e.Kind {
	case document.KindScalar:
		return fmt.Sprintf("%s = %s", e.Path, e.Value)
	default:
		noun := "items"
		if e.Kind == document.KindMapping {
			noun = "keys"
		}

		if e.Len == 1 {
			noun = noun[:len(noun)-1]
		}

		return fmt.Sprintf("%s (%s, %d %s)", e.Path, e.Kind, e.Len, noun)
	}
}

// Leaves yields the path of every scalar below the root, in document order.
// Empty containers and a scalar root yield nothing.
func Leaves(doc document.Node) iter.Seq[string] {
	return func(yield func(string) bool) {
		walk(doc, "", func(e Entry) bool {
			if e.Kind != document.KindScalar {
				return true
			}

			return yield(e.Path)
		})
	}
}

// Tree yields every node below the root, containers before their children.
func Tree(doc document.Node) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		walk(doc, "", yield)
	}
}

// walk visits the children of n. It returns false once visit asks to stop.
func walk(n document.Node, prefix string, visit func(Entry) bool) bool {
	switch v := n.(type) {
	case *document.Mapping:
		for _, e := range v.Entries {
			if !visitChild(join(prefix, e.Key), e.Value, visit) {
				return false
			}
		}
	case *document.Sequence:
		for i, item := range v.Items {
			if !visitChild(join(prefix, strconv.Itoa(i)), item, visit) {
				return false
			}
		}
	}

	return true
}

func visitChild(path string, n document.Node, visit func(Entry) bool) bool {
	entry := Entry{Path: path, Kind: document.KindScalar}

	switch v := n.(type) {
	case *document.Mapping:
		entry.Kind = document.KindMapping
		entry.Len = v.Len()
	case *document.Sequence:
		entry.Kind = document.KindSequence
		entry.Len = v.Len()
	case *document.Scalar:
		entry.Value = v
	default:
		entry.Value = document.Null()
	}

	if !visit(entry) {
		return false
	}

	return walk(n, path, visit)
}

func join(prefix, segment string) string {
	if prefix == "" {
		return segment
	}

	return prefix + docpath.Separator + segment
}
