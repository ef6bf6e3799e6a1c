package docpath

import (
	"fmt"
	"strings"

	"github.com/0xalexb/yamlcase/document"
	"github.com/0xalexb/yamlcase/errs"
)

// Path is an ordered list of segments from the document root.
type Path []Segment

// Parse splits raw on the separator and resolves each segment with policy.
// A nil policy means NumericIndex.
func Parse(raw string, policy Policy) (Path, error) {
	if raw == "" {
		return nil, &errs.PathResolutionError{Reason: errs.ErrEmptyPath}
	}

	if policy == nil {
		policy = NumericIndex
	}

	parts := strings.Split(raw, Separator)
	path := make(Path, 0, len(parts))

	for _, part := range parts {
		path = append(path, policy(part))
	}

	return path, nil
}

// MustParse is Parse for literal paths known to be valid. It panics on error.
func MustParse(raw string) Path {
	path, err := Parse(raw, NumericIndex)
	if err != nil {
		panic(err)
	}

	return path
}

// String joins the raw segments with the separator.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.String()
	}

	return strings.Join(parts, Separator)
}

// Resolve walks every segment but the last and returns the container that holds
// the target together with the last segment. It does not modify the document.
func Resolve(root document.Node, path Path) (document.Node, Segment, error) {
	if len(path) == 0 {
		return nil, Segment{}, &errs.PathResolutionError{Reason: errs.ErrEmptyPath}
	}

	current := root

	for depth, seg := range path[:len(path)-1] {
		next, err := step(current, seg, path, depth)
		if err != nil {
			return nil, Segment{}, err
		}

		current = next
	}

	last := len(path) - 1
	if _, isScalar := current.(*document.Scalar); isScalar || current == nil {
		return nil, Segment{}, mismatch(path, last, "cannot address into a scalar")
	}

	return current, path[last], nil
}

// ResolveString parses raw with policy and resolves it.
func ResolveString(root document.Node, raw string, policy Policy) (document.Node, Segment, error) {
	path, err := Parse(raw, policy)
	if err != nil {
		return nil, Segment{}, err
	}

	return Resolve(root, path)
}

// Get returns the node at path.
func Get(root document.Node, path Path) (document.Node, error) {
	parent, last, err := Resolve(root, path)
	if err != nil {
		return nil, err
	}

	return step(parent, last, path, len(path)-1)
}

// Set assigns value at path. On a mapping it overwrites the key in place or
// appends it; on a sequence it overwrites an existing item and never grows the
// sequence.
func Set(root document.Node, path Path, value document.Node) error {
	parent, last, err := Resolve(root, path)
	if err != nil {
		return err
	}

	depth := len(path) - 1

	switch container := parent.(type) {
	case *document.Mapping:
		container.Set(last.String(), value)

		return nil
	case *document.Sequence:
		if !last.IsIndex() {
			return mismatch(path, depth, "a sequence needs an index segment")
		}

		if !container.Replace(last.Index(), value) {
			return outOfRange(path, depth, container.Len())
		}

		return nil
	default:
		return mismatch(path, depth, "cannot assign into a scalar")
	}
}

// step descends one level. Mapping entries are matched on the segment's raw text,
// so an Index segment can still address a mapping whose keys are numbers.
func step(current document.Node, seg Segment, path Path, depth int) (document.Node, error) {
	switch container := current.(type) {
	case *document.Mapping:
		next, ok := container.Get(seg.String())
		if !ok {
			return nil, &errs.PathResolutionError{
				Path:    path.String(),
				Segment: seg.String(),
				Depth:   depth,
				Reason:  errs.ErrKeyNotFound,
			}
		}

		return next, nil
	case *document.Sequence:
		if !seg.IsIndex() {
			return nil, mismatch(path, depth, "a sequence needs an index segment")
		}

		next, ok := container.At(seg.Index())
		if !ok {
			return nil, outOfRange(path, depth, container.Len())
		}

		return next, nil
	default:
		return nil, mismatch(path, depth, "cannot descend into a scalar")
	}
}

func mismatch(path Path, depth int, msg string) error {
	return &errs.PathResolutionError{
		Path:    path.String(),
		Segment: path[depth].String(),
		Depth:   depth,
		Reason:  errs.ErrTypeMismatch,
		Message: msg,
	}
}

func outOfRange(path Path, depth int, length int) error {
	return &errs.PathResolutionError{
		Path:    path.String(),
		Segment: path[depth].String(),
		Depth:   depth,
		Reason:  errs.ErrIndexOutOfRange,
		Message: fmt.Sprintf("sequence has %d items", length),
	}
}
