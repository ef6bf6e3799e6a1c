// Package document models a loaded YAML tree as a closed set of node types.
//
// A Node is exactly one of *Mapping, *Sequence or *Scalar. Mapping entries keep
// their insertion order so a document can be loaded, mutated and dumped without
// reordering keys.
package document

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	// KindScalar is a leaf value.
	KindScalar Kind = iota
	// KindMapping is an ordered key/value container.
	KindMapping
	// KindSequence is an ordered list.
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Node is a document tree node. Implementations are limited to this package.
type Node interface {
	Kind() Kind
	node()
}

// Entry is one key/value pair of a Mapping. Key is the text paths match
// against. KeyRaw is the key as written in the source, so `1:` stays an
// integer key and `"1":` a quoted one; it is empty for keys added later.
type Entry struct {
	Key    string
	Value  Node
	KeyRaw string
}

// Mapping is an ordered set of string-keyed entries.
type Mapping struct {
	Entries []Entry
	Flow    bool
}

// Sequence is an ordered list of nodes.
type Sequence struct {
	Items []Node
	Flow  bool
}

// Scalar is a leaf. Value holds string, int64, uint64 (above math.MaxInt64 only),
// float64, bool, []byte, time.Time or nil.
//
// Raw is the single-line source text of a loaded scalar, tags and quotes
// included. Dumps emit it verbatim, so it must be cleared whenever Value changes.
type Scalar struct {
	Value any
	Raw   string
}

func (*Mapping) node()  {}
func (*Sequence) node() {}
func (*Scalar) node()   {}

// Kind returns KindMapping.
func (*Mapping) Kind() Kind { return KindMapping }

// Kind returns KindSequence.
func (*Sequence) Kind() Kind { return KindSequence }

// Kind returns KindScalar.
func (*Scalar) Kind() Kind { return KindScalar }

// NewMapping returns a mapping holding the given entries in order.
func NewMapping(entries ...Entry) *Mapping {
	return &Mapping{Entries: entries}
}

// NewSequence returns a sequence holding the given items in order.
func NewSequence(items ...Node) *Sequence {
	return &Sequence{Items: items}
}

// NewScalar returns a scalar with the value normalized to the scalar value set.
func NewScalar(value any) *Scalar {
	return &Scalar{Value: normalizeScalar(value)}
}

// Null returns a null scalar.
func Null() *Scalar {
	return &Scalar{Value: nil}
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	return len(m.Entries)
}

// Index returns the position of key, or -1.
func (m *Mapping) Index(key string) int {
	for i := range m.Entries {
		if m.Entries[i].Key == key {
			return i
		}
	}

	return -1
}

// Get returns the value for key.
func (m *Mapping) Get(key string) (Node, bool) {
	i := m.Index(key)
	if i < 0 {
		return nil, false
	}

	return m.Entries[i].Value, true
}

// Set overwrites the value of an existing key in place or appends a new entry.
func (m *Mapping) Set(key string, value Node) {
	if i := m.Index(key); i >= 0 {
		m.Entries[i].Value = value

		return
	}

	m.Entries = append(m.Entries, Entry{Key: key, Value: value})
}

// Keys returns the keys in order.
func (m *Mapping) Keys() []string {
	keys := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		keys = append(keys, e.Key)
	}

	return keys
}

// Len returns the number of items.
func (s *Sequence) Len() int {
	return len(s.Items)
}

// At returns the item at i.
func (s *Sequence) At(i int) (Node, bool) {
	if i < 0 || i >= len(s.Items) {
		return nil, false
	}

	return s.Items[i], true
}

// Replace overwrites the item at i. It never grows the sequence.
func (s *Sequence) Replace(i int, value Node) bool {
	if i < 0 || i >= len(s.Items) {
		return false
	}

	s.Items[i] = value

	return true
}

// IsNull reports whether the scalar is null.
func (s *Scalar) IsNull() bool {
	return s.Value == nil
}

// String returns the scalar's text as it would identify a case or a key.
func (s *Scalar) String() string {
	switch v := s.Value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// IsEmptyMapping reports whether n is a mapping without entries.
func IsEmptyMapping(n Node) bool {
	m, ok := n.(*Mapping)

	return ok && len(m.Entries) == 0
}

// IsNull reports whether n is nil or a null scalar.
func IsNull(n Node) bool {
	if n == nil {
		return true
	}

	s, ok := n.(*Scalar)

	return ok && s.IsNull()
}

func normalizeScalar(value any) any {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return normalizeUnsigned(uint64(v))
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return normalizeUnsigned(v)
	case float32:
		return float64(v)
	default:
		return value
	}
}

// normalizeUnsigned keeps uint64 only for values that do not fit in int64.
func normalizeUnsigned(v uint64) any {
	if v > math.MaxInt64 {
		return v
	}

	return int64(v)
}
