package codec

import (
	"encoding/base64"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/0xalexb/yamlcase/document"

	"github.com/goccy/go-yaml"
)

// FromValue converts a decoded YAML value into a document node.
// Ordered maps keep their order; plain Go maps are sorted by key.
func FromValue(v any) document.Node {
	switch val := v.(type) {
	case document.Node:
		return val
	case yaml.MapSlice:
		m := &document.Mapping{Entries: make([]document.Entry, 0, len(val))}
		for _, item := range val {
			key := keyString(item.Key)
			m.Set(key, FromValue(item.Value))

			if _, isString := item.Key.(string); !isString {
				m.Entries[m.Index(key)].KeyRaw = key
			}
		}

		return m
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		m := &document.Mapping{Entries: make([]document.Entry, 0, len(val))}
		for _, k := range keys {
			m.Entries = append(m.Entries, document.Entry{Key: k, Value: FromValue(val[k])})
		}

		return m
	case []any:
		s := &document.Sequence{Items: make([]document.Node, 0, len(val))}
		for _, item := range val {
			s.Items = append(s.Items, FromValue(item))
		}

		return s
	default:
		return document.NewScalar(val)
	}
}

// ToValue converts a node into a value the YAML encoder accepts. Mappings
// become yaml.MapSlice values, in document order when ordered is true and sorted
// by key otherwise. Scalars with source text encode as that text, and byte
// slices encode as !!binary.
func ToValue(n document.Node, ordered bool) any {
	return toValue(n, ordered, false)
}

func toValue(n document.Node, ordered, flow bool) any {
	switch val := n.(type) {
	case *document.Mapping:
		flow = flow || val.Flow
		entries := entriesInOrder(val, ordered)

		out := make(yaml.MapSlice, 0, len(entries))
		for _, e := range entries {
			out = append(out, yaml.MapItem{Key: e.Key, Value: toValue(e.Value, ordered, flow)})
		}

		return out
	case *document.Sequence:
		flow = flow || val.Flow

		out := make([]any, 0, len(val.Items))
		for _, item := range val.Items {
			out = append(out, toValue(item, ordered, flow))
		}

		return out
	case *document.Scalar:
		if val.Raw != "" && (!flow || flowSafe(val.Raw)) {
			return rawScalar(val.Raw)
		}

		if b, ok := val.Value.([]byte); ok {
			return binaryScalar(b)
		}

		return val.Value
	default:
		return nil
	}
}

// entriesInOrder returns the entries in the order they are emitted.
func entriesInOrder(m *document.Mapping, ordered bool) []document.Entry {
	if ordered {
		return m.Entries
	}

	sorted := slices.Clone(m.Entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	return sorted
}

// rawScalar is scalar source text emitted as written.
type rawScalar string

// MarshalYAML implements yaml.BytesMarshaler.
func (r rawScalar) MarshalYAML() ([]byte, error) {
	return []byte(r), nil
}

// binaryScalar is a byte slice emitted as a base64 !!binary scalar.
type binaryScalar []byte

// MarshalYAML implements yaml.BytesMarshaler.
func (b binaryScalar) MarshalYAML() ([]byte, error) {
	return []byte("!!binary " + base64.StdEncoding.EncodeToString(b)), nil
}

// flowSafe reports whether raw scalar text can sit inside a flow collection.
func flowSafe(raw string) bool {
	if raw[0] == '\'' || raw[0] == '"' {
		return true
	}

	return !strings.ContainsAny(raw, ",[]{}#")
}

func keyString(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case nil:
		return "null"
	default:
		return fmt.Sprint(k)
	}
}
