package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/0xalexb/yamlcase/document"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

var (
	// ErrUnknownAlias is returned for an alias that names no earlier anchor.
	ErrUnknownAlias = errors.New("alias refers to an unknown anchor")
	// ErrInvalidMerge is returned when a merge key holds something other than mappings.
	ErrInvalidMerge = errors.New("merge key value must be a mapping or a sequence of mappings")
)

// parseRoot builds the first document of data. Data without a document body is null.
func parseRoot(data []byte) (document.Node, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, err
	}

	for _, doc := range file.Docs {
		if doc.Body != nil {
			b := &nodeBuilder{anchors: map[string]document.Node{}}

			return b.build(doc.Body)
		}
	}

	return document.Null(), nil
}

// nodeBuilder turns a goccy AST into a document tree. Scalars and keys keep
// their source text and collections keep their flow style. Anchors are
// expanded: every alias becomes a copy of the anchored value.
type nodeBuilder struct {
	anchors map[string]document.Node
}

func (b *nodeBuilder) build(n ast.Node) (document.Node, error) {
	switch v := n.(type) {
	case nil:
		return document.Null(), nil
	case *ast.DocumentNode:
		return b.build(v.Body)
	case *ast.MappingNode:
		m := &document.Mapping{Entries: make([]document.Entry, 0, len(v.Values)), Flow: v.IsFlowStyle}
		for _, mv := range v.Values {
			if err := b.entry(m, mv); err != nil {
				return nil, err
			}
		}

		return m, nil
	case *ast.MappingValueNode:
		m := &document.Mapping{Flow: v.IsFlowStyle}
		if err := b.entry(m, v); err != nil {
			return nil, err
		}

		return m, nil
	case *ast.SequenceNode:
		s := &document.Sequence{Items: make([]document.Node, 0, len(v.Values)), Flow: v.IsFlowStyle}
		for _, item := range v.Values {
			child, err := b.build(item)
			if err != nil {
				return nil, err
			}

			s.Items = append(s.Items, child)
		}

		return s, nil
	case *ast.AnchorNode:
		value, err := b.build(v.Value)
		if err != nil {
			return nil, err
		}

		b.anchors[v.Name.GetToken().Value] = value

		return value, nil
	case *ast.AliasNode:
		name := v.Value.GetToken().Value

		target, ok := b.anchors[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAlias, name)
		}

		return document.Clone(target), nil
	case *ast.TagNode:
		switch v.Value.(type) {
		case *ast.MappingNode, *ast.MappingValueNode, *ast.SequenceNode:
			return b.build(v.Value)
		}

		return scalarFrom(v)
	default:
		return scalarFrom(n)
	}
}

func (b *nodeBuilder) entry(m *document.Mapping, mv *ast.MappingValueNode) error {
	value, err := b.build(mv.Value)
	if err != nil {
		return err
	}

	if mv.Key.IsMergeKey() {
		return merge(m, value)
	}

	key := keyText(mv.Key)
	m.Set(key, value)

	switch mv.Key.(type) {
	case *ast.AnchorNode, *ast.AliasNode:
	case ast.ScalarNode:
		m.Entries[m.Index(key)].KeyRaw = singleLine(mv.Key.String())
	}

	return nil
}

// merge adds the entries of a `<<` value that m does not define yet.
// Earlier mappings in a merge sequence win over later ones.
func merge(m *document.Mapping, value document.Node) error {
	switch v := value.(type) {
	case *document.Mapping:
		for _, e := range v.Entries {
			if m.Index(e.Key) < 0 {
				m.Entries = append(m.Entries, e)
			}
		}

		return nil
	case *document.Sequence:
		for _, item := range v.Items {
			if _, ok := item.(*document.Mapping); !ok {
				return ErrInvalidMerge
			}

			if err := merge(m, item); err != nil {
				return err
			}
		}

		return nil
	default:
		return ErrInvalidMerge
	}
}

// keyText is the text a path segment has to match: the unquoted value for
// strings and the source text for every other scalar, so `0x1F:` is addressed as 0x1F.
func keyText(key ast.MapKeyNode) string {
	switch k := key.(type) {
	case *ast.StringNode:
		return k.Value
	case *ast.TagNode:
		if inner, ok := k.Value.(ast.MapKeyNode); ok {
			return keyText(inner)
		}
	case *ast.AnchorNode:
		if inner, ok := k.Value.(ast.MapKeyNode); ok {
			return keyText(inner)
		}
	case ast.ScalarNode:
		return k.GetToken().Value
	}

	return key.String()
}

func scalarFrom(n ast.Node) (*document.Scalar, error) {
	var value any
	if err := yaml.NodeToValue(n, &value); err != nil {
		return nil, err
	}

	s := document.NewScalar(value)
	if _, literal := n.(*ast.LiteralNode); !literal {
		s.Raw = singleLine(n.String())
	}

	return s, nil
}

// singleLine returns text when it fits on one line, or "" when it does not.
func singleLine(text string) string {
	if strings.ContainsAny(text, "\r\n") {
		return ""
	}

	return text
}
