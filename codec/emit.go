package codec

import (
	"github.com/0xalexb/yamlcase/document"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/token"
)

// restyle copies source styling from the document onto the encoded tree:
// flow collections stay flow, and keys get back their source text so an
// integer key is not written as a quoted string. Everything under a flow
// collection is flow as well.
func restyle(n ast.Node, d document.Node, ordered, flow bool) {
	switch dv := d.(type) {
	case *document.Mapping:
		mn, ok := n.(*ast.MappingNode)
		if !ok {
			return
		}

		flow = flow || dv.Flow
		mn.IsFlowStyle = flow
		entries := entriesInOrder(dv, ordered)

		for i, mv := range mn.Values {
			if i >= len(entries) {
				return
			}

			mv.IsFlowStyle = flow
			if raw := entries[i].KeyRaw; raw != "" {
				mv.Key = rawKey(mv.Key, raw)
			}

			restyle(mv.Value, entries[i].Value, ordered, flow)
		}
	case *document.Sequence:
		sn, ok := n.(*ast.SequenceNode)
		if !ok {
			return
		}

		flow = flow || dv.Flow
		sn.IsFlowStyle = flow

		for i, item := range sn.Values {
			if i >= len(dv.Items) {
				return
			}

			restyle(item, dv.Items[i], ordered, flow)
		}
	}
}

func rawKey(old ast.MapKeyNode, raw string) ast.MapKeyNode {
	return ast.String(&token.Token{
		Type:          token.StringType,
		CharacterType: token.CharacterTypeMiscellaneous,
		Indicator:     token.NotIndicator,
		Value:         raw,
		Origin:        raw,
		Position:      old.GetToken().Position,
	})
}

// attachComments places comments on the encoded tree. A comment whose path no
// longer resolves is dropped: an override may have replaced the commented node
// with one of another kind, or shortened the sequence it was in. Comments inside
// flow collections are dropped too since they would end the line early.
func attachComments(root ast.Node, comments yaml.CommentMap) {
	for key, list := range comments {
		path, err := yaml.PathString(key)
		if err != nil {
			continue
		}

		target, err := path.FilterNode(root)
		if err != nil || target == nil {
			continue
		}

		for _, c := range list {
			group := commentGroup(c.Texts)

			switch c.Position {
			case yaml.CommentHeadPosition:
				setHeadComment(root, target, group)
			case yaml.CommentLinePosition:
				setLineComment(root, target, group)
			case yaml.CommentFootPosition:
				setFootComment(root, target, group)
			}
		}
	}
}

func commentGroup(texts []string) *ast.CommentGroupNode {
	tokens := make([]*token.Token, 0, len(texts))
	for _, text := range texts {
		tokens = append(tokens, token.New(text, text, nil))
	}

	return ast.CommentGroup(tokens)
}

func setHeadComment(root, target ast.Node, group *ast.CommentGroupNode) {
	parent := ast.Parent(root, target)
	if parent == nil || inFlow(root, target) {
		return
	}

	switch p := parent.(type) {
	case *ast.MappingValueNode:
		_ = p.SetComment(group)
	case *ast.MappingNode:
		_ = p.SetComment(group)
	case *ast.SequenceNode:
		if len(p.ValueHeadComments) != len(p.Values) {
			p.ValueHeadComments = make([]*ast.CommentGroupNode, len(p.Values))
		}

		for i, v := range p.Values {
			if v == target {
				p.ValueHeadComments[i] = group
			}
		}
	}
}

func setLineComment(root, target ast.Node, group *ast.CommentGroupNode) {
	switch t := target.(type) {
	case *ast.MappingNode:
		if t.IsFlowStyle && !inFlow(root, t) {
			_ = t.SetComment(group)

			return
		}
	case *ast.SequenceNode:
		if t.IsFlowStyle && !inFlow(root, t) {
			_ = t.SetComment(group)

			return
		}
	}

	if inFlow(root, target) {
		return
	}

	switch target.(type) {
	case *ast.MappingValueNode, *ast.MappingNode, *ast.SequenceNode:
		switch p := ast.Parent(root, target).(type) {
		case *ast.MappingValueNode:
			_ = p.Key.SetComment(group)
		case *ast.MappingNode:
			_ = p.SetComment(group)
		}
	default:
		_ = target.SetComment(group)
	}
}

func setFootComment(root, target ast.Node, group *ast.CommentGroupNode) {
	if inFlow(root, target) {
		return
	}

	switch p := ast.Parent(root, target).(type) {
	case *ast.MappingValueNode:
		p.FootComment = group
	case *ast.MappingNode:
		p.FootComment = group
	case *ast.SequenceNode:
		p.FootComment = group
	}
}

// inFlow reports whether n sits inside a flow collection.
func inFlow(root, n ast.Node) bool {
	for child := n; child != root; {
		parent := ast.Parent(root, child)
		if parent == nil || parent == child {
			return false
		}

		switch p := parent.(type) {
		case *ast.MappingNode:
			if p.IsFlowStyle {
				return true
			}
		case *ast.SequenceNode:
			if p.IsFlowStyle {
				return true
			}
		}

		child = parent
	}

	return false
}
