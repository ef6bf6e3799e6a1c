package codec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/0xalexb/yamlcase/document"
	"github.com/0xalexb/yamlcase/errs"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/printer"
)

// DefaultIndentWidth is the indentation used when Options.IndentWidth is not positive.
const DefaultIndentWidth = 2

// ErrEmptyDocument is returned when the input holds no YAML content at all.
var ErrEmptyDocument = errors.New("empty document")

// ErrInvalidIndent is returned by Validate for indent widths outside 1..8.
var ErrInvalidIndent = errors.New("indent width must be between 1 and 8")

// Options configures a load or dump call.
type Options struct {
	PreserveOrder    bool `yaml:"preserve_order"`
	PreserveComments bool `yaml:"preserve_comments"`
	IndentWidth      int  `yaml:"indent_width"`
	IndentSequence   bool `yaml:"indent_sequence"`
}

// DefaultOptions returns round-trip preserving options.
func DefaultOptions() Options {
	return Options{
		PreserveOrder:    true,
		PreserveComments: true,
		IndentWidth:      DefaultIndentWidth,
		IndentSequence:   false,
	}
}

// Validate checks the option values.
func (o Options) Validate() error {
	if o.IndentWidth < 0 || o.IndentWidth > 8 {
		return fmt.Errorf("%w: got %d", ErrInvalidIndent, o.IndentWidth)
	}

	return nil
}

func (o Options) indent() int {
	if o.IndentWidth <= 0 {
		return DefaultIndentWidth
	}

	return o.IndentWidth
}

// File is a loaded document together with the comments found in its source.
type File struct {
	Source   string
	Root     document.Node
	Comments yaml.CommentMap
}

// Dump serializes the file's current root with its comments.
func (f *File) Dump(opts Options) ([]byte, error) {
	return Dump(f.Root, f.Comments, opts)
}

// Load parses data into a File. Source names the data in error messages.
func Load(data []byte, source string, opts Options) (*File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &errs.DocumentLoadError{Source: source, Cause: ErrEmptyDocument}
	}

	comments := yaml.CommentMap{}
	decodeOpts := []yaml.DecodeOption{yaml.UseOrderedMap()}

	if opts.PreserveComments {
		decodeOpts = append(decodeOpts, yaml.CommentToMap(comments))
	}

	root, err := parse(data, decodeOpts...)
	if err != nil {
		return nil, loadError(source, err)
	}

	return &File{
		Source:   source,
		Root:     root,
		Comments: comments,
	}, nil
}

// parse decodes data once to validate it and collect comments, then builds
// the tree from the syntax tree so scalar text and flow style survive.
func parse(data []byte, opts ...yaml.DecodeOption) (document.Node, error) {
	var decoded any

	err := yaml.UnmarshalWithOptions(data, &decoded, opts...)
	if err != nil {
		return nil, err
	}

	return parseRoot(data)
}

// Dump serializes root. A nil comment map emits no comments. Comments whose
// node is gone or changed kind are left out.
func Dump(root document.Node, comments yaml.CommentMap, opts Options) ([]byte, error) {
	node, err := yaml.ValueToNode(ToValue(root, opts.PreserveOrder),
		yaml.Indent(opts.indent()),
		yaml.IndentSequence(opts.IndentSequence),
		yaml.UseLiteralStyleIfMultiline(true),
	)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	restyle(node, root, opts.PreserveOrder, false)

	if opts.PreserveComments && len(comments) > 0 {
		attachComments(node, comments)
	}

	var p printer.Printer

	return p.PrintNode(node), nil
}

// ParseValue parses a YAML fragment such as a command line value.
// An empty fragment is null.
func ParseValue(text string) (document.Node, error) {
	node, err := parse([]byte(text), yaml.UseOrderedMap())
	if err != nil {
		return nil, loadError("value "+fmt.Sprintf("%q", text), err)
	}

	return node, nil
}

func loadError(source string, err error) error {
	loadErr := &errs.DocumentLoadError{Source: source, Cause: err}

	var yamlErr yaml.Error
	if errors.As(err, &yamlErr) {
		loadErr.Message = yamlErr.GetMessage()
		loadErr.Cause = nil

		if tok := yamlErr.GetToken(); tok != nil && tok.Position != nil {
			loadErr.Line = tok.Position.Line
			loadErr.Column = tok.Position.Column
		}
	}

	return loadErr
}
