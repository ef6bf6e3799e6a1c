package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

var (
	// ErrEmptyData is returned when the input data is empty.
	ErrEmptyData = errors.New("empty data")

	// ErrPathNotFound is returned when the section path is not in the document.
	ErrPathNotFound = errors.New("path not found")
)

// Parser implements config.Parser for YAML using goccy/go-yaml PathString.
type Parser struct {
	strict bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithStrict rejects keys that do not map to a field of the target struct.
func WithStrict() Option {
	return func(p *Parser) {
		p.strict = true
	}
}

// NewParser creates a YAML parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}

	for _, apply := range opts {
		apply(p)
	}

	return p
}

// Parse decodes the section at the colon-separated path into target.
// An empty path decodes the entire document.
func (p *Parser) Parse(data []byte, target any, path string) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyData
	}

	var decodeOpts []yaml.DecodeOption
	if p.strict {
		decodeOpts = append(decodeOpts, yaml.DisallowUnknownField())
	}

	if path == "" {
		err := yaml.UnmarshalWithOptions(data, target, decodeOpts...)
		if err != nil {
			return fmt.Errorf("unmarshal error: %w", err)
		}

		return nil
	}

	pathObj, err := yaml.PathString(convertToYAMLPath(path))
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}

	node, err := pathObj.ReadNode(bytes.NewReader(data))
	if err != nil {
		if yaml.IsNotFoundNodeError(err) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}

		return fmt.Errorf("reading path %q: %w", path, err)
	}

	err = yaml.NodeToValue(node, target, decodeOpts...)
	if err != nil {
		return fmt.Errorf("decoding path %q: %w", path, err)
	}

	return nil
}

// convertToYAMLPath turns "tools:yamlcase" into "$.tools.yamlcase".
// Segments with characters that are special in a YAML path are quoted.
func convertToYAMLPath(path string) string {
	parts := strings.Split(path, ":")

	for i, part := range parts {
		if strings.ContainsAny(part, ".[]*'\" ") {
			parts[i] = "'" + strings.ReplaceAll(part, "'", `\'`) + "'"
		}
	}

	return "$." + strings.Join(parts, ".")
}
