// Package yaml implements config.Parser with github.com/goccy/go-yaml.
//
// Section paths use the same colon separator as document paths and are
// converted to YAML paths: "tools:yamlcase" becomes "$.tools.yamlcase", and
// segments holding dots or brackets are quoted ("$.tools.'other.tool'").
// WithStrict rejects unknown keys, which catches typos in settings files.
package yaml
