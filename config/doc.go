// Package config loads tool settings.
//
// Settings flow through Provider: a DataFetcher reads the raw bytes, a Parser
// decodes the section named by a colon-separated path, then Defaulter and
// Validator run on the result. Load wires the file fetcher and the YAML parser
// for the common case of a settings file on disk:
//
//	settings, err := config.Load("yamlcase.yaml", "tools:yamlcase")
//
// A settings file looks like:
//
//	log:
//	  level: info
//	  format: json
//	codec:
//	  indent_width: 4
//	policy: numeric
//	fresh: true
//	listener:
//	  address: 127.0.0.1:9000
package config
