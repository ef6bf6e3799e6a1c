package config

import (
	"errors"
	"fmt"

	"github.com/0xalexb/yamlcase/codec"
	filefetcher "github.com/0xalexb/yamlcase/config/fetcher/file"
	yamlparser "github.com/0xalexb/yamlcase/config/parser/yaml"
	"github.com/0xalexb/yamlcase/docpath"
	"github.com/0xalexb/yamlcase/listener"
	"github.com/0xalexb/yamlcase/logging"
)

// Default log settings for the CLI. Results go to stdout, so logs stay quiet.
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = logging.FormatText
)

// Settings are the tool settings shared by the CLI and the serve command.
type Settings struct {
	Log   logging.LoggerConfig `yaml:"log"`
	Codec codec.Options        `yaml:"codec"`
	// Policy names the docpath segment policy.
	Policy string `yaml:"policy"`
	// Fresh starts every case from the loaded document instead of carrying state.
	Fresh    bool            `yaml:"fresh"`
	Listener listener.Config `yaml:"listener"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	s := Settings{Codec: codec.DefaultOptions()}
	s.SetDefaults()

	return s
}

// SetDefaults fills zero fields and reports whether anything changed.
// Boolean codec options cannot be told apart from an explicit false, so
// DefaultSettings sets them before parsing.
func (s *Settings) SetDefaults() bool {
	changed := false

	if s.Log.Level == "" {
		s.Log.Level = DefaultLogLevel
		changed = true
	}

	if s.Log.Format == "" {
		s.Log.Format = DefaultLogFormat
		changed = true
	}

	if s.Codec.IndentWidth == 0 {
		s.Codec.IndentWidth = codec.DefaultIndentWidth
		changed = true
	}

	if s.Policy == "" {
		s.Policy = docpath.PolicyNumeric
		changed = true
	}

	if s.Listener.SetDefaults() {
		changed = true
	}

	return changed
}

// Validate checks every section.
func (s *Settings) Validate() error {
	_, policyErr := docpath.PolicyByName(s.Policy)

	return errors.Join(
		s.Log.Validate(),
		s.Codec.Validate(),
		policyErr,
		s.Listener.Validate(),
	)
}

// SegmentPolicy returns the configured docpath policy.
func (s *Settings) SegmentPolicy() docpath.Policy {
	policy, err := docpath.PolicyByName(s.Policy)
	if err != nil {
		return docpath.NumericIndex
	}

	return policy
}

// Load reads settings from the YAML file at path, starting from DefaultSettings.
// Section selects a colon-separated part of the file; empty means the whole file.
func Load(path, section string) (*Settings, error) {
	fetcher, err := filefetcher.NewFetcher(path)()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	return FromFetcher(fetcher, section)
}

// FromFetcher is Load for an arbitrary DataFetcher.
func FromFetcher(fetcher DataFetcher, section string) (*Settings, error) {
	settings := DefaultSettings()

	return Provider(&settings, section)(yamlparser.NewParser(yamlparser.WithStrict()), fetcher)
}
