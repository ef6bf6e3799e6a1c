package cli

import (
	"fmt"
	"strings"

	"github.com/0xalexb/yamlcase/config"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables read by the CLI.
const EnvPrefix = "YAMLCASE"

// Flag names. They double as viper keys, so YAMLCASE_LOG_LEVEL sets log-level.
const (
	keyConfig         = "config"
	keyConfigPath     = "config-path"
	keyLogLevel       = "log-level"
	keyLogFormat      = "log-format"
	keyPolicy         = "policy"
	keyFresh          = "fresh"
	keyIndent         = "indent"
	keyIndentSequence = "indent-sequence"
	keySortKeys       = "sort-keys"
	keyStripComments  = "strip-comments"
	keyAddress        = "address"
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// bindFlags binds the named flags of fs to v.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys ...string) {
	for _, key := range keys {
		err := v.BindPFlag(key, fs.Lookup(key))
		if err != nil {
			panic(fmt.Sprintf("binding flag %q: %v", key, err))
		}
	}
}

// loadSettings reads the settings file named by --config, if any, and
// overlays whatever the environment and the command line set explicitly.
func loadSettings(v *viper.Viper) (config.Settings, error) {
	settings := config.DefaultSettings()

	if path := v.GetString(keyConfig); path != "" {
		loaded, err := config.Load(path, v.GetString(keyConfigPath))
		if err != nil {
			return settings, fmt.Errorf("loading settings from %s: %w", path, err)
		}

		settings = *loaded
	}

	overlay(v, &settings)

	err := settings.Validate()
	if err != nil {
		return settings, fmt.Errorf("invalid settings: %w", err)
	}

	return settings, nil
}

func overlay(v *viper.Viper, s *config.Settings) {
	if v.IsSet(keyLogLevel) {
		s.Log.Level = v.GetString(keyLogLevel)
	}

	if v.IsSet(keyLogFormat) {
		s.Log.Format = v.GetString(keyLogFormat)
	}

	if v.IsSet(keyPolicy) {
		s.Policy = v.GetString(keyPolicy)
	}

	if v.IsSet(keyFresh) {
		s.Fresh = v.GetBool(keyFresh)
	}

	if v.IsSet(keyIndent) {
		s.Codec.IndentWidth = v.GetInt(keyIndent)
	}

	if v.IsSet(keyIndentSequence) {
		s.Codec.IndentSequence = v.GetBool(keyIndentSequence)
	}

	if v.IsSet(keySortKeys) {
		s.Codec.PreserveOrder = !v.GetBool(keySortKeys)
	}

	if v.IsSet(keyStripComments) {
		s.Codec.PreserveComments = !v.GetBool(keyStripComments)
	}

	if v.IsSet(keyAddress) {
		s.Listener.Address = v.GetString(keyAddress)
	}
}
