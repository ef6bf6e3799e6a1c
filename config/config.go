package config

import (
	"errors"
	"fmt"
	"log/slog"
)

// Stage errors wrapped by Provider.
var (
	ErrFetch    = errors.New("reading settings")
	ErrParse    = errors.New("parsing settings")
	ErrValidate = errors.New("validating settings")
)

// Parser decodes data into target. Path selects a section with colon-separated
// keys ("serve:listener"); an empty path selects the whole document.
// See config/parser/yaml.
type Parser interface {
	Parse(data []byte, target any, path string) error
}

// DataFetcher returns raw settings data.
type DataFetcher interface {
	Fetch() ([]byte, error)
}

// Validator is implemented by settings that can check themselves.
type Validator interface {
	Validate() error
}

// Defaulter is implemented by settings that fill their zero fields.
type Defaulter interface {
	SetDefaults() (changed bool)
}

// Provider returns a function that fetches, parses, defaults and validates target.
// Fields already set on target survive when the data does not mention them.
func Provider[T any](target *T, path string) func(Parser, DataFetcher) (*T, error) {
	return func(parser Parser, fetcher DataFetcher) (*T, error) {
		data, err := fetcher.Fetch()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetch, err)
		}

		err = parser.Parse(data, target, path)
		if err != nil {
			return nil, fmt.Errorf("%w at %q: %w", ErrParse, path, err)
		}

		if defaulter, ok := any(target).(Defaulter); ok && defaulter.SetDefaults() {
			slog.Debug("settings defaults applied", slog.String("path", path))
		}

		if validator, ok := any(target).(Validator); ok {
			err = validator.Validate()
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrValidate, err)
			}
		}

		return target, nil
	}
}
