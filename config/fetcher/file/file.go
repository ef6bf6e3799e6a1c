package file

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Stdin is the path that reads standard input instead of a file.
const Stdin = "-"

// ErrPathIsDirectory is returned when the path points to a directory instead of a file.
var ErrPathIsDirectory = errors.New("path is a directory, not a file")

// Fetcher implements config.DataFetcher over a file read once at construction.
type Fetcher struct {
	source string
	data   []byte
}

// NewFetcher returns a constructor that reads fpath, or standard input when
// fpath is Stdin, and caches the contents. Construction is deferred so Fx or a
// command decides when the read happens.
func NewFetcher(fpath string) func() (*Fetcher, error) {
	return func() (*Fetcher, error) {
		if fpath == Stdin {
			return FromReader("stdin", os.Stdin)
		}

		cleanPath := filepath.Clean(fpath)

		stat, err := os.Stat(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("stat file %q: %w", cleanPath, err)
		}

		if stat.IsDir() {
			return nil, fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
		}

		data, err := os.ReadFile(cleanPath) // #nosec G304 -- path is cleaned and validated
		if err != nil {
			return nil, fmt.Errorf("reading file %q: %w", cleanPath, err)
		}

		return &Fetcher{source: cleanPath, data: data}, nil
	}
}

// FromReader drains r into a Fetcher named source.
func FromReader(source string, r io.Reader) (*Fetcher, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}

	return &Fetcher{source: source, data: data}, nil
}

// Source names where the data came from: the cleaned path or "stdin".
func (f *Fetcher) Source() string {
	return f.source
}

// Fetch returns a copy of the cached data.
func (f *Fetcher) Fetch() ([]byte, error) {
	result := make([]byte, len(f.data))
	copy(result, f.data)

	return result, nil
}
