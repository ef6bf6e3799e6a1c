// Package listener runs the HTTP server of the serve command as an Fx module.
package listener

import (
	"errors"
	"fmt"
	"time"
)

// Defaults for Config.
const (
	DefaultAddress        = "127.0.0.1:8080"
	DefaultReadTimeout    = 30 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxBodyBytes   = 4 << 20
	DefaultRateBurst      = 10
)

var (
	// ErrEmptyAddress is returned when the address is empty.
	ErrEmptyAddress = errors.New("address must not be empty")

	// ErrNegativeLimit is returned when a timeout or size limit is negative.
	ErrNegativeLimit = errors.New("limit must not be negative")

	// ErrListenFailed is returned when the server fails to listen on the configured address.
	ErrListenFailed = errors.New("failed to listen")

	// ErrShutdownFailed is returned when the server fails to shut down gracefully.
	ErrShutdownFailed = errors.New("shutdown failed")

	// ErrEmptyName is returned when the listener name is empty.
	ErrEmptyName = errors.New("listener name must not be empty")

	// ErrNilHandler is returned when a nil http.Handler is provided.
	ErrNilHandler = errors.New("handler must not be nil")
)

// Config holds the configuration for an HTTP listener.
type Config struct {
	Address string `yaml:"address"`
	// ReadTimeout bounds reading a whole request, body included.
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// RequestTimeout bounds handling a request once it has been read.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
	// RateLimit is the average number of requests per second served. Zero is unlimited.
	RateLimit float64 `yaml:"rate_limit"`
	// RateBurst is how many requests may arrive at once under RateLimit.
	RateBurst int `yaml:"rate_burst"`
}

// SetDefaults fills zero fields and reports whether anything changed.
func (c *Config) SetDefaults() bool {
	changed := false

	if c.Address == "" {
		c.Address = DefaultAddress
		changed = true
	}

	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
		changed = true
	}

	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
		changed = true
	}

	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
		changed = true
	}

	if c.RateLimit > 0 && c.RateBurst == 0 {
		c.RateBurst = DefaultRateBurst
		changed = true
	}

	return changed
}

// Validate validates the Config.
func (c *Config) Validate() error {
	if c.Address == "" {
		return ErrEmptyAddress
	}

	if c.ReadTimeout < 0 || c.RequestTimeout < 0 || c.MaxBodyBytes < 0 {
		return fmt.Errorf("%w: read_timeout=%s request_timeout=%s max_body_bytes=%d",
			ErrNegativeLimit, c.ReadTimeout, c.RequestTimeout, c.MaxBodyBytes)
	}

	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("%w: rate_limit=%g rate_burst=%d", ErrNegativeLimit, c.RateLimit, c.RateBurst)
	}

	return nil
}
