package yamlcase

import (
	"io"

	"github.com/0xalexb/yamlcase/listener"
	"github.com/0xalexb/yamlcase/logging"

	"go.uber.org/fx"
)

// Options holds configuration settings for the application.
type Options struct {
	Modules   []fx.Option
	Log       logging.LoggerConfig
	LogWriter io.Writer
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

// WithModules adds Fx modules to the application.
func WithModules(modules ...fx.Option) Option {
	return func(opts *Options) {
		opts.Modules = append(opts.Modules, modules...)
	}
}

// WithHTTPListener adds a named HTTP listener. The name is the Fx module name
// and the DI name tag of the http.Handler the listener serves.
func WithHTTPListener(name string, opts ...listener.Option) Option {
	return func(o *Options) {
		o.Modules = append(o.Modules, listener.NewModule(name, opts...))
	}
}

// WithLogging replaces the whole logger configuration.
func WithLogging(cfg logging.LoggerConfig) Option {
	return func(opts *Options) {
		opts.Log = cfg
	}
}

// WithLogLevel sets the log level: debug, info, warn or error. Anything else means info.
func WithLogLevel(level string) Option {
	return func(opts *Options) {
		opts.Log.Level = level
	}
}

// WithLogFormat sets the log format, logging.FormatJSON or logging.FormatText.
func WithLogFormat(format string) Option {
	return func(opts *Options) {
		opts.Log.Format = format
	}
}

// WithLogWriter sends logs to w instead of standard error.
func WithLogWriter(w io.Writer) Option {
	return func(opts *Options) {
		opts.LogWriter = w
	}
}
