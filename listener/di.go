package listener

import (
	"fmt"
	"log/slog"
	"net/http"

	"go.uber.org/fx"
)

// NewModule creates an Fx module for a named HTTP listener.
// The name is both the module name and the DI name tag of the http.Handler and
// Config it consumes. With options the module supplies its own Config;
// without, Config must come from elsewhere, e.g. config.Provider.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(name string, opts ...Option) fx.Option {
	if name == "" {
		return fx.Error(ErrEmptyName)
	}

	tag := fmt.Sprintf(`name:"%s"`, name)

	var moduleOpts []fx.Option

	if len(opts) > 0 {
		var cfg Config

		for _, apply := range opts {
			apply(&cfg)
		}

		moduleOpts = append(moduleOpts, fx.Supply(fx.Annotate(cfg, fx.ResultTags(tag))))
	}

	moduleOpts = append(moduleOpts, fx.Invoke(
		fx.Annotate(register(name), fx.ParamTags("", "", tag, tag)),
	))

	return fx.Module(name, moduleOpts...)
}

func register(name string) func(fx.Lifecycle, fx.Shutdowner, http.Handler, Config) error {
	return func(lifecycle fx.Lifecycle, shutdowner fx.Shutdowner, handler http.Handler, cfg Config) error {
		srv, err := NewServer(name, handler, cfg, func() {
			shutdownErr := shutdowner.Shutdown(fx.ExitCode(1))
			if shutdownErr != nil {
				slog.Error("failed to trigger shutdown", "name", name, "error", shutdownErr)
			}
		})
		if err != nil {
			return err
		}

		lifecycle.Append(fx.StartStopHook(srv.Start, srv.Stop))

		return nil
	}
}
