package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"go.uber.org/fx"
)

// ListenerName names the listener module that serves the API.
const ListenerName = "yamlcase"

// Module provides the API handler under the listener's name tag, using the
// logger supplied by the root App.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func Module(cfg Config) fx.Option {
	return fx.Module("api",
		fx.Provide(
			fx.Annotate(
				func(logger *slog.Logger) http.Handler {
					return NewHandler(cfg, logger)
				},
				fx.ResultTags(fmt.Sprintf(`name:"%s"`, ListenerName)),
			),
		),
	)
}
