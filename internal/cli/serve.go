package cli

import (
	"github.com/0xalexb/yamlcase"
	"github.com/0xalexb/yamlcase/api"
	"github.com/0xalexb/yamlcase/listener"

	"github.com/spf13/cobra"
)

func newServeCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve apply, expand and paths over HTTP",
		Long: `Serve the override engine over HTTP until interrupted.

Endpoints: POST /v1/apply, POST /v1/expand, POST /v1/paths and GET /healthz.
Listener limits come from the "listener" section of the settings file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return st.serve(cmd)
		},
	}

	cmd.Flags().String(keyAddress, listener.DefaultAddress, "Address to listen on")
	bindFlags(st.v, cmd.Flags(), keyAddress)

	return cmd
}

func (st *state) serve(cmd *cobra.Command) error {
	s := st.settings

	app := yamlcase.NewApp(
		yamlcase.WithLogging(s.Log),
		yamlcase.WithLogWriter(cmd.ErrOrStderr()),
		yamlcase.WithModules(api.Module(api.Config{
			Codec:          s.Codec,
			Policy:         s.SegmentPolicy(),
			Fresh:          s.Fresh,
			MaxBodyBytes:   s.Listener.MaxBodyBytes,
			RequestTimeout: s.Listener.RequestTimeout,
			RateLimit:      s.Listener.RateLimit,
			RateBurst:      s.Listener.RateBurst,
		})),
		yamlcase.WithHTTPListener(api.ListenerName, listener.WithConfig(s.Listener)),
	)

	err := app.Err()
	if err != nil {
		return err //nolint:wrapcheck
	}

	return app.Run(cmd.Context()) //nolint:wrapcheck
}
