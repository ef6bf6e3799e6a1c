package yamlcase_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/0xalexb/yamlcase"
	"github.com/0xalexb/yamlcase/api"
	"github.com/0xalexb/yamlcase/codec"
	"github.com/0xalexb/yamlcase/listener"
	"github.com/0xalexb/yamlcase/logging"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func quietApp(opts ...yamlcase.Option) *yamlcase.App {
	return yamlcase.NewApp(append([]yamlcase.Option{yamlcase.WithLogWriter(io.Discard)}, opts...)...)
}

func TestNewApp_WithModules(t *testing.T) {
	t.Parallel()

	var invoked bool

	module := fx.Module("test",
		fx.Invoke(func() {
			invoked = true
		}),
	)

	app := quietApp(yamlcase.WithModules(module))
	require.NoError(t, app.Err())

	require.NoError(t, app.Start(t.Context()))
	t.Cleanup(func() { _ = app.Stop(context.Background()) })
	require.True(t, invoked)
}

func TestNewApp_LoggerAndConfigAreSupplied(t *testing.T) {
	t.Parallel()

	var (
		capturedLogger *slog.Logger
		capturedConfig logging.LoggerConfig
	)

	module := fx.Module("test",
		fx.Invoke(func(logger *slog.Logger, cfg logging.LoggerConfig) {
			capturedLogger = logger
			capturedConfig = cfg
		}),
	)

	app := quietApp(
		yamlcase.WithLogLevel("warn"),
		yamlcase.WithLogFormat(logging.FormatText),
		yamlcase.WithModules(module),
	)

	require.NoError(t, app.Start(t.Context()))
	t.Cleanup(func() { _ = app.Stop(context.Background()) })
	require.NotNil(t, capturedLogger)
	require.Equal(t, logging.LoggerConfig{Level: "warn", Format: logging.FormatText}, capturedConfig)
}

func TestNewApp_MissingDependency(t *testing.T) {
	t.Parallel()

	type unprovided struct{}

	app := quietApp(yamlcase.WithModules(fx.Invoke(func(unprovided) {})))

	require.Error(t, app.Err())
	require.Error(t, app.Start(t.Context()))
}

func TestApp_Stop(t *testing.T) {
	t.Parallel()

	var stopCalled bool

	module := fx.Module("test",
		fx.Invoke(func(lc fx.Lifecycle) {
			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					stopCalled = true

					return nil
				},
			})
		}),
	)

	app := quietApp(yamlcase.WithModules(module))

	require.NoError(t, app.Start(t.Context()))
	require.NoError(t, app.Stop(t.Context()))
	require.True(t, stopCalled, "OnStop hook should be called")
}

func TestApp_NilApp(t *testing.T) {
	t.Parallel()

	var app *yamlcase.App

	require.Error(t, app.Err())
	require.Error(t, app.Start(t.Context()))
	require.Error(t, app.Stop(t.Context()))
	require.Error(t, app.Run(t.Context()))
}

func TestApp_RunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	app := quietApp()

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, app.Run(ctx))
}

func TestApp_RunShutdownExitCode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		code    int
		wantErr bool
	}{
		{name: "clean shutdown", code: 0},
		{name: "failure shutdown", code: 3, wantErr: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			module := fx.Module("test",
				fx.Invoke(func(shutdowner fx.Shutdowner) {
					go func() {
						_ = shutdowner.Shutdown(fx.ExitCode(testCase.code))
					}()
				}),
			)

			err := quietApp(yamlcase.WithModules(module)).Run(t.Context())
			if testCase.wantErr {
				require.ErrorIs(t, err, yamlcase.ErrAbnormalShutdown)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestApp_ServesAPIOverTCP(t *testing.T) {
	t.Parallel()

	// Reserve a free port, then let the listener bind it.
	free, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := free.Addr().String()
	require.NoError(t, free.Close())

	app := quietApp(
		yamlcase.WithModules(api.Module(api.Config{Codec: codec.DefaultOptions()})),
		yamlcase.WithHTTPListener(api.ListenerName, listener.WithAddress(addr)),
	)

	require.NoError(t, app.Start(t.Context()))
	t.Cleanup(func() { _ = app.Stop(context.Background()) })

	require.Eventually(t, func() bool {
		req, reqErr := http.NewRequestWithContext(t.Context(), http.MethodGet, "http://"+addr+"/healthz", nil)
		if reqErr != nil {
			return false
		}

		resp, doErr := http.DefaultClient.Do(req)
		if doErr != nil {
			return false
		}

		_ = resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
}
