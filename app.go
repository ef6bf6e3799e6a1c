package yamlcase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/0xalexb/yamlcase/logging"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

var errAppNotInitialized = errors.New("app not initialized")

// App runs the long-lived parts of the tool, the HTTP server, on Fx.
type App struct {
	app *fx.App
}

// NewApp creates an App from opts. The logger built from the options becomes
// the slog default and is supplied to Fx together with its LoggerConfig.
func NewApp(opts ...Option) *App {
	options := Options{LogWriter: os.Stderr}

	for _, apply := range opts {
		apply(&options)
	}

	logger := logging.NewLogger(options.Log, options.LogWriter)
	slog.SetDefault(logger)

	return &App{
		app: fx.New(
			fx.WithLogger(func() fxevent.Logger {
				return &fxevent.SlogLogger{Logger: logger}
			}),
			fx.Supply(options.Log),
			fx.Supply(logger),
			fx.Options(options.Modules...),
		),
	}
}

// Err returns the error Fx met while building the graph, if any.
func (app *App) Err() error {
	if app == nil || app.app == nil {
		return errAppNotInitialized
	}

	return app.app.Err() //nolint:wrapcheck
}

// Start starts the Fx application.
func (app *App) Start(ctx context.Context) error {
	if app == nil || app.app == nil {
		return errAppNotInitialized
	}

	err := app.app.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start app: %w", err)
	}

	return nil
}

// Stop stops the Fx application gracefully.
func (app *App) Stop(ctx context.Context) error {
	if app == nil || app.app == nil {
		return errAppNotInitialized
	}

	err := app.app.Stop(ctx)
	if err != nil {
		return fmt.Errorf("failed to stop app: %w", err)
	}

	return nil
}

// Run starts the application, waits until ctx is done or a module asks for
// shutdown, then stops it. A non-zero shutdown exit code is returned as an error.
func (app *App) Run(ctx context.Context) error {
	err := app.Start(ctx)
	if err != nil {
		return err
	}

	var exitCode int

	select {
	case <-ctx.Done():
	case sig := <-app.app.Wait():
		exitCode = sig.ExitCode
	}

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.app.StopTimeout())
	defer cancel()

	err = app.Stop(stopCtx)
	if err != nil {
		return err
	}

	if exitCode != 0 {
		return fmt.Errorf("%w: exit code %d", ErrAbnormalShutdown, exitCode)
	}

	return nil
}

// ErrAbnormalShutdown is returned by Run when a module shut the app down with a failure.
var ErrAbnormalShutdown = errors.New("app shut down abnormally")
