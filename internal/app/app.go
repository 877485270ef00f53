package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qj0r9j0vc2/ticket-bot/internal/infrastructure/config"
	"github.com/qj0r9j0vc2/ticket-bot/internal/infrastructure/observability"
	"github.com/qj0r9j0vc2/ticket-bot/internal/infrastructure/server"
)

// Version is reported in telemetry resources. Overridden at build time.
var Version = "dev"

// Application holds all application dependencies and lifecycle
type Application struct {
	config        *config.Config
	configManager *config.ConfigManager
	logger        *AtomicLogger
	telemetry     *observability.Telemetry

	// Infrastructure clients
	clients *Clients

	// Use cases
	useCases *UseCases

	// HTTP layer
	handlers *server.Handlers
	server   *server.Server
}

// New creates a new Application instance
func New(configPath string) (*Application, error) {
	app := &Application{}

	if err := app.bootstrap(configPath); err != nil {
		return nil, err
	}

	return app, nil
}

// Start connects to the gateway and serves HTTP until ctx is cancelled.
func (app *Application) Start(ctx context.Context) error {
	app.logger.Get().Info("starting ticket-bot",
		"version", Version,
		"port", app.config.Server.Port,
		"slack_enabled", app.config.IsSlackEnabled(),
	)

	serverCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()

	// The keep-alive endpoint answers while the gateway is still connecting.
	serverErr := make(chan error, 1)
	go func() { serverErr <- app.server.Run(serverCtx) }()

	if err := app.clients.Discord.Open(ctx); err != nil {
		stopServer()
		srvErr := <-serverErr
		if ctx.Err() != nil {
			return srvErr
		}
		return errors.Join(fmt.Errorf("connecting to discord: %w", err), srvErr)
	}

	app.configManager.Watch()

	return <-serverErr
}

// Shutdown gracefully stops the application. Scheduled ticket deletions are
// given the chance to run before telemetry is flushed.
func (app *Application) Shutdown() error {
	app.logger.Get().Info("shutting down ticket-bot")

	var errs []error

	if err := app.clients.Discord.Close(); err != nil {
		app.logger.Get().Error("failed to close discord session", "error", err)
		errs = append(errs, err)
	}

	timings := app.useCases.Interactions.Timings()
	waitCtx, cancelWait := context.WithTimeout(context.Background(), timings.CloseDelay+app.config.Server.ShutdownTimeout)
	defer cancelWait()
	if err := app.useCases.Interactions.Wait(waitCtx); err != nil {
		app.logger.Get().Warn("pending ticket deletions did not finish", "error", err)
		errs = append(errs, fmt.Errorf("waiting for ticket deletions: %w", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if app.telemetry != nil {
		if err := app.telemetry.Shutdown(ctx); err != nil {
			app.logger.Get().Error("failed to shutdown telemetry", "error", err)
			errs = append(errs, err)
		}
	}

	app.logger.Get().Info("ticket-bot stopped")
	return errors.Join(errs...)
}
