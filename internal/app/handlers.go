package app

import (
	"github.com/qj0r9j0vc2/ticket-bot/internal/adapter/handler"
	"github.com/qj0r9j0vc2/ticket-bot/internal/infrastructure/server"
)

func (app *Application) initializeHandlers() {
	logger := &slogAdapter{logger: app.logger}

	// Gateway events
	discordHandler := handler.NewDiscordHandler(
		app.useCases.PublishPanel,
		app.useCases.Interactions,
		app.clients.Discord,
		logger,
	)
	app.clients.Discord.SetMessageHandler(discordHandler)
	app.clients.Discord.SetInteractionHandler(discordHandler)

	// Readiness follows the gateway session
	readyHandler := handler.NewReadyHandler()
	readyHandler.AddChecker("discord", app.clients.Discord)

	app.handlers = &server.Handlers{
		KeepAlive: handler.NewKeepAliveHandler(),
		Health:    handler.NewHealthHandler(),
		Ready:     readyHandler,
		Metrics:   handler.NewMetricsHandler(app.telemetry.Handler()),
		Reload:    handler.NewReloadHandler(app.configManager, logger),
	}
}

func (app *Application) setupServer() {
	routerConfig := &server.RouterConfig{
		RequestTimeout: app.config.Server.RequestTimeout,
		Metrics:        app.telemetry.Metrics,
	}
	router := server.NewRouter(app.handlers, &slogAdapter{logger: app.logger}, routerConfig)
	app.server = server.New(app.config.Server, router, &slogAdapter{logger: app.logger})
}
