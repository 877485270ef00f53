package app

import (
	"github.com/qj0r9j0vc2/ticket-bot/internal/usecase/ticket"
)

// UseCases holds the ticket flows.
type UseCases struct {
	PublishPanel *ticket.PublishPanelUseCase
	Interactions *ticket.HandleInteractionUseCase
}

func (app *Application) initializeUseCases() {
	logger := &slogAdapter{logger: app.logger}
	gateway := app.clients.Discord.Client()

	app.useCases = &UseCases{
		PublishPanel: ticket.NewPublishPanelUseCase(gateway, app.telemetry.Metrics, logger),
		Interactions: ticket.NewHandleInteractionUseCase(
			gateway,
			app.clients.Notifiers,
			timingsFrom(app.config),
			app.telemetry.Metrics,
			logger,
		),
	}
}
