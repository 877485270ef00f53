package app

import (
	"fmt"

	"github.com/qj0r9j0vc2/ticket-bot/internal/infrastructure/discord"
	"github.com/qj0r9j0vc2/ticket-bot/internal/infrastructure/slack"
	"github.com/qj0r9j0vc2/ticket-bot/internal/usecase/ticket"
)

// Clients holds all external integration clients
type Clients struct {
	Discord   *discord.Session
	Slack     *slack.Client
	Notifiers []ticket.Notifier
}

func (app *Application) initializeClients() error {
	logger := &slogAdapter{logger: app.logger}

	session, err := discord.NewSession(discord.SessionConfig{
		Token:              app.config.Discord.Token,
		ConnectMaxElapsed:  app.config.Gateway.ConnectMaxElapsed,
		BreakerMaxFailures: app.config.Gateway.BreakerMaxFailures,
		BreakerCooldown:    app.config.Gateway.BreakerCooldown,
	}, app.telemetry.Metrics, logger)
	if err != nil {
		return fmt.Errorf("creating discord session: %w", err)
	}

	app.clients = &Clients{
		Discord:   session,
		Notifiers: make([]ticket.Notifier, 0),
	}

	if app.config.IsSlackEnabled() {
		app.clients.Slack = slack.NewClient(
			app.config.Slack.BotToken,
			app.config.Slack.ChannelID,
			app.config.Slack.APIURL,
		)
		app.clients.Notifiers = append(app.clients.Notifiers, app.clients.Slack)

		app.logger.Get().Info("Slack staff notifications enabled",
			"channel", app.config.Slack.ChannelID,
		)
	}

	return nil
}
