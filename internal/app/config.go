package app

import (
	"log/slog"
	"os"

	"github.com/qj0r9j0vc2/ticket-bot/internal/infrastructure/config"
	"github.com/qj0r9j0vc2/ticket-bot/internal/usecase/ticket"
)

func (app *Application) loadConfig(configPath string) error {
	cm, err := config.NewConfigManager(configPath, slog.Default())
	if err != nil {
		return err
	}

	app.configManager = cm
	app.config = cm.Get()
	return nil
}

func (app *Application) setupLogger() {
	app.logger = NewAtomicLogger(os.Stdout, app.config.Logging.Level, app.config.Logging.Format)
	app.configManager.SetLogger(app.logger.Get())

	app.logger.Get().Info("configuration loaded",
		"slack_enabled", app.config.IsSlackEnabled(),
		"server_port", app.config.Server.Port,
		"add_user_timeout", app.config.Tickets.AddUserTimeout.String(),
		"close_delay", app.config.Tickets.CloseDelay.String(),
	)
}

// registerReloadHandlers pushes reloadable settings into the running
// components.
func (app *Application) registerReloadHandlers() {
	app.configManager.OnReload(func(old, updated *config.Config) {
		app.logger.Update(updated.Logging.Level, updated.Logging.Format)
		app.configManager.SetLogger(app.logger.Get())

		app.useCases.Interactions.UpdateTimings(timingsFrom(updated))

		if app.clients.Slack != nil && updated.Slack.ChannelID != old.Slack.ChannelID {
			app.clients.Slack.SetChannelID(updated.Slack.ChannelID)
		}

		app.logger.Get().Info("runtime settings updated",
			"log_level", updated.Logging.Level,
			"log_format", updated.Logging.Format,
			"add_user_timeout", updated.Tickets.AddUserTimeout.String(),
			"close_delay", updated.Tickets.CloseDelay.String(),
		)
	})
}

func timingsFrom(cfg *config.Config) ticket.Timings {
	return ticket.Timings{
		AddUserTimeout: cfg.Tickets.AddUserTimeout,
		CloseDelay:     cfg.Tickets.CloseDelay,
	}
}
