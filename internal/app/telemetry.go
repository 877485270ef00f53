package app

import (
	"github.com/qj0r9j0vc2/ticket-bot/internal/infrastructure/observability"
)

// setupTelemetry initializes OpenTelemetry metrics.
func (app *Application) setupTelemetry() error {
	telemetry, err := observability.NewTelemetry(observability.ServiceName, Version)
	if err != nil {
		return err
	}

	app.telemetry = telemetry

	app.logger.Get().Info("telemetry initialized",
		"service", observability.ServiceName,
		"metrics_enabled", true,
		"tracing_enabled", false, // NoOp tracer for now
	)

	return nil
}
