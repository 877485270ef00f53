package app

import (
	"fmt"
)

func (app *Application) bootstrap(configPath string) error {
	// 1. Load configuration
	if err := app.loadConfig(configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// 2. Setup logger
	app.setupLogger()

	// 3. Setup telemetry (OpenTelemetry)
	if err := app.setupTelemetry(); err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}

	// 4. Initialize infrastructure clients
	if err := app.initializeClients(); err != nil {
		return fmt.Errorf("initializing clients: %w", err)
	}

	// 5. Initialize use cases
	app.initializeUseCases()

	// 6. Initialize handlers and wire gateway events
	app.initializeHandlers()

	// 7. Setup HTTP server
	app.setupServer()

	// 8. Hot reload
	app.registerReloadHandlers()

	return nil
}
