package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/qj0r9j0vc2/ticket-bot/internal/app"
)

func main() {
	// .env is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "config/config.yaml"
	}
	configPath := flag.StringP("config", "c", defaultConfig, "path to the YAML config file (optional)")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		os.Stdout.WriteString(app.Version + "\n")
		return
	}

	application, err := app.New(*configPath)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := application.Start(ctx)
	if runErr != nil {
		slog.Error("ticket-bot exited with error", "error", runErr)
	}

	if err := application.Shutdown(); err != nil {
		slog.Error("shutdown error", "error", err)
	}

	if runErr != nil {
		os.Exit(1)
	}
}
