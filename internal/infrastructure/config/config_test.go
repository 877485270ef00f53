package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad_DefaultsFromEnvOnly(t *testing.T) {
	t.Setenv("TOKEN", "env-token")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Discord.Token)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, ":3000", cfg.Server.Addr())
	assert.Equal(t, 15*time.Second, cfg.Tickets.AddUserTimeout)
	assert.Equal(t, 5*time.Second, cfg.Tickets.CloseDelay)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 5, cfg.Gateway.BreakerMaxFailures)
	assert.False(t, cfg.IsSlackEnabled())
}

func TestLoad_TokenAliases(t *testing.T) {
	t.Run("DISCORD_TOKEN", func(t *testing.T) {
		t.Setenv("TOKEN", "")
		t.Setenv("DISCORD_TOKEN", "alias-token")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "alias-token", cfg.Discord.Token)
	})

	t.Run("TOKEN wins", func(t *testing.T) {
		t.Setenv("TOKEN", "primary")
		t.Setenv("DISCORD_TOKEN", "alias-token")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "primary", cfg.Discord.Token)
	})

	t.Run("LOG_LEVEL and LOG_FORMAT win", func(t *testing.T) {
		t.Setenv("TOKEN", "primary")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOGGING_LEVEL", "error")
		t.Setenv("LOG_FORMAT", "text")
		t.Setenv("LOGGING_FORMAT", "json")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "text", cfg.Logging.Format)
	})

	t.Run("section name still applies", func(t *testing.T) {
		t.Setenv("TOKEN", "primary")
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("LOGGING_LEVEL", "warn")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Logging.Level)
	})
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
server:
  port: 8081
discord:
  token: file-token
tickets:
  add_user_timeout: 30s
logging:
  level: DEBUG
  format: text
`)
	t.Setenv("TOKEN", "")
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("TICKETS_CLOSE_DELAY", "7s")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.Discord.Token)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Tickets.AddUserTimeout)
	assert.Equal(t, 7*time.Second, cfg.Tickets.CloseDelay)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("TOKEN", "")
	t.Setenv("DISCORD_TOKEN", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord.token cannot be empty")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "server: [unterminated")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            70000,
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			RequestTimeout:  2 * time.Second,
			ShutdownTimeout: time.Second,
		},
		Gateway: GatewayConfig{ConnectMaxElapsed: time.Minute, BreakerCooldown: time.Second},
		Tickets: TicketsConfig{AddUserTimeout: time.Second},
		Slack:   SlackConfig{Enabled: true},
		Logging: LoggingConfig{Level: "verbose", Format: "xml"},
	}

	err := cfg.Validate()
	require.Error(t, err)

	for _, want := range []string{
		"server.port must be between 1 and 65535",
		"server.request_timeout must be less than server.write_timeout",
		"discord.token cannot be empty",
		"gateway.breaker_max_failures must be at least 1",
		"tickets.close_delay must be greater than 0",
		"slack.bot_token cannot be empty",
		"slack.channel_id cannot be empty",
		"invalid log level: verbose",
		"invalid log format: xml",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestIsReloadable(t *testing.T) {
	assert.True(t, IsReloadable("logging.level"))
	assert.True(t, IsReloadable("tickets.close_delay"))
	assert.False(t, IsReloadable("server.port"))
	assert.False(t, IsReloadable("discord.token"))
	assert.Equal(t, "HTTP listener restart required", RestartReason("server.port"))
	assert.Equal(t, "unknown configuration requires restart", RestartReason("nope"))
}

func TestConfigManager_TryReload(t *testing.T) {
	t.Setenv("TOKEN", "")
	t.Setenv("DISCORD_TOKEN", "")
	dir := t.TempDir()
	path := writeConfig(t, dir, `
discord:
  token: tok
logging:
  level: info
tickets:
  close_delay: 5s
`)

	m, err := NewConfigManager(path, discardLogger())
	require.NoError(t, err)

	var calls int
	var seen *Config
	m.OnReload(func(old, updated *Config) {
		calls++
		seen = updated
	})

	t.Run("no change", func(t *testing.T) {
		require.NoError(t, m.TryReload())
		assert.Equal(t, 0, calls)
	})

	t.Run("reloadable change", func(t *testing.T) {
		writeConfig(t, dir, `
discord:
  token: tok
logging:
  level: debug
tickets:
  close_delay: 10s
`)
		require.NoError(t, m.TryReload())
		assert.Equal(t, 1, calls)
		assert.Equal(t, "debug", m.Get().Logging.Level)
		assert.Equal(t, 10*time.Second, m.Get().Tickets.CloseDelay)
		assert.Same(t, m.Get(), seen)
	})

	t.Run("static change", func(t *testing.T) {
		writeConfig(t, dir, `
discord:
  token: other
server:
  port: 4000
logging:
  level: warn
tickets:
  close_delay: 10s
`)
		err := m.TryReload()
		require.ErrorIs(t, err, ErrRequiresRestart)
		assert.Contains(t, err.Error(), "server.port")

		cfg := m.Get()
		assert.Equal(t, "warn", cfg.Logging.Level, "reloadable part applied")
		assert.Equal(t, 3000, cfg.Server.Port)
		assert.Equal(t, "tok", cfg.Discord.Token)
	})

	t.Run("invalid file keeps current", func(t *testing.T) {
		writeConfig(t, dir, `
discord:
  token: tok
logging:
  level: loud
`)
		err := m.TryReload()
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrRequiresRestart)
		assert.Equal(t, "warn", m.Get().Logging.Level)
	})
}

func TestChangedKeys(t *testing.T) {
	a := &Config{Logging: LoggingConfig{Level: "info"}, Server: ServerConfig{Port: 1}}
	b := &Config{Logging: LoggingConfig{Level: "debug"}, Server: ServerConfig{Port: 2}}

	assert.Equal(t, []string{"logging.level", "server.port"}, ChangedKeys(a, b))
	assert.Empty(t, ChangedKeys(a, a))
}
