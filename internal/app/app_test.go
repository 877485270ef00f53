package app

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qj0r9j0vc2/ticket-bot/internal/adapter/handler"
)

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestAtomicLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewAtomicLogger(&buf, "warn", "json")

	l.Get().Info("hidden")
	assert.Empty(t, buf.String())

	l.Get().Warn("shown", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	l.Update("debug", "text")
	assert.Equal(t, slog.LevelDebug, l.Level())
	l.Get().Debug("now text")
	assert.Contains(t, buf.String(), "msg=\"now text\"")
}

func TestSlogAdapter_FollowsUpdates(t *testing.T) {
	var buf bytes.Buffer
	l := NewAtomicLogger(&buf, "info", "json")
	adapter := &slogAdapter{logger: l}

	adapter.Debug("dropped")
	assert.Empty(t, buf.String())

	l.Update("debug", "json")
	adapter.Debug("kept", "channel_id", "c-1")
	assert.Contains(t, buf.String(), `"channel_id":"c-1"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}

func TestNew_WiresComponents(t *testing.T) {
	t.Setenv("TOKEN", "test-token")
	t.Setenv("DISCORD_TOKEN", "")

	app, err := New(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.NotNil(t, app.clients.Discord)
	assert.Nil(t, app.clients.Slack)
	assert.Empty(t, app.clients.Notifiers)
	assert.Equal(t, 15*time.Second, app.useCases.Interactions.Timings().AddUserTimeout)
	assert.Equal(t, 5*time.Second, app.useCases.Interactions.Timings().CloseDelay)

	w := httptest.NewRecorder()
	app.handlers.KeepAlive.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, handler.KeepAliveBody, w.Body.String())

	// Not connected yet.
	w = httptest.NewRecorder()
	app.handlers.Ready.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestNew_MissingToken(t *testing.T) {
	t.Setenv("TOKEN", "")
	t.Setenv("DISCORD_TOKEN", "")

	_, err := New(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord.token")
}

func TestNew_SlackEnabled(t *testing.T) {
	t.Setenv("TOKEN", "test-token")
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, `
slack:
  enabled: true
  bot_token: xoxb-test
  channel_id: C-STAFF
`)

	app, err := New(path)
	require.NoError(t, err)

	require.NotNil(t, app.clients.Slack)
	assert.Len(t, app.clients.Notifiers, 1)
	assert.Equal(t, "C-STAFF", app.clients.Slack.ChannelID())
}

func TestReload_UpdatesRuntimeSettings(t *testing.T) {
	t.Setenv("TOKEN", "test-token")
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, `
logging:
  level: info
tickets:
  close_delay: 5s
slack:
  enabled: true
  bot_token: xoxb-test
  channel_id: C-OLD
`)

	app, err := New(path)
	require.NoError(t, err)

	writeConfig(t, path, `
logging:
  level: debug
tickets:
  close_delay: 2s
  add_user_timeout: 30s
slack:
  enabled: true
  bot_token: xoxb-test
  channel_id: C-NEW
`)
	require.NoError(t, app.configManager.TryReload())

	timings := app.useCases.Interactions.Timings()
	assert.Equal(t, 2*time.Second, timings.CloseDelay)
	assert.Equal(t, 30*time.Second, timings.AddUserTimeout)
	assert.Equal(t, slog.LevelDebug, app.logger.Level())
	assert.Equal(t, "C-NEW", app.clients.Slack.ChannelID())
}
