package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ErrRequiresRestart is returned by TryReload when the new configuration
// touches keys that are only read at startup. The reloadable part of the
// change is still applied.
var ErrRequiresRestart = errors.New("configuration change requires restart")

// ReloadFunc is called with the previous and the newly applied configuration.
type ReloadFunc func(old, updated *Config)

// ConfigManager owns the live configuration and hot-reloads whitelisted keys
// from the config file.
type ConfigManager struct {
	path   string
	logger *slog.Logger

	reloadMu sync.Mutex
	v        *viper.Viper

	mu        sync.RWMutex
	current   *Config
	callbacks []ReloadFunc
}

// NewConfigManager loads the configuration at path.
func NewConfigManager(path string, logger *slog.Logger) (*ConfigManager, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	return &ConfigManager{
		path:    path,
		logger:  logger,
		v:       v,
		current: cfg,
	}, nil
}

// Get returns the current configuration. Callers must not mutate it.
func (m *ConfigManager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// SetLogger replaces the logger used to report reloads.
func (m *ConfigManager) SetLogger(logger *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// OnReload registers fn to run after every applied reload.
func (m *ConfigManager) OnReload(fn ReloadFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// Watch reloads the configuration whenever the config file changes. It is a
// no-op when no config file is in use.
func (m *ConfigManager) Watch() {
	if m.v.ConfigFileUsed() == "" {
		return
	}
	m.v.OnConfigChange(func(e fsnotify.Event) {
		m.log().Info("config file changed", "file", e.Name, "op", e.Op.String())

		m.reloadMu.Lock()
		defer m.reloadMu.Unlock()
		if err := m.apply(m.v); err != nil {
			m.logReloadError(err)
		}
	})
	m.v.WatchConfig()
}

// TryReload re-reads the config file and applies the reloadable keys.
func (m *ConfigManager) TryReload() error {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()

	v, err := newViper(m.path)
	if err != nil {
		return err
	}
	return m.apply(v)
}

func (m *ConfigManager) apply(v *viper.Viper) error {
	next, err := decode(v)
	if err != nil {
		return err
	}

	m.mu.Lock()
	old := m.current
	changed := ChangedKeys(old, next)
	if len(changed) == 0 {
		m.mu.Unlock()
		return nil
	}

	var static []string
	merged := *old
	for _, key := range changed {
		if !IsReloadable(key) {
			static = append(static, key)
			continue
		}
		copyKey(&merged, next, key)
	}

	applied := len(static) < len(changed)
	if applied {
		m.current = &merged
	}
	callbacks := append([]ReloadFunc(nil), m.callbacks...)
	logger := m.logger
	m.mu.Unlock()

	if applied {
		for _, cb := range callbacks {
			cb(old, &merged)
		}
		logger.Info("configuration reloaded", "changed", strings.Join(changed, ","))
	}

	if len(static) > 0 {
		return fmt.Errorf("%w: %s", ErrRequiresRestart, describeStatic(static))
	}
	return nil
}

func (m *ConfigManager) log() *slog.Logger {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logger
}

func (m *ConfigManager) logReloadError(err error) {
	if errors.Is(err, ErrRequiresRestart) {
		m.log().Warn("configuration change ignored until restart", "error", err)
		return
	}
	m.log().Error("configuration reload failed", "error", err)
}

func describeStatic(keys []string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s (%s)", k, RestartReason(k)))
	}
	return strings.Join(parts, ", ")
}

// flatten lists every leaf key with its value.
func flatten(c *Config) map[string]any {
	return map[string]any{
		"server.port":                  c.Server.Port,
		"server.read_timeout":          c.Server.ReadTimeout,
		"server.write_timeout":         c.Server.WriteTimeout,
		"server.request_timeout":       c.Server.RequestTimeout,
		"server.shutdown_timeout":      c.Server.ShutdownTimeout,
		"discord.token":                c.Discord.Token,
		"gateway.connect_max_elapsed":  c.Gateway.ConnectMaxElapsed,
		"gateway.breaker_max_failures": c.Gateway.BreakerMaxFailures,
		"gateway.breaker_cooldown":     c.Gateway.BreakerCooldown,
		"tickets.add_user_timeout":     c.Tickets.AddUserTimeout,
		"tickets.close_delay":          c.Tickets.CloseDelay,
		"slack.enabled":                c.Slack.Enabled,
		"slack.bot_token":              c.Slack.BotToken,
		"slack.channel_id":             c.Slack.ChannelID,
		"slack.api_url":                c.Slack.APIURL,
		"logging.level":                c.Logging.Level,
		"logging.format":               c.Logging.Format,
	}
}

// ChangedKeys returns the sorted keys whose values differ between a and b.
func ChangedKeys(a, b *Config) []string {
	fa, fb := flatten(a), flatten(b)
	var keys []string
	for k, va := range fa {
		if fb[k] != va {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// copyKey copies one reloadable key from src into dst.
func copyKey(dst, src *Config, key string) {
	switch key {
	case "logging.level":
		dst.Logging.Level = src.Logging.Level
	case "logging.format":
		dst.Logging.Format = src.Logging.Format
	case "tickets.add_user_timeout":
		dst.Tickets.AddUserTimeout = src.Tickets.AddUserTimeout
	case "tickets.close_delay":
		dst.Tickets.CloseDelay = src.Tickets.CloseDelay
	case "slack.channel_id":
		dst.Slack.ChannelID = src.Slack.ChannelID
	}
}
