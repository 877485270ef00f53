package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Discord DiscordConfig `mapstructure:"discord"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Tickets TicketsConfig `mapstructure:"tickets"`
	Slack   SlackConfig   `mapstructure:"slack"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DiscordConfig holds platform credentials.
type DiscordConfig struct {
	Token string `mapstructure:"token"`
}

// GatewayConfig controls how hard the bot tries to connect at startup.
type GatewayConfig struct {
	ConnectMaxElapsed  time.Duration `mapstructure:"connect_max_elapsed"`
	BreakerMaxFailures int           `mapstructure:"breaker_max_failures"`
	BreakerCooldown    time.Duration `mapstructure:"breaker_cooldown"`
}

// TicketsConfig holds ticket flow timings.
type TicketsConfig struct {
	AddUserTimeout time.Duration `mapstructure:"add_user_timeout"`
	CloseDelay     time.Duration `mapstructure:"close_delay"`
}

// SlackConfig holds the optional staff notification settings.
type SlackConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	BotToken  string `mapstructure:"bot_token"`
	ChannelID string `mapstructure:"channel_id"`
	APIURL    string `mapstructure:"api_url"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envAliases maps config keys to the environment variables that override
// them, in priority order, ahead of the SECTION_KEY name every key gets
// (e.g. SERVER_PORT, TICKETS_CLOSE_DELAY).
var envAliases = map[string][]string{
	"discord.token":  {"TOKEN", "DISCORD_TOKEN"},
	"logging.level":  {"LOG_LEVEL", "LOGGING_LEVEL"},
	"logging.format": {"LOG_FORMAT", "LOGGING_FORMAT"},
}

// Load reads configuration from an optional YAML file and the environment.
func Load(path string) (*Config, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// newViper builds a viper instance with defaults, env bindings and, when it
// exists, the config file at path.
func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path == "" {
		return v, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return v, nil
}

// bindEnv binds every defaulted key to its aliases followed by its
// SECTION_KEY name. AutomaticEnv is not used: viper consults it before
// explicit bindings, which would let SECTION_KEY shadow the aliases.
func bindEnv(v *viper.Viper) error {
	for _, key := range v.AllKeys() {
		names := append([]string{key}, envAliases[key]...)
		auto := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if !slices.Contains(names[1:], auto) {
			names = append(names, auto)
		}
		if err := v.BindEnv(names...); err != nil {
			return fmt.Errorf("binding env for %s: %w", key, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.request_timeout", 5*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("discord.token", "")

	v.SetDefault("gateway.connect_max_elapsed", 2*time.Minute)
	v.SetDefault("gateway.breaker_max_failures", 5)
	v.SetDefault("gateway.breaker_cooldown", 30*time.Second)

	v.SetDefault("tickets.add_user_timeout", 15*time.Second)
	v.SetDefault("tickets.close_delay", 5*time.Second)

	v.SetDefault("slack.enabled", false)
	v.SetDefault("slack.bot_token", "")
	v.SetDefault("slack.channel_id", "")
	v.SetDefault("slack.api_url", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsSlackEnabled returns true if staff notifications go to Slack.
func (c *Config) IsSlackEnabled() bool {
	return c.Slack.Enabled
}

// Addr returns the HTTP listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
