package config

import (
	"fmt"
	"strings"
	"time"
)

// reloadableKeys defines the whitelist of configuration keys that can be hot-reloaded.
var reloadableKeys = map[string]bool{
	"logging.level":            true,
	"logging.format":           true,
	"tickets.add_user_timeout": true,
	"tickets.close_delay":      true,
	"slack.channel_id":         true,
}

// staticKeys defines configuration keys that require application restart.
var staticKeys = map[string]string{
	"server.port":                  "HTTP listener restart required",
	"server.read_timeout":          "HTTP listener restart required",
	"server.write_timeout":         "HTTP listener restart required",
	"server.request_timeout":       "HTTP middleware rebuild required",
	"server.shutdown_timeout":      "read once at startup",
	"discord.token":                "gateway session reconnect required",
	"gateway.connect_max_elapsed":  "read once at startup",
	"gateway.breaker_max_failures": "read once at startup",
	"gateway.breaker_cooldown":     "read once at startup",
	"slack.enabled":                "notifier wiring happens at startup",
	"slack.bot_token":              "Slack client recreation required",
	"slack.api_url":                "Slack client recreation required",
}

// IsReloadable returns true if the given config key can be hot-reloaded.
func IsReloadable(key string) bool {
	return reloadableKeys[key]
}

// RestartReason returns why a static config key requires restart.
func RestartReason(key string) string {
	if reason, ok := staticKeys[key]; ok {
		return reason
	}
	return "unknown configuration requires restart"
}

// ValidateLogLevel checks if the log level is valid.
func ValidateLogLevel(level string) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", level)
	}
	return nil
}

// ValidateLogFormat checks if the log format is valid.
func ValidateLogFormat(format string) error {
	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[format] {
		return fmt.Errorf("invalid log format: %s (must be json or text)", format)
	}
	return nil
}

// ValidateNonEmpty checks if a string is non-empty.
func ValidateNonEmpty(value string, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateDuration checks if a duration is greater than zero.
func ValidateDuration(duration time.Duration, fieldName string) error {
	if duration <= 0 {
		return fmt.Errorf("%s must be greater than 0", fieldName)
	}
	return nil
}

// ValidatePort checks if a port number is valid.
func ValidatePort(port int, fieldName string) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", fieldName, port)
	}
	return nil
}

// Validate performs comprehensive validation on the configuration.
// All problems are reported at once.
func (c *Config) Validate() error {
	var errs []string
	check := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	// Server
	check(ValidatePort(c.Server.Port, "server.port"))
	check(ValidateDuration(c.Server.ReadTimeout, "server.read_timeout"))
	check(ValidateDuration(c.Server.WriteTimeout, "server.write_timeout"))
	check(ValidateDuration(c.Server.RequestTimeout, "server.request_timeout"))
	check(ValidateDuration(c.Server.ShutdownTimeout, "server.shutdown_timeout"))
	if c.Server.RequestTimeout >= c.Server.WriteTimeout {
		errs = append(errs, "server.request_timeout must be less than server.write_timeout")
	}

	// Discord
	if err := ValidateNonEmpty(c.Discord.Token, "discord.token"); err != nil {
		errs = append(errs, err.Error()+" (set TOKEN)")
	}

	// Gateway
	check(ValidateDuration(c.Gateway.ConnectMaxElapsed, "gateway.connect_max_elapsed"))
	check(ValidateDuration(c.Gateway.BreakerCooldown, "gateway.breaker_cooldown"))
	if c.Gateway.BreakerMaxFailures < 1 {
		errs = append(errs, "gateway.breaker_max_failures must be at least 1")
	}

	// Tickets
	check(ValidateDuration(c.Tickets.AddUserTimeout, "tickets.add_user_timeout"))
	check(ValidateDuration(c.Tickets.CloseDelay, "tickets.close_delay"))

	// Slack
	if c.IsSlackEnabled() {
		check(ValidateNonEmpty(c.Slack.BotToken, "slack.bot_token"))
		check(ValidateNonEmpty(c.Slack.ChannelID, "slack.channel_id"))
	}

	// Logging
	check(ValidateLogLevel(c.Logging.Level))
	check(ValidateLogFormat(c.Logging.Format))

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
