package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/logger"
)

// installLogger routes discordgo's internal logging to log. discordgo keeps
// its logger in a package variable, so the last session created wins.
func installLogger(log logger.Logger) {
	discordgo.Logger = func(msgL, caller int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		switch msgL {
		case discordgo.LogError:
			log.Error(msg, "source", "discordgo")
		case discordgo.LogWarning:
			log.Warn(msg, "source", "discordgo")
		case discordgo.LogInformational:
			log.Info(msg, "source", "discordgo")
		default:
			log.Debug(msg, "source", "discordgo")
		}
	}
}
