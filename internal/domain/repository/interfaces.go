package repository

import (
	"context"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/entity"
)

// ChannelRepository is a read-only view of the platform's guild channel cache.
// It is the only "storage" the bot has: ticket state is implied by which
// channels exist, so there is no write side here.
type ChannelRepository interface {
	// ListGuildChannels returns a point-in-time snapshot of the guild's channels.
	// Guilds missing from the cache are fetched from the platform instead.
	ListGuildChannels(ctx context.Context, guildID string) ([]entity.Channel, error)
}
