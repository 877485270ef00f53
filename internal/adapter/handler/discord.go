package handler

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/entity"
	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/logger"
	"github.com/qj0r9j0vc2/ticket-bot/internal/infrastructure/discord"
)

// PanelPublisher is the use case behind the panel command.
type PanelPublisher interface {
	Execute(ctx context.Context, cmd entity.PanelCommand) error
}

// InteractionExecutor is the use case behind ticket buttons.
type InteractionExecutor interface {
	Execute(ctx context.Context, event entity.Event) error
}

// PermissionResolver computes a member's permissions in a channel.
type PermissionResolver interface {
	ChannelPermissions(userID, channelID string) (entity.Permission, error)
}

// DiscordHandler turns gateway events into ticket use case calls.
type DiscordHandler struct {
	publishPanel PanelPublisher
	interactions InteractionExecutor
	permissions  PermissionResolver
	logger       logger.Logger
}

// NewDiscordHandler creates a new Discord event handler.
func NewDiscordHandler(
	publishPanel PanelPublisher,
	interactions InteractionExecutor,
	permissions PermissionResolver,
	logger logger.Logger,
) *DiscordHandler {
	return &DiscordHandler{
		publishPanel: publishPanel,
		interactions: interactions,
		permissions:  permissions,
		logger:       logger,
	}
}

// HandleMessage publishes the panel when a guild message is exactly the
// panel command. Every other message is unsupported.
func (h *DiscordHandler) HandleMessage(ctx context.Context, m *discordgo.MessageCreate) error {
	if m.Message == nil || m.Author == nil || m.Author.Bot {
		return entity.ErrUnsupportedEvent
	}
	if m.GuildID == "" || m.Content != entity.PanelTrigger {
		return entity.ErrUnsupportedEvent
	}

	perms, err := h.permissions.ChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		return fmt.Errorf("resolving permissions for panel command: %w", err)
	}

	h.logger.Debug("panel command received",
		"event_id", discord.EventIDFromContext(ctx),
		"guild_id", m.GuildID,
		"channel_id", m.ChannelID,
		"user_id", m.Author.ID,
	)

	return h.publishPanel.Execute(ctx, entity.PanelCommand{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		Actor:     discord.ToActor(m.Author, int64(perms)),
	})
}

// HandleInteraction executes guild button presses. Slash commands, modals,
// direct-message components and unknown custom ids are unsupported.
func (h *DiscordHandler) HandleInteraction(ctx context.Context, i *discordgo.InteractionCreate) error {
	if i.Interaction == nil || i.Type != discordgo.InteractionMessageComponent {
		return entity.ErrUnsupportedEvent
	}
	// Member is only set for interactions inside a guild.
	if i.Member == nil || i.Member.User == nil || i.GuildID == "" {
		return entity.ErrUnsupportedEvent
	}

	data := i.MessageComponentData()
	if data.ComponentType != discordgo.ButtonComponent {
		return entity.ErrUnsupportedEvent
	}

	event, err := entity.NewButtonEvent(data.CustomID, entity.Interaction{
		Ref: entity.InteractionRef{
			ID:    i.ID,
			AppID: i.AppID,
			Token: i.Token,
		},
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Actor:     discord.ToActor(i.Member.User, i.Member.Permissions),
	})
	if err != nil {
		return err
	}

	h.logger.Debug("button pressed",
		"event_id", discord.EventIDFromContext(ctx),
		"action", event.Name(),
		"channel_id", i.ChannelID,
		"user_id", i.Member.User.ID,
	)

	return h.interactions.Execute(ctx, event)
}
