package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/entity"
)

// API is the subset of the discordgo REST surface the bot uses.
// *discordgo.Session implements it.
type API interface {
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelPermissionSet(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64, options ...discordgo.RequestOption) error
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// ChannelCache is the local guild cache. *discordgo.State implements it.
type ChannelCache interface {
	RLock()
	RUnlock()
	Guild(guildID string) (*discordgo.Guild, error)
}

// Client performs ticket operations against the platform.
// Implements the ticket.Gateway interface.
type Client struct {
	api       API
	cache     ChannelCache
	collector *Collector
	builder   *MessageBuilder
}

// NewClient creates a new Client. cache may be nil, in which case channel
// lists are always fetched over REST.
func NewClient(api API, cache ChannelCache, collector *Collector) *Client {
	return &Client{
		api:       api,
		cache:     cache,
		collector: collector,
		builder:   NewMessageBuilder(),
	}
}

// ListGuildChannels returns the guild's channels from the state cache,
// falling back to REST when the guild is not cached yet.
func (c *Client) ListGuildChannels(ctx context.Context, guildID string) ([]entity.Channel, error) {
	if channels, ok := c.cachedChannels(guildID); ok {
		return channels, nil
	}

	raw, err := c.api.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, categorizeDiscordError(err, "listing guild channels")
	}
	channels := make([]entity.Channel, 0, len(raw))
	for _, ch := range raw {
		channels = append(channels, toChannel(ch))
	}
	return channels, nil
}

func (c *Client) cachedChannels(guildID string) ([]entity.Channel, bool) {
	if c.cache == nil {
		return nil, false
	}

	// Guild takes the read lock itself; it must not be held here.
	guild, err := c.cache.Guild(guildID)
	if err != nil {
		return nil, false
	}

	c.cache.RLock()
	defer c.cache.RUnlock()

	channels := make([]entity.Channel, 0, len(guild.Channels))
	for _, ch := range guild.Channels {
		channels = append(channels, toChannel(ch))
	}
	return channels, true
}

// CreateTicketChannel creates a text channel with the requested overwrites.
func (c *Client) CreateTicketChannel(ctx context.Context, spec entity.TicketChannelSpec) (entity.Channel, error) {
	ch, err := c.api.GuildChannelCreateComplex(spec.GuildID, c.builder.BuildChannelCreate(spec), discordgo.WithContext(ctx))
	if err != nil {
		return entity.Channel{}, categorizeDiscordError(err, fmt.Sprintf("creating channel %s", spec.Name))
	}
	return toChannel(ch), nil
}

// GrantMember lets userID view and write in channelID. Setting the same
// overwrite twice is harmless.
func (c *Client) GrantMember(ctx context.Context, channelID, userID string) error {
	allow := int64(entity.PermissionViewChannel | entity.PermissionSendMessages)
	err := c.api.ChannelPermissionSet(channelID, userID, discordgo.PermissionOverwriteTypeMember, allow, 0, discordgo.WithContext(ctx))
	if err != nil {
		return categorizeDiscordError(err, "setting member overwrite")
	}
	return nil
}

// DeleteChannel deletes channelID.
func (c *Client) DeleteChannel(ctx context.Context, channelID string) error {
	if _, err := c.api.ChannelDelete(channelID, discordgo.WithContext(ctx)); err != nil {
		return categorizeDiscordError(err, "deleting channel")
	}
	return nil
}

// SendMessage posts msg into channelID and returns the new message id.
func (c *Client) SendMessage(ctx context.Context, channelID string, msg entity.Message) (string, error) {
	sent, err := c.api.ChannelMessageSendComplex(channelID, c.builder.BuildMessage(msg), discordgo.WithContext(ctx))
	if err != nil {
		return "", categorizeDiscordError(err, "sending message")
	}
	return sent.ID, nil
}

// DeleteMessage deletes one message.
func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := c.api.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return categorizeDiscordError(err, "deleting message")
	}
	return nil
}

// Reply answers an interaction.
func (c *Client) Reply(ctx context.Context, ref entity.InteractionRef, reply entity.Reply) error {
	if err := c.api.InteractionRespond(interactionOf(ref), c.builder.BuildReply(reply), discordgo.WithContext(ctx)); err != nil {
		return categorizeDiscordError(err, "responding to interaction")
	}
	return nil
}

// FollowUp sends an additional message for an already answered interaction.
func (c *Client) FollowUp(ctx context.Context, ref entity.InteractionRef, reply entity.Reply) error {
	if _, err := c.api.FollowupMessageCreate(interactionOf(ref), true, c.builder.BuildFollowUp(reply), discordgo.WithContext(ctx)); err != nil {
		return categorizeDiscordError(err, "sending interaction follow-up")
	}
	return nil
}

// AwaitMessage opens a collection window on the shared collector.
func (c *Client) AwaitMessage(ctx context.Context, filter entity.CollectFilter, timeout time.Duration) (entity.CollectResult, error) {
	return c.collector.Await(ctx, filter, timeout)
}

func interactionOf(ref entity.InteractionRef) *discordgo.Interaction {
	return &discordgo.Interaction{ID: ref.ID, AppID: ref.AppID, Token: ref.Token}
}
