package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/entity"
)

// MessageBuilder converts between domain messages and discordgo payloads.
type MessageBuilder struct{}

// NewMessageBuilder creates a new message builder.
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{}
}

// BuildMessage renders msg as a channel message. Buttons go into a single
// action row.
func (b *MessageBuilder) BuildMessage(msg entity.Message) *discordgo.MessageSend {
	send := &discordgo.MessageSend{
		Content: msg.Content,
	}
	if msg.Embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{b.buildEmbed(*msg.Embed)}
	}
	if len(msg.Buttons) > 0 {
		send.Components = b.buildComponents(msg.Buttons)
	}
	return send
}

func (b *MessageBuilder) buildEmbed(e entity.Embed) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	if e.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	return embed
}

func (b *MessageBuilder) buildComponents(buttons []entity.Button) []discordgo.MessageComponent {
	row := discordgo.ActionsRow{}
	for _, btn := range buttons {
		row.Components = append(row.Components, discordgo.Button{
			Label:    btn.Label,
			Style:    buttonStyle(btn.Style),
			CustomID: btn.ActionID,
		})
	}
	return []discordgo.MessageComponent{row}
}

func buttonStyle(s entity.ButtonStyle) discordgo.ButtonStyle {
	switch s {
	case entity.ButtonSuccess:
		return discordgo.SuccessButton
	case entity.ButtonDanger:
		return discordgo.DangerButton
	default:
		return discordgo.PrimaryButton
	}
}

// BuildReply renders an interaction response carrying reply.
func (b *MessageBuilder) BuildReply(reply entity.Reply) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: reply.Content,
			Flags:   replyFlags(reply),
		},
	}
}

// BuildFollowUp renders a follow-up webhook message carrying reply.
func (b *MessageBuilder) BuildFollowUp(reply entity.Reply) *discordgo.WebhookParams {
	return &discordgo.WebhookParams{
		Content: reply.Content,
		Flags:   replyFlags(reply),
	}
}

func replyFlags(reply entity.Reply) discordgo.MessageFlags {
	if reply.Ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

// BuildChannelCreate renders a ticket channel spec.
func (b *MessageBuilder) BuildChannelCreate(spec entity.TicketChannelSpec) discordgo.GuildChannelCreateData {
	overwrites := make([]*discordgo.PermissionOverwrite, 0, len(spec.Overwrites))
	for _, ow := range spec.Overwrites {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    ow.TargetID,
			Type:  overwriteType(ow.Target),
			Allow: int64(ow.Allow),
			Deny:  int64(ow.Deny),
		})
	}
	return discordgo.GuildChannelCreateData{
		Name:                 spec.Name,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             spec.ParentID,
		PermissionOverwrites: overwrites,
	}
}

func overwriteType(t entity.OverwriteTarget) discordgo.PermissionOverwriteType {
	if t == entity.OverwriteMember {
		return discordgo.PermissionOverwriteTypeMember
	}
	return discordgo.PermissionOverwriteTypeRole
}

// toChannel converts a cached channel.
func toChannel(ch *discordgo.Channel) entity.Channel {
	kind := entity.ChannelKindOther
	switch ch.Type {
	case discordgo.ChannelTypeGuildText:
		kind = entity.ChannelKindText
	case discordgo.ChannelTypeGuildCategory:
		kind = entity.ChannelKindCategory
	}
	return entity.Channel{
		ID:       ch.ID,
		GuildID:  ch.GuildID,
		Name:     ch.Name,
		Kind:     kind,
		ParentID: ch.ParentID,
	}
}

// toUser converts a platform user. The tag is the user's display string
// (name#discriminator, or the bare name for migrated accounts).
func toUser(u *discordgo.User) entity.User {
	return entity.User{ID: u.ID, Tag: u.String()}
}

// ToActor builds an actor from a user and the permissions it holds in the
// event's channel.
func ToActor(u *discordgo.User, perms int64) entity.Actor {
	return entity.Actor{
		UserID:      u.ID,
		Username:    u.Username,
		Tag:         u.String(),
		Permissions: entity.Permission(perms),
	}
}

// ToCollected converts an inbound message for the collector.
func ToCollected(m *discordgo.Message) entity.CollectedMessage {
	msg := entity.CollectedMessage{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
	}
	for _, u := range m.Mentions {
		if u != nil {
			msg.Mentions = append(msg.Mentions, toUser(u))
		}
	}
	return msg
}
