package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/entity"
	"github.com/qj0r9j0vc2/ticket-bot/internal/usecase/ticket"
)

func TestMessageBuilder_Panel(t *testing.T) {
	send := NewMessageBuilder().BuildMessage(ticket.PanelMessage())

	assert.Empty(t, send.Content)
	require.Len(t, send.Embeds, 1)
	assert.Equal(t, "🎫 Ticket Bot | Secure Ticket System", send.Embeds[0].Title)
	assert.Equal(t, entity.ColorGreen, send.Embeds[0].Color)
	require.NotNil(t, send.Embeds[0].Footer)
	assert.Equal(t, "Powered by Ticket Bot", send.Embeds[0].Footer.Text)

	require.Len(t, send.Components, 1)
	row, ok := send.Components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 1)
	assert.Equal(t, discordgo.Button{Label: "Open Ticket", Style: discordgo.SuccessButton, CustomID: "open_ticket"}, row.Components[0])
}

func TestMessageBuilder_Welcome(t *testing.T) {
	send := NewMessageBuilder().BuildMessage(ticket.WelcomeMessage(entity.Actor{UserID: "42"}))

	assert.Equal(t, "<@42>", send.Content)
	require.Len(t, send.Embeds, 1)
	assert.Nil(t, send.Embeds[0].Footer)

	row := send.Components[0].(discordgo.ActionsRow)
	require.Len(t, row.Components, 2)
	assert.Equal(t, discordgo.Button{Label: "Add User", Style: discordgo.PrimaryButton, CustomID: "add_user"}, row.Components[0])
	assert.Equal(t, discordgo.Button{Label: "Close Ticket", Style: discordgo.DangerButton, CustomID: "close_ticket"}, row.Components[1])
}

func TestMessageBuilder_TextOnly(t *testing.T) {
	send := NewMessageBuilder().BuildMessage(entity.Message{Content: "🔒 Closing ticket in 5 seconds..."})

	assert.Equal(t, "🔒 Closing ticket in 5 seconds...", send.Content)
	assert.Nil(t, send.Embeds)
	assert.Nil(t, send.Components)
}

func TestMessageBuilder_Replies(t *testing.T) {
	b := NewMessageBuilder()

	private := b.BuildReply(entity.Reply{Content: "hi", Ephemeral: true})
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, private.Type)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, private.Data.Flags)

	public := b.BuildFollowUp(entity.Reply{Content: "✅ x has been added to the ticket."})
	assert.Equal(t, discordgo.MessageFlags(0), public.Flags)
	assert.Equal(t, "✅ x has been added to the ticket.", public.Content)
}

func TestMessageBuilder_ChannelCreate(t *testing.T) {
	spec := entity.NewTicketChannelSpec("g-1", "cat-1", entity.Actor{UserID: "u-1", Username: "Alice"})

	data := NewMessageBuilder().BuildChannelCreate(spec)

	assert.Equal(t, "ticket-alice", data.Name)
	assert.Equal(t, discordgo.ChannelTypeGuildText, data.Type)
	assert.Equal(t, "cat-1", data.ParentID)
	require.Len(t, data.PermissionOverwrites, 2)
	assert.Equal(t, &discordgo.PermissionOverwrite{
		ID:   "g-1",
		Type: discordgo.PermissionOverwriteTypeRole,
		Deny: discordgo.PermissionViewChannel,
	}, data.PermissionOverwrites[0])
	assert.Equal(t, &discordgo.PermissionOverwrite{
		ID:    "u-1",
		Type:  discordgo.PermissionOverwriteTypeMember,
		Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
	}, data.PermissionOverwrites[1])
}

func TestToChannel(t *testing.T) {
	assert.Equal(t, entity.ChannelKindCategory, toChannel(&discordgo.Channel{Type: discordgo.ChannelTypeGuildCategory}).Kind)
	assert.Equal(t, entity.ChannelKindText, toChannel(&discordgo.Channel{Type: discordgo.ChannelTypeGuildText}).Kind)
	assert.Equal(t, entity.ChannelKindOther, toChannel(&discordgo.Channel{Type: discordgo.ChannelTypeGuildVoice}).Kind)
}

func TestToCollected(t *testing.T) {
	m := &discordgo.Message{
		ID:        "m-1",
		ChannelID: "c-1",
		Content:   "<@7> please",
		Author:    &discordgo.User{ID: "u-staff"},
		Mentions:  []*discordgo.User{{ID: "7", Username: "victor", Discriminator: "0"}},
	}

	got := ToCollected(m)
	assert.Equal(t, "u-staff", got.AuthorID)
	user, ok := got.FirstMention()
	require.True(t, ok)
	assert.Equal(t, entity.User{ID: "7", Tag: "victor"}, user)
}

func TestPermissionBitsMatchPlatform(t *testing.T) {
	assert.EqualValues(t, discordgo.PermissionAdministrator, entity.PermissionAdministrator)
	assert.EqualValues(t, discordgo.PermissionManageChannels, entity.PermissionManageChannels)
	assert.EqualValues(t, discordgo.PermissionViewChannel, entity.PermissionViewChannel)
	assert.EqualValues(t, discordgo.PermissionSendMessages, entity.PermissionSendMessages)
}
