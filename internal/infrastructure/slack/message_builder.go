package slack

import (
	"fmt"

	"github.com/slack-go/slack"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/entity"
)

// MessageBuilder constructs Slack Block Kit messages for ticket notices.
type MessageBuilder struct{}

// NewMessageBuilder creates a new message builder.
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{}
}

// BuildNoticeMessage creates a Block Kit message for a ticket notice.
func (b *MessageBuilder) BuildNoticeMessage(notice entity.TicketNotice) []slack.Block {
	var blocks []slack.Block

	// Header line
	blocks = append(blocks, slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, b.headline(notice), false, false),
		nil, nil,
	))

	// Ticket details
	blocks = append(blocks, b.buildDetailsSection(notice))

	// Timestamp
	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("🕒 %s", notice.At.UTC().Format("Jan 2, 15:04 MST")), false, false),
	))

	return blocks
}

// FallbackText is the plain text shown in notifications and by clients
// that cannot render blocks.
func (b *MessageBuilder) FallbackText(notice entity.TicketNotice) string {
	switch notice.Kind {
	case entity.NoticeOpened:
		return fmt.Sprintf("Ticket opened by %s", notice.Actor.Tag)
	case entity.NoticeClosed:
		return fmt.Sprintf("Ticket closed by %s", notice.Actor.Tag)
	default:
		return fmt.Sprintf("Ticket %s by %s", notice.Kind, notice.Actor.Tag)
	}
}

func (b *MessageBuilder) headline(notice entity.TicketNotice) string {
	switch notice.Kind {
	case entity.NoticeOpened:
		return fmt.Sprintf("🎫  *Ticket opened* by *%s*", notice.Actor.Tag)
	case entity.NoticeClosed:
		return fmt.Sprintf("🔒  *Ticket closing* by *%s*", notice.Actor.Tag)
	default:
		return fmt.Sprintf("*Ticket %s* by *%s*", notice.Kind, notice.Actor.Tag)
	}
}

// buildDetailsSection lists channel and guild ids.
func (b *MessageBuilder) buildDetailsSection(notice entity.TicketNotice) *slack.SectionBlock {
	var fields []*slack.TextBlockObject

	if notice.ChannelName != "" {
		fields = append(fields,
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*📁 Channel*\n`#%s`", notice.ChannelName), false, false))
	}

	fields = append(fields,
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*🆔 Channel ID*\n`%s`", notice.ChannelID), false, false))

	fields = append(fields,
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*🏠 Guild*\n`%s`", notice.GuildID), false, false))

	fields = append(fields,
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*👤 User ID*\n`%s`", notice.Actor.UserID), false, false))

	return slack.NewSectionBlock(nil, fields, nil)
}
