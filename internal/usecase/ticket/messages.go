package ticket

import (
	"fmt"
	"math"
	"time"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/entity"
)

// User-facing texts.
const (
	msgAlreadyOpen      = "You already have an open ticket!"
	msgCategoryMissing  = "❌ Tickets category not found. Please create a category named \"" + entity.TicketCategoryName + "\"."
	msgOnlyStaffAdd     = "❌ Only staff can add users."
	msgOnlyStaffClose   = "❌ Only staff can close tickets."
	msgMentionPrompt    = "Please mention the user to add."
	msgNoMention        = "❌ No user mentioned."
	msgClosingWarning   = "🔒 Closing ticket in 5 seconds..."
	msgClosingScheduled = "✅ Ticket will be closed shortly."
)

func ticketCreatedReply(ch entity.Channel) string {
	return fmt.Sprintf("✅ Your ticket has been created: %s", ch.Mention())
}

func userAddedAnnouncement(u entity.User) string {
	return fmt.Sprintf("✅ %s has been added to the ticket.", u.Tag)
}

// closingWarning announces delay rounded up to whole seconds, never below one.
func closingWarning(delay time.Duration) string {
	seconds := max(int(math.Ceil(delay.Seconds())), 1)
	switch seconds {
	case 1:
		return "🔒 Closing ticket in 1 second..."
	case 5:
		return msgClosingWarning
	}
	return fmt.Sprintf("🔒 Closing ticket in %d seconds...", seconds)
}

// PanelMessage is the message carrying the "Open Ticket" button.
func PanelMessage() entity.Message {
	return entity.Message{
		Embed: &entity.Embed{
			Title:       "🎫 Ticket Bot | Secure Ticket System",
			Description: "Press the button below to open a private ticket.",
			Color:       entity.ColorGreen,
			Footer:      "Powered by Ticket Bot",
		},
		Buttons: []entity.Button{
			{Label: "Open Ticket", ActionID: entity.ActionOpenTicket, Style: entity.ButtonSuccess},
		},
	}
}

// WelcomeMessage is posted inside a new ticket channel.
func WelcomeMessage(owner entity.Actor) entity.Message {
	return entity.Message{
		Content: owner.Mention(),
		Embed: &entity.Embed{
			Title:       "🎫 Your Ticket",
			Description: "Staff will assist you shortly.\n\nUse the buttons below to **add users** or **close** the ticket.",
			Color:       entity.ColorPurple,
		},
		Buttons: []entity.Button{
			{Label: "Add User", ActionID: entity.ActionAddUser, Style: entity.ButtonPrimary},
			{Label: "Close Ticket", ActionID: entity.ActionCloseTicket, Style: entity.ButtonDanger},
		},
	}
}

func private(content string) entity.Reply {
	return entity.Reply{Content: content, Ephemeral: true}
}

func public(content string) entity.Reply {
	return entity.Reply{Content: content}
}
