package entity

import "errors"

// ErrUnsupportedEvent is returned by the event boundary for payloads the bot
// does not handle (non-button interactions, unknown action ids, bot authors).
var ErrUnsupportedEvent = errors.New("unsupported event")

// Event is one of PanelCommand, OpenTicket, AddUser or CloseTicket.
type Event interface {
	// Name identifies the event kind in logs and metrics.
	Name() string
	isEvent()
}

// InteractionRef carries what is needed to answer an interaction.
type InteractionRef struct {
	ID    string
	AppID string
	Token string
}

// Interaction is the common payload of button presses.
type Interaction struct {
	Ref       InteractionRef
	GuildID   string
	ChannelID string
	Actor     Actor
}

// PanelCommand is the trigger text posted in a guild text channel.
type PanelCommand struct {
	GuildID   string
	ChannelID string
	MessageID string
	Actor     Actor
}

// OpenTicket is a press of the panel's "Open Ticket" button.
type OpenTicket struct{ Interaction }

// AddUser is a press of a ticket's "Add User" button.
type AddUser struct{ Interaction }

// CloseTicket is a press of a ticket's "Close Ticket" button.
type CloseTicket struct{ Interaction }

func (PanelCommand) Name() string { return "panel_command" }
func (OpenTicket) Name() string   { return ActionOpenTicket }
func (AddUser) Name() string      { return ActionAddUser }
func (CloseTicket) Name() string  { return ActionCloseTicket }

func (PanelCommand) isEvent() {}
func (OpenTicket) isEvent()   {}
func (AddUser) isEvent()      {}
func (CloseTicket) isEvent()  {}

// NewButtonEvent maps an action id to its event variant.
func NewButtonEvent(actionID string, in Interaction) (Event, error) {
	switch actionID {
	case ActionOpenTicket:
		return OpenTicket{in}, nil
	case ActionAddUser:
		return AddUser{in}, nil
	case ActionCloseTicket:
		return CloseTicket{in}, nil
	default:
		return nil, ErrUnsupportedEvent
	}
}
