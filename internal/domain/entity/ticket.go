package entity

import "strings"

const (
	// TicketChannelPrefix prefixes every ticket channel name.
	TicketChannelPrefix = "ticket-"

	// TicketCategoryName is the grouping container every ticket lives under.
	// It must be created by the guild administrators beforehand.
	TicketCategoryName = "tickets🎟️"

	// PanelTrigger is the text command that publishes the ticket panel.
	PanelTrigger = "!ticketpanel"
)

// Action identifiers carried by the panel and ticket buttons. These are part
// of the wire contract with the platform and must not change.
const (
	ActionOpenTicket  = "open_ticket"
	ActionAddUser     = "add_user"
	ActionCloseTicket = "close_ticket"
)

// ChannelKind distinguishes the channel types the bot cares about.
type ChannelKind int

const (
	ChannelKindOther ChannelKind = iota
	ChannelKindText
	ChannelKindCategory
)

// Channel is a snapshot of a guild channel taken from the platform cache.
type Channel struct {
	ID       string
	GuildID  string
	Name     string
	Kind     ChannelKind
	ParentID string
}

// Mention returns the platform mention markup for the channel.
func (c Channel) Mention() string {
	return "<#" + c.ID + ">"
}

// TicketChannelName returns the normalized ticket channel name for a username.
func TicketChannelName(username string) string {
	return TicketChannelPrefix + strings.ToLower(username)
}

// FindTicketChannel returns the channel whose name matches the ticket name of
// username, compared case-insensitively.
func FindTicketChannel(channels []Channel, username string) (Channel, bool) {
	name := TicketChannelName(username)
	for _, ch := range channels {
		if strings.EqualFold(ch.Name, name) {
			return ch, true
		}
	}
	return Channel{}, false
}

// FindCategory returns the category channel with exactly the given name.
func FindCategory(channels []Channel, name string) (Channel, bool) {
	for _, ch := range channels {
		if ch.Kind == ChannelKindCategory && ch.Name == name {
			return ch, true
		}
	}
	return Channel{}, false
}

// OverwriteTarget says whether an overwrite applies to a role or a member.
type OverwriteTarget int

const (
	OverwriteRole OverwriteTarget = iota
	OverwriteMember
)

// Overwrite is a per-target permission override on a channel.
type Overwrite struct {
	TargetID string
	Target   OverwriteTarget
	Allow    Permission
	Deny     Permission
}

// TicketChannelSpec describes a ticket channel to be created.
type TicketChannelSpec struct {
	GuildID    string
	Name       string
	ParentID   string
	Overwrites []Overwrite
}

// NewTicketChannelSpec builds the private channel layout for owner: hidden from
// @everyone (whose role id equals the guild id), visible and writable for the
// owner. Staff see it through their own role permissions.
func NewTicketChannelSpec(guildID, parentID string, owner Actor) TicketChannelSpec {
	return TicketChannelSpec{
		GuildID:  guildID,
		Name:     TicketChannelName(owner.Username),
		ParentID: parentID,
		Overwrites: []Overwrite{
			{TargetID: guildID, Target: OverwriteRole, Deny: PermissionViewChannel},
			{TargetID: owner.UserID, Target: OverwriteMember, Allow: PermissionViewChannel | PermissionSendMessages},
		},
	}
}
