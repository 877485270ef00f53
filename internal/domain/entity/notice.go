package entity

import "time"

// NoticeKind says what happened to a ticket.
type NoticeKind string

const (
	NoticeOpened NoticeKind = "opened"
	NoticeClosed NoticeKind = "closed"
)

// TicketNotice is sent to staff notifiers when a ticket opens or closes.
type TicketNotice struct {
	Kind        NoticeKind
	GuildID     string
	ChannelID   string
	ChannelName string
	Actor       Actor
	At          time.Time
}
