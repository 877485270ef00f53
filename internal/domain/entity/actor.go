package entity

// Permission is a capability bitset as computed by the chat platform for a
// member in a given channel. Bit positions follow the platform's encoding.
type Permission int64

const (
	PermissionAdministrator  Permission = 1 << 3
	PermissionManageChannels Permission = 1 << 4
	PermissionViewChannel    Permission = 1 << 10
	PermissionSendMessages   Permission = 1 << 11
)

// Has reports whether p grants want. Administrator grants everything.
func (p Permission) Has(want Permission) bool {
	if p&PermissionAdministrator != 0 {
		return true
	}
	return p&want == want
}

// Actor is the member that triggered an event.
type Actor struct {
	UserID   string
	Username string
	// Tag is the display form used in public announcements.
	Tag         string
	Permissions Permission
}

// Mention returns the platform mention markup for the actor.
func (a Actor) Mention() string {
	return "<@" + a.UserID + ">"
}

// User is a referenced platform user (e.g. a mention inside a message).
type User struct {
	ID  string
	Tag string
}
