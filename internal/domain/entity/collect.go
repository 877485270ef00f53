package entity

// CollectFilter selects which inbound message resolves a collection window.
type CollectFilter struct {
	ChannelID string
	AuthorID  string
}

// Matches reports whether msg satisfies the filter.
func (f CollectFilter) Matches(msg CollectedMessage) bool {
	return msg.ChannelID == f.ChannelID && msg.AuthorID == f.AuthorID
}

// CollectedMessage is an inbound message seen by the collector.
type CollectedMessage struct {
	ID        string
	ChannelID string
	AuthorID  string
	Content   string
	Mentions  []User
}

// FirstMention returns the first mentioned user, if any.
func (m CollectedMessage) FirstMention() (User, bool) {
	if len(m.Mentions) == 0 {
		return User{}, false
	}
	return m.Mentions[0], true
}

// CollectResult is the single resolution of a collection window: either a
// received message or a timeout.
type CollectResult struct {
	Received *CollectedMessage
	TimedOut bool
}
