package entity

// ButtonStyle is the visual style of an actionable control.
type ButtonStyle int

const (
	ButtonPrimary ButtonStyle = iota
	ButtonSuccess
	ButtonDanger
)

// Button is an actionable control carrying a fixed action id.
type Button struct {
	Label    string
	ActionID string
	Style    ButtonStyle
}

// Embed is a rich message card.
type Embed struct {
	Title       string
	Description string
	Color       int
	Footer      string
}

// Message is an outbound channel message.
type Message struct {
	Content string
	Embed   *Embed
	Buttons []Button
}

// Reply is an answer to an interaction. Ephemeral replies are only visible to
// the acting user.
type Reply struct {
	Content   string
	Ephemeral bool
}

// Embed colors.
const (
	ColorGreen  = 0x57F287
	ColorPurple = 0x9B59B6
)
