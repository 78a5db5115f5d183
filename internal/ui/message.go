package ui

import "time"

// ButtonStyle is the visual style of a button
type ButtonStyle int

const (
	StylePrimary ButtonStyle = iota + 1
	StyleSecondary
	StyleSuccess
	StyleDanger
)

// Button is a clickable component. ID is the custom ID echoed back on click.
type Button struct {
	ID       string
	Label    string
	Style    ButtonStyle
	Disabled bool
}

// Option is one entry of a dropdown
type Option struct {
	Label       string
	Value       string
	Description string
}

// Select is a single-choice dropdown
type Select struct {
	ID          string
	Placeholder string
	Options     []Option
}

// EmbedField is a name/value pair shown in an embed
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is a rich message card
type Embed struct {
	Title       string
	URL         string
	Description string
	Colour      int
	Thumbnail   string
	Footer      string
	FooterIcon  string
	Timestamp   time.Time
	Fields      []EmbedField
}

// Message is what the bot sends or edits. Components are laid out as one row
// of buttons and one dropdown.
type Message struct {
	Content string
	Embed   *Embed
	Buttons []Button
	Select  *Select
}

// HasComponents reports whether the message carries interactive components
func (m Message) HasComponents() bool {
	return len(m.Buttons) > 0 || m.Select != nil
}

// CustomIDs returns the custom IDs of the message's components
func (m Message) CustomIDs() []string {
	ids := make([]string, 0, len(m.Buttons)+1)
	for _, b := range m.Buttons {
		ids = append(ids, b.ID)
	}
	if m.Select != nil {
		ids = append(ids, m.Select.ID)
	}
	return ids
}

// TextInput is one field of a form
type TextInput struct {
	ID          string
	Label       string
	Placeholder string
	Value       string
	Required    bool
	MinLength   int
	MaxLength   int
}

// Form is a modal dialog with text inputs
type Form struct {
	ID     string
	Title  string
	Inputs []TextInput
}
