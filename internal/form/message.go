package form

// Severity classifies the status banner.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Message is the single status banner shown above the form.
type Message struct {
	Text     string
	Severity Severity
	Visible  bool
}

// Show replaces the banner content and makes it visible.
func (m *Message) Show(text string, severity Severity) {
	switch severity {
	case SeveritySuccess, SeverityError:
	default:
		severity = SeverityInfo
	}
	m.Text = text
	m.Severity = severity
	m.Visible = true
}

// Hide clears the banner.
func (m *Message) Hide() {
	*m = Message{}
}
