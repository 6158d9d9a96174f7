package email

// Message is one outgoing mail. At least one body must be set; when both
// are, the HTML part is sent as the alternative.
type Message struct {
	To       []string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}
