package email

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// ContactEmailData is a stored contact message as the owner sees it.
type ContactEmailData struct {
	ID         string
	Name       string
	Email      string
	Subject    string
	Message    string
	ReceivedAt time.Time
	AppName    string
}

// BuildContactNotificationEmail tells the site owner a visitor wrote in.
// Replies go straight to the visitor.
func BuildContactNotificationEmail(to []string, data ContactEmailData) Message {
	appName := data.AppName
	if appName == "" {
		appName = "vlog"
	}

	subject := fmt.Sprintf("[%s] New message: %s", appName, oneLine(data.Subject))
	received := data.ReceivedAt.UTC().Format("2006-01-02 15:04 MST")

	textBody := fmt.Sprintf(`New contact message (%s)

From: %s <%s>
Subject: %s
Received: %s

%s
`,
		data.ID, data.Name, data.Email, data.Subject, received, data.Message)

	esc := html.EscapeString
	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">New contact message</h2>
    <p><strong>From:</strong> %s &lt;%s&gt;</p>
    <p><strong>Subject:</strong> %s</p>
    <p style="color: #6b7280; font-size: 14px;">Received %s &middot; id %s</p>
    <div style="background-color: #f3f4f6; padding: 10px 15px; border-radius: 4px; white-space: pre-wrap;">%s</div>
</body>
</html>`,
		esc(data.Name), esc(data.Email), esc(data.Subject), received, esc(data.ID), esc(data.Message))

	return Message{
		To:       to,
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
		ReplyTo:  oneLine(data.Email),
	}
}

// oneLine keeps user input from smuggling extra headers.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
