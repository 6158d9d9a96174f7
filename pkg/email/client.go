package email

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/Alijeyrad/vlog_backend/config"
)

// Sender is what workers depend on.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Client sends mail over SMTP. A disabled client refuses every Send with
// ErrDisabled so callers can skip notification without branching on config.
type Client struct {
	cfg  Config
	dial func(*gomail.Message) error
}

func NewFromCentral(cfg config.EmailConfig) (*Client, error) {
	return New(FromCentralConfig(cfg))
}

func New(cfg Config) (*Client, error) {
	if cfg.Enabled {
		switch {
		case strings.TrimSpace(cfg.SMTPHost) == "":
			return nil, ErrInvalidConfig{Reason: "smtp host is required"}
		case strings.TrimSpace(cfg.From) == "":
			return nil, ErrInvalidConfig{Reason: "from is required"}
		}
	}

	c := &Client{cfg: cfg}
	c.dial = func(m *gomail.Message) error { return c.dialer().DialAndSend(m) }
	return c, nil
}

func (c *Client) Enabled() bool { return c != nil && c.cfg.Enabled }

// NotifyTo is the owner inbox for site notifications.
func (c *Client) NotifyTo() []string { return c.cfg.NotifyTo }

// Send blocks until the SMTP exchange finishes, ctx is done, or the
// configured timeout passes, whichever comes first. gomail has no context
// support, so an abandoned dial finishes in the background.
func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.Enabled() {
		return ErrDisabled{}
	}

	msg, err := compose(c.cfg.From, m)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.SMTPTimeout())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.dial(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return ErrSend{Provider: "smtp", Err: err}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) dialer() *gomail.Dialer {
	d := gomail.NewDialer(c.cfg.SMTPHost, c.cfg.SMTPPort, c.cfg.SMTPUsername, c.cfg.SMTPPassword)
	// 465 is implicit TLS; other ports upgrade with STARTTLS when offered.
	d.SSL = c.cfg.SMTPUseTLS && c.cfg.SMTPPort == 465
	d.TLSConfig = &tls.Config{ServerName: c.cfg.SMTPHost, MinVersion: tls.VersionTLS12}
	return d
}

func compose(from string, m Message) (*gomail.Message, error) {
	from = strings.TrimSpace(from)
	subject := strings.TrimSpace(m.Subject)
	to := nonEmpty(m.To)

	switch {
	case from == "":
		return nil, ErrInvalidMessage{Reason: "from is required"}
	case subject == "":
		return nil, ErrInvalidMessage{Reason: "subject is required"}
	case len(to) == 0:
		return nil, ErrInvalidMessage{Reason: "at least one recipient is required"}
	}

	text := strings.TrimSpace(m.TextBody) != ""
	html := strings.TrimSpace(m.HTMLBody) != ""
	if !text && !html {
		return nil, ErrInvalidMessage{Reason: "a text or html body is required"}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	if r := strings.TrimSpace(m.ReplyTo); r != "" {
		msg.SetHeader("Reply-To", r)
	}
	msg.SetHeader("Date", msg.FormatDate(time.Now()))

	switch {
	case text && html:
		msg.SetBody("text/plain", m.TextBody)
		msg.AddAlternative("text/html", m.HTMLBody)
	case html:
		msg.SetBody("text/html", m.HTMLBody)
	default:
		msg.SetBody("text/plain", m.TextBody)
	}
	return msg, nil
}

func nonEmpty(addrs []string) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
