// Package events publishes domain events on NATS. Subjects are
// "<event>.<id>", or "<prefix>.<event>.<id>" when a prefix is configured,
// with the id repeated as the payload.
package events

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/Alijeyrad/vlog_backend/config"
	"github.com/Alijeyrad/vlog_backend/pkg/constants"
)

const (
	PostCreated     = "vlog.post.created"
	ContactReceived = "contact.message.received"
)

// Bus is safe to use with a nil connection: publishing is then a no-op and
// subscriptions are skipped.
type Bus struct {
	nc     *nats.Conn
	prefix string
}

func NewBus(nc *nats.Conn, prefix string) *Bus {
	return &Bus{nc: nc, prefix: strings.TrimSuffix(prefix, ".")}
}

// Connect returns nil, nil when no URL is configured.
func Connect(cfg config.NatsConfig) (*nats.Conn, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	nc, err := nats.Connect(cfg.URL, nats.Name(constants.AppName))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return nc, nil
}

func (b *Bus) Enabled() bool { return b != nil && b.nc != nil }

func (b *Bus) Subject(event, id string) string {
	return b.subject(event) + "." + id
}

func (b *Bus) subject(event string) string {
	if b.prefix == "" {
		return event
	}
	return b.prefix + "." + event
}

func (b *Bus) Publish(event, id string) error {
	if !b.Enabled() {
		return nil
	}
	if err := b.nc.Publish(b.Subject(event, id), []byte(id)); err != nil {
		return fmt.Errorf("publish %s: %w", event, err)
	}
	return nil
}

// Subscribe calls fn with the id of every event of the given kind.
func (b *Bus) Subscribe(event string, fn func(id string)) error {
	if !b.Enabled() {
		slog.Debug("events: nats disabled, skipping subscription", "event", event)
		return nil
	}
	_, err := b.nc.Subscribe(b.subject(event)+".*", func(msg *nats.Msg) {
		id := strings.TrimSpace(string(msg.Data))
		if id == "" {
			parts := strings.Split(msg.Subject, ".")
			id = parts[len(parts)-1]
		}
		fn(id)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", event, err)
	}
	return nil
}

// Close drains the connection if there is one.
func (b *Bus) Close() error {
	if !b.Enabled() {
		return nil
	}
	return b.nc.Drain()
}
