package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"community-sport/backend/internal/logger"

	"github.com/nats-io/nats.go"
)

const (
	SubjectProgramCreated       = "program.created"
	SubjectAppointmentCreated   = "appointment.created"
	SubjectAppointmentUpdated   = "appointment.updated"
	SubjectAppointmentCancelled = "appointment.cancelled"
	SubjectRoleChanged          = "role.changed"
)

// Publisher emits domain events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

// Envelope is the wire shape of every event.
type Envelope struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

type NatsPublisher struct {
	conn *nats.Conn
	log  *logger.Logger
}

func NewNatsPublisher(natsURL string, log *logger.Logger) (*NatsPublisher, error) {
	nc, err := nats.Connect(natsURL, nats.Name("community-sport-api"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NatsPublisher{conn: nc, log: log}, nil
}

func (p *NatsPublisher) Publish(ctx context.Context, subject string, payload any) error {
	data, err := Encode(subject, payload, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.log.ErrorContext(ctx, "Error publishing to NATS", "subject", subject, "error", err)
		return err
	}
	p.log.DebugContext(ctx, "Published event", "subject", subject)
	return nil
}

func (p *NatsPublisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	_ = p.conn.Drain()
}

// Encode wraps payload in an Envelope and marshals it.
func Encode(subject string, payload any, at time.Time) ([]byte, error) {
	b, err := json.Marshal(Envelope{EventType: subject, OccurredAt: at, Data: payload})
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", subject, err)
	}
	return b, nil
}

// Nop discards events. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
