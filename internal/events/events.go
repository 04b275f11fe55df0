// Package events publishes storefront domain events. Publishing is best
// effort: a failed publish is logged and never undoes the state change.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cbdpascher/storefront/internal/logging"
	"github.com/cbdpascher/storefront/internal/mykafka"
)

const (
	UserSignedIn   = "user_signed_in"
	UserSignedUp   = "user_signed_up"
	UserLoggedOut  = "user_logged_out"
	ProductCreated = "product_created"
	ProductUpdated = "product_updated"
	ProductDeleted = "product_deleted"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	VisitID    string    `json:"visitID"`
	OccurredAt time.Time `json:"occurredAt"`
	Email      string    `json:"email,omitempty"`
	ProductID  int       `json:"productID,omitempty"`
	Name       string    `json:"name,omitempty"`
}

func New(typ string, visitID uuid.UUID) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		VisitID:    visitID.String(),
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// KafkaPublisher writes events to a single topic keyed by visit id.
type KafkaPublisher struct {
	Producer *mykafka.Producer
	Topic    string
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	return p.Producer.PublishEvent(ctx, p.Topic, e.VisitID, e)
}

// LogPublisher is used when no brokers are configured.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, e Event) error {
	logging.FromContext(ctx).Debug("event_published",
		slog.String("type", e.Type),
		slog.String("visit_id", e.VisitID),
		slog.Int("product_id", e.ProductID),
	)
	return nil
}
