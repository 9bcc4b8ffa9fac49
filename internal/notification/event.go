package notification

import (
	"context"
	"time"
)

// Event type constants
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingCancelled = "booking.cancelled"
	TypeReviewSubmitted  = "review.submitted"
	TypeReviewApproved   = "review.approved"
	TypeReviewRejected   = "review.rejected"
)

// Event is the envelope published to the broker and pushed to the admin feed.
type Event struct {
	Type       string    `json:"type"`
	EntityID   string    `json:"entity_id"`
	TourID     string    `json:"tour_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

func NewEvent(typ, entityID, tourID string, payload any) Event {
	return Event{
		Type:       typ,
		EntityID:   entityID,
		TourID:     tourID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher delivers events. Callers treat delivery as best effort.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

// Nop returns a Publisher that drops every event.
func Nop() Publisher { return nopPublisher{} }

// Fanout delivers to every publisher and returns the first error seen.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, ev Event) error {
	var first error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
