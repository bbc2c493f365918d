package webhook

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zendra/zendra-go/zendra"
)

// EventType identifies the kind of webhook event.
type EventType string

const (
	EventTicketCreated  EventType = "ticket.created"
	EventTicketUpdated  EventType = "ticket.updated"
	EventTicketDeleted  EventType = "ticket.deleted"
	EventCommentCreated EventType = "comment.created"
)

// Event is the envelope every webhook delivery carries. Payload stays raw
// until decoded through the typed accessors.
type Event struct {
	ID         string          `json:"id" validate:"required"`
	Type       EventType       `json:"type" validate:"required,oneof=ticket.created ticket.updated ticket.deleted comment.created"`
	OccurredAt time.Time       `json:"occurred_at" validate:"required"`
	Payload    json.RawMessage `json:"payload" validate:"required"`
}

// TicketPayload is the payload of ticket.* events. Changes lists the
// updated field names for ticket.updated, empty otherwise.
type TicketPayload struct {
	Ticket  zendra.Ticket `json:"ticket" validate:"required"`
	Changes []string      `json:"changes,omitempty"`
}

// CommentPayload is the payload of comment.created events.
type CommentPayload struct {
	Comment zendra.Comment `json:"comment" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseEvent decodes and validates a webhook event envelope. It does not
// verify the delivery signature; do that first with a Verifier.
func ParseEvent(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("webhook: invalid event body: %w", err)
	}
	if err := validate.Struct(&ev); err != nil {
		return nil, fmt.Errorf("webhook: invalid event: %w", err)
	}
	return &ev, nil
}

// Ticket decodes the payload of a ticket.* event.
func (e *Event) Ticket() (*TicketPayload, error) {
	switch e.Type {
	case EventTicketCreated, EventTicketUpdated, EventTicketDeleted:
	default:
		return nil, fmt.Errorf("webhook: event %s carries no ticket payload", e.Type)
	}
	var p TicketPayload
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return nil, fmt.Errorf("webhook: invalid ticket payload: %w", err)
	}
	return &p, nil
}

// Comment decodes the payload of a comment.created event.
func (e *Event) Comment() (*CommentPayload, error) {
	if e.Type != EventCommentCreated {
		return nil, fmt.Errorf("webhook: event %s carries no comment payload", e.Type)
	}
	var p CommentPayload
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return nil, fmt.Errorf("webhook: invalid comment payload: %w", err)
	}
	return &p, nil
}
