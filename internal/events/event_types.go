package events

import (
	"time"

	"github.com/spec-kit/expense-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user.registered"
	EventUserSuspended  EventType = "user.suspended"
	EventUserActivated  EventType = "user.activated"
	EventTicketCreated  EventType = "ticket.created"
	EventTicketUpdated  EventType = "ticket.updated"
	EventTicketDeleted  EventType = "ticket.deleted"
	EventTicketApproved EventType = "ticket.approved"
	EventTicketDenied   EventType = "ticket.denied"
)

// AllEventTypes lists every event the services emit.
var AllEventTypes = []EventType{
	EventUserRegistered,
	EventUserSuspended,
	EventUserActivated,
	EventTicketCreated,
	EventTicketUpdated,
	EventTicketDeleted,
	EventTicketApproved,
	EventTicketDenied,
}

// Actor identifies who triggered an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TicketPayload carries a ticket's review-relevant fields.
type TicketPayload struct {
	OwnerID  string              `json:"owner_id"`
	Amount   float64             `json:"amount"`
	Currency string              `json:"currency"`
	Status   domain.TicketStatus `json:"status"`
}

// TicketStatusPayload describes a review decision.
type TicketStatusPayload struct {
	OwnerID   string              `json:"owner_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// UserPayload carries the public fields of an affected user.
type UserPayload struct {
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	IsSuspended bool        `json:"is_suspended"`
}
