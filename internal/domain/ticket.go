package domain

import "time"

// TicketStatus enumerates review states for expense tickets.
type TicketStatus string

const (
	TicketStatusPending  TicketStatus = "pending"
	TicketStatusApproved TicketStatus = "approved"
	TicketStatusDenied   TicketStatus = "denied"
)

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusPending, TicketStatusApproved, TicketStatusDenied:
		return true
	}
	return false
}

// CanMoveTo reports whether the status machine permits s -> next. approved and
// denied are terminal apart from their self-loop.
func (s TicketStatus) CanMoveTo(next TicketStatus) bool {
	if s == next {
		return s.Valid()
	}
	return s == TicketStatusPending && (next == TicketStatusApproved || next == TicketStatusDenied)
}

// Ticket is an expense claim submitted by an employee.
type Ticket struct {
	ID            string
	UserID        string
	SpentAt       time.Time
	Amount        float64
	Currency      string
	Description   *string
	Link          *string
	Status        TicketStatus
	IsSoftDeleted bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TicketPatch lists the ticket fields a single update may change. Nil fields are left as is.
type TicketPatch struct {
	SpentAt       *time.Time
	Amount        *float64
	Currency      *string
	Description   *string
	Link          *string
	Status        *TicketStatus
	IsSoftDeleted *bool
}

// Empty reports whether the patch changes nothing.
func (p TicketPatch) Empty() bool {
	return p.SpentAt == nil && p.Amount == nil && p.Currency == nil &&
		p.Description == nil && p.Link == nil && p.Status == nil && p.IsSoftDeleted == nil
}

// Apply copies the non-nil patch fields onto t. Soft deletion is never reversed.
func (p TicketPatch) Apply(t *Ticket) {
	if p.SpentAt != nil {
		t.SpentAt = *p.SpentAt
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Currency != nil {
		t.Currency = *p.Currency
	}
	if p.Description != nil {
		t.Description = p.Description
	}
	if p.Link != nil {
		t.Link = p.Link
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.IsSoftDeleted != nil && *p.IsSoftDeleted {
		t.IsSoftDeleted = true
	}
}
