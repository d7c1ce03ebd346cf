package dto

import (
	"time"

	"github.com/spec-kit/expense-service/internal/domain"
)

// CreateTicketRequest payload. spent_at is kept as text so malformed dates
// surface as validation errors rather than decode failures.
type CreateTicketRequest struct {
	SpentAt     string   `json:"spent_at"`
	Amount      *float64 `json:"amount"`
	Currency    string   `json:"currency"`
	Description *string  `json:"description"`
	Link        *string  `json:"link"`
}

// UpdateTicketRequest payload. Omitted fields are left unchanged.
type UpdateTicketRequest struct {
	SpentAt     *string  `json:"spent_at"`
	Amount      *float64 `json:"amount"`
	Currency    *string  `json:"currency"`
	Description *string  `json:"description"`
	Link        *string  `json:"link"`
}

// TicketResponse is the public view of a ticket.
type TicketResponse struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	SpentAt       time.Time           `json:"spent_at"`
	Amount        float64             `json:"amount"`
	Currency      string              `json:"currency"`
	Description   *string             `json:"description"`
	Link          *string             `json:"link"`
	Status        domain.TicketStatus `json:"status"`
	IsSoftDeleted bool                `json:"is_soft_deleted"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// NewTicketResponse maps a domain ticket to its public view.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:            ticket.ID,
		UserID:        ticket.UserID,
		SpentAt:       ticket.SpentAt,
		Amount:        ticket.Amount,
		Currency:      ticket.Currency,
		Description:   ticket.Description,
		Link:          ticket.Link,
		Status:        ticket.Status,
		IsSoftDeleted: ticket.IsSoftDeleted,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
	}
}

// NewTicketList maps tickets to public views.
func NewTicketList(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}
