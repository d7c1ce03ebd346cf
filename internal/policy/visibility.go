package policy

import (
	"github.com/spec-kit/expense-service/internal/domain"
	apperrors "github.com/spec-kit/expense-service/pkg/util/errorutil"
)

// TicketVisible reports whether viewer may see ticket. owner is the ticket's
// owning user and may be nil when it cannot be resolved.
//
// Employers do not see tickets of suspended owners: suspending an employee
// also pulls their expenses out of review.
func TicketVisible(viewer *domain.User, ticket *domain.Ticket, owner *domain.User) bool {
	if viewer == nil || ticket == nil || ticket.IsSoftDeleted {
		return false
	}
	switch viewer.Role {
	case domain.RoleEmployee:
		return ticket.UserID == viewer.ID
	case domain.RoleEmployer:
		return owner != nil && owner.ID == ticket.UserID && !owner.IsSuspended
	}
	return false
}

// RequireVisible returns a not-found error when the ticket is hidden from viewer.
// Hidden and missing tickets are indistinguishable to the caller.
func RequireVisible(viewer *domain.User, ticket *domain.Ticket, owner *domain.User) error {
	if !TicketVisible(viewer, ticket, owner) {
		return ErrTicketNotFound()
	}
	return nil
}

// FilterVisible keeps the tickets viewer may see, preserving order. owners is
// keyed by user id.
func FilterVisible(viewer *domain.User, tickets []domain.Ticket, owners map[string]*domain.User) []domain.Ticket {
	visible := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		if TicketVisible(viewer, &tickets[i], owners[tickets[i].UserID]) {
			visible = append(visible, tickets[i])
		}
	}
	return visible
}

// ErrTicketNotFound is the single not-found outcome for tickets.
func ErrTicketNotFound() error {
	return apperrors.NewNotFound("ticket")
}
