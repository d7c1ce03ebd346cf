package policy

import (
	"github.com/spec-kit/expense-service/internal/domain"
	apperrors "github.com/spec-kit/expense-service/pkg/util/errorutil"
)

// OwnerAction is a mutation an employee performs on their own ticket.
type OwnerAction string

const (
	ActionUpdate OwnerAction = "updated"
	ActionDelete OwnerAction = "deleted"
)

// Decision is a review outcome an employer applies to a ticket.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionDeny    Decision = "deny"
)

// Target returns the status a decision moves a pending ticket to.
func (d Decision) Target() domain.TicketStatus {
	if d == DecisionApprove {
		return domain.TicketStatusApproved
	}
	return domain.TicketStatusDenied
}

// CheckOwnerMutation gates field edits and soft deletes. The ticket must be
// visible to caller (which for employees means owned and not deleted) and pending.
func CheckOwnerMutation(caller *domain.User, ticket *domain.Ticket, action OwnerAction) error {
	if err := Authorize(caller, CapEditOwnTicket); err != nil {
		return err
	}
	if err := RequireVisible(caller, ticket, caller); err != nil {
		return err
	}
	if ticket.Status != domain.TicketStatusPending {
		return apperrors.NewConflict("only pending ticket can be "+string(action), map[string]any{
			"status": ticket.Status,
		})
	}
	return nil
}

// Review resolves a review decision against the current status. changed is false
// when the ticket already carries the target status; a ticket already in the
// opposite terminal state yields a conflict.
func Review(current domain.TicketStatus, decision Decision) (next domain.TicketStatus, changed bool, err error) {
	target := decision.Target()
	switch current {
	case target:
		return current, false, nil
	case domain.TicketStatusPending:
		return target, true, nil
	case domain.TicketStatusApproved:
		return current, false, apperrors.NewConflict("already approved", map[string]any{"status": current})
	case domain.TicketStatusDenied:
		return current, false, apperrors.NewConflict("already denied", map[string]any{"status": current})
	}
	return current, false, apperrors.NewConflict("unknown ticket status", map[string]any{"status": current})
}

// CanTransition reports whether the status machine permits from -> to.
func CanTransition(from, to domain.TicketStatus) bool {
	return from.CanMoveTo(to)
}
