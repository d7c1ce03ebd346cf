// Package policy decides who may see and change users and tickets.
//
// Every ticket read or write goes through TicketVisible so that soft-deleted
// tickets and tickets of suspended owners are filtered in exactly one place.
package policy

import (
	"github.com/spec-kit/expense-service/internal/domain"
	apperrors "github.com/spec-kit/expense-service/pkg/util/errorutil"
)

// Capability names an action gated by role.
type Capability string

const (
	CapCreateTicket  Capability = "ticket:create"
	CapEditOwnTicket Capability = "ticket:edit_own"
	CapReviewTicket  Capability = "ticket:review"
	CapManageUsers   Capability = "users:manage"
)

var roleCapabilities = map[domain.Role]map[Capability]struct{}{
	domain.RoleEmployee: {
		CapCreateTicket:  {},
		CapEditOwnTicket: {},
	},
	domain.RoleEmployer: {
		CapReviewTicket: {},
		CapManageUsers:  {},
	},
}

// Allows reports whether role carries capability.
func Allows(role domain.Role, capability Capability) bool {
	caps, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	_, ok = caps[capability]
	return ok
}

// CheckActive rejects missing or suspended callers.
func CheckActive(caller *domain.User) error {
	if caller == nil {
		return apperrors.NewUnauthenticated("authentication required")
	}
	if caller.IsSuspended {
		return apperrors.NewForbidden("user suspended")
	}
	return nil
}

// Authorize runs the suspension check and then the role check for capability.
func Authorize(caller *domain.User, capability Capability) error {
	if err := CheckActive(caller); err != nil {
		return err
	}
	if !Allows(caller.Role, capability) {
		return apperrors.NewForbidden("forbidden")
	}
	return nil
}
