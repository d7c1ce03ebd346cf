package service

import (
	"context"
	"strings"

	"github.com/spec-kit/expense-service/internal/domain"
	"github.com/spec-kit/expense-service/internal/events"
	"github.com/spec-kit/expense-service/internal/policy"
	"github.com/spec-kit/expense-service/internal/repository"
	apperrors "github.com/spec-kit/expense-service/pkg/util/errorutil"
)

// EmployeeService lets employers list and suspend accounts.
type EmployeeService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewEmployeeService constructs the service.
func NewEmployeeService(users repository.UserRepository, dispatcher events.Dispatcher) *EmployeeService {
	return &EmployeeService{users: users, dispatcher: dispatcher}
}

// ListEmployees returns employee accounts. A nil suspended includes everyone.
func (s *EmployeeService) ListEmployees(ctx context.Context, caller *domain.User, suspended *bool) ([]domain.User, error) {
	if err := policy.Authorize(caller, policy.CapManageUsers); err != nil {
		return nil, err
	}
	return s.users.ListEmployees(ctx, repository.EmployeeFilter{Suspended: suspended})
}

// Suspend blocks userID from using the API. Already suspended users are returned as is.
func (s *EmployeeService) Suspend(ctx context.Context, caller *domain.User, userID string) (*domain.User, error) {
	return s.setSuspended(ctx, caller, userID, true)
}

// Activate lifts a suspension.
func (s *EmployeeService) Activate(ctx context.Context, caller *domain.User, userID string) (*domain.User, error) {
	return s.setSuspended(ctx, caller, userID, false)
}

func (s *EmployeeService) setSuspended(ctx context.Context, caller *domain.User, userID string, suspended bool) (*domain.User, error) {
	if err := policy.Authorize(caller, policy.CapManageUsers); err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewNotFound("user")
	}
	user, err := s.users.SetSuspended(ctx, userID, suspended)
	if err != nil {
		return nil, notFoundAs(err, apperrors.NewNotFound("user"))
	}

	eventType := events.EventUserActivated
	if suspended {
		eventType = events.EventUserSuspended
	}
	publish(ctx, s.dispatcher, events.Event{
		Type:      eventType,
		SubjectID: user.ID,
		Actor:     actorOf(caller),
		Payload:   userPayload(user),
	})
	return user, nil
}
