package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/spec-kit/expense-service/internal/domain"
	"github.com/spec-kit/expense-service/internal/events"
	"github.com/spec-kit/expense-service/internal/policy"
	"github.com/spec-kit/expense-service/internal/repository"
	apperrors "github.com/spec-kit/expense-service/pkg/util/errorutil"
)

const maxCurrencyLength = 10

// TicketService coordinates expense ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	SpentAt     time.Time
	Amount      float64
	Currency    string
	Description *string
	Link        *string
}

// TicketUpdateInput describes a partial edit. Nil fields are left unchanged.
type TicketUpdateInput struct {
	SpentAt     *time.Time
	Amount      *float64
	Currency    *string
	Description *string
	Link        *string
}

// TicketListFilter narrows listings.
type TicketListFilter struct {
	Statuses []domain.TicketStatus
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket creates a pending ticket owned by caller.
func (s *TicketService) CreateTicket(ctx context.Context, caller *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if err := policy.Authorize(caller, policy.CapCreateTicket); err != nil {
		return nil, err
	}
	currency := strings.TrimSpace(input.Currency)
	if err := validateSpentAt(input.SpentAt); err != nil {
		return nil, err
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := validateCurrency(currency); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		UserID:      caller.ID,
		SpentAt:     input.SpentAt,
		Amount:      input.Amount,
		Currency:    currency,
		Description: input.Description,
		Link:        input.Link,
		Status:      domain.TicketStatusPending,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventTicketCreated,
		SubjectID: ticket.ID,
		Actor:     actorOf(caller),
		Payload:   ticketPayload(ticket),
	})
	return ticket, nil
}

// ListTickets returns the tickets visible to caller, newest first.
func (s *TicketService) ListTickets(ctx context.Context, caller *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	if err := policy.CheckActive(caller); err != nil {
		return nil, err
	}
	repoFilter := repository.TicketFilter{Statuses: filter.Statuses}
	if caller.Role == domain.RoleEmployee {
		repoFilter.UserID = &caller.ID
	}
	tickets, err := s.tickets.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	owners, err := s.ownersOf(ctx, caller, tickets)
	if err != nil {
		return nil, err
	}
	return policy.FilterVisible(caller, tickets, owners), nil
}

// GetTicket returns a single ticket visible to caller.
func (s *TicketService) GetTicket(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, error) {
	if err := policy.CheckActive(caller); err != nil {
		return nil, err
	}
	return s.loadVisible(ctx, caller, ticketID)
}

// UpdateTicket edits the caller's own pending ticket. Status is never touched.
func (s *TicketService) UpdateTicket(ctx context.Context, caller *domain.User, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	patch, err := buildPatch(input)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(caller, policy.CapEditOwnTicket); err != nil {
		return nil, err
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := policy.CheckOwnerMutation(caller, ticket, policy.ActionUpdate); err != nil {
		return nil, err
	}

	updated, err := s.tickets.Update(ctx, ticket.ID, patch)
	if err != nil {
		return nil, notFoundAs(err, policy.ErrTicketNotFound())
	}
	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventTicketUpdated,
		SubjectID: updated.ID,
		Actor:     actorOf(caller),
		Payload:   ticketPayload(updated),
	})
	return updated, nil
}

// DeleteTicket soft-deletes the caller's own pending ticket.
func (s *TicketService) DeleteTicket(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, error) {
	if err := policy.Authorize(caller, policy.CapEditOwnTicket); err != nil {
		return nil, err
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := policy.CheckOwnerMutation(caller, ticket, policy.ActionDelete); err != nil {
		return nil, err
	}

	deleted, err := s.tickets.SoftDelete(ctx, ticket.ID)
	if err != nil {
		return nil, notFoundAs(err, policy.ErrTicketNotFound())
	}
	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventTicketDeleted,
		SubjectID: deleted.ID,
		Actor:     actorOf(caller),
		Payload:   ticketPayload(deleted),
	})
	return deleted, nil
}

// ApproveTicket moves a pending ticket to approved.
func (s *TicketService) ApproveTicket(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, error) {
	return s.review(ctx, caller, ticketID, policy.DecisionApprove)
}

// DenyTicket moves a pending ticket to denied.
func (s *TicketService) DenyTicket(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, error) {
	return s.review(ctx, caller, ticketID, policy.DecisionDeny)
}

func (s *TicketService) review(ctx context.Context, caller *domain.User, ticketID string, decision policy.Decision) (*domain.Ticket, error) {
	if err := policy.Authorize(caller, policy.CapReviewTicket); err != nil {
		return nil, err
	}
	ticket, err := s.loadVisible(ctx, caller, ticketID)
	if err != nil {
		return nil, err
	}
	next, changed, err := policy.Review(ticket.Status, decision)
	if err != nil {
		return nil, err
	}
	if !changed {
		return ticket, nil
	}

	oldStatus := ticket.Status
	updated, err := s.tickets.Update(ctx, ticket.ID, domain.TicketPatch{Status: &next})
	if errors.Is(err, repository.ErrStatusConflict) {
		// another review landed first; answer from the stored status
		return s.settledReview(ctx, ticket.ID, decision)
	}
	if err != nil {
		return nil, notFoundAs(err, policy.ErrTicketNotFound())
	}

	eventType := events.EventTicketApproved
	if decision == policy.DecisionDeny {
		eventType = events.EventTicketDenied
	}
	publish(ctx, s.dispatcher, events.Event{
		Type:      eventType,
		SubjectID: updated.ID,
		Actor:     actorOf(caller),
		Payload: events.TicketStatusPayload{
			OwnerID:   updated.UserID,
			OldStatus: oldStatus,
			NewStatus: updated.Status,
		},
	})
	return updated, nil
}

func (s *TicketService) settledReview(ctx context.Context, ticketID string, decision policy.Decision) (*domain.Ticket, error) {
	current, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	_, changed, err := policy.Review(current.Status, decision)
	if err != nil {
		return nil, err
	}
	if changed {
		return nil, apperrors.NewConflict("ticket status changed", map[string]any{"status": current.Status})
	}
	return current, nil
}

// loadVisible fetches a ticket and applies the visibility rule for caller.
func (s *TicketService) loadVisible(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	owner, err := s.ownerOf(ctx, caller, ticket)
	if err != nil {
		return nil, err
	}
	if err := policy.RequireVisible(caller, ticket, owner); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	if strings.TrimSpace(ticketID) == "" {
		return nil, policy.ErrTicketNotFound()
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundAs(err, policy.ErrTicketNotFound())
	}
	return ticket, nil
}

func (s *TicketService) ownerOf(ctx context.Context, caller *domain.User, ticket *domain.Ticket) (*domain.User, error) {
	if ticket.UserID == caller.ID {
		return caller, nil
	}
	owner, err := s.users.GetByID(ctx, ticket.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return owner, nil
}

func (s *TicketService) ownersOf(ctx context.Context, caller *domain.User, tickets []domain.Ticket) (map[string]*domain.User, error) {
	owners := map[string]*domain.User{caller.ID: caller}
	ids := make([]string, 0)
	for i := range tickets {
		id := tickets[i].UserID
		if _, known := owners[id]; known {
			continue
		}
		owners[id] = nil
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return owners, nil
	}
	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range users {
		owners[users[i].ID] = &users[i]
	}
	return owners, nil
}

func buildPatch(input TicketUpdateInput) (domain.TicketPatch, error) {
	patch := domain.TicketPatch{
		SpentAt:     input.SpentAt,
		Amount:      input.Amount,
		Description: input.Description,
		Link:        input.Link,
	}
	if input.SpentAt != nil {
		if err := validateSpentAt(*input.SpentAt); err != nil {
			return patch, err
		}
	}
	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return patch, err
		}
	}
	if input.Currency != nil {
		currency := strings.TrimSpace(*input.Currency)
		if err := validateCurrency(currency); err != nil {
			return patch, err
		}
		patch.Currency = &currency
	}
	return patch, nil
}

func validateSpentAt(spentAt time.Time) error {
	if spentAt.IsZero() {
		return apperrors.NewValidationError("spent_at required", map[string]any{"field": "spent_at"})
	}
	return nil
}

func validateAmount(amount float64) error {
	if !(amount > 0) || math.IsInf(amount, 0) {
		return apperrors.NewValidationError("amount must be greater than 0", map[string]any{"field": "amount"})
	}
	return nil
}

func validateCurrency(currency string) error {
	if currency == "" {
		return apperrors.NewValidationError("currency required", map[string]any{"field": "currency"})
	}
	if len(currency) > maxCurrencyLength {
		return apperrors.NewValidationError("currency too long", map[string]any{"field": "currency", "max": maxCurrencyLength})
	}
	return nil
}

func notFoundAs(err, replacement error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return replacement
	}
	return err
}
