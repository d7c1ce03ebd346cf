package filestore

import (
	"context"
	"sort"

	"github.com/spec-kit/expense-service/internal/domain"
	"github.com/spec-kit/expense-service/internal/repository"
)

type ticketStore struct {
	s *Store
}

func (r ticketStore) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	ticket.ID = newID()
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusPending
	}
	ticket.IsSoftDeleted = false
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	stored := *ticket
	r.s.tickets[stored.ID] = &stored
	if err := r.s.saveTickets(); err != nil {
		delete(r.s.tickets, stored.ID)
		return err
	}
	return nil
}

func (r ticketStore) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *t
	return &out, nil
}

func (r ticketStore) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var statuses map[domain.TicketStatus]struct{}
	if len(filter.Statuses) > 0 {
		statuses = make(map[domain.TicketStatus]struct{}, len(filter.Statuses))
		for _, st := range filter.Statuses {
			statuses[st] = struct{}{}
		}
	}

	result := []domain.Ticket{}
	for _, t := range r.s.tickets {
		if filter.UserID != nil && t.UserID != *filter.UserID {
			continue
		}
		if statuses != nil {
			if _, ok := statuses[t.Status]; !ok {
				continue
			}
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r ticketStore) Update(_ context.Context, id string, patch domain.TicketPatch) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Empty() {
		out := *t
		return &out, nil
	}
	if patch.Status != nil && !t.Status.CanMoveTo(*patch.Status) {
		return nil, repository.ErrStatusConflict
	}
	prev := *t
	patch.Apply(t)
	t.UpdatedAt = r.s.now()
	if err := r.s.saveTickets(); err != nil {
		*t = prev
		return nil, err
	}
	out := *t
	return &out, nil
}

func (r ticketStore) SoftDelete(ctx context.Context, id string) (*domain.Ticket, error) {
	deleted := true
	return r.Update(ctx, id, domain.TicketPatch{IsSoftDeleted: &deleted})
}
