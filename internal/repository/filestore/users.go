package filestore

import (
	"context"
	"sort"

	"github.com/spec-kit/expense-service/internal/domain"
	"github.com/spec-kit/expense-service/internal/repository"
)

type userStore struct {
	s *Store
}

func (r userStore) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.byEmail[user.Email]; exists {
		return repository.ErrEmailExists
	}
	now := r.s.now()
	user.ID = newID()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.s.users[stored.ID] = &stored
	r.s.byEmail[stored.Email] = stored.ID
	if err := r.s.saveUsers(); err != nil {
		delete(r.s.users, stored.ID)
		delete(r.s.byEmail, stored.Email)
		return err
	}
	return nil
}

func (r userStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r userStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *r.s.users[id]
	return &out, nil
}

func (r userStore) ListByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]domain.User, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if u, ok := r.s.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r userStore) SetSuspended(_ context.Context, id string, suspended bool) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	prev := *u
	u.IsSuspended = suspended
	u.UpdatedAt = r.s.now()
	if err := r.s.saveUsers(); err != nil {
		*u = prev
		return nil, err
	}
	out := *u
	return &out, nil
}

func (r userStore) ListEmployees(_ context.Context, filter repository.EmployeeFilter) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []domain.User{}
	for _, u := range r.s.users {
		if u.Role != domain.RoleEmployee {
			continue
		}
		if filter.Suspended != nil && u.IsSuspended != *filter.Suspended {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}
