package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/expense-service/internal/domain"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrEmailExists is returned when a user with the same email is already stored.
	ErrEmailExists = errors.New("email already exists")
	// ErrStatusConflict is returned when a status patch no longer fits the stored status,
	// e.g. a concurrent review already moved the ticket out of pending.
	ErrStatusConflict = errors.New("ticket status changed")
)

// EmployeeFilter narrows employee listings. A nil Suspended returns everyone.
type EmployeeFilter struct {
	Suspended *bool
}

// TicketFilter narrows ticket listings. Visibility is not applied here.
type TicketFilter struct {
	UserID   *string
	Statuses []domain.TicketStatus
}

// UserRepository defines persistence access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.User, error)
	SetSuspended(ctx context.Context, id string, suspended bool) (*domain.User, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]domain.User, error)
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Update(ctx context.Context, id string, patch domain.TicketPatch) (*domain.Ticket, error)
	SoftDelete(ctx context.Context, id string) (*domain.Ticket, error)
}

// Pinger is implemented by stores that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
