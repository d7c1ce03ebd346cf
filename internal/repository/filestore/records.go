package filestore

import (
	"time"

	"github.com/spec-kit/expense-service/internal/domain"
)

type userRecord struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	Username     string      `json:"username"`
	Role         domain.Role `json:"role"`
	PasswordHash string      `json:"password_hash"`
	IsSuspended  bool        `json:"is_suspended"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func newUserRecord(u *domain.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		Role:         u.Role,
		PasswordHash: u.PasswordHash,
		IsSuspended:  u.IsSuspended,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		Username:     r.Username,
		Role:         r.Role,
		PasswordHash: r.PasswordHash,
		IsSuspended:  r.IsSuspended,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type ticketRecord struct {
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

func newTicketRecord(t *domain.Ticket) ticketRecord {
	return ticketRecord{
		ID:            t.ID,
		UserID:        t.UserID,
		SpentAt:       t.SpentAt,
		Amount:        t.Amount,
		Currency:      t.Currency,
		Description:   t.Description,
		Link:          t.Link,
		Status:        t.Status,
		IsSoftDeleted: t.IsSoftDeleted,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (r ticketRecord) toDomain() *domain.Ticket {
	return &domain.Ticket{
		ID:            r.ID,
		UserID:        r.UserID,
		SpentAt:       r.SpentAt,
		Amount:        r.Amount,
		Currency:      r.Currency,
		Description:   r.Description,
		Link:          r.Link,
		Status:        r.Status,
		IsSoftDeleted: r.IsSoftDeleted,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
