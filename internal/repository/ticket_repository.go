package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/expense-service/internal/domain"
)

const ticketColumns = `id, user_id, spent_at, amount, currency, description, link, status, is_soft_deleted, created_at, updated_at`

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (user_id, spent_at, amount, currency, description, link, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, is_soft_deleted, created_at, updated_at`

	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusPending
	}
	return r.pool.QueryRow(ctx, query,
		ticket.UserID,
		ticket.SpentAt,
		ticket.Amount,
		ticket.Currency,
		ticket.Description,
		ticket.Link,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.IsSoftDeleted, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return scanTicket(r.pool.QueryRow(ctx, query, id))
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id::text=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC`,
		ticketColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Update(ctx context.Context, id string, patch domain.TicketPatch) (*domain.Ticket, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	if patch.SpentAt != nil {
		add("spent_at", *patch.SpentAt)
	}
	if patch.Amount != nil {
		add("amount", *patch.Amount)
	}
	if patch.Currency != nil {
		add("currency", *patch.Currency)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Link != nil {
		add("link", *patch.Link)
	}
	var guard string
	if patch.Status != nil {
		add("status", *patch.Status)
		// only pending tickets (or ones already in the target state) may change status
		guard = fmt.Sprintf(" AND (status=$%d OR status='pending')", len(args))
	}
	if patch.IsSoftDeleted != nil && *patch.IsSoftDeleted {
		// soft deletion only ever moves forward
		sets = append(sets, "is_soft_deleted=TRUE")
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$%d%s RETURNING %s`,
		strings.Join(sets, ", "), len(args), guard, ticketColumns)
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, ErrNotFound) && guard != "" {
		// distinguish a missing ticket from one whose status moved on
		if _, getErr := r.GetByID(ctx, id); getErr == nil {
			return nil, ErrStatusConflict
		}
	}
	return ticket, err
}

func (r *ticketRepository) SoftDelete(ctx context.Context, id string) (*domain.Ticket, error) {
	deleted := true
	return r.Update(ctx, id, domain.TicketPatch{IsSoftDeleted: &deleted})
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.SpentAt,
		&ticket.Amount,
		&ticket.Currency,
		&ticket.Description,
		&ticket.Link,
		&ticket.Status,
		&ticket.IsSoftDeleted,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
