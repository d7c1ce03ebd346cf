package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spec-kit/expense-service/internal/domain"
	"github.com/spec-kit/expense-service/internal/repository"
)

// steppingClock returns strictly increasing timestamps.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	current := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func mustCreateUser(t *testing.T, users repository.UserRepository, email string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, Username: email, Role: role, PasswordHash: "x"}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func TestUserEmailUniqueness(t *testing.T) {
	store := NewMemory(WithClock(steppingClock()))
	users := store.Users()

	first := mustCreateUser(t, users, "a@example.com", domain.RoleEmployee)
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamps, got %+v", first)
	}

	dup := &domain.User{Email: "a@example.com", Username: "dup", Role: domain.RoleEmployer}
	if err := users.Create(context.Background(), dup); !errors.Is(err, repository.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	// emails are compared as stored
	mustCreateUser(t, users, "A@example.com", domain.RoleEmployee)
	mustCreateUser(t, users, "b@example.com", domain.RoleEmployee)
}

func TestSetSuspendedAndListEmployees(t *testing.T) {
	store := NewMemory(WithClock(steppingClock()))
	users := store.Users()
	ctx := context.Background()

	e1 := mustCreateUser(t, users, "e1@example.com", domain.RoleEmployee)
	e2 := mustCreateUser(t, users, "e2@example.com", domain.RoleEmployee)
	mustCreateUser(t, users, "boss@example.com", domain.RoleEmployer)

	updated, err := users.SetSuspended(ctx, e2.ID, true)
	if err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if !updated.IsSuspended || !updated.UpdatedAt.After(e2.UpdatedAt) {
		t.Fatalf("expected suspended user with advanced updated_at, got %+v", updated)
	}

	all, err := users.ListEmployees(ctx, repository.EmployeeFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != e1.ID || all[1].ID != e2.ID {
		t.Fatalf("expected both employees in creation order, got %+v", all)
	}

	suspended := true
	only, _ := users.ListEmployees(ctx, repository.EmployeeFilter{Suspended: &suspended})
	if len(only) != 1 || only[0].ID != e2.ID {
		t.Fatalf("expected only e2, got %+v", only)
	}

	if _, err := users.SetSuspended(ctx, "missing", true); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListByIDsSkipsUnknown(t *testing.T) {
	store := NewMemory()
	users := store.Users()
	e1 := mustCreateUser(t, users, "e1@example.com", domain.RoleEmployee)

	got, err := users.ListByIDs(context.Background(), []string{e1.ID, "ghost", e1.ID})
	if err != nil {
		t.Fatalf("list by ids: %v", err)
	}
	if len(got) != 1 || got[0].ID != e1.ID {
		t.Fatalf("unexpected users: %+v", got)
	}
}

func TestTicketLifecycle(t *testing.T) {
	store := NewMemory(WithClock(steppingClock()))
	tickets := store.Tickets()
	ctx := context.Background()

	first := &domain.Ticket{UserID: "e1", Amount: 10, Currency: "USD", SpentAt: time.Now()}
	second := &domain.Ticket{UserID: "e1", Amount: 20, Currency: "EUR", SpentAt: time.Now()}
	other := &domain.Ticket{UserID: "e2", Amount: 30, Currency: "USD", SpentAt: time.Now()}
	for _, tk := range []*domain.Ticket{first, second, other} {
		if err := tickets.Create(ctx, tk); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if first.Status != domain.TicketStatusPending {
		t.Fatalf("expected pending default, got %s", first.Status)
	}

	owner := "e1"
	mine, err := tickets.List(ctx, repository.TicketFilter{UserID: &owner})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != second.ID {
		t.Fatalf("expected newest first for e1, got %+v", mine)
	}

	approved := domain.TicketStatusApproved
	if _, err := tickets.Update(ctx, other.ID, domain.TicketPatch{Status: &approved}); err != nil {
		t.Fatalf("update: %v", err)
	}
	byStatus, _ := tickets.List(ctx, repository.TicketFilter{Statuses: []domain.TicketStatus{approved}})
	if len(byStatus) != 1 || byStatus[0].ID != other.ID {
		t.Fatalf("expected only approved ticket, got %+v", byStatus)
	}

	deleted, err := tickets.SoftDelete(ctx, first.ID)
	if err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if !deleted.IsSoftDeleted {
		t.Fatal("expected soft-deleted flag")
	}

	undelete := false
	after, err := tickets.Update(ctx, first.ID, domain.TicketPatch{IsSoftDeleted: &undelete})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !after.IsSoftDeleted {
		t.Fatal("soft deletion must not be reversed")
	}

	if _, err := tickets.GetByID(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	store := NewMemory()
	tickets := store.Tickets()
	ctx := context.Background()

	tk := &domain.Ticket{UserID: "e1", Amount: 10, Currency: "USD", SpentAt: time.Now()}
	if err := tickets.Create(ctx, tk); err != nil {
		t.Fatalf("create: %v", err)
	}
	tk.Amount = 999

	got, _ := tickets.GetByID(ctx, tk.ID)
	got.Currency = "XXX"
	again, _ := tickets.GetByID(ctx, tk.ID)
	if again.Amount != 10 || again.Currency != "USD" {
		t.Fatalf("stored ticket was mutated through a returned pointer: %+v", again)
	}
}

func TestOpenReloadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	user := mustCreateUser(t, store.Users(), "e1@example.com", domain.RoleEmployee)
	desc := "taxi"
	ticket := &domain.Ticket{UserID: user.ID, Amount: 12.5, Currency: "USD", Description: &desc, SpentAt: time.Now()}
	if err := store.Tickets().Create(ctx, ticket); err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "tickets.json")); err != nil {
		t.Fatalf("expected tickets.json: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	gotUser, err := reopened.Users().GetByEmail(ctx, "e1@example.com")
	if err != nil || gotUser.ID != user.ID {
		t.Fatalf("user not reloaded: %v %+v", err, gotUser)
	}
	gotTicket, err := reopened.Tickets().GetByID(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("ticket not reloaded: %v", err)
	}
	if gotTicket.Amount != 12.5 || gotTicket.Description == nil || *gotTicket.Description != "taxi" {
		t.Fatalf("unexpected reloaded ticket %+v", gotTicket)
	}
	if err := reopened.Users().Create(ctx, &domain.User{Email: "e1@example.com"}); !errors.Is(err, repository.ErrEmailExists) {
		t.Fatalf("email index not rebuilt: %v", err)
	}
	if err := reopened.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestStatusPatchRespectsTerminalStates(t *testing.T) {
	store := NewMemory(WithClock(steppingClock()))
	tickets := store.Tickets()
	ctx := context.Background()

	tk := &domain.Ticket{UserID: "e1", Amount: 10, Currency: "USD", SpentAt: time.Now()}
	if err := tickets.Create(ctx, tk); err != nil {
		t.Fatalf("create: %v", err)
	}
	approved := domain.TicketStatusApproved
	denied := domain.TicketStatusDenied

	if _, err := tickets.Update(ctx, tk.ID, domain.TicketPatch{Status: &approved}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := tickets.Update(ctx, tk.ID, domain.TicketPatch{Status: &denied}); !errors.Is(err, repository.ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict, got %v", err)
	}
	got, _ := tickets.GetByID(ctx, tk.ID)
	if got.Status != domain.TicketStatusApproved {
		t.Fatalf("approved ticket was moved to %s", got.Status)
	}
	if _, err := tickets.Update(ctx, tk.ID, domain.TicketPatch{Status: &approved}); err != nil {
		t.Fatalf("repeating the stored status should succeed: %v", err)
	}
}
