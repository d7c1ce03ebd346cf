package policy

import (
	"testing"

	"github.com/spec-kit/expense-service/internal/domain"
	apperrors "github.com/spec-kit/expense-service/pkg/util/errorutil"
)

func employee(id string) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleEmployee}
}

func employer(id string) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleEmployer}
}

func TestTicketVisible(t *testing.T) {
	e1 := employee("e1")
	e2 := employee("e2")
	boss := employer("x")
	suspended := &domain.User{ID: "e3", Role: domain.RoleEmployee, IsSuspended: true}

	own := &domain.Ticket{ID: "t1", UserID: "e1"}
	deleted := &domain.Ticket{ID: "t2", UserID: "e1", IsSoftDeleted: true}
	ofSuspended := &domain.Ticket{ID: "t3", UserID: "e3"}

	cases := []struct {
		name   string
		viewer *domain.User
		ticket *domain.Ticket
		owner  *domain.User
		want   bool
	}{
		{"owner sees own", e1, own, e1, true},
		{"other employee", e2, own, e1, false},
		{"owner cannot see deleted", e1, deleted, e1, false},
		{"employer sees active owner", boss, own, e1, true},
		{"employer cannot see deleted", boss, deleted, e1, false},
		{"employer cannot see suspended owner", boss, ofSuspended, suspended, false},
		{"employer without owner", boss, own, nil, false},
		{"employer with mismatched owner", boss, own, e2, false},
		{"nil viewer", nil, own, e1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TicketVisible(tc.viewer, tc.ticket, tc.owner); got != tc.want {
				t.Fatalf("TicketVisible = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRequireVisibleIsNotFound(t *testing.T) {
	err := RequireVisible(employee("e2"), &domain.Ticket{ID: "t1", UserID: "e1"}, nil)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFilterVisiblePreservesOrder(t *testing.T) {
	boss := employer("x")
	owners := map[string]*domain.User{
		"e1": employee("e1"),
		"e2": {ID: "e2", Role: domain.RoleEmployee, IsSuspended: true},
	}
	tickets := []domain.Ticket{
		{ID: "a", UserID: "e1"},
		{ID: "b", UserID: "e2"},
		{ID: "c", UserID: "e1", IsSoftDeleted: true},
		{ID: "d", UserID: "e1"},
		{ID: "e", UserID: "ghost"},
	}
	got := FilterVisible(boss, tickets, owners)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "d" {
		t.Fatalf("unexpected visible set: %+v", got)
	}
}

func TestAuthorize(t *testing.T) {
	cases := []struct {
		name   string
		caller *domain.User
		cap    Capability
		code   string
	}{
		{"employee creates", employee("e1"), CapCreateTicket, ""},
		{"employee reviews", employee("e1"), CapReviewTicket, apperrors.CodeForbidden},
		{"employer reviews", employer("x"), CapReviewTicket, ""},
		{"employer creates", employer("x"), CapCreateTicket, apperrors.CodeForbidden},
		{"employer manages users", employer("x"), CapManageUsers, ""},
		{"employee manages users", employee("e1"), CapManageUsers, apperrors.CodeForbidden},
		{"suspended employer", &domain.User{ID: "x", Role: domain.RoleEmployer, IsSuspended: true}, CapReviewTicket, apperrors.CodeForbidden},
		{"anonymous", nil, CapCreateTicket, apperrors.CodeUnauthenticated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.caller, tc.cap)
			if tc.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !apperrors.IsCode(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestCheckOwnerMutation(t *testing.T) {
	e1 := employee("e1")

	pending := &domain.Ticket{ID: "t", UserID: "e1", Status: domain.TicketStatusPending}
	if err := CheckOwnerMutation(e1, pending, ActionUpdate); err != nil {
		t.Fatalf("owner should edit pending ticket: %v", err)
	}

	approved := &domain.Ticket{ID: "t", UserID: "e1", Status: domain.TicketStatusApproved}
	err := CheckOwnerMutation(e1, approved, ActionUpdate)
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := apperrors.ToDomainError(err).Message; got != "only pending ticket can be updated" {
		t.Fatalf("unexpected message %q", got)
	}

	err = CheckOwnerMutation(e1, approved, ActionDelete)
	if got := apperrors.ToDomainError(err).Message; got != "only pending ticket can be deleted" {
		t.Fatalf("unexpected message %q", got)
	}

	foreign := &domain.Ticket{ID: "t", UserID: "e2", Status: domain.TicketStatusApproved}
	if err := CheckOwnerMutation(e1, foreign, ActionDelete); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found for foreign ticket, got %v", err)
	}

	gone := &domain.Ticket{ID: "t", UserID: "e1", Status: domain.TicketStatusPending, IsSoftDeleted: true}
	if err := CheckOwnerMutation(e1, gone, ActionUpdate); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found for deleted ticket, got %v", err)
	}

	if err := CheckOwnerMutation(employer("x"), pending, ActionUpdate); !apperrors.IsCode(err, apperrors.CodeForbidden) {
		t.Fatalf("expected forbidden for employer, got %v", err)
	}
}

func TestReview(t *testing.T) {
	cases := []struct {
		current  domain.TicketStatus
		decision Decision
		next     domain.TicketStatus
		changed  bool
		conflict bool
	}{
		{domain.TicketStatusPending, DecisionApprove, domain.TicketStatusApproved, true, false},
		{domain.TicketStatusPending, DecisionDeny, domain.TicketStatusDenied, true, false},
		{domain.TicketStatusApproved, DecisionApprove, domain.TicketStatusApproved, false, false},
		{domain.TicketStatusDenied, DecisionDeny, domain.TicketStatusDenied, false, false},
		{domain.TicketStatusDenied, DecisionApprove, domain.TicketStatusDenied, false, true},
		{domain.TicketStatusApproved, DecisionDeny, domain.TicketStatusApproved, false, true},
	}
	for _, tc := range cases {
		t.Run(string(tc.current)+"_"+string(tc.decision), func(t *testing.T) {
			next, changed, err := Review(tc.current, tc.decision)
			if tc.conflict != apperrors.IsCode(err, apperrors.CodeConflict) {
				t.Fatalf("conflict = %v, err = %v", tc.conflict, err)
			}
			if next != tc.next || changed != tc.changed {
				t.Fatalf("got (%s, %v), want (%s, %v)", next, changed, tc.next, tc.changed)
			}
			if err == nil && !CanTransition(tc.current, next) {
				t.Fatalf("review produced illegal transition %s -> %s", tc.current, next)
			}
		})
	}
}

func TestCanTransitionTerminalStates(t *testing.T) {
	if CanTransition(domain.TicketStatusApproved, domain.TicketStatusPending) {
		t.Fatal("approved must not return to pending")
	}
	if CanTransition(domain.TicketStatusDenied, domain.TicketStatusApproved) {
		t.Fatal("denied must not become approved")
	}
	if !CanTransition(domain.TicketStatusPending, domain.TicketStatusDenied) {
		t.Fatal("pending must be deniable")
	}
}
