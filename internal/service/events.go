package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/expense-service/internal/domain"
	"github.com/spec-kit/expense-service/internal/events"
)

// publish fills in id and timestamp and hands event to dispatcher. Handler
// failures never fail the request that produced the event.
func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_ = dispatcher.Publish(ctx, event)
}

func actorOf(user *domain.User) events.Actor {
	if user == nil {
		return events.Actor{}
	}
	return events.Actor{UserID: user.ID, Role: user.Role}
}

func userPayload(user *domain.User) events.UserPayload {
	return events.UserPayload{
		Email:       user.Email,
		Role:        user.Role,
		IsSuspended: user.IsSuspended,
	}
}

func ticketPayload(ticket *domain.Ticket) events.TicketPayload {
	return events.TicketPayload{
		OwnerID:  ticket.UserID,
		Amount:   ticket.Amount,
		Currency: ticket.Currency,
		Status:   ticket.Status,
	}
}
