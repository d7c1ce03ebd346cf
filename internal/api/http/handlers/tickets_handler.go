package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/expense-service/internal/api/dto"
	"github.com/spec-kit/expense-service/internal/auth"
	"github.com/spec-kit/expense-service/internal/domain"
	"github.com/spec-kit/expense-service/internal/service"
	apperrors "github.com/spec-kit/expense-service/pkg/util/errorutil"
)

// accepted spent_at layouts, most specific first
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// TicketsHandler manages ticket endpoints for both roles.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	caller, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.SpentAt == "" || req.Amount == nil || strings.TrimSpace(req.Currency) == "" {
		return apperrors.NewValidationError("spent_at, amount, currency required", nil)
	}
	spentAt, err := parseTime(req.SpentAt)
	if err != nil {
		return err
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), caller, service.TicketCreateInput{
		SpentAt:     spentAt,
		Amount:      *req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		Link:        req.Link,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	caller, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	filter, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListTickets(c.UserContext(), caller, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketList(tickets)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	caller, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// UpdateTicket PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	caller, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.TicketUpdateInput{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		Link:        req.Link,
	}
	if req.SpentAt != nil {
		spentAt, err := parseTime(*req.SpentAt)
		if err != nil {
			return err
		}
		input.SpentAt = &spentAt
	}

	ticket, err := h.service.UpdateTicket(c.UserContext(), caller, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	caller, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.DeleteTicket(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ApproveTicket POST /tickets/:id/approve.
func (h *TicketsHandler) ApproveTicket(c *fiber.Ctx) error {
	caller, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.ApproveTicket(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// DenyTicket POST /tickets/:id/deny.
func (h *TicketsHandler) DenyTicket(c *fiber.Ctx) error {
	caller, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.DenyTicket(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

func parseTicketQuery(c *fiber.Ctx) (service.TicketListFilter, error) {
	filter := service.TicketListFilter{}
	statusStr := c.Query("status")
	if statusStr == "" {
		return filter, nil
	}
	for _, part := range strings.Split(statusStr, ",") {
		status := domain.TicketStatus(strings.ToLower(strings.TrimSpace(part)))
		if !status.Valid() {
			return filter, apperrors.NewValidationError("invalid status filter", map[string]any{"status": part})
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	return filter, nil
}

func parseTime(val string) (time.Time, error) {
	val = strings.TrimSpace(val)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperrors.NewValidationError("malformed date", map[string]any{"field": "spent_at"})
}
