package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/expense-service/internal/api/dto"
	"github.com/spec-kit/expense-service/internal/auth"
	"github.com/spec-kit/expense-service/internal/service"
	apperrors "github.com/spec-kit/expense-service/pkg/util/errorutil"
)

// EmployeesHandler exposes employer-only account management.
type EmployeesHandler struct {
	employees *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employeeService *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{employees: employeeService}
}

// ListEmployees GET /employees?suspended=true|false.
func (h *EmployeesHandler) ListEmployees(c *fiber.Ctx) error {
	caller, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	var suspended *bool
	if raw := c.Query("suspended"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return apperrors.NewValidationError("suspended must be true or false", map[string]any{"suspended": raw})
		}
		suspended = &parsed
	}
	users, err := h.employees.ListEmployees(c.UserContext(), caller, suspended)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserList(users)})
}

// Suspend POST /employees/:id/suspend.
func (h *EmployeesHandler) Suspend(c *fiber.Ctx) error {
	caller, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	user, err := h.employees.Suspend(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserPublic(user)})
}

// Activate POST /employees/:id/activate.
func (h *EmployeesHandler) Activate(c *fiber.Ctx) error {
	caller, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	user, err := h.employees.Activate(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserPublic(user)})
}
