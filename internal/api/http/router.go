package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/expense-service/internal/api/http/handlers"
	"github.com/spec-kit/expense-service/internal/auth"
	"github.com/spec-kit/expense-service/internal/policy"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Employees      *handlers.EmployeesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Ready)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Users.Me)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", auth.RequireCapability(policy.CapCreateTicket), cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", auth.RequireCapability(policy.CapEditOwnTicket), cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", auth.RequireCapability(policy.CapEditOwnTicket), cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/approve", auth.RequireCapability(policy.CapReviewTicket), cfg.Tickets.ApproveTicket)
	tickets.Post("/:id/deny", auth.RequireCapability(policy.CapReviewTicket), cfg.Tickets.DenyTicket)

	employees := app.Group("/employees", cfg.AuthMiddleware.Handle, auth.RequireCapability(policy.CapManageUsers))
	employees.Get("/", cfg.Employees.ListEmployees)
	employees.Post("/:id/suspend", cfg.Employees.Suspend)
	employees.Post("/:id/activate", cfg.Employees.Activate)
}
