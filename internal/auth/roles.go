package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/expense-service/internal/policy"
)

// RequireCapability ensures the authenticated user's role carries capability.
func RequireCapability(capability policy.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := MustPrincipal(c)
		if err != nil {
			return err
		}
		if err := policy.Authorize(user, capability); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a principal was loaded by AuthMiddleware.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := MustPrincipal(c); err != nil {
			return err
		}
		return c.Next()
	}
}
