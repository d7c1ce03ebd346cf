package http

import (
	"github.com/gofiber/fiber/v2"
)

// NewApp builds a Fiber app with the global middleware chain and all routes.
func NewApp(appName string, middleware MiddlewareConfig, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, middleware)
	RegisterRoutes(app, routes)
	return app
}
