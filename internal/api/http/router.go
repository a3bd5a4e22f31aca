package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/helpdesk/internal/api/http/handlers"
	"github.com/deskflow/helpdesk/internal/auth"
	"github.com/deskflow/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// NewApp builds the fiber application with the settings the routes rely on.
func NewApp(appName string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               appName,
		UnescapePath:          true,
		DisableStartupMessage: true,
	})
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Auth.Logout)

	authenticated := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAnyRole()}
	app.Get("/categories", append(authenticated, cfg.Tickets.Categories)...)

	tickets := app.Group("/tickets", authenticated...)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", auth.RequireCapability(domain.Role.CanCreateTicket), cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Get("/:id/history", cfg.Tickets.History)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Post("/:id/votes", auth.RequireCapability(domain.Role.CanVote), cfg.Tickets.Vote)
	tickets.Post("/:id/assign", auth.RequireCapability(domain.Role.CanAssign), cfg.Tickets.AssignToSelf)
	tickets.Patch("/:id/status", auth.RequireCapability(domain.Role.CanChangeStatus), cfg.Tickets.ChangeStatus)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireCapability(domain.Role.CanAdminister))
	admin.Get("/stats", cfg.Admin.Stats)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/users", cfg.Admin.AddUser)
	admin.Delete("/users/:username", cfg.Admin.DeleteUser)
	admin.Get("/categories", cfg.Admin.ListCategories)
	admin.Post("/categories", cfg.Admin.AddCategory)
	admin.Delete("/categories/:index", cfg.Admin.DeleteCategory)
}
