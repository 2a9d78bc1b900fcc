package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Board          *handlers.BoardHandler
	Analytics      *handlers.AnalyticsHandler
	Users          *handlers.UsersHandler
	WhatsApp       *handlers.WhatsAppHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)
	authed := app.Group("", cfg.AuthMiddleware.Handle)
	authed.Post("/auth/logout", cfg.Auth.Logout)
	authed.Get("/auth/me", cfg.Auth.Me)

	authed.Post("/tickets", auth.RequireLevel(domain.AccessLevelIntake), cfg.Tickets.CreateTicket)

	boardAccess := auth.RequireLevel(domain.AccessLevelBoard)
	authed.Get("/tickets", boardAccess, cfg.Tickets.ListTickets)
	authed.Get("/tickets/:id", boardAccess, cfg.Tickets.GetTicket)
	authed.Get("/tickets/:id/history", boardAccess, cfg.Tickets.History)
	authed.Post("/tickets/:id/status", boardAccess, cfg.Tickets.ChangeStatus)
	authed.Patch("/tickets/:id", boardAccess, cfg.Tickets.EditTicket)

	boardGroup := authed.Group("/board", boardAccess)
	boardGroup.Get("", cfg.Board.Board)
	boardGroup.Post("/tickets/:id/drop", cfg.Board.Drop)
	boardGroup.Post("/tickets/:id/resolve", cfg.Board.Resolve)
	boardGroup.Get("/attendants/:name/contact", cfg.Board.Contact)

	authed.Post("/api/whatsapp/send", boardAccess, cfg.WhatsApp.Send)

	analyticsGroup := authed.Group("/analytics", auth.RequireLevel(domain.AccessLevelAnalytics))
	analyticsGroup.Get("/dashboard", cfg.Analytics.Dashboard)
	analyticsGroup.Get("/performance", cfg.Analytics.Performance)

	admin := authed.Group("/admin", auth.RequireLevel(domain.AccessLevelAnalytics))
	admin.Get("/metrics", cfg.Health.Metrics)
	admin.Get("/users", cfg.Users.List)
	admin.Post("/users", cfg.Users.Create)
	admin.Put("/users/:id", cfg.Users.Update)
	admin.Delete("/users/:id", cfg.Users.Delete)
	admin.Post("/users/:id/toggle", cfg.Users.Toggle)
}
