package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Users           *handlers.UsersHandler
	Tickets         *handlers.TicketsHandler
	Ratings         *handlers.RatingsHandler
	Assets          *handlers.AssetsHandler
	Announcements   *handlers.AnnouncementsHandler
	Escalations     *handlers.EscalationsHandler
	Reports         *handlers.ReportsHandler
	Audit           *handlers.AuditHandler
	CannedResponses *handlers.CannedResponsesHandler
	Categories      *handlers.CategoriesHandler
	SLAPolicies     *handlers.SLAPoliciesHandler
	AuthMiddleware  *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Fine-grained role checks live in the
// services behind the centralized policy gate; the route groups only
// establish authentication.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Users.ChangePassword)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	users := protected.Group("/users")
	users.Get("/", cfg.Users.ListUsers)
	users.Get("/:id", cfg.Users.GetUser)
	users.Put("/:id/role", cfg.Users.UpdateRole)

	tickets := protected.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/number/:number", cfg.Tickets.GetTicketByNumber)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Patch("/:id/priority", cfg.Tickets.UpdatePriority)
	tickets.Post("/:id/assign", cfg.Tickets.AssignTicket)
	tickets.Put("/:id/asset", cfg.Tickets.LinkAsset)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/rating", cfg.Ratings.SubmitRating)
	tickets.Get("/:id/rating", cfg.Ratings.GetTicketRating)
	tickets.Get("/:id/escalations", cfg.Tickets.ListTicketEscalations)

	assets := protected.Group("/assets")
	assets.Post("/", cfg.Assets.CreateAsset)
	assets.Get("/", cfg.Assets.ListAssets)
	assets.Get("/:id", cfg.Assets.GetAsset)
	assets.Put("/:id", cfg.Assets.UpdateAsset)
	assets.Post("/:id/assign", cfg.Assets.AssignAsset)
	assets.Post("/:id/unassign", cfg.Assets.UnassignAsset)
	assets.Delete("/:id", cfg.Assets.DeleteAsset)

	announcements := protected.Group("/announcements")
	announcements.Get("/active", cfg.Announcements.ListActiveAnnouncements)
	announcements.Post("/", cfg.Announcements.CreateAnnouncement)
	announcements.Get("/", cfg.Announcements.ListAnnouncements)
	announcements.Put("/:id", cfg.Announcements.UpdateAnnouncement)
	announcements.Delete("/:id", cfg.Announcements.DeleteAnnouncement)

	escalations := protected.Group("/escalations")
	escalations.Get("/", cfg.Escalations.ListUnacknowledged)
	escalations.Post("/:id/acknowledge", cfg.Escalations.Acknowledge)

	reports := protected.Group("/reports")
	reports.Get("/ticket-stats", cfg.Reports.TicketStats)
	reports.Get("/agent-performance", cfg.Reports.AgentPerformance)
	reports.Get("/sla-daily", cfg.Reports.SLADaily)
	reports.Get("/tickets", cfg.Reports.FilteredTickets)

	protected.Get("/audit-logs", cfg.Audit.ListAuditLogs)

	canned := protected.Group("/canned-responses")
	canned.Post("/", cfg.CannedResponses.CreateResponse)
	canned.Get("/", cfg.CannedResponses.ListResponses)
	canned.Get("/:id", cfg.CannedResponses.GetResponse)
	canned.Put("/:id", cfg.CannedResponses.UpdateResponse)
	canned.Delete("/:id", cfg.CannedResponses.DeleteResponse)

	categories := protected.Group("/categories")
	categories.Post("/", cfg.Categories.CreateCategory)
	categories.Get("/", cfg.Categories.ListCategories)
	categories.Put("/:id", cfg.Categories.UpdateCategory)
	categories.Delete("/:id", cfg.Categories.DeleteCategory)

	slaPolicies := protected.Group("/sla-policies")
	slaPolicies.Get("/", cfg.SLAPolicies.ListPolicies)
	slaPolicies.Put("/:priority", cfg.SLAPolicies.UpsertPolicy)
}
