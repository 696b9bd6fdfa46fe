package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/society-api/internal/api/http/handlers"
	"github.com/spec-kit/society-api/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Events         *handlers.EventsHandler
	Announcements  *handlers.AnnouncementsHandler
	TeamMembers    *handlers.TeamMembersHandler
	Registrations  *handlers.RegistrationsHandler
	Uploads        *handlers.UploadsHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *RateLimiter
}

// RegisterRoutes wires HTTP routes. Static segments are registered before :id.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	authn := cfg.AuthMiddleware.Handle
	optional := cfg.AuthMiddleware.Optional
	admin := auth.RequireAdmin()
	limited := cfg.RateLimiter.Handle

	api := app.Group("/api")

	api.Get("/health", cfg.Health.Health)
	api.Get("/health/live", cfg.Health.Live)
	api.Get("/health/ready", cfg.Health.Ready)
	api.Get("/metrics", authn, admin, cfg.Health.Metrics)

	users := api.Group("/users")
	users.Post("/register", limited, cfg.Users.Register)
	users.Post("/login", limited, cfg.Users.Login)
	users.Get("/profile", authn, cfg.Users.Profile)
	users.Put("/profile", authn, cfg.Users.UpdateProfile)
	users.Post("/change-password", authn, cfg.Users.ChangePassword)
	users.Delete("/account", authn, cfg.Users.DeleteAccount)
	users.Get("/all", authn, admin, cfg.Users.ListAll)
	users.Get("/:id", authn, cfg.Users.Get)
	users.Put("/:id/activate", authn, admin, cfg.Users.Activate)
	users.Put("/:id/deactivate", authn, admin, cfg.Users.Deactivate)

	events := api.Group("/events")
	events.Get("/", cfg.Events.List)
	events.Get("/user/my-events", authn, cfg.Events.MyEvents)
	events.Get("/:id", cfg.Events.Get)
	events.Get("/:id/qrcode", cfg.Events.QRCode)
	events.Post("/", authn, admin, cfg.Events.Create)
	events.Put("/:id", authn, admin, cfg.Events.Update)
	events.Delete("/:id", authn, admin, cfg.Events.Delete)
	events.Post("/:id/register", authn, cfg.Events.Register)
	events.Delete("/:id/unregister", authn, cfg.Events.Unregister)

	announcements := api.Group("/announcements")
	announcements.Get("/", optional, cfg.Announcements.List)
	announcements.Get("/admin/all", authn, admin, cfg.Announcements.ListAll)
	announcements.Get("/:id", optional, cfg.Announcements.Get)
	announcements.Post("/", authn, admin, cfg.Announcements.Create)
	announcements.Put("/:id", authn, admin, cfg.Announcements.Update)
	announcements.Delete("/:id", authn, admin, cfg.Announcements.Delete)
	announcements.Patch("/:id/toggle-pin", authn, admin, cfg.Announcements.TogglePin)
	announcements.Patch("/:id/toggle-publish", authn, admin, cfg.Announcements.TogglePublish)

	team := api.Group("/team-members")
	team.Get("/", optional, cfg.TeamMembers.List)
	team.Get("/active", cfg.TeamMembers.Active)
	team.Get("/:id", optional, cfg.TeamMembers.Get)
	team.Post("/", authn, admin, cfg.TeamMembers.Create)
	team.Put("/:id", authn, admin, cfg.TeamMembers.Update)
	team.Delete("/:id", authn, admin, cfg.TeamMembers.Delete)
	team.Patch("/:id/activate", authn, admin, cfg.TeamMembers.Activate)
	team.Patch("/:id/deactivate", authn, admin, cfg.TeamMembers.Deactivate)

	registrations := api.Group("/registrations")
	registrations.Post("/", limited, cfg.Registrations.Create)
	registrations.Get("/", authn, admin, cfg.Registrations.List)
	registrations.Get("/:id", authn, admin, cfg.Registrations.Get)
	registrations.Put("/:id", authn, admin, cfg.Registrations.Update)
	registrations.Delete("/:id", authn, admin, cfg.Registrations.Delete)

	api.Post("/uploads", authn, admin, cfg.Uploads.Upload)

	app.Use(NotFound)
}
