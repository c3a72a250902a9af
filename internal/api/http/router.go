package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/spec-kit/voice2ticket/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Events  *handlers.EventsHandler
	Sweeps  *handlers.SweepsHandler
	Tickets *handlers.TicketsHandler
	Metrics *handlers.MetricsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Snapshot)
	}

	events := app.Group("/events")
	events.Post("/audio", cfg.Events.AudioUploaded)
	events.Post("/transcripts", cfg.Events.TranscriptArrived)

	sweeps := app.Group("/sweeps")
	sweeps.Post("/completed-jobs", cfg.Sweeps.CompletedJobs)
	sweeps.Post("/inactive-tickets", cfg.Sweeps.InactiveTickets)

	app.Get("/tickets", cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET"}), cfg.Tickets.ListTickets)
}
