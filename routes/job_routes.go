package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seguelaCedric/lighthouse-network/handlers"
	"github.com/seguelaCedric/lighthouse-network/middleware"
)

func JobRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	jobs := api.Group("/jobs")
	jobs.Get("", handlers.ListJobs)

	jobs.Post("/:jobId/apply", middleware.Protected(), handlers.ApplyToJob)
	api.Get("/applications/me", middleware.Protected(), handlers.GetMyApplications)
}
