package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seguelaCedric/lighthouse-network/handlers"
	"github.com/seguelaCedric/lighthouse-network/middleware"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile", middleware.Protected())
	profile.Get("", handlers.GetProfile)
	profile.Put("", handlers.UpdateProfile)
	profile.Get("/referral-summary", handlers.GetMyReferralSummary)
}
