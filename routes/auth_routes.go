package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seguelaCedric/lighthouse-network/handlers"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterCandidate)
	auth.Post("/login", handlers.LoginCandidate)
}
