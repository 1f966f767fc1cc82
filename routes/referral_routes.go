package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seguelaCedric/lighthouse-network/handlers"
	"github.com/seguelaCedric/lighthouse-network/middleware"
)

func ReferralRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Click tracking is public: the visitor has no account yet.
	api.Post("/referrals/track", handlers.TrackReferralClick)

	referrals := api.Group("/referrals", middleware.Protected())
	referrals.Get("/code", handlers.GetMyReferralCode)
	referrals.Get("/eligibility", handlers.GetReferralEligibility)
	referrals.Get("", handlers.GetMyReferrals)

	rewards := api.Group("/rewards", middleware.Protected())
	rewards.Get("", handlers.GetMyRewards)
	rewards.Get("/balance", handlers.GetRewardBalance)

	payouts := api.Group("/payouts", middleware.Protected())
	payouts.Post("", handlers.RequestPayout)
	payouts.Get("", handlers.GetMyPayouts)
	payouts.Get("/:payoutId/statement", handlers.GetPayoutStatement)
}
