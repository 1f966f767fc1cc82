package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seguelaCedric/lighthouse-network/handlers"
	"github.com/seguelaCedric/lighthouse-network/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/referral-settings", handlers.GetReferralSettings)
	admin.Put("/referral-settings", handlers.UpdateReferralSettings)

	referrals := admin.Group("/referrals")
	referrals.Get("", handlers.AdminListReferrals)
	referrals.Get("/stats", handlers.GetReferralStats)
	referrals.Post("/:referralId/milestones", handlers.RecordReferralMilestone)

	rewards := admin.Group("/rewards")
	rewards.Get("", handlers.AdminListRewards)
	rewards.Post("/:rewardId/approve", handlers.AdminApproveReward)
	rewards.Post("/:rewardId/pay", handlers.AdminMarkRewardPaid)
	rewards.Post("/:rewardId/cancel", handlers.AdminCancelReward)

	admin.Get("/payout-requests", handlers.AdminListPayoutRequests)
	admin.Post("/payout-requests/:requestId/process", handlers.ProcessPayoutRequest)

	reports := admin.Group("/reports")
	reports.Get("/rewards", handlers.GenerateRewardsReport)

	candidates := admin.Group("/candidates")
	candidates.Get("", handlers.AdminListCandidates)
	candidates.Put("/:candidateId/tier", handlers.UpdateCandidateTier)
	candidates.Put("/:candidateId/status", handlers.ToggleCandidateStatus)

	jobs := admin.Group("/jobs")
	jobs.Get("", handlers.AdminListJobs)
	jobs.Post("", handlers.AdminCreateJob)
	jobs.Put("/:jobId", handlers.AdminUpdateJob)
	jobs.Post("/:jobId/close", handlers.AdminCloseJob)

	admin.Post("/placements", handlers.CreatePlacement)
}
