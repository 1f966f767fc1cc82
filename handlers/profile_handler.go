package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/seguelaCedric/lighthouse-network/database"
	"github.com/seguelaCedric/lighthouse-network/models"
)

type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=3"`
	Position *string `json:"position" validate:"omitempty,max=50"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
}

func GetProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	candidateID := claims["user_id"].(string)

	var candidate models.Candidate
	if err := database.DB.Where("id = ?", candidateID).First(&candidate).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Candidate not found"})
	}

	return c.JSON(candidate)
}

func UpdateProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	candidateID := claims["user_id"].(string)

	var candidate models.Candidate
	if err := database.DB.Where("id = ?", candidateID).First(&candidate).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Candidate not found"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.FullName != nil {
		candidate.FullName = *req.FullName
	}
	if req.Position != nil {
		candidate.Position = *req.Position
	}
	if req.Phone != nil {
		candidate.Phone = req.Phone
	}

	database.DB.Save(&candidate)

	return c.JSON(candidate)
}

// GetMyReferralSummary aggregates the caller's referral funnel for their
// dashboard: click, signup, and placement counts plus lifetime earnings.
func GetMyReferralSummary(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	candidateID, _ := uuid.Parse(claims["user_id"].(string))

	var totalClicks, signedUp, placed int64
	database.DB.Model(&models.Referral{}).
		Where("referrer_id = ?", candidateID).
		Count(&totalClicks)
	database.DB.Model(&models.Referral{}).
		Where("referrer_id = ? AND referred_id IS NOT NULL", candidateID).
		Count(&signedUp)
	database.DB.Model(&models.Referral{}).
		Where("referrer_id = ? AND status = ?", candidateID, models.ReferralStatusPlaced).
		Count(&placed)

	var earnedCents int64
	database.DB.Model(&models.ReferralReward{}).
		Where("candidate_id = ? AND status IN (?, ?)", candidateID, models.RewardStatusApproved, models.RewardStatusPaid).
		Select("COALESCE(SUM(amount_cents), 0)").
		Row().Scan(&earnedCents)

	return c.JSON(fiber.Map{
		"total_clicks":       totalClicks,
		"signed_up":          signedUp,
		"placed":             placed,
		"total_earned_cents": earnedCents,
	})
}
