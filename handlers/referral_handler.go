package handlers

import (
	"errors"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/seguelaCedric/lighthouse-network/database"
	"github.com/seguelaCedric/lighthouse-network/models"
	"github.com/seguelaCedric/lighthouse-network/services"
)

type TrackClickRequest struct {
	Code        string `json:"code" validate:"required,min=4,max=12"`
	Source      string `json:"source" validate:"omitempty,max=50"`
	UTMSource   string `json:"utm_source" validate:"omitempty,max=100"`
	UTMMedium   string `json:"utm_medium" validate:"omitempty,max=100"`
	UTMCampaign string `json:"utm_campaign" validate:"omitempty,max=100"`
}

// GetMyReferralCode returns the caller's referral code, minting it on first
// call. The code never changes once assigned.
func GetMyReferralCode(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	candidateID, _ := uuid.Parse(claims["user_id"].(string))

	code, err := services.GetOrCreateReferralCode(database.DB, candidateID)
	if err != nil {
		if errors.Is(err, services.ErrCandidateNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Candidate not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get referral code"})
	}

	return c.JSON(fiber.Map{"referral_code": code})
}

// GetReferralEligibility answers whether the caller may refer right now. An
// ineligible answer is data, not an error: the response is always 200.
func GetReferralEligibility(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	candidateID, _ := uuid.Parse(claims["user_id"].(string))

	eligibility, err := services.CanRefer(database.DB, candidateID)
	if err != nil {
		if errors.Is(err, services.ErrCandidateNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Candidate not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check eligibility"})
	}

	return c.JSON(eligibility)
}

// TrackReferralClick records a landing-page visit that carried a referral
// code. An unknown code is a silent no-op: the response shape is identical so
// the endpoint gives nothing away to code probing.
func TrackReferralClick(c *fiber.Ctx) error {
	var req TrackClickRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	referral, err := services.TrackClick(database.DB, req.Code, services.ClickAttribution{
		Source:      req.Source,
		UTMSource:   req.UTMSource,
		UTMMedium:   req.UTMMedium,
		UTMCampaign: req.UTMCampaign,
	})
	if err != nil {
		if errors.Is(err, services.ErrCodeNotFound) {
			return c.JSON(fiber.Map{"referral_id": nil})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to track referral"})
	}

	return c.JSON(fiber.Map{"referral_id": referral.ID.String()})
}

// GetMyReferrals lists the caller's referrals, newest first.
func GetMyReferrals(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	candidateID, _ := uuid.Parse(claims["user_id"].(string))

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Referral{}).Where("referrer_id = ?", candidateID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var referrals []models.Referral
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&referrals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve referrals"})
	}

	return c.JSON(fiber.Map{
		"data": referrals,
		"meta": fiber.Map{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// GetMyRewards lists the caller's rewards alongside their payable balance.
func GetMyRewards(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	candidateID, _ := uuid.Parse(claims["user_id"].(string))

	query := database.DB.Model(&models.ReferralReward{}).Where("candidate_id = ?", candidateID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var rewards []models.ReferralReward
	if err := query.Order("created_at desc").Find(&rewards).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve rewards"})
	}

	balance, err := services.AvailableBalance(database.DB, candidateID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute balance"})
	}

	return c.JSON(fiber.Map{
		"rewards":                 rewards,
		"available_balance_cents": balance,
	})
}

// GetRewardBalance returns just the payable balance.
func GetRewardBalance(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	candidateID, _ := uuid.Parse(claims["user_id"].(string))

	balance, err := services.AvailableBalance(database.DB, candidateID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute balance"})
	}

	return c.JSON(fiber.Map{"available_balance_cents": balance})
}
