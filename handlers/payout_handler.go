package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/seguelaCedric/lighthouse-network/database"
	"github.com/seguelaCedric/lighthouse-network/models"
	"github.com/seguelaCedric/lighthouse-network/services"
)

type PayoutRequestBody struct {
	Method  string `json:"method" validate:"required,oneof=bank_transfer paypal wise"`
	Details string `json:"details" validate:"required,min=5"`
}

// RequestPayout asks to withdraw the caller's approved rewards. The request
// fails when the payable balance sits below the configured minimum.
func RequestPayout(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	candidateID, _ := uuid.Parse(claims["user_id"].(string))

	var req PayoutRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	payout, err := services.RequestPayout(database.DB, candidateID, req.Method, req.Details)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientBalance) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Available balance is below the minimum payout amount"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create payout request"})
	}

	return c.Status(fiber.StatusCreated).JSON(payout)
}

// GetMyPayouts lists the caller's payout requests, newest first.
func GetMyPayouts(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	candidateID, _ := uuid.Parse(claims["user_id"].(string))

	var payouts []models.PayoutRequest
	err := database.DB.Preload("Rewards").
		Where("candidate_id = ?", candidateID).
		Order("requested_at desc").
		Find(&payouts).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve payout requests"})
	}

	return c.JSON(payouts)
}

// GetPayoutStatement renders a PDF statement for one of the caller's payout
// requests, itemizing the rewards it covers.
func GetPayoutStatement(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	candidateID, _ := uuid.Parse(claims["user_id"].(string))

	payoutID, err := uuid.Parse(c.Params("payoutId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payout id"})
	}

	var payout models.PayoutRequest
	err = database.DB.Preload("Rewards").
		Where("id = ? AND candidate_id = ?", payoutID, candidateID).
		First(&payout).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payout request not found"})
	}

	var candidate models.Candidate
	if err := database.DB.First(&candidate, "id = ?", candidateID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Candidate not found"})
	}

	pdfBytes, err := services.GeneratePayoutStatement(&payout, &candidate)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate statement"})
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=payout_statement_%s.pdf", payout.ID))
	return c.Send(pdfBytes)
}
