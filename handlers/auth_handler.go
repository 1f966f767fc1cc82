package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	config "github.com/seguelaCedric/lighthouse-network/configs"
	"github.com/seguelaCedric/lighthouse-network/database"
	"github.com/seguelaCedric/lighthouse-network/models"
	"github.com/seguelaCedric/lighthouse-network/notifications"
	"github.com/seguelaCedric/lighthouse-network/services"
)

var validate = validator.New()

var errEmailTaken = errors.New("email already exists")

type RegisterRequest struct {
	FullName string  `json:"full_name" validate:"required,min=3"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Position string  `json:"position" validate:"omitempty,max=50"`
	Phone    *string `json:"phone,omitempty"`
	// ReferralID is the pending referral the signup page carried through the
	// funnel. Binding targets this exact id; the code is never re-resolved.
	ReferralID *string `json:"referral_id,omitempty" validate:"omitempty,uuid"`
}

type CandidateResponse struct {
	ID               string    `json:"id"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	VerificationTier string    `json:"verification_tier"`
	CreatedAt        time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func RegisterCandidate(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	var newCandidate models.Candidate
	var boundReferralID *uuid.UUID
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		newCandidate = models.Candidate{
			FullName: req.FullName,
			Email:    req.Email,
			Password: string(hashedPassword),
			Position: req.Position,
			Phone:    req.Phone,
		}
		if err := tx.Create(&newCandidate).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errEmailTaken
			}
			return err
		}

		if req.ReferralID != nil && *req.ReferralID != "" {
			referralID, err := uuid.Parse(*req.ReferralID)
			if err != nil {
				return nil
			}
			bound, err := services.ConvertSignup(tx, referralID, newCandidate.ID)
			if err != nil {
				// A stale or made-up referral id must not block the signup.
				if errors.Is(err, services.ErrReferralNotFound) {
					log.Printf("Signup carried unknown referral id %s; ignoring", referralID)
					return nil
				}
				return err
			}
			if bound {
				boundReferralID = &referralID
			}
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, errEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create account"})
	}

	go notifications.SendEmail(newCandidate.FullName, newCandidate.Email, "Welcome to Lighthouse Network!",
		"<h1>Welcome aboard!</h1><p>Your crew profile is live. Complete your verification to unlock referrals and start applying.</p>")

	if boundReferralID != nil {
		go notifyReferrerOfMilestone(*boundReferralID, models.MilestoneSignup)
	}

	response := CandidateResponse{
		ID:               newCandidate.ID.String(),
		FullName:         newCandidate.FullName,
		Email:            newCandidate.Email,
		Role:             newCandidate.Role,
		VerificationTier: string(newCandidate.VerificationTier),
		CreatedAt:        newCandidate.CreatedAt,
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

func LoginCandidate(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var candidate models.Candidate
	result := database.DB.Where("email = ?", req.Email).First(&candidate)
	if result.Error != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(candidate.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	if !candidate.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Account is deactivated"})
	}

	claims := jwt.MapClaims{
		"user_id": candidate.ID.String(),
		"role":    candidate.Role,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	t, err := token.SignedString([]byte(config.Config("JWT_SECRET")))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"token": t})
}

// notifyReferrerOfMilestone emails the referrer whose referral just advanced.
// Runs post-commit in a goroutine; lookup failures are logged and dropped.
func notifyReferrerOfMilestone(referralID uuid.UUID, milestone models.Milestone) {
	var referral models.Referral
	err := database.DB.Preload("Referrer").
		Where("id = ?", referralID).
		First(&referral).Error
	if err != nil {
		log.Printf("🔥 Could not load referral %s for milestone email: %v", referralID, err)
		return
	}

	var subject, body string
	switch milestone {
	case models.MilestoneSignup:
		subject = "Your referral just joined Lighthouse Network"
		body = "<h1>Nice work!</h1><p>Someone you referred has created their crew profile. You'll earn more as they apply and get placed.</p>"
	case models.MilestoneApplication:
		subject = "Your referral submitted their first application"
		body = "<h1>They're on their way!</h1><p>Your referral applied for their first position. A placement reward is next if they're hired.</p>"
	case models.MilestonePlacement:
		subject = "Your referral got placed!"
		body = "<h1>Congratulations!</h1><p>Your referral was hired. Your placement reward has been added to your account and is pending review.</p>"
	default:
		return
	}

	notifications.SendEmail(referral.Referrer.FullName, referral.Referrer.Email, subject, body)
}
