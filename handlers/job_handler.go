package handlers

import (
	"errors"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/seguelaCedric/lighthouse-network/database"
	"github.com/seguelaCedric/lighthouse-network/models"
	"github.com/seguelaCedric/lighthouse-network/services"
)

type ApplyRequest struct {
	CoverNote *string `json:"cover_note,omitempty" validate:"omitempty,max=2000"`
}

// ListJobs shows open positions. Public: candidates browse before they sign up.
func ListJobs(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Job{}).Where("status = ?", "open")
	if position := c.Query("position"); position != "" {
		query = query.Where("title ILIKE ?", "%"+position+"%")
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location ILIKE ?", "%"+location+"%")
	}

	var total int64
	query.Count(&total)

	var jobs []models.Job
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&jobs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve jobs"})
	}

	return c.JSON(fiber.Map{
		"data": jobs,
		"meta": fiber.Map{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// ApplyToJob submits the caller's application for a job. The first
// application by a referred candidate also logs the application milestone on
// their referral.
func ApplyToJob(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	candidateID, _ := uuid.Parse(claims["user_id"].(string))

	jobID, err := uuid.Parse(c.Params("jobId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid job id"})
	}

	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var application models.JobApplication
	var milestoneReferralID *uuid.UUID
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.First(&job, "id = ?", jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errJobNotFound
			}
			return err
		}
		if job.Status != "open" {
			return errJobClosed
		}

		application = models.JobApplication{
			JobID:       jobID,
			CandidateID: candidateID,
			CoverNote:   req.CoverNote,
		}
		if err := tx.Create(&application).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyApplied
			}
			return err
		}

		// First application by a referred candidate advances their referral.
		var referral models.Referral
		if err := tx.First(&referral, "referred_id = ?", candidateID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		recorded, err := services.RecordMilestone(tx, referral.ID, models.MilestoneApplication)
		if err != nil {
			return err
		}
		if recorded {
			milestoneReferralID = &referral.ID
		}
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, errJobNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Job not found"})
		case errors.Is(err, errJobClosed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Job is no longer open"})
		case errors.Is(err, errAlreadyApplied):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You have already applied for this job"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit application"})
	}

	if milestoneReferralID != nil {
		go notifyReferrerOfMilestone(*milestoneReferralID, models.MilestoneApplication)
	}

	return c.Status(fiber.StatusCreated).JSON(application)
}

var (
	errJobNotFound    = errors.New("job not found")
	errJobClosed      = errors.New("job is no longer open")
	errAlreadyApplied = errors.New("already applied")
)

// GetMyApplications lists the caller's applications with their jobs.
func GetMyApplications(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	candidateID, _ := uuid.Parse(claims["user_id"].(string))

	var applications []models.JobApplication
	err := database.DB.Preload("Job").
		Where("candidate_id = ?", candidateID).
		Order("created_at desc").
		Find(&applications).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve applications"})
	}

	return c.JSON(applications)
}
