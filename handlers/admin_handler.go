package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/seguelaCedric/lighthouse-network/database"
	"github.com/seguelaCedric/lighthouse-network/models"
	"github.com/seguelaCedric/lighthouse-network/notifications"
	"github.com/seguelaCedric/lighthouse-network/services"
)

func GetReferralSettings(c *fiber.Ctx) error {
	settings, err := services.LoadSettings(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load referral settings"})
	}
	return c.JSON(settings)
}

type UpdateSettingsRequest struct {
	ProgramActive          *bool   `json:"program_active"`
	ReferrerMinTier        *string `json:"referrer_min_tier" validate:"omitempty,oneof=unverified basic identity references verified premium"`
	MaxReferralsPerMonth   *int    `json:"max_referrals_per_month" validate:"omitempty,gt=0"`
	SignupRewardCents      *int64  `json:"signup_reward_cents" validate:"omitempty,gte=0"`
	ApplicationRewardCents *int64  `json:"application_reward_cents" validate:"omitempty,gte=0"`
	PlacementRewardCents   *int64  `json:"placement_reward_cents" validate:"omitempty,gte=0"`
	MinPayoutCents         *int64  `json:"min_payout_cents" validate:"omitempty,gte=0"`
}

// UpdateReferralSettings changes the live program configuration. New values
// apply to operations that start after the write; already issued rewards are
// never touched.
func UpdateReferralSettings(c *fiber.Ctx) error {
	var req UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	settings, err := services.LoadSettings(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load referral settings"})
	}

	if req.ProgramActive != nil {
		settings.ProgramActive = *req.ProgramActive
	}
	if req.ReferrerMinTier != nil {
		settings.ReferrerMinTier = models.VerificationTier(*req.ReferrerMinTier)
	}
	if req.MaxReferralsPerMonth != nil {
		settings.MaxReferralsPerMonth = *req.MaxReferralsPerMonth
	}
	if req.SignupRewardCents != nil {
		settings.SignupRewardCents = *req.SignupRewardCents
	}
	if req.ApplicationRewardCents != nil {
		settings.ApplicationRewardCents = *req.ApplicationRewardCents
	}
	if req.PlacementRewardCents != nil {
		settings.PlacementRewardCents = *req.PlacementRewardCents
	}
	if req.MinPayoutCents != nil {
		settings.MinPayoutCents = *req.MinPayoutCents
	}

	if err := database.DB.Save(settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update referral settings"})
	}

	return c.JSON(settings)
}

func AdminListReferrals(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Referral{})
	countQuery := database.DB.Model(&models.Referral{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
		countQuery = countQuery.Where("status = ?", status)
	}
	if code := c.Query("code"); code != "" {
		query = query.Where("code = ?", code)
		countQuery = countQuery.Where("code = ?", code)
	}

	var total int64
	countQuery.Count(&total)

	var referrals []models.Referral
	query.Order("created_at desc").Offset(offset).Limit(limit).Find(&referrals)

	return c.JSON(fiber.Map{
		"data": referrals,
		"meta": fiber.Map{
			"total":       total,
			"page":        page,
			"total_pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

type RecordMilestoneRequest struct {
	Milestone string `json:"milestone" validate:"required,oneof=signup application placement"`
}

// RecordReferralMilestone logs a milestone from the back office, typically a
// placement confirmed outside the platform. Replays answer recorded=false.
func RecordReferralMilestone(c *fiber.Ctx) error {
	referralID, err := uuid.Parse(c.Params("referralId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid referral id"})
	}

	var req RecordMilestoneRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	milestone := models.Milestone(req.Milestone)
	var recorded bool
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		recorded, txErr = services.RecordMilestone(tx, referralID, milestone)
		return txErr
	})
	if err != nil {
		if errors.Is(err, services.ErrReferralNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Referral not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record milestone"})
	}

	if recorded {
		go notifyReferrerOfMilestone(referralID, milestone)
	}

	return c.JSON(fiber.Map{"recorded": recorded})
}

func AdminListRewards(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.ReferralReward{})
	countQuery := database.DB.Model(&models.ReferralReward{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
		countQuery = countQuery.Where("status = ?", status)
	}

	var total int64
	countQuery.Count(&total)

	var rewards []models.ReferralReward
	query.Order("created_at desc").Offset(offset).Limit(limit).Find(&rewards)

	return c.JSON(fiber.Map{
		"data": rewards,
		"meta": fiber.Map{
			"total":       total,
			"page":        page,
			"total_pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// rewardActionError maps the reward service errors onto HTTP statuses shared
// by the approve, pay, and cancel endpoints.
func rewardActionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrRewardNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reward not found"})
	case errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Reward is not in a state that allows this action"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update reward"})
}

func AdminApproveReward(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	adminID, _ := uuid.Parse(claims["user_id"].(string))

	rewardID, err := uuid.Parse(c.Params("rewardId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reward id"})
	}

	reward, err := services.ApproveReward(database.DB, rewardID, adminID)
	if err != nil {
		return rewardActionError(c, err)
	}

	go notifyRewardApproved(reward)

	return c.JSON(reward)
}

type MarkPaidRequest struct {
	Method string `json:"method" validate:"required,oneof=bank_transfer paypal wise"`
}

func AdminMarkRewardPaid(c *fiber.Ctx) error {
	rewardID, err := uuid.Parse(c.Params("rewardId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reward id"})
	}

	var req MarkPaidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	reward, err := services.MarkRewardPaid(database.DB, rewardID, req.Method)
	if err != nil {
		return rewardActionError(c, err)
	}

	return c.JSON(reward)
}

func AdminCancelReward(c *fiber.Ctx) error {
	rewardID, err := uuid.Parse(c.Params("rewardId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reward id"})
	}

	reward, err := services.CancelReward(database.DB, rewardID)
	if err != nil {
		return rewardActionError(c, err)
	}

	return c.JSON(reward)
}

func AdminListPayoutRequests(c *fiber.Ctx) error {
	status := c.Query("status", string(models.PayoutStatusPending))

	var requests []models.PayoutRequest
	database.DB.Preload("Candidate").Preload("Rewards").
		Where("status = ?", status).
		Order("requested_at asc").
		Find(&requests)

	return c.JSON(requests)
}

type ProcessPayoutDecision struct {
	Decision   string `json:"decision" validate:"required,oneof=completed rejected"`
	AdminNotes string `json:"admin_notes"`
}

// ProcessPayoutRequest resolves a pending payout request. Completing settles
// the covered rewards; rejecting leaves them approved for a later request.
func ProcessPayoutRequest(c *fiber.Ctx) error {
	payoutID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payout request id"})
	}

	var req ProcessPayoutDecision
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	payout, err := services.ProcessPayoutRequest(database.DB, payoutID, models.PayoutStatus(req.Decision), req.AdminNotes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPayoutNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payout request not found"})
		case errors.Is(err, services.ErrInvalidTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Payout request has already been processed"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process payout request"})
	}

	go notifyPayoutProcessed(payout)

	return c.JSON(payout)
}

// GenerateRewardsReport exports rewards in a date range as CSV for the
// finance team.
func GenerateRewardsReport(c *fiber.Ctx) error {
	startDateStr := c.Query("start_date", time.Now().AddDate(0, -1, 0).Format("2006-01-02"))
	endDateStr := c.Query("end_date", time.Now().Format("2006-01-02"))

	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date format. Use YYYY-MM-DD."})
	}
	endDate, err := time.Parse("2006-01-02", endDateStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end_date format. Use YYYY-MM-DD."})
	}
	endDate = endDate.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	var rewards []models.ReferralReward
	database.DB.
		Preload("Candidate").
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Order("created_at desc").
		Find(&rewards)

	b := new(bytes.Buffer)
	w := csv.NewWriter(b)

	headers := []string{"Reward ID", "Date", "Referrer Name", "Referrer Email", "Milestone", "Amount", "Status", "Referral ID"}
	if err := w.Write(headers); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write CSV header"})
	}

	for _, r := range rewards {
		row := []string{
			r.ID.String(),
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.Candidate.FullName,
			r.Candidate.Email,
			string(r.Milestone),
			services.FormatCents(r.AmountCents),
			string(r.Status),
			r.ReferralID.String(),
		}
		if err := w.Write(row); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write CSV row"})
		}
	}
	w.Flush()

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"rewards_%s_to_%s.csv\"", startDate.Format("2006-01-02"), endDate.Format("2006-01-02")))

	return c.Send(b.Bytes())
}

type ReferralStatsResponse struct {
	TotalReferrals        int64 `json:"total_referrals"`
	PendingReferrals      int64 `json:"pending_referrals"`
	SignedUpReferrals     int64 `json:"signed_up_referrals"`
	PlacedReferrals       int64 `json:"placed_referrals"`
	ReferralsLast30Days   int64 `json:"referrals_last_30_days"`
	PendingRewardCents    int64 `json:"pending_reward_cents"`
	ApprovedRewardCents   int64 `json:"approved_reward_cents"`
	PaidRewardCents       int64 `json:"paid_reward_cents"`
	PendingPayoutRequests int64 `json:"pending_payout_requests"`
}

func GetReferralStats(c *fiber.Ctx) error {
	var response ReferralStatsResponse

	database.DB.Model(&models.Referral{}).Count(&response.TotalReferrals)
	database.DB.Model(&models.Referral{}).Where("status = ?", models.ReferralStatusPending).Count(&response.PendingReferrals)
	database.DB.Model(&models.Referral{}).Where("status = ?", models.ReferralStatusSignedUp).Count(&response.SignedUpReferrals)
	database.DB.Model(&models.Referral{}).Where("status = ?", models.ReferralStatusPlaced).Count(&response.PlacedReferrals)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	database.DB.Model(&models.Referral{}).Where("created_at > ?", thirtyDaysAgo).Count(&response.ReferralsLast30Days)

	database.DB.Model(&models.ReferralReward{}).Where("status = ?", models.RewardStatusPending).
		Select("COALESCE(SUM(amount_cents), 0)").Row().Scan(&response.PendingRewardCents)
	database.DB.Model(&models.ReferralReward{}).Where("status = ?", models.RewardStatusApproved).
		Select("COALESCE(SUM(amount_cents), 0)").Row().Scan(&response.ApprovedRewardCents)
	database.DB.Model(&models.ReferralReward{}).Where("status = ?", models.RewardStatusPaid).
		Select("COALESCE(SUM(amount_cents), 0)").Row().Scan(&response.PaidRewardCents)

	database.DB.Model(&models.PayoutRequest{}).Where("status = ?", models.PayoutStatusPending).Count(&response.PendingPayoutRequests)

	return c.JSON(response)
}

func AdminListCandidates(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	search := strings.TrimSpace(c.Query("search"))
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Candidate{})
	countQuery := database.DB.Model(&models.Candidate{})

	if search != "" {
		searchTerm := "%" + search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
		countQuery = countQuery.Where("full_name ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
	}
	if tier := c.Query("tier"); tier != "" {
		query = query.Where("verification_tier = ?", tier)
		countQuery = countQuery.Where("verification_tier = ?", tier)
	}

	var total int64
	countQuery.Count(&total)

	var candidates []models.Candidate
	query.Order("created_at desc").Offset(offset).Limit(limit).Find(&candidates)

	return c.JSON(fiber.Map{
		"data": candidates,
		"meta": fiber.Map{
			"total":       total,
			"page":        page,
			"total_pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

type UpdateTierRequest struct {
	VerificationTier string `json:"verification_tier" validate:"required,oneof=unverified basic identity references verified premium"`
}

// UpdateCandidateTier moves a candidate along the verification ladder after a
// review. Tier changes apply to future eligibility checks only.
func UpdateCandidateTier(c *fiber.Ctx) error {
	candidateID := c.Params("candidateId")

	var req UpdateTierRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result := database.DB.Model(&models.Candidate{}).
		Where("id = ?", candidateID).
		Update("verification_tier", req.VerificationTier)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update verification tier"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Candidate not found"})
	}

	return c.JSON(fiber.Map{"message": "Verification tier updated successfully."})
}

func ToggleCandidateStatus(c *fiber.Ctx) error {
	candidateID := c.Params("candidateId")
	type Request struct {
		IsActive bool `json:"is_active"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	result := database.DB.Model(&models.Candidate{}).Where("id = ?", candidateID).Update("is_active", req.IsActive)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update candidate status"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Candidate not found"})
	}

	return c.JSON(fiber.Map{"message": "Candidate status updated successfully."})
}

// AdminListJobs lists postings in every status, unlike the public board.
func AdminListJobs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Job{})
	countQuery := database.DB.Model(&models.Job{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
		countQuery = countQuery.Where("status = ?", status)
	}

	var total int64
	countQuery.Count(&total)

	var jobs []models.Job
	query.Order("created_at desc").Offset(offset).Limit(limit).Find(&jobs)

	return c.JSON(fiber.Map{
		"data": jobs,
		"meta": fiber.Map{
			"total":       total,
			"page":        page,
			"total_pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

type JobRequest struct {
	Title       string  `json:"title" validate:"required,min=3"`
	Vessel      string  `json:"vessel" validate:"omitempty,max=255"`
	Location    string  `json:"location" validate:"omitempty,max=255"`
	Employment  string  `json:"employment" validate:"required,oneof=permanent rotational seasonal temporary"`
	SalaryRange *string `json:"salary_range,omitempty"`
	Description string  `json:"description" validate:"omitempty,max=10000"`
}

func AdminCreateJob(c *fiber.Ctx) error {
	var req JobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	job := models.Job{
		Title:       req.Title,
		Vessel:      req.Vessel,
		Location:    req.Location,
		Employment:  req.Employment,
		SalaryRange: req.SalaryRange,
		Description: req.Description,
		Status:      "open",
	}

	if err := database.DB.Create(&job).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create job"})
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

func AdminUpdateJob(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	var job models.Job
	if err := database.DB.First(&job, "id = ?", jobID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Job not found"})
	}

	var req JobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	job.Title = req.Title
	job.Vessel = req.Vessel
	job.Location = req.Location
	job.Employment = req.Employment
	job.SalaryRange = req.SalaryRange
	job.Description = req.Description
	database.DB.Save(&job)

	return c.JSON(job)
}

func AdminCloseJob(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	result := database.DB.Model(&models.Job{}).Where("id = ? AND status = ?", jobID, "open").Update("status", "closed")

	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to close job"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Open job not found"})
	}

	return c.JSON(fiber.Map{"message": "Job closed successfully."})
}

type PlacementRequest struct {
	JobID       string `json:"job_id" validate:"required,uuid"`
	CandidateID string `json:"candidate_id" validate:"required,uuid"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
}

// CreatePlacement records a hire. If the placed candidate was referred, the
// placement milestone lands on their referral in the same transaction.
func CreatePlacement(c *fiber.Ctx) error {
	var req PlacementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	jobID := uuid.MustParse(req.JobID)
	candidateID := uuid.MustParse(req.CandidateID)
	startDate, _ := time.Parse("2006-01-02", req.StartDate)

	var placement models.Placement
	var milestoneReferralID *uuid.UUID
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.First(&job, "id = ?", jobID).Error; err != nil {
			return errJobNotFound
		}
		var candidate models.Candidate
		if err := tx.First(&candidate, "id = ?", candidateID).Error; err != nil {
			return services.ErrCandidateNotFound
		}

		placement = models.Placement{
			JobID:       jobID,
			CandidateID: candidateID,
			StartDate:   startDate,
		}
		if err := tx.Create(&placement).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Job{}).Where("id = ?", jobID).Update("status", "filled").Error; err != nil {
			return err
		}
		if err := tx.Model(&models.JobApplication{}).
			Where("job_id = ? AND candidate_id = ?", jobID, candidateID).
			Update("status", "hired").Error; err != nil {
			return err
		}

		// A referred hire advances the referral to its terminal milestone.
		var referral models.Referral
		if err := tx.First(&referral, "referred_id = ?", candidateID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		recorded, err := services.RecordMilestone(tx, referral.ID, models.MilestonePlacement)
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
		case errors.Is(err, services.ErrCandidateNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Candidate not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create placement"})
	}

	if milestoneReferralID != nil {
		go notifyReferrerOfMilestone(*milestoneReferralID, models.MilestonePlacement)
	}

	return c.Status(fiber.StatusCreated).JSON(placement)
}

// notifyRewardApproved emails the referrer that money became payable.
func notifyRewardApproved(reward *models.ReferralReward) {
	var candidate models.Candidate
	if err := database.DB.First(&candidate, "id = ?", reward.CandidateID).Error; err != nil {
		return
	}
	notifications.SendEmail(
		candidate.FullName,
		candidate.Email,
		"Your Referral Reward Was Approved",
		fmt.Sprintf("<h1>Reward Approved</h1><p>Hello %s,</p><p>Your %s reward of %s has been approved and added to your available balance.</p>",
			candidate.FullName, reward.Milestone, services.FormatCents(reward.AmountCents)),
	)
}

// notifyPayoutProcessed emails the candidate the outcome of their request.
func notifyPayoutProcessed(payout *models.PayoutRequest) {
	var candidate models.Candidate
	if err := database.DB.First(&candidate, "id = ?", payout.CandidateID).Error; err != nil {
		return
	}

	if payout.Status == models.PayoutStatusCompleted {
		notifications.SendEmail(
			candidate.FullName,
			candidate.Email,
			"Your Payout Has Been Processed",
			fmt.Sprintf("<h1>Payout Processed</h1><p>Hello %s,</p><p>Your payout request for %s has been processed via %s.</p>",
				candidate.FullName, services.FormatCents(payout.AmountCents), payout.Method),
		)
		return
	}

	notes := ""
	if payout.AdminNotes != nil {
		notes = fmt.Sprintf("<p><b>Notes:</b> %s</p>", *payout.AdminNotes)
	}
	notifications.SendEmail(
		candidate.FullName,
		candidate.Email,
		"Update on Your Payout Request",
		fmt.Sprintf("<h1>Payout Request Update</h1><p>Hello %s,</p><p>Your payout request for %s was not approved. Your rewards remain available for a future request.</p>%s",
			candidate.FullName, services.FormatCents(payout.AmountCents), notes),
	)
}
