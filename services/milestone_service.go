package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/seguelaCedric/lighthouse-network/models"
)

// milestoneColumns maps each milestone to the timestamp column it writes
// exactly once.
var milestoneColumns = map[models.Milestone]string{
	models.MilestoneSignup:      "signed_up_at",
	models.MilestoneApplication: "first_application_at",
	models.MilestonePlacement:   "placed_at",
}

// RecordMilestone advances a referral's lifecycle and issues the reward
// configured for the milestone at call time, at most once per (referral,
// milestone). It must run inside the caller's transaction. recorded=false
// means the milestone was already recorded, or the referral has expired;
// either way nothing was written. Milestone order is not enforced: a
// placement can be recorded for a referral that never logged an application.
func RecordMilestone(tx *gorm.DB, referralID uuid.UUID, milestone models.Milestone) (bool, error) {
	column, ok := milestoneColumns[milestone]
	if !ok {
		return false, ErrInvalidMilestone
	}

	// Status only moves forward. Signup and application bump it when the
	// referral is still behind; placement is terminal-success and always wins.
	updates := map[string]interface{}{column: time.Now()}
	switch milestone {
	case models.MilestoneSignup:
		updates["status"] = gorm.Expr(
			"CASE WHEN status = ? THEN ? ELSE status END",
			models.ReferralStatusPending, models.ReferralStatusSignedUp,
		)
	case models.MilestoneApplication:
		updates["status"] = gorm.Expr(
			"CASE WHEN status IN (?, ?) THEN ? ELSE status END",
			models.ReferralStatusPending, models.ReferralStatusSignedUp, models.ReferralStatusApplied,
		)
	case models.MilestonePlacement:
		updates["status"] = models.ReferralStatusPlaced
	}

	result := tx.Model(&models.Referral{}).
		Where("id = ? AND "+column+" IS NULL AND status <> ?", referralID, models.ReferralStatusExpired).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Referral{}).
			Where("id = ?", referralID).
			Count(&count).Error; err != nil {
			return false, err
		}
		if count == 0 {
			return false, ErrReferralNotFound
		}
		return false, nil
	}

	settings, err := LoadSettings(tx)
	if err != nil {
		return false, err
	}
	amount := settings.RewardAmountFor(milestone)
	if amount <= 0 {
		return true, nil
	}

	var referral models.Referral
	if err := tx.First(&referral, "id = ?", referralID).Error; err != nil {
		return false, err
	}

	reward := models.ReferralReward{
		ReferralID:  referralID,
		Milestone:   milestone,
		CandidateID: referral.ReferrerID,
		AmountCents: amount,
		Status:      models.RewardStatusPending,
	}
	if err := tx.Create(&reward).Error; err != nil {
		// The unique (referral_id, milestone) index already holds a reward
		// for this pair; the milestone stays recorded.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}
