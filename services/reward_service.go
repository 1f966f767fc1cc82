package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/seguelaCedric/lighthouse-network/models"
)

// guardedRewardUpdate applies updates to the reward only while it still has
// the expected status. Zero rows affected distinguishes a missing reward from
// one that already moved on.
func guardedRewardUpdate(db *gorm.DB, rewardID uuid.UUID, expected models.RewardStatus, updates map[string]interface{}) (*models.ReferralReward, error) {
	result := db.Model(&models.ReferralReward{}).
		Where("id = ? AND status = ?", rewardID, expected).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.ReferralReward{}).
			Where("id = ?", rewardID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrRewardNotFound
		}
		return nil, ErrInvalidTransition
	}

	var reward models.ReferralReward
	if err := db.First(&reward, "id = ?", rewardID).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

// ApproveReward moves a pending reward to approved, stamping who approved it.
func ApproveReward(db *gorm.DB, rewardID, adminID uuid.UUID) (*models.ReferralReward, error) {
	return guardedRewardUpdate(db, rewardID, models.RewardStatusPending, map[string]interface{}{
		"status":      models.RewardStatusApproved,
		"approved_by": adminID,
	})
}

// MarkRewardPaid settles a single approved reward outside the payout flow.
func MarkRewardPaid(db *gorm.DB, rewardID uuid.UUID, method string) (*models.ReferralReward, error) {
	return guardedRewardUpdate(db, rewardID, models.RewardStatusApproved, map[string]interface{}{
		"status":         models.RewardStatusPaid,
		"paid_at":        time.Now(),
		"payment_method": method,
	})
}

// CancelReward voids a reward that has not been paid yet.
func CancelReward(db *gorm.DB, rewardID uuid.UUID) (*models.ReferralReward, error) {
	result := db.Model(&models.ReferralReward{}).
		Where("id = ? AND status IN (?, ?)", rewardID, models.RewardStatusPending, models.RewardStatusApproved).
		Update("status", models.RewardStatusCancelled)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.ReferralReward{}).
			Where("id = ?", rewardID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrRewardNotFound
		}
		return nil, ErrInvalidTransition
	}

	var reward models.ReferralReward
	if err := db.First(&reward, "id = ?", rewardID).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

// AvailableBalance is the sum of the candidate's approved rewards. Pending
// rewards are not promises and paid ones are history; neither counts.
func AvailableBalance(db *gorm.DB, candidateID uuid.UUID) (int64, error) {
	var total int64
	err := db.Model(&models.ReferralReward{}).
		Where("candidate_id = ? AND status = ?", candidateID, models.RewardStatusApproved).
		Select("COALESCE(SUM(amount_cents), 0)").
		Row().Scan(&total)
	return total, err
}

// RequestPayout checks the candidate's payable balance against the configured
// minimum and records a withdrawal request snapshotting the exact rewards it
// covers. The rewards themselves are untouched; settling them happens when an
// operator completes the request.
func RequestPayout(db *gorm.DB, candidateID uuid.UUID, method, details string) (*models.PayoutRequest, error) {
	var payout models.PayoutRequest
	err := db.Transaction(func(tx *gorm.DB) error {
		settings, err := LoadSettings(tx)
		if err != nil {
			return err
		}

		var approved []models.ReferralReward
		if err := tx.Where("candidate_id = ? AND status = ?", candidateID, models.RewardStatusApproved).
			Find(&approved).Error; err != nil {
			return err
		}

		var total int64
		for _, reward := range approved {
			total += reward.AmountCents
		}
		if total < settings.MinPayoutCents {
			return ErrInsufficientBalance
		}

		payout = models.PayoutRequest{
			CandidateID: candidateID,
			Method:      method,
			Details:     details,
			AmountCents: total,
			Status:      models.PayoutStatusPending,
			Rewards:     approved,
			RequestedAt: time.Now(),
		}
		// Omit keeps the covered rewards read-only: only join rows are written.
		return tx.Omit("Rewards.*").Create(&payout).Error
	})
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

// ProcessPayoutRequest resolves a pending payout request. Completing it
// settles the covered rewards still sitting at approved; rejecting leaves
// them approved and available for a future request.
func ProcessPayoutRequest(db *gorm.DB, payoutID uuid.UUID, decision models.PayoutStatus, adminNotes string) (*models.PayoutRequest, error) {
	if decision != models.PayoutStatusCompleted && decision != models.PayoutStatusRejected {
		return nil, ErrInvalidTransition
	}

	var payout models.PayoutRequest
	err := db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		updates := map[string]interface{}{
			"status":       decision,
			"processed_at": now,
		}
		if adminNotes != "" {
			updates["admin_notes"] = adminNotes
		}

		result := tx.Model(&models.PayoutRequest{}).
			Where("id = ? AND status = ?", payoutID, models.PayoutStatusPending).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.PayoutRequest{}).
				Where("id = ?", payoutID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrPayoutNotFound
			}
			return ErrInvalidTransition
		}

		if err := tx.Preload("Rewards").First(&payout, "id = ?", payoutID).Error; err != nil {
			return err
		}

		if decision == models.PayoutStatusCompleted && len(payout.Rewards) > 0 {
			ids := make([]uuid.UUID, 0, len(payout.Rewards))
			for _, reward := range payout.Rewards {
				ids = append(ids, reward.ID)
			}
			// Settle only what is still approved; a reward cancelled while
			// the request sat in the queue stays cancelled.
			if err := tx.Model(&models.ReferralReward{}).
				Where("id IN ? AND status = ?", ids, models.RewardStatusApproved).
				Updates(map[string]interface{}{
					"status":         models.RewardStatusPaid,
					"paid_at":        now,
					"payment_method": payout.Method,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payout, nil
}
