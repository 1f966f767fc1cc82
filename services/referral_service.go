package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/seguelaCedric/lighthouse-network/models"
	"github.com/seguelaCedric/lighthouse-network/utils"
)

// maxCodeAttempts bounds code generation retries before giving up.
const maxCodeAttempts = 5

// referralWindowDays is the trailing window the per-month referral cap is
// counted over.
const referralWindowDays = 30

var generateCode = utils.GenerateReferralCode

// Eligibility reasons reported by CanRefer.
const (
	ReasonProgramInactive = "program inactive"
	ReasonTierTooLow      = "tier too low"
	ReasonMonthlyLimit    = "monthly limit reached"
)

// Eligibility is the advisory answer to "can this candidate refer right now".
type Eligibility struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// ClickAttribution carries the tracking metadata captured with a click.
type ClickAttribution struct {
	Source      string
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
}

// GetOrCreateReferralCode returns the candidate's referral code, assigning
// one on first use. Once assigned the code never changes: concurrent callers
// race on a guarded update and the losers return the winner's code.
func GetOrCreateReferralCode(db *gorm.DB, candidateID uuid.UUID) (string, error) {
	var candidate models.Candidate
	if err := db.First(&candidate, "id = ?", candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrCandidateNotFound
		}
		return "", err
	}
	if candidate.ReferralCode != nil && *candidate.ReferralCode != "" {
		return *candidate.ReferralCode, nil
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := generateCode()
		result := db.Model(&models.Candidate{}).
			Where("id = ? AND referral_code IS NULL", candidateID).
			Update("referral_code", code)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				continue
			}
			return "", result.Error
		}
		if result.RowsAffected == 0 {
			// Another caller assigned a code between our read and write.
			if err := db.First(&candidate, "id = ?", candidateID).Error; err != nil {
				return "", err
			}
			if candidate.ReferralCode != nil && *candidate.ReferralCode != "" {
				return *candidate.ReferralCode, nil
			}
			return "", ErrCandidateNotFound
		}
		return code, nil
	}
	return "", ErrCodeGenerationExhausted
}

// CanRefer reports whether the candidate may currently generate new
// referrals, with the first failed check as the reason. The gate is advisory
// for sharing UIs; TrackClick never consults it, so a click that arrives
// after the referrer hits their cap is still recorded.
func CanRefer(db *gorm.DB, candidateID uuid.UUID) (Eligibility, error) {
	settings, err := LoadSettings(db)
	if err != nil {
		return Eligibility{}, err
	}
	if !settings.ProgramActive {
		return Eligibility{Reason: ReasonProgramInactive}, nil
	}

	var candidate models.Candidate
	if err := db.First(&candidate, "id = ?", candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Eligibility{}, ErrCandidateNotFound
		}
		return Eligibility{}, err
	}
	if !candidate.VerificationTier.AtLeast(settings.ReferrerMinTier) {
		return Eligibility{Reason: ReasonTierTooLow}, nil
	}

	windowStart := time.Now().AddDate(0, 0, -referralWindowDays)
	var recent int64
	if err := db.Model(&models.Referral{}).
		Where("referrer_id = ? AND created_at > ?", candidateID, windowStart).
		Count(&recent).Error; err != nil {
		return Eligibility{}, err
	}
	if recent >= int64(settings.MaxReferralsPerMonth) {
		return Eligibility{Reason: ReasonMonthlyLimit}, nil
	}

	return Eligibility{Eligible: true}, nil
}

// TrackClick records a visit on a referral link as a new pending referral
// and returns it. Unknown codes return ErrCodeNotFound; the HTTP layer turns
// that into a silent no-op so probing for valid codes stays cheap and quiet.
func TrackClick(db *gorm.DB, code string, attr ClickAttribution) (*models.Referral, error) {
	var referrer models.Candidate
	if err := db.First(&referrer, "referral_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}

	referral := models.Referral{
		ReferrerID:  referrer.ID,
		Code:        code,
		Status:      models.ReferralStatusPending,
		Source:      attr.Source,
		UTMSource:   attr.UTMSource,
		UTMMedium:   attr.UTMMedium,
		UTMCampaign: attr.UTMCampaign,
	}
	if err := db.Create(&referral).Error; err != nil {
		return nil, err
	}
	return &referral, nil
}

// ConvertSignup binds a pending referral to a freshly registered candidate
// and records the signup milestone, all inside the caller's transaction. The
// binding targets the exact referral id the client carried through signup;
// the code is never re-resolved. The first caller wins: a retry or racing
// duplicate gets bound=false and writes nothing.
func ConvertSignup(tx *gorm.DB, referralID, candidateID uuid.UUID) (bool, error) {
	result := tx.Model(&models.Referral{}).
		Where("id = ? AND status = ? AND referred_id IS NULL", referralID, models.ReferralStatusPending).
		Updates(map[string]interface{}{
			"referred_id": candidateID,
			"status":      models.ReferralStatusSignedUp,
		})
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
		// Already converted or expired; the stored outcome stands.
		return false, nil
	}

	var referral models.Referral
	if err := tx.First(&referral, "id = ?", referralID).Error; err != nil {
		return false, err
	}
	if err := tx.Model(&models.Candidate{}).
		Where("id = ?", candidateID).
		Update("referred_by_id", referral.ReferrerID).Error; err != nil {
		return false, err
	}

	if _, err := RecordMilestone(tx, referralID, models.MilestoneSignup); err != nil {
		return false, err
	}
	return true, nil
}
