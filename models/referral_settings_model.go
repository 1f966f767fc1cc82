package models

import "time"

// ReferralSettingsID is the primary key of the single settings row.
const ReferralSettingsID = 1

// ReferralSettings is the live program configuration. Consumers read it
// inside the transaction that uses it; changes apply to future operations
// only and are never retroactive.
type ReferralSettings struct {
	ID                     int              `gorm:"primary_key" json:"id"`
	ProgramActive          bool             `gorm:"not null;default:true" json:"program_active"`
	ReferrerMinTier        VerificationTier `gorm:"size:20;not null;default:'basic'" json:"referrer_min_tier"`
	MaxReferralsPerMonth   int              `gorm:"not null;default:30" json:"max_referrals_per_month"`
	SignupRewardCents      int64            `gorm:"not null;default:0" json:"signup_reward_cents"`
	ApplicationRewardCents int64            `gorm:"not null;default:0" json:"application_reward_cents"`
	PlacementRewardCents   int64            `gorm:"not null;default:20000" json:"placement_reward_cents"`
	MinPayoutCents         int64            `gorm:"not null;default:10000" json:"min_payout_cents"`
	UpdatedAt              time.Time        `json:"updated_at"`
}

// RewardAmountFor returns the configured reward for a milestone in cents.
// Zero means the milestone pays nothing.
func (s *ReferralSettings) RewardAmountFor(m Milestone) int64 {
	switch m {
	case MilestoneSignup:
		return s.SignupRewardCents
	case MilestoneApplication:
		return s.ApplicationRewardCents
	case MilestonePlacement:
		return s.PlacementRewardCents
	}
	return 0
}
