package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RewardStatus string

const (
	RewardStatusPending   RewardStatus = "pending"
	RewardStatusApproved  RewardStatus = "approved"
	RewardStatusPaid      RewardStatus = "paid"
	RewardStatusCancelled RewardStatus = "cancelled"
)

// ReferralReward is money earned by a referrer for one milestone on one
// referral. The unique (referral_id, milestone) index guarantees at most one
// reward per pair regardless of how the issuing code is invoked.
type ReferralReward struct {
	ID          uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	ReferralID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_rewards_referral_milestone" json:"referral_id"`
	Milestone   Milestone    `gorm:"size:20;not null;uniqueIndex:idx_rewards_referral_milestone" json:"milestone"`
	CandidateID uuid.UUID    `gorm:"type:uuid;not null;index" json:"candidate_id"`
	AmountCents int64        `gorm:"not null" json:"amount_cents"`
	Status      RewardStatus `gorm:"size:20;not null;default:'pending'" json:"status"`

	ApprovedBy    *uuid.UUID `gorm:"type:uuid" json:"approved_by,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	PaymentMethod *string    `gorm:"size:30" json:"payment_method,omitempty"`

	Referral  Referral  `gorm:"foreignkey:ReferralID" json:"-"`
	Candidate Candidate `gorm:"foreignkey:CandidateID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *ReferralReward) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
