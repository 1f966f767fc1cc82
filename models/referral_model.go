package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReferralStatus string

const (
	ReferralStatusPending  ReferralStatus = "pending"
	ReferralStatusSignedUp ReferralStatus = "signed_up"
	ReferralStatusApplied  ReferralStatus = "applied"
	ReferralStatusPlaced   ReferralStatus = "placed"
	ReferralStatusExpired  ReferralStatus = "expired"
)

type Milestone string

const (
	MilestoneSignup      Milestone = "signup"
	MilestoneApplication Milestone = "application"
	MilestonePlacement   Milestone = "placement"
)

// Referral is one click on a referral link. Every click creates its own row;
// signup later binds to the exact row it was handed, so repeat visits are
// deliberately not deduplicated.
type Referral struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReferrerID uuid.UUID `gorm:"type:uuid;not null;index:idx_referrals_referrer_created" json:"referrer_id"`
	// ReferredID is write-once: set when the referred person signs up.
	ReferredID *uuid.UUID     `gorm:"type:uuid;index" json:"referred_id,omitempty"`
	Code       string         `gorm:"size:12;not null;index" json:"code"`
	Status     ReferralStatus `gorm:"size:20;not null;default:'pending'" json:"status"`

	Source      string `gorm:"size:50" json:"source,omitempty"`
	UTMSource   string `gorm:"size:100" json:"utm_source,omitempty"`
	UTMMedium   string `gorm:"size:100" json:"utm_medium,omitempty"`
	UTMCampaign string `gorm:"size:100" json:"utm_campaign,omitempty"`

	SignedUpAt         *time.Time `json:"signed_up_at,omitempty"`
	FirstApplicationAt *time.Time `json:"first_application_at,omitempty"`
	PlacedAt           *time.Time `json:"placed_at,omitempty"`

	Referrer Candidate  `gorm:"foreignkey:ReferrerID" json:"-"`
	Referred *Candidate `gorm:"foreignkey:ReferredID" json:"-"`

	CreatedAt time.Time `gorm:"index:idx_referrals_referrer_created" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
