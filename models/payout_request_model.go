package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusCompleted PayoutStatus = "completed"
	PayoutStatusRejected  PayoutStatus = "rejected"
)

// PayoutRequest is a candidate's ask to withdraw their approved rewards.
// Rewards covers the exact reward rows the request was computed from, so the
// operator settles what was asked for even if new rewards land meanwhile.
type PayoutRequest struct {
	ID          uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	CandidateID uuid.UUID    `gorm:"type:uuid;not null;index" json:"candidate_id"`
	Method      string       `gorm:"size:30;not null" json:"method"`
	Details     string       `gorm:"type:text;not null" json:"details"`
	AmountCents int64        `gorm:"not null" json:"amount_cents"`
	Status      PayoutStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	AdminNotes  *string      `gorm:"type:text" json:"admin_notes,omitempty"`

	Rewards []ReferralReward `gorm:"many2many:payout_request_rewards;" json:"rewards,omitempty"`

	Candidate Candidate `gorm:"foreignkey:CandidateID" json:"-"`

	RequestedAt time.Time  `gorm:"not null" json:"requested_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

func (p *PayoutRequest) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
