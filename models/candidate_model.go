package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Candidate struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'candidate'" json:"role"`

	Position string  `gorm:"size:50" json:"position"`
	Phone    *string `gorm:"size:50" json:"phone,omitempty"`

	VerificationTier VerificationTier `gorm:"size:20;not null;default:'unverified'" json:"verification_tier"`

	// ReferralCode is write-once: assigned on first request and never rotated.
	ReferralCode *string    `gorm:"size:12;unique" json:"referral_code,omitempty"`
	ReferredByID *uuid.UUID `gorm:"type:uuid" json:"referred_by_id,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
