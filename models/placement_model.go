package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Placement records that a candidate was hired for a job.
type Placement struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	JobID       uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	CandidateID uuid.UUID `gorm:"type:uuid;not null;index" json:"candidate_id"`
	StartDate   time.Time `gorm:"not null" json:"start_date"`

	Job       Job       `gorm:"foreignkey:JobID" json:"job,omitempty"`
	Candidate Candidate `gorm:"foreignkey:CandidateID" json:"candidate,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (p *Placement) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
