package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobApplication links a candidate to a job, at most once per pair.
type JobApplication struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	JobID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_candidate" json:"job_id"`
	CandidateID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_candidate" json:"candidate_id"`
	CoverNote   *string   `gorm:"type:text" json:"cover_note,omitempty"`
	Status      string    `gorm:"size:20;not null;default:'submitted'" json:"status"`

	Job       Job       `gorm:"foreignkey:JobID" json:"job,omitempty"`
	Candidate Candidate `gorm:"foreignkey:CandidateID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *JobApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
