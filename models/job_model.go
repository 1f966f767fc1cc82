package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Job struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Vessel      string    `gorm:"size:255" json:"vessel,omitempty"`
	Location    string    `gorm:"size:255" json:"location,omitempty"`
	Employment  string    `gorm:"size:30;not null;default:'permanent'" json:"employment"`
	SalaryRange *string   `gorm:"size:100" json:"salary_range,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Status      string    `gorm:"size:20;not null;default:'open'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
