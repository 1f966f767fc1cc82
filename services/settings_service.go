package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/seguelaCedric/lighthouse-network/models"
)

// LoadSettings reads the singleton program configuration. Callers pass their
// own transaction so the values they act on are consistent with their writes.
func LoadSettings(tx *gorm.DB) (*models.ReferralSettings, error) {
	var settings models.ReferralSettings
	if err := tx.First(&settings, "id = ?", models.ReferralSettingsID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	return &settings, nil
}
