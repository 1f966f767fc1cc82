package jobs

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/seguelaCedric/lighthouse-network/database"
	"github.com/seguelaCedric/lighthouse-network/models"
)

func setupJobDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	database.DB = db
}

func seedReferralAged(t *testing.T, status models.ReferralStatus, ageDays int) models.Referral {
	t.Helper()

	referrer := models.Candidate{
		FullName: "Referring Crew",
		Email:    uuid.NewString() + "@crew.example.com",
		Password: "not-a-real-hash",
	}
	require.NoError(t, database.DB.Create(&referrer).Error)

	referral := models.Referral{
		ReferrerID: referrer.ID,
		Code:       "CAPTAIN2",
		Status:     status,
	}
	require.NoError(t, database.DB.Create(&referral).Error)

	if ageDays > 0 {
		backdated := time.Now().AddDate(0, 0, -ageDays)
		require.NoError(t, database.DB.Model(&models.Referral{}).
			Where("id = ?", referral.ID).
			Update("created_at", backdated).Error)
	}
	return referral
}

func TestExpireStaleReferralsSweepsOnlyOldPending(t *testing.T) {
	setupJobDB(t)

	stale := seedReferralAged(t, models.ReferralStatusPending, 91)
	nearlyStale := seedReferralAged(t, models.ReferralStatusPending, 89)
	fresh := seedReferralAged(t, models.ReferralStatusPending, 0)
	converted := seedReferralAged(t, models.ReferralStatusSignedUp, 120)

	ExpireStaleReferrals()

	status := func(id uuid.UUID) models.ReferralStatus {
		var referral models.Referral
		require.NoError(t, database.DB.First(&referral, "id = ?", id).Error)
		return referral.Status
	}
	assert.Equal(t, models.ReferralStatusExpired, status(stale.ID))
	assert.Equal(t, models.ReferralStatusPending, status(nearlyStale.ID))
	assert.Equal(t, models.ReferralStatusPending, status(fresh.ID))
	assert.Equal(t, models.ReferralStatusSignedUp, status(converted.ID))
}

func TestExpireStaleReferralsHandlesEmptyTable(t *testing.T) {
	setupJobDB(t)
	ExpireStaleReferrals()

	var total int64
	require.NoError(t, database.DB.Model(&models.Referral{}).Count(&total).Error)
	assert.EqualValues(t, 0, total)
}
