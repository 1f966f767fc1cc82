package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/seguelaCedric/lighthouse-network/database"
	"github.com/seguelaCedric/lighthouse-network/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// One connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedSettings(t *testing.T, db *gorm.DB) *models.ReferralSettings {
	t.Helper()

	settings := models.ReferralSettings{
		ID:                     models.ReferralSettingsID,
		ProgramActive:          true,
		ReferrerMinTier:        models.TierBasic,
		MaxReferralsPerMonth:   30,
		SignupRewardCents:      0,
		ApplicationRewardCents: 2500,
		PlacementRewardCents:   20000,
		MinPayoutCents:         10000,
	}
	require.NoError(t, db.Create(&settings).Error)
	return &settings
}

func createCandidate(t *testing.T, db *gorm.DB, tier models.VerificationTier) models.Candidate {
	t.Helper()

	candidate := models.Candidate{
		FullName:         "Test Candidate " + uuid.NewString()[:8],
		Email:            uuid.NewString() + "@example.com",
		Password:         "not-a-real-hash",
		VerificationTier: tier,
		IsActive:         true,
	}
	require.NoError(t, db.Create(&candidate).Error)
	return candidate
}

func createReferrerWithCode(t *testing.T, db *gorm.DB, tier models.VerificationTier, code string) models.Candidate {
	t.Helper()

	candidate := createCandidate(t, db, tier)
	require.NoError(t, db.Model(&candidate).Update("referral_code", code).Error)
	candidate.ReferralCode = &code
	return candidate
}

func createPendingReferral(t *testing.T, db *gorm.DB, referrer models.Candidate) models.Referral {
	t.Helper()

	code := "UNSET123"
	if referrer.ReferralCode != nil {
		code = *referrer.ReferralCode
	}
	referral := models.Referral{
		ReferrerID: referrer.ID,
		Code:       code,
		Status:     models.ReferralStatusPending,
	}
	require.NoError(t, db.Create(&referral).Error)
	return referral
}
