package database

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	config "github.com/seguelaCedric/lighthouse-network/configs"
	"github.com/seguelaCedric/lighthouse-network/models"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		// Unique violations come back as gorm.ErrDuplicatedKey so the
		// services can branch on them.
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

// AutoMigrate creates or updates the schema on the given connection. Tests
// run it against their own database.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Candidate{},
		&models.Referral{},
		&models.ReferralReward{},
		&models.ReferralSettings{},
		&models.PayoutRequest{},
		&models.Job{},
		&models.JobApplication{},
		&models.Placement{},
	)
}

func Migrate() {
	if err := AutoMigrate(DB); err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

func SeedAdmin() {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")

	var count int64
	err := DB.Model(&models.Candidate{}).Where("email = ?", adminEmail).Count(&count).Error
	if err != nil {
		log.Fatalf("🔥 Failed to check for admin user: %v", err)
		return
	}

	if count > 0 {
		log.Println("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash admin password: %v", err)
		return
	}

	admin := models.Candidate{
		FullName:         config.Config("ADMIN_FULL_NAME"),
		Email:            adminEmail,
		Password:         string(hashedPassword),
		Role:             "admin",
		VerificationTier: models.TierPremium,
	}

	if err := DB.Create(&admin).Error; err != nil {
		log.Fatalf("🔥 Failed to seed admin user: %v", err)
		return
	}

	log.Println("✅ Admin user seeded successfully")
}

// SeedReferralSettings inserts the singleton program configuration on first
// boot. Existing values are never overwritten.
func SeedReferralSettings() {
	var count int64
	err := DB.Model(&models.ReferralSettings{}).
		Where("id = ?", models.ReferralSettingsID).
		Count(&count).Error
	if err != nil {
		log.Fatalf("🔥 Failed to check for referral settings: %v", err)
		return
	}

	if count > 0 {
		return
	}

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

	if err := DB.Create(&settings).Error; err != nil {
		log.Fatalf("🔥 Failed to seed referral settings: %v", err)
		return
	}

	log.Println("✅ Referral settings seeded successfully")
}
