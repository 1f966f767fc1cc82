package jobs

import (
	"log"
	"time"

	"github.com/seguelaCedric/lighthouse-network/database"
	"github.com/seguelaCedric/lighthouse-network/models"
)

// pendingReferralTTLDays is how long a clicked referral may sit without a
// signup before it stops being convertible.
const pendingReferralTTLDays = 90

// ExpireStaleReferrals sweeps pending referrals whose click is older than the
// TTL. The guarded update only ever touches rows still pending, so a referral
// that converts while the sweep runs is left alone.
func ExpireStaleReferrals() {
	log.Println("Running job: ExpireStaleReferrals...")

	cutoff := time.Now().AddDate(0, 0, -pendingReferralTTLDays)

	result := database.DB.Model(&models.Referral{}).
		Where("status = ? AND created_at < ?", models.ReferralStatusPending, cutoff).
		Update("status", models.ReferralStatusExpired)

	if result.Error != nil {
		log.Printf("Error expiring stale referrals: %v", result.Error)
		return
	}

	if result.RowsAffected == 0 {
		log.Println("No stale referrals found.")
		return
	}

	log.Printf("Marked %d referral(s) as expired.", result.RowsAffected)
}
