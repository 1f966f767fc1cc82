package jobs

import (
	"fmt"
	"log"
	"time"

	config "github.com/seguelaCedric/lighthouse-network/configs"
	"github.com/seguelaCedric/lighthouse-network/database"
	"github.com/seguelaCedric/lighthouse-network/models"
	"github.com/seguelaCedric/lighthouse-network/notifications"
	"github.com/seguelaCedric/lighthouse-network/services"
)

// RemindPendingPayouts nudges the operations inbox about payout requests that
// have been waiting longer than 48 hours.
func RemindPendingPayouts() {
	log.Println("Running job: RemindPendingPayouts...")

	opsEmail := config.Config("OPS_EMAIL")
	if opsEmail == "" {
		log.Println("OPS_EMAIL not configured, skipping payout reminders.")
		return
	}

	cutoff := time.Now().Add(-48 * time.Hour)

	var stale []models.PayoutRequest
	err := database.DB.Preload("Candidate").
		Where("status = ? AND requested_at < ?", models.PayoutStatusPending, cutoff).
		Order("requested_at asc").
		Find(&stale).Error
	if err != nil {
		log.Printf("Error checking for stale payout requests: %v", err)
		return
	}

	if len(stale) == 0 {
		return
	}

	body := "<h1>Payout Requests Awaiting Review</h1><ul>"
	for _, payout := range stale {
		body += fmt.Sprintf("<li>%s: %s, requested %s</li>",
			payout.Candidate.FullName,
			services.FormatCents(payout.AmountCents),
			payout.RequestedAt.Format("2 Jan 2006 15:04"),
		)
	}
	body += "</ul>"

	go notifications.SendEmail(
		"Operations",
		opsEmail,
		fmt.Sprintf("%d payout request(s) waiting more than 48 hours", len(stale)),
		body,
	)

	log.Printf("Sent reminder for %d stale payout request(s).", len(stale))
}
