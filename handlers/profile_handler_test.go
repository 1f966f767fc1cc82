package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seguelaCedric/lighthouse-network/database"
	"github.com/seguelaCedric/lighthouse-network/models"
)

func TestUpdateProfileAppliesOnlySentFields(t *testing.T) {
	app := setupApp(t)
	candidate := seedCandidate(t, models.TierBasic, "candidate")
	token := signToken(t, candidate)

	resp := doRequest(t, app, authorized(jsonRequest(t, http.MethodPut, "/api/v1/profile", map[string]interface{}{
		"position": "Bosun",
	}), token))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeMap(t, resp)
	assert.Equal(t, "Bosun", body["position"])
	assert.Equal(t, candidate.FullName, body["full_name"])
}

func TestReferralSummaryAggregatesFunnel(t *testing.T) {
	app := setupApp(t)
	referrer := seedReferrer(t, models.TierVerified, "CAPTAIN2")
	other := seedCandidate(t, models.TierBasic, "candidate")

	seedReferral(t, referrer, models.ReferralStatusPending)

	signedUp := seedReferral(t, referrer, models.ReferralStatusSignedUp)
	require.NoError(t, database.DB.Model(&models.Referral{}).
		Where("id = ?", signedUp.ID).
		Update("referred_id", other.ID).Error)

	placedCandidate := seedCandidate(t, models.TierBasic, "candidate")
	placed := seedReferral(t, referrer, models.ReferralStatusPlaced)
	require.NoError(t, database.DB.Model(&models.Referral{}).
		Where("id = ?", placed.ID).
		Update("referred_id", placedCandidate.ID).Error)

	seedReward(t, signedUp.ID, referrer.ID, models.MilestoneApplication, 2500, models.RewardStatusApproved)
	seedReward(t, placed.ID, referrer.ID, models.MilestonePlacement, 20000, models.RewardStatusPaid)
	seedReward(t, placed.ID, referrer.ID, models.MilestoneApplication, 999, models.RewardStatusPending)

	token := signToken(t, referrer)
	resp := doRequest(t, app, authorized(jsonRequest(t, http.MethodGet, "/api/v1/profile/referral-summary", nil), token))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeMap(t, resp)
	assert.EqualValues(t, 3, body["total_clicks"])
	assert.EqualValues(t, 2, body["signed_up"])
	assert.EqualValues(t, 1, body["placed"])
	assert.EqualValues(t, 22500, body["total_earned_cents"])
}
