package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seguelaCedric/lighthouse-network/database"
	"github.com/seguelaCedric/lighthouse-network/models"
	"github.com/seguelaCedric/lighthouse-network/services"
)

func TestTrackClickRecordsKnownCode(t *testing.T) {
	app := setupApp(t)
	referrer := seedReferrer(t, models.TierVerified, "CAPTAIN2")

	resp := doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/referrals/track", map[string]interface{}{
		"code":         "CAPTAIN2",
		"source":       "whatsapp",
		"utm_source":   "crew-group",
		"utm_medium":   "social",
		"utm_campaign": "summer-season",
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	referralID, _ := decodeMap(t, resp)["referral_id"].(string)
	require.NotEmpty(t, referralID)

	var referral models.Referral
	require.NoError(t, database.DB.First(&referral, "id = ?", referralID).Error)
	assert.Equal(t, referrer.ID, referral.ReferrerID)
	assert.Equal(t, models.ReferralStatusPending, referral.Status)
	assert.Equal(t, "whatsapp", referral.Source)
	assert.Equal(t, "crew-group", referral.UTMSource)
	assert.Equal(t, "summer-season", referral.UTMCampaign)
}

func TestTrackClickUnknownCodeLooksIdentical(t *testing.T) {
	app := setupApp(t)

	resp := doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/referrals/track", map[string]interface{}{
		"code": "NOPE2345",
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeMap(t, resp)
	value, present := body["referral_id"]
	assert.True(t, present)
	assert.Nil(t, value)

	var total int64
	require.NoError(t, database.DB.Model(&models.Referral{}).Count(&total).Error)
	assert.EqualValues(t, 0, total)
}

func TestTrackClickRejectsShortCode(t *testing.T) {
	app := setupApp(t)

	resp := doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/v1/referrals/track", map[string]interface{}{
		"code": "AB",
	}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestGetMyReferralCodeIsStable(t *testing.T) {
	app := setupApp(t)
	candidate := seedCandidate(t, models.TierBasic, "candidate")
	token := signToken(t, candidate)

	resp := doRequest(t, app, authorized(jsonRequest(t, http.MethodGet, "/api/v1/referrals/code", nil), token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first, _ := decodeMap(t, resp)["referral_code"].(string)
	require.Len(t, first, 8)

	resp = doRequest(t, app, authorized(jsonRequest(t, http.MethodGet, "/api/v1/referrals/code", nil), token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second, _ := decodeMap(t, resp)["referral_code"].(string)
	assert.Equal(t, first, second)
}

func TestEligibilityAnswersAreAlwaysOK(t *testing.T) {
	app := setupApp(t)
	require.NoError(t, database.DB.Model(&models.ReferralSettings{}).
		Where("id = ?", models.ReferralSettingsID).
		Update("program_active", false).Error)

	candidate := seedCandidate(t, models.TierVerified, "candidate")
	token := signToken(t, candidate)

	resp := doRequest(t, app, authorized(jsonRequest(t, http.MethodGet, "/api/v1/referrals/eligibility", nil), token))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeMap(t, resp)
	assert.Equal(t, false, body["eligible"])
	assert.Equal(t, services.ReasonProgramInactive, body["reason"])
}

func TestGetMyReferralsPaginates(t *testing.T) {
	app := setupApp(t)
	referrer := seedReferrer(t, models.TierVerified, "CAPTAIN2")
	for i := 0; i < 3; i++ {
		seedReferral(t, referrer, models.ReferralStatusPending)
	}
	token := signToken(t, referrer)

	resp := doRequest(t, app, authorized(jsonRequest(t, http.MethodGet, "/api/v1/referrals?page=1&limit=2", nil), token))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeMap(t, resp)
	data, _ := body["data"].([]interface{})
	assert.Len(t, data, 2)

	meta, _ := body["meta"].(map[string]interface{})
	require.NotNil(t, meta)
	assert.EqualValues(t, 3, meta["total"])
	assert.EqualValues(t, 2, meta["total_pages"])
}

func TestGetMyRewardsIncludesBalance(t *testing.T) {
	app := setupApp(t)
	referrer := seedReferrer(t, models.TierVerified, "CAPTAIN2")
	first := seedReferral(t, referrer, models.ReferralStatusApplied)
	second := seedReferral(t, referrer, models.ReferralStatusPlaced)
	seedReward(t, first.ID, referrer.ID, models.MilestoneApplication, 2500, models.RewardStatusApproved)
	seedReward(t, second.ID, referrer.ID, models.MilestonePlacement, 20000, models.RewardStatusPending)
	token := signToken(t, referrer)

	resp := doRequest(t, app, authorized(jsonRequest(t, http.MethodGet, "/api/v1/rewards", nil), token))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeMap(t, resp)
	rewards, _ := body["rewards"].([]interface{})
	assert.Len(t, rewards, 2)
	assert.EqualValues(t, 2500, body["available_balance_cents"])

	resp = doRequest(t, app, authorized(jsonRequest(t, http.MethodGet, "/api/v1/rewards/balance", nil), token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2500, decodeMap(t, resp)["available_balance_cents"])
}
