package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seguelaCedric/lighthouse-network/database"
	"github.com/seguelaCedric/lighthouse-network/models"
)

func TestListJobsShowsOnlyOpenPositions(t *testing.T) {
	app := setupApp(t)
	open := seedJob(t, "open")
	seedJob(t, "closed")
	seedJob(t, "filled")

	resp := doRequest(t, app, jsonRequest(t, http.MethodGet, "/api/v1/jobs", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeMap(t, resp)
	data, _ := body["data"].([]interface{})
	require.Len(t, data, 1)

	job, _ := data[0].(map[string]interface{})
	assert.Equal(t, open.ID.String(), job["id"])
}

func TestApplyToJobOncePerCandidate(t *testing.T) {
	app := setupApp(t)
	job := seedJob(t, "open")
	candidate := seedCandidate(t, models.TierBasic, "candidate")
	token := signToken(t, candidate)

	resp := doRequest(t, app, authorized(jsonRequest(t, http.MethodPost, "/api/v1/jobs/"+job.ID.String()+"/apply", map[string]interface{}{
		"cover_note": "Five seasons on 50m+ vessels.",
	}), token))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, authorized(jsonRequest(t, http.MethodPost, "/api/v1/jobs/"+job.ID.String()+"/apply", map[string]interface{}{}), token))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	var applications int64
	require.NoError(t, database.DB.Model(&models.JobApplication{}).
		Where("candidate_id = ?", candidate.ID).
		Count(&applications).Error)
	assert.EqualValues(t, 1, applications)
}

func TestApplyToClosedJob(t *testing.T) {
	app := setupApp(t)
	job := seedJob(t, "closed")
	candidate := seedCandidate(t, models.TierBasic, "candidate")
	token := signToken(t, candidate)

	resp := doRequest(t, app, authorized(jsonRequest(t, http.MethodPost, "/api/v1/jobs/"+job.ID.String()+"/apply", map[string]interface{}{}), token))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestApplyByReferredCandidateLogsMilestone(t *testing.T) {
	app := setupApp(t)
	job := seedJob(t, "open")
	referrer := seedReferrer(t, models.TierVerified, "CAPTAIN2")
	referred := seedCandidate(t, models.TierBasic, "candidate")

	referral := seedReferral(t, referrer, models.ReferralStatusSignedUp)
	require.NoError(t, database.DB.Model(&models.Referral{}).
		Where("id = ?", referral.ID).
		Update("referred_id", referred.ID).Error)

	token := signToken(t, referred)
	resp := doRequest(t, app, authorized(jsonRequest(t, http.MethodPost, "/api/v1/jobs/"+job.ID.String()+"/apply", map[string]interface{}{}), token))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var loaded models.Referral
	require.NoError(t, database.DB.First(&loaded, "id = ?", referral.ID).Error)
	assert.Equal(t, models.ReferralStatusApplied, loaded.Status)
	assert.NotNil(t, loaded.FirstApplicationAt)

	var reward models.ReferralReward
	require.NoError(t, database.DB.First(&reward, "referral_id = ? AND milestone = ?", referral.ID, models.MilestoneApplication).Error)
	assert.Equal(t, referrer.ID, reward.CandidateID)
	assert.EqualValues(t, 2500, reward.AmountCents)
	assert.Equal(t, models.RewardStatusPending, reward.Status)
}

func TestApplyByUnreferredCandidateIssuesNothing(t *testing.T) {
	app := setupApp(t)
	job := seedJob(t, "open")
	candidate := seedCandidate(t, models.TierBasic, "candidate")
	token := signToken(t, candidate)

	resp := doRequest(t, app, authorized(jsonRequest(t, http.MethodPost, "/api/v1/jobs/"+job.ID.String()+"/apply", map[string]interface{}{}), token))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var rewards int64
	require.NoError(t, database.DB.Model(&models.ReferralReward{}).Count(&rewards).Error)
	assert.EqualValues(t, 0, rewards)
}

func TestGetMyApplicationsIncludesJob(t *testing.T) {
	app := setupApp(t)
	job := seedJob(t, "open")
	candidate := seedCandidate(t, models.TierBasic, "candidate")
	token := signToken(t, candidate)

	resp := doRequest(t, app, authorized(jsonRequest(t, http.MethodPost, "/api/v1/jobs/"+job.ID.String()+"/apply", map[string]interface{}{}), token))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, authorized(jsonRequest(t, http.MethodGet, "/api/v1/applications/me", nil), token))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var applications []models.JobApplication
	require.NoError(t, decodeJSON(resp, &applications))
	require.Len(t, applications, 1)
	assert.Equal(t, job.ID, applications[0].JobID)
	assert.Equal(t, job.Title, applications[0].Job.Title)
}
