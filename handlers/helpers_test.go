package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/seguelaCedric/lighthouse-network/database"
	"github.com/seguelaCedric/lighthouse-network/models"
	"github.com/seguelaCedric/lighthouse-network/routes"
)

const (
	testJWTSecret = "handler-test-secret"
	testPassword  = "sailaway"
)

// setupApp wires the full route table against a fresh in-memory database so
// requests run through the same middleware chain as production.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", testJWTSecret)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// One connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	database.DB = db

	seedProgramSettings(t)

	app := fiber.New()
	routes.AuthRoutes(app)
	routes.ReferralRoutes(app)
	routes.JobRoutes(app)
	routes.ProfileRoutes(app)
	routes.AdminRoutes(app)
	return app
}

func seedProgramSettings(t *testing.T) *models.ReferralSettings {
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
	require.NoError(t, database.DB.Create(&settings).Error)
	return &settings
}

func seedCandidate(t *testing.T, tier models.VerificationTier, role string) models.Candidate {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	candidate := models.Candidate{
		FullName:         "Crew Member " + uuid.NewString()[:8],
		Email:            uuid.NewString() + "@crew.example.com",
		Password:         string(hash),
		Role:             role,
		VerificationTier: tier,
		IsActive:         true,
	}
	require.NoError(t, database.DB.Create(&candidate).Error)
	return candidate
}

func seedReferrer(t *testing.T, tier models.VerificationTier, code string) models.Candidate {
	t.Helper()

	candidate := seedCandidate(t, tier, "candidate")
	require.NoError(t, database.DB.Model(&candidate).Update("referral_code", code).Error)
	candidate.ReferralCode = &code
	return candidate
}

func seedReferral(t *testing.T, referrer models.Candidate, status models.ReferralStatus) models.Referral {
	t.Helper()

	code := "UNSET123"
	if referrer.ReferralCode != nil {
		code = *referrer.ReferralCode
	}
	referral := models.Referral{
		ReferrerID: referrer.ID,
		Code:       code,
		Status:     status,
	}
	require.NoError(t, database.DB.Create(&referral).Error)
	return referral
}

func seedReward(t *testing.T, referralID, candidateID uuid.UUID, milestone models.Milestone, amount int64, status models.RewardStatus) models.ReferralReward {
	t.Helper()

	reward := models.ReferralReward{
		ReferralID:  referralID,
		Milestone:   milestone,
		CandidateID: candidateID,
		AmountCents: amount,
		Status:      status,
	}
	require.NoError(t, database.DB.Create(&reward).Error)
	return reward
}

func seedJob(t *testing.T, status string) models.Job {
	t.Helper()

	job := models.Job{
		Title:      "Chief Stewardess " + uuid.NewString()[:8],
		Vessel:     "M/Y Aurora",
		Location:   "Antibes, France",
		Employment: "permanent",
		Status:     status,
	}
	require.NoError(t, database.DB.Create(&job).Error)
	return job
}

func signToken(t *testing.T, candidate models.Candidate) string {
	return signTokenWithSecret(t, candidate, testJWTSecret)
}

func signTokenWithSecret(t *testing.T, candidate models.Candidate, secret string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": candidate.ID.String(),
		"role":    candidate.Role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func authorized(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeMap(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func decodeJSON(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}
