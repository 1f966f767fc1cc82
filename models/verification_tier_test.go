package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerificationTierRanks(t *testing.T) {
	ordered := []VerificationTier{
		TierUnverified,
		TierBasic,
		TierIdentity,
		TierReferences,
		TierVerified,
		TierPremium,
	}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i].Rank(), ordered[i-1].Rank(),
			"%s should outrank %s", ordered[i], ordered[i-1])
	}
}

func TestVerificationTierAtLeast(t *testing.T) {
	assert.True(t, TierPremium.AtLeast(TierBasic))
	assert.True(t, TierBasic.AtLeast(TierBasic))
	assert.False(t, TierBasic.AtLeast(TierIdentity))

	// "premium" sorts before "references" alphabetically; rank comparison
	// must not care.
	assert.True(t, TierPremium.AtLeast(TierReferences))
}

func TestVerificationTierUnknown(t *testing.T) {
	unknown := VerificationTier("platinum")
	assert.Equal(t, -1, unknown.Rank())
	assert.False(t, unknown.Valid())
	assert.False(t, unknown.AtLeast(TierUnverified))
}

func TestRewardAmountForMilestones(t *testing.T) {
	settings := ReferralSettings{
		SignupRewardCents:      1000,
		ApplicationRewardCents: 2500,
		PlacementRewardCents:   20000,
	}
	assert.EqualValues(t, 1000, settings.RewardAmountFor(MilestoneSignup))
	assert.EqualValues(t, 2500, settings.RewardAmountFor(MilestoneApplication))
	assert.EqualValues(t, 20000, settings.RewardAmountFor(MilestonePlacement))
	assert.EqualValues(t, 0, settings.RewardAmountFor(Milestone("graduation")))
}
