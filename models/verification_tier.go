package models

// VerificationTier is the ordinal trust level of a candidate profile. Tiers
// are compared by rank, never by raw string value.
type VerificationTier string

const (
	TierUnverified VerificationTier = "unverified"
	TierBasic      VerificationTier = "basic"
	TierIdentity   VerificationTier = "identity"
	TierReferences VerificationTier = "references"
	TierVerified   VerificationTier = "verified"
	TierPremium    VerificationTier = "premium"
)

var tierRanks = map[VerificationTier]int{
	TierUnverified: 0,
	TierBasic:      1,
	TierIdentity:   2,
	TierReferences: 3,
	TierVerified:   4,
	TierPremium:    5,
}

// Rank returns the tier's position on the verification scale, or -1 for an
// unknown tier name.
func (t VerificationTier) Rank() int {
	rank, ok := tierRanks[t]
	if !ok {
		return -1
	}
	return rank
}

func (t VerificationTier) Valid() bool {
	_, ok := tierRanks[t]
	return ok
}

// AtLeast reports whether t ranks at or above other.
func (t VerificationTier) AtLeast(other VerificationTier) bool {
	return t.Rank() >= other.Rank()
}
