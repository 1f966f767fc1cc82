package services

import "errors"

// Sentinel errors returned by the referral engine. Benign idempotent
// outcomes (referral already converted, milestone already recorded) are not
// errors; those operations report them as a false boolean instead.
var (
	ErrCodeNotFound            = errors.New("referral code not found")
	ErrReferralNotFound        = errors.New("referral not found")
	ErrRewardNotFound          = errors.New("reward not found")
	ErrCandidateNotFound       = errors.New("candidate not found")
	ErrPayoutNotFound          = errors.New("payout request not found")
	ErrSettingsNotFound        = errors.New("referral settings not seeded")
	ErrInvalidMilestone        = errors.New("invalid milestone")
	ErrInvalidTransition       = errors.New("status transition not allowed")
	ErrInsufficientBalance     = errors.New("available balance below minimum payout amount")
	ErrCodeGenerationExhausted = errors.New("could not generate a unique referral code")
)
