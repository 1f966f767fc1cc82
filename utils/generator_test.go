package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReferralCodeShape(t *testing.T) {
	code := GenerateReferralCode()
	assert.Len(t, code, referralCodeLength)
	for _, r := range code {
		assert.Contains(t, codeAlphabet, string(r))
	}
}

func TestGenerateReferralCodeSkipsAmbiguousCharacters(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := GenerateReferralCode()
		assert.False(t, strings.ContainsAny(code, "0O1I"), "code %q contains an ambiguous character", code)
	}
}

func TestGenerateReferralCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[GenerateReferralCode()] = true
	}
	// 32^8 possible codes; 50 draws colliding would point at a broken source.
	assert.Greater(t, len(seen), 45)
}
