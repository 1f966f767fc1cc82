package utils

import "crypto/rand"

const referralCodeLength = 8

// Ambiguous characters (0/O, 1/I) are left out so codes survive being read
// aloud or hand-copied.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateReferralCode returns a short shareable code. Uniqueness is enforced
// by the database; callers retry on collision.
func GenerateReferralCode() string {
	buf := make([]byte, referralCodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	code := make([]byte, referralCodeLength)
	for i, v := range buf {
		code[i] = codeAlphabet[int(v)%len(codeAlphabet)]
	}
	return string(code)
}
